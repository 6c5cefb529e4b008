package gcdtab

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
)

var startupFlags = []string{
	"--enable-automation",
	"--test-type",
	"--disable-client-side-phishing-detection",
	"--disable-component-update",
	"--disable-infobars",
	"--disable-domain-reliability",
	"--disable-background-networking",
	"--disable-sync",
	"--disable-new-browser-first-run",
	"--disable-default-apps",
	"--disable-popup-blocking",
	"--disable-extensions",
	"--disable-features=TranslateUI",
	"--disable-gpu",
	"--disable-dev-shm-usage",
	"--no-sandbox",
	"--no-first-run",
	"--window-size=1024,768",
	"--password-store=basic",
}

// Launcher starts or attaches to a chromium instance and opens a Tab on it
type Launcher struct {
	ChromePath        string // empty to use FindChrome
	Headless          bool
	Remote            string        // host:port of an already running instance, skips starting one
	NavigationTimeout time.Duration // for the tab's Navigate and Refresh, 0 keeps the tab default

	browser *gcd.Gcd
	tab     *Tab
	tmp     string
	started bool
}

// Launch the browser and open a tab
func (l *Launcher) Launch(ctx context.Context) (*Tab, error) {
	l.browser = gcd.NewChromeDebugger()

	if l.Remote != "" {
		host, port, err := net.SplitHostPort(l.Remote)
		if err != nil {
			return nil, errors.Wrapf(err, "remote %s", l.Remote)
		}
		if err := l.browser.ConnectToInstance(host, port); err != nil {
			return nil, errors.Wrapf(err, "connecting to %s", l.Remote)
		}
	} else {
		chrome, tmp := FindChrome()
		if l.ChromePath != "" {
			chrome = l.ChromePath
		}
		if err := os.MkdirAll(tmp, 0o755); err != nil {
			return nil, err
		}
		profileDir, err := os.MkdirTemp(tmp, "gcd")
		if err != nil {
			return nil, errors.Wrap(err, "failed to create temporary profile directory")
		}
		l.tmp = tmp

		flags := append([]string(nil), startupFlags...)
		if l.Headless {
			flags = append(flags, "--headless")
		}
		flags = append(flags, "about:blank")

		l.browser.DeleteProfileOnExit()
		l.browser.AddFlags(flags)
		port := randPort()
		if err := l.browser.StartProcess(chrome, profileDir, port); err != nil {
			return nil, errors.Wrapf(err, "starting %s", chrome)
		}
		l.started = true
		log.Ctx(ctx).Info().Str("chrome", chrome).Str("port", port).Msg("browser started")
	}

	target, err := l.browser.NewTab()
	if err != nil {
		l.Close()
		return nil, errors.Wrap(err, "opening tab")
	}
	l.tab = NewTab(target)
	if l.NavigationTimeout > 0 {
		l.tab.SetNavigationTimeout(l.NavigationTimeout)
	}
	return l.tab, nil
}

// Close the tab and stop any browser we started
func (l *Launcher) Close() error {
	if l.browser == nil {
		return nil
	}
	if l.tab != nil {
		l.tab.Close()
		if err := l.browser.CloseTab(l.tab.t); err != nil {
			log.Warn().Err(err).Msg("failed to close tab")
		}
		l.tab = nil
	}
	if !l.started {
		return nil
	}
	l.started = false
	if err := l.browser.ExitProcess(); err != nil {
		return err
	}
	return RemoveTmpContents(l.tmp)
}

// FindChrome on the FS, returning the binary and a directory for profiles
func FindChrome() (string, string) {
	switch runtime.GOOS {
	case "windows":
		return "C:\\Program Files (x86)\\Google\\Chrome\\Application\\chrome.exe", "C:\\Temp\\gcd\\"
	case "darwin":
		return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome", "/tmp/gcd/"
	case "linux":
		return "/usr/bin/chromium-browser", "/tmp/gcd/"
	}
	return "", "tmp"
}

// RemoveTmpContents that the browser created
func RemoveTmpContents(tmp string) error {
	if tmp == "" {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(tmp, "gcd*"))
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := os.RemoveAll(file); err != nil {
			return err
		}
	}
	return nil
}

func randPort() string {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		log.Warn().Err(err).Msg("unable to get port using default 9022")
		return "9022"
	}
	_, port, _ := net.SplitHostPort(l.Addr().String())
	l.Close()
	return port
}
