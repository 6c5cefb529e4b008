package rodpage

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Launcher starts chrome through rod's launcher, or connects to RemoteURL
type Launcher struct {
	RemoteURL string // devtools websocket url, skips launching
	Bin       string // browser binary, empty to let rod find or download one
	Headless  bool
	Stealth   bool // open the page with go-rod/stealth evasions

	lnch    *launcher.Launcher
	browser *rod.Browser
}

// Launch the browser and open a blank page
func (l *Launcher) Launch(ctx context.Context) (*Page, error) {
	wsURL := l.RemoteURL
	if wsURL == "" {
		l.lnch = launcher.New().Headless(l.Headless)
		if l.Bin != "" {
			l.lnch = l.lnch.Bin(l.Bin)
		}
		u, err := l.lnch.Launch()
		if err != nil {
			return nil, errors.Wrap(err, "launch")
		}
		wsURL = u
		log.Ctx(ctx).Info().Str("url", wsURL).Msg("launched local chrome")
	}

	l.browser = rod.New().ControlURL(wsURL)
	if err := l.browser.Connect(); err != nil {
		return nil, errors.Wrap(err, "connect")
	}

	var (
		page *rod.Page
		err  error
	)
	if l.Stealth {
		page, err = stealth.Page(l.browser)
	} else {
		page, err = l.browser.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		l.Close()
		return nil, errors.Wrap(err, "create page")
	}
	return New(page), nil
}

// Close the browser and kill anything launched
func (l *Launcher) Close() error {
	var err error
	if l.browser != nil {
		err = l.browser.Close()
		l.browser = nil
	}
	if l.lnch != nil {
		l.lnch.Kill()
		l.lnch = nil
	}
	return err
}
