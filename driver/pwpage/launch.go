package pwpage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

// Launcher runs the playwright driver and a chromium instance
type Launcher struct {
	ChromePath string // executable to use instead of playwright's bundled chromium
	Headless   bool

	pw      *playwright.Playwright
	browser playwright.Browser
}

// Launch chromium and open a page
func (l *Launcher) Launch(ctx context.Context) (*Page, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, errors.Wrap(err, "failed to start playwright")
	}
	l.pw = pw

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.Headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if l.ChromePath != "" {
		opts.ExecutablePath = playwright.String(l.ChromePath)
	}
	browser, err := pw.Chromium.Launch(opts)
	if err != nil {
		l.Close()
		return nil, errors.Wrap(err, "failed to launch browser")
	}
	l.browser = browser

	page, err := browser.NewPage()
	if err != nil {
		l.Close()
		return nil, errors.Wrap(err, "failed to create page")
	}
	log.Ctx(ctx).Info().Str("browser", browser.Version()).Msg("playwright chromium started")
	return New(page), nil
}

// Close the browser and stop the driver
func (l *Launcher) Close() error {
	var closeErr error
	if l.browser != nil {
		closeErr = l.browser.Close()
		l.browser = nil
	}
	if l.pw != nil {
		if err := l.pw.Stop(); err != nil && closeErr == nil {
			closeErr = err
		}
		l.pw = nil
	}
	return closeErr
}
