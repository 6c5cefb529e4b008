package clicmds

import (
	"context"

	"gitlab.com/selene/driver/gcdtab"
	"gitlab.com/selene/driver/pwpage"
	"gitlab.com/selene/driver/rodpage"
	"gitlab.com/selene/driver/wdsession"
	"gitlab.com/selene/selene"
)

// Opener starts a session for cfg. The returned func releases it.
type Opener func(ctx context.Context, cfg *selene.Config) (selene.Session, func() error, error)

// Open is the Opener commands use; tests swap it for an in-memory session
var Open Opener = OpenSession

// OpenSession with the driver cfg names
func OpenSession(ctx context.Context, cfg *selene.Config) (selene.Session, func() error, error) {
	switch cfg.Driver {
	case selene.DriverGCD:
		l := &gcdtab.Launcher{
			ChromePath:        cfg.ChromePath,
			Headless:          cfg.Headless,
			Remote:            cfg.RemoteURL,
			NavigationTimeout: cfg.NavigationTimeout,
		}
		tab, err := l.Launch(ctx)
		if err != nil {
			return nil, nil, err
		}
		return tab, l.Close, nil
	case selene.DriverRod:
		l := &rodpage.Launcher{RemoteURL: cfg.RemoteURL, Bin: cfg.ChromePath, Headless: cfg.Headless}
		page, err := l.Launch(ctx)
		if err != nil {
			return nil, nil, err
		}
		return page, l.Close, nil
	case selene.DriverWebDriver:
		remote := cfg.RemoteURL
		if remote == "" {
			remote = "http://localhost:4444/wd/hub"
		}
		s, err := wdsession.Remote(remote, cfg.ChromePath, cfg.Headless)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Quit, nil
	case selene.DriverPlaywright:
		l := &pwpage.Launcher{ChromePath: cfg.ChromePath, Headless: cfg.Headless}
		page, err := l.Launch(ctx)
		if err != nil {
			return nil, nil, err
		}
		return page, l.Close, nil
	}
	return nil, nil, selene.Errorf(selene.ErrInvalidArgument, "unknown driver %q", cfg.Driver)
}
