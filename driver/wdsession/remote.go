package wdsession

import (
	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// Remote opens a chrome session on the WebDriver endpoint at url, e.g.
// http://localhost:4444/wd/hub
func Remote(url, chromePath string, headless bool) (*Session, error) {
	caps := selenium.Capabilities{
		"browserName": "chrome",
	}
	chromeCaps := chrome.Capabilities{
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless")
	}
	if chromePath != "" {
		chromeCaps.Path = chromePath
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create webdriver on %s", url)
	}
	return New(wd), nil
}

// Quit ends the remote session
func (s *Session) Quit() error {
	return s.wd.Quit()
}
