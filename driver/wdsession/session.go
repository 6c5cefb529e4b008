// Package wdsession implements selene.Session over a W3C WebDriver remote
// using tebeka/selenium.
package wdsession

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
	"gitlab.com/selene/selene"
)

// strategies sent natively; anything else is normalized first
var native = map[string]bool{
	selene.CSS:             true,
	selene.XPath:           true,
	selene.LinkText:        true,
	selene.PartialLinkText: true,
	selene.TagName:         true,
}

// Session wraps a WebDriver
type Session struct {
	wd selenium.WebDriver
}

// New wraps wd
func New(wd selenium.WebDriver) *Session {
	return &Session{wd: wd}
}

// WebDriver underneath
func (s *Session) WebDriver() selenium.WebDriver {
	return s.wd
}

// RootSession is the session itself
func (s *Session) RootSession() selene.Session {
	return s
}

// FindElement returns the first match in the document
func (s *Session) FindElement(ctx context.Context, by selene.By) (selene.Element, error) {
	using, value := wire(by)
	el, err := s.wd.FindElement(using, value)
	if err != nil {
		return nil, mapErr(err, by)
	}
	return &Element{el: el, session: s}, nil
}

// FindElements returns every match in the document
func (s *Session) FindElements(ctx context.Context, by selene.By) ([]selene.Element, error) {
	using, value := wire(by)
	els, err := s.wd.FindElements(using, value)
	if err != nil {
		if isNoSuchElement(err) {
			return []selene.Element{}, nil
		}
		return nil, errors.Wrapf(err, "find all %s", by)
	}
	return s.wrap(els), nil
}

// CurrentURL of the top level browsing context
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

// Title of the current document
func (s *Session) Title(ctx context.Context) (string, error) {
	return s.wd.Title()
}

// Navigate to url
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.wd.Get(url)
}

// Refresh the current page
func (s *Session) Refresh(ctx context.Context) error {
	return s.wd.Refresh()
}

func (s *Session) wrap(els []selenium.WebElement) []selene.Element {
	ret := make([]selene.Element, len(els))
	for i, el := range els {
		ret[i] = &Element{el: el, session: s}
	}
	return ret
}

func wire(by selene.By) (string, string) {
	if !native[by.Using] {
		by = by.Normalize()
	}
	return by.Using, by.Value
}

func isNoSuchElement(err error) bool {
	var wdErr *selenium.Error
	if errors.As(err, &wdErr) {
		return wdErr.Err == "no such element"
	}
	return strings.Contains(err.Error(), "no such element")
}

func mapErr(err error, by selene.By) error {
	if isNoSuchElement(err) {
		return selene.NotFound(by)
	}
	return errors.Wrapf(err, "find %s", by)
}
