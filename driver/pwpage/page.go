// Package pwpage implements selene.Session over a playwright-go page.
package pwpage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
	"gitlab.com/selene/selene"
)

// actionTimeout in milliseconds for reads on a located element. Playwright
// would otherwise wait up to 30s for a detached element to come back.
const actionTimeout = 2000

// Page is a playwright page implementing selene.Session
type Page struct {
	page playwright.Page
}

// New wraps page
func New(page playwright.Page) *Page {
	return &Page{page: page}
}

// Playwright page underneath
func (p *Page) Playwright() playwright.Page {
	return p.page
}

// RootSession is the page itself
func (p *Page) RootSession() selene.Session {
	return p
}

// FindElement returns the first match in the page
func (p *Page) FindElement(ctx context.Context, by selene.By) (selene.Element, error) {
	els, err := p.FindElements(ctx, by)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, selene.NotFound(by)
	}
	return els[0], nil
}

// FindElements returns every match in the page
func (p *Page) FindElements(ctx context.Context, by selene.By) ([]selene.Element, error) {
	return p.all(p.page.Locator(selector(by)), by)
}

// CurrentURL of the page
func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	return p.page.URL(), nil
}

// Title of the page
func (p *Page) Title(ctx context.Context) (string, error) {
	return p.page.Title()
}

// Navigate to url and wait for the load event
func (p *Page) Navigate(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return errors.Wrapf(err, "navigate %s", url)
}

// Refresh the page
func (p *Page) Refresh(ctx context.Context) error {
	_, err := p.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return err
}

func (p *Page) all(loc playwright.Locator, by selene.By) ([]selene.Element, error) {
	locs, err := loc.All()
	if err != nil {
		return nil, errors.Wrapf(err, "find all %s", by)
	}
	ret := make([]selene.Element, len(locs))
	for i, l := range locs {
		ret[i] = &Element{loc: l, page: p}
	}
	return ret, nil
}

// selector in playwright's engine prefixed syntax
func selector(by selene.By) string {
	by = by.Normalize()
	if by.Using == selene.XPath {
		return "xpath=" + by.Value
	}
	return "css=" + by.Value
}
