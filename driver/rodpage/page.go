// Package rodpage implements selene.Session over a go-rod page.
package rodpage

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
	"gitlab.com/selene/selene"
)

// Page is a rod page implementing selene.Session. Lookups never auto-wait;
// waiting is left to selene's poll loop.
type Page struct {
	page *rod.Page
}

// New wraps page
func New(page *rod.Page) *Page {
	return &Page{page: page}
}

// Rod page underneath
func (p *Page) Rod() *rod.Page {
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
	by = by.Normalize()
	page := p.page.Context(ctx)

	var (
		els rod.Elements
		err error
	)
	if by.Using == selene.XPath {
		els, err = page.ElementsX(by.Value)
	} else {
		els, err = page.Elements(by.Value)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find all %s", by)
	}
	return p.wrap(els), nil
}

// CurrentURL of the page target
func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Title of the page target
func (p *Page) Title(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

// Navigate to url and wait for the load event
func (p *Page) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return errors.Wrapf(err, "navigate %s", url)
	}
	return page.WaitLoad()
}

// Refresh the page and wait for the load event
func (p *Page) Refresh(ctx context.Context) error {
	page := p.page.Context(ctx)
	if err := page.Reload(); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *Page) wrap(els rod.Elements) []selene.Element {
	ret := make([]selene.Element, len(els))
	for i, el := range els {
		ret[i] = &Element{el: el, page: p}
	}
	return ret
}
