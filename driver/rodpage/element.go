package rodpage

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
	"gitlab.com/selene/selene"
)

// Element wraps a rod element
type Element struct {
	el   *rod.Element
	page *Page
}

// Rod element underneath
func (e *Element) Rod() *rod.Element {
	return e.el
}

// RootSession is the owning page
func (e *Element) RootSession() selene.Session {
	return e.page
}

// FindElement returns the first descendant matching by
func (e *Element) FindElement(ctx context.Context, by selene.By) (selene.Element, error) {
	els, err := e.FindElements(ctx, by)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, selene.NotFound(by)
	}
	return els[0], nil
}

// FindElements returns every descendant matching by
func (e *Element) FindElements(ctx context.Context, by selene.By) ([]selene.Element, error) {
	by = by.Normalize()
	el := e.el.Context(ctx)

	var (
		els rod.Elements
		err error
	)
	if by.Using == selene.XPath {
		els, err = el.ElementsX(by.Value)
	} else {
		els, err = el.Elements(by.Value)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find all %s", by)
	}
	return e.page.wrap(els), nil
}

// IsDisplayed as rod judges visibility
func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

// IsEnabled unless the disabled property is set
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	disabled, err := e.el.Context(ctx).Property("disabled")
	if err != nil {
		return false, err
	}
	return !disabled.Bool(), nil
}

// Text of the element
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

// Attribute value or "" when absent
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}

// TagName in lower case
func (e *Element) TagName(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
