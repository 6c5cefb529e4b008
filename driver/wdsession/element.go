package wdsession

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
	"gitlab.com/selene/selene"
)

// Element wraps a WebElement
type Element struct {
	el      selenium.WebElement
	session *Session
}

// WebElement underneath
func (e *Element) WebElement() selenium.WebElement {
	return e.el
}

// RootSession is the owning session
func (e *Element) RootSession() selene.Session {
	return e.session
}

// FindElement returns the first descendant matching by
func (e *Element) FindElement(ctx context.Context, by selene.By) (selene.Element, error) {
	using, value := wire(by)
	el, err := e.el.FindElement(using, value)
	if err != nil {
		return nil, mapErr(err, by)
	}
	return &Element{el: el, session: e.session}, nil
}

// FindElements returns every descendant matching by
func (e *Element) FindElements(ctx context.Context, by selene.By) ([]selene.Element, error) {
	using, value := wire(by)
	els, err := e.el.FindElements(using, value)
	if err != nil {
		if isNoSuchElement(err) {
			return []selene.Element{}, nil
		}
		return nil, errors.Wrapf(err, "find all %s", by)
	}
	return e.session.wrap(els), nil
}

// IsDisplayed as the remote end judges it
func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	return e.el.IsDisplayed()
}

// IsEnabled as the remote end judges it
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	return e.el.IsEnabled()
}

// Text is the rendered text
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Text()
}

// Attribute value or "" when absent. The client reports a missing
// attribute as a nil return value.
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.el.GetAttribute(name)
	if err != nil && strings.Contains(err.Error(), "nil return value") {
		return "", nil
	}
	return v, err
}

// TagName in lower case
func (e *Element) TagName(ctx context.Context) (string, error) {
	tag, err := e.el.TagName()
	return strings.ToLower(tag), err
}
