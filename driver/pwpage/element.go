package pwpage

import (
	"context"

	"github.com/playwright-community/playwright-go"
	"gitlab.com/selene/selene"
)

// Element is a playwright locator pinned to one match
type Element struct {
	loc  playwright.Locator
	page *Page
}

// Locator underneath
func (e *Element) Locator() playwright.Locator {
	return e.loc
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
	return e.page.all(e.loc.Locator(selector(by)), by)
}

// IsDisplayed as playwright judges visibility
func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	return e.loc.IsVisible()
}

// IsEnabled as playwright judges it
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	return e.loc.IsEnabled(playwright.LocatorIsEnabledOptions{
		Timeout: playwright.Float(actionTimeout),
	})
}

// Text is the rendered text
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.loc.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(actionTimeout),
	})
}

// Attribute value or "" when absent
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	return e.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(actionTimeout),
	})
}

// TagName in lower case
func (e *Element) TagName(ctx context.Context) (string, error) {
	v, err := e.loc.Evaluate("el => el.tagName.toLowerCase()", nil, playwright.LocatorEvaluateOptions{
		Timeout: playwright.Float(actionTimeout),
	})
	if err != nil {
		return "", err
	}
	tag, _ := v.(string)
	return tag, nil
}
