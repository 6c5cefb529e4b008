package gcdtab

import (
	"context"

	"gitlab.com/selene/selene"
)

// Element is a remote handle to a DOM element of a Tab
type Element struct {
	tab      *Tab
	objectID string
}

func newElement(tab *Tab, objectID string) *Element {
	return &Element{tab: tab, objectID: objectID}
}

// ObjectID of the remote handle
func (e *Element) ObjectID() string {
	return e.objectID
}

// RootSession is the owning tab
func (e *Element) RootSession() selene.Session {
	return e.tab
}

// FindElement returns the first descendant matching by
func (e *Element) FindElement(ctx context.Context, by selene.By) (selene.Element, error) {
	return e.tab.findElement(ctx, e.objectID, by)
}

// FindElements returns every descendant matching by
func (e *Element) FindElements(ctx context.Context, by selene.By) ([]selene.Element, error) {
	return e.tab.findElements(ctx, e.objectID, by)
}

// IsDisplayed when the element is rendered with a non empty box
func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	return e.boolean(displayedFn)
}

// IsEnabled unless the element is disabled
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	return e.boolean(enabledFn)
}

// Text is the rendered text, trimmed
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.str(textFn)
}

// Attribute value or "" when absent
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	return e.str(attributeFn, name)
}

// TagName in lower case
func (e *Element) TagName(ctx context.Context) (string, error) {
	return e.str(tagNameFn)
}

func (e *Element) boolean(fn string, args ...interface{}) (bool, error) {
	r, err := e.tab.callOn(objectGroup, e.objectID, fn, true, args...)
	if err != nil {
		return false, err
	}
	v, _ := r.Value.(bool)
	return v, nil
}

func (e *Element) str(fn string, args ...interface{}) (string, error) {
	r, err := e.tab.callOn(objectGroup, e.objectID, fn, true, args...)
	if err != nil {
		return "", err
	}
	v, _ := r.Value.(string)
	return v, nil
}
