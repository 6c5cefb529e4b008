package mock

import (
	"context"
	"sync"

	"gitlab.com/selene/selene"
)

// Element is an in-memory selene.Element. All setters are safe to call while
// a wait is polling the element from another goroutine.
type Element struct {
	ID string

	mu         sync.RWMutex
	tag        string
	text       string
	displayed  bool
	enabled    bool
	attrs      map[string]string
	displayErr error
	children   *lookupTable
	session    *Session
}

// NewElement that is displayed and enabled
func NewElement(id, tag string) *Element {
	return &Element{
		ID:        id,
		tag:       tag,
		displayed: true,
		enabled:   true,
		attrs:     map[string]string{"id": id},
		children:  newLookupTable(),
	}
}

// WithText sets the visible text
func (e *Element) WithText(text string) *Element {
	e.mu.Lock()
	e.text = text
	e.mu.Unlock()
	return e
}

// WithAttr sets an attribute
func (e *Element) WithAttr(name, value string) *Element {
	e.mu.Lock()
	e.attrs[name] = value
	e.mu.Unlock()
	return e
}

// Hidden marks the element as not displayed
func (e *Element) Hidden() *Element {
	e.SetDisplayed(false)
	return e
}

// Disabled marks the element as not enabled
func (e *Element) Disabled() *Element {
	e.mu.Lock()
	e.enabled = false
	e.mu.Unlock()
	return e
}

// SetDisplayed toggles visibility
func (e *Element) SetDisplayed(displayed bool) {
	e.mu.Lock()
	e.displayed = displayed
	e.mu.Unlock()
}

// FailDisplayed makes IsDisplayed return err, as a stale element would
func (e *Element) FailDisplayed(err error) {
	e.mu.Lock()
	e.displayErr = err
	e.mu.Unlock()
}

// AddChild registers elements found by by when searching inside e
func (e *Element) AddChild(by selene.By, children ...*Element) *Element {
	e.mu.RLock()
	s := e.session
	e.mu.RUnlock()
	for _, c := range children {
		c.attach(s)
	}
	e.children.add(by, children...)
	return e
}

func (e *Element) attach(s *Session) {
	e.mu.Lock()
	e.session = s
	e.mu.Unlock()
	for _, c := range e.children.all() {
		c.attach(s)
	}
}

func (e *Element) String() string {
	return "mock.Element(" + e.ID + ")"
}

// FindElement inside e
func (e *Element) FindElement(ctx context.Context, by selene.By) (selene.Element, error) {
	return e.children.first(by)
}

// FindElements inside e
func (e *Element) FindElements(ctx context.Context, by selene.By) ([]selene.Element, error) {
	return e.children.find(by)
}

// RootSession the element was added to
func (e *Element) RootSession() selene.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.session == nil {
		return nil
	}
	return e.session
}

// IsDisplayed returns the visibility flag
func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.displayErr != nil {
		return false, e.displayErr
	}
	return e.displayed, nil
}

// IsEnabled returns the enabled flag
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.enabled, nil
}

// Text of the element
func (e *Element) Text(ctx context.Context) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text, nil
}

// Attribute value or ""
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.attrs[name], nil
}

// TagName of the element
func (e *Element) TagName(ctx context.Context) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tag, nil
}
