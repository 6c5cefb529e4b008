package mock

import (
	"context"
	"sync"

	"gitlab.com/selene/selene"
)

// Session is an in-memory selene.Session whose document is scripted by the
// test: elements are registered per selene.By and lookups can be made to
// fail a set number of times.
type Session struct {
	mu        sync.RWMutex
	url       string
	title     string
	navigated []string
	refreshes int
	onRefresh func(s *Session)
	lookups   *lookupTable
}

// NewSession at url
func NewSession(url string) *Session {
	return &Session{
		url:     url,
		lookups: newLookupTable(),
	}
}

// Add elements matched by by, after any already registered
func (s *Session) Add(by selene.By, els ...*Element) *Session {
	for _, el := range els {
		el.attach(s)
	}
	s.lookups.add(by, els...)
	return s
}

// Set replaces the elements matched by by; no elements removes them all
func (s *Session) Set(by selene.By, els ...*Element) *Session {
	for _, el := range els {
		el.attach(s)
	}
	s.lookups.set(by, els...)
	return s
}

// FailNext makes the next len(errs) lookups for by return errs in order
func (s *Session) FailNext(by selene.By, errs ...error) *Session {
	s.lookups.failNext(by, errs...)
	return s
}

// Lookups returns how many times by was searched on the session
func (s *Session) Lookups(by selene.By) int {
	return s.lookups.count(by)
}

// SetURL changes the current url
func (s *Session) SetURL(url string) {
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
}

// SetTitle changes the document title
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

// OnRefresh runs fn after every Refresh
func (s *Session) OnRefresh(fn func(s *Session)) {
	s.mu.Lock()
	s.onRefresh = fn
	s.mu.Unlock()
}

// Refreshes returns how many times Refresh was called
func (s *Session) Refreshes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshes
}

// Navigated returns every url passed to Navigate
func (s *Session) Navigated() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.navigated...)
}

// FindElement in the document
func (s *Session) FindElement(ctx context.Context, by selene.By) (selene.Element, error) {
	return s.lookups.first(by)
}

// FindElements in the document
func (s *Session) FindElements(ctx context.Context, by selene.By) ([]selene.Element, error) {
	return s.lookups.find(by)
}

// RootSession is s
func (s *Session) RootSession() selene.Session {
	return s
}

// CurrentURL of the document
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url, nil
}

// Title of the document
func (s *Session) Title(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title, nil
}

// Navigate records url and makes it current
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	s.navigated = append(s.navigated, url)
	s.url = url
	s.mu.Unlock()
	return nil
}

// Refresh counts the reload and runs the OnRefresh hook
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.refreshes++
	fn := s.onRefresh
	s.mu.Unlock()
	if fn != nil {
		fn(s)
	}
	return nil
}
