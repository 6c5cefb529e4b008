package mock

import (
	"sync"

	"gitlab.com/selene/selene"
)

// lookupTable answers FindElement(s) for a session or an element
type lookupTable struct {
	mu       sync.Mutex
	elements map[selene.By][]*Element
	errs     map[selene.By][]error
	calls    map[selene.By]int
}

func newLookupTable() *lookupTable {
	return &lookupTable{
		elements: make(map[selene.By][]*Element),
		errs:     make(map[selene.By][]error),
		calls:    make(map[selene.By]int),
	}
}

func (l *lookupTable) add(by selene.By, els ...*Element) {
	l.mu.Lock()
	l.elements[by] = append(l.elements[by], els...)
	l.mu.Unlock()
}

func (l *lookupTable) set(by selene.By, els ...*Element) {
	l.mu.Lock()
	l.elements[by] = els
	l.mu.Unlock()
}

func (l *lookupTable) failNext(by selene.By, errs ...error) {
	l.mu.Lock()
	l.errs[by] = append(l.errs[by], errs...)
	l.mu.Unlock()
}

func (l *lookupTable) count(by selene.By) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[by]
}

func (l *lookupTable) all() []*Element {
	l.mu.Lock()
	defer l.mu.Unlock()
	ret := make([]*Element, 0)
	for _, els := range l.elements {
		ret = append(ret, els...)
	}
	return ret
}

// find pops a queued error first, so FailNext(by, e1, e2) fails the next two
// lookups and then answers normally.
func (l *lookupTable) find(by selene.By) ([]selene.Element, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[by]++
	if queued := l.errs[by]; len(queued) > 0 {
		l.errs[by] = queued[1:]
		return nil, queued[0]
	}
	ret := make([]selene.Element, len(l.elements[by]))
	for i, el := range l.elements[by] {
		ret[i] = el
	}
	return ret, nil
}

func (l *lookupTable) first(by selene.By) (selene.Element, error) {
	els, err := l.find(by)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, selene.NotFound(by)
	}
	return els[0], nil
}
