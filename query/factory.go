package query

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gitlab.com/selene/poll"
	"gitlab.com/selene/selene"
)

// Factory owns the locator and filter registries queries are resolved
// against. Each factory starts from its own copy of the defaults, so mappers
// added to one factory are never seen by another. It is safe for concurrent
// use: resolutions see the registries as they were when they started.
type Factory struct {
	mu       sync.RWMutex
	locators []LocatorMapper
	filters  []FilterMapper
	waiter   *poll.Waiter
}

// NewFactory with the default locators and filters
func NewFactory() *Factory {
	return &Factory{
		locators: defaultLocators(),
		filters:  defaultFilters(),
		waiter:   poll.NewWaiter(poll.DefaultInterval),
	}
}

// SetWaiter used by queries with a timeout
func (f *Factory) SetWaiter(w *poll.Waiter) {
	f.mu.Lock()
	f.waiter = w
	f.mu.Unlock()
}

// Clone returns an independent factory holding the current registries
func (f *Factory) Clone() *Factory {
	locators, filters, waiter := f.snapshot()
	return &Factory{locators: locators, filters: filters, waiter: waiter}
}

// AddLocator appends m; it is tried after every mapper already registered
func (f *Factory) AddLocator(m LocatorMapper) {
	f.mu.Lock()
	f.locators = append(f.locators, m)
	f.mu.Unlock()
}

// AddFilter appends m to the filter registry
func (f *Factory) AddFilter(m FilterMapper) {
	f.mu.Lock()
	f.filters = append(f.filters, m)
	f.mu.Unlock()
}

func (f *Factory) snapshot() ([]LocatorMapper, []FilterMapper, *poll.Waiter) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	locators := make([]LocatorMapper, len(f.locators))
	copy(locators, f.locators)
	filters := make([]FilterMapper, len(f.filters))
	copy(filters, f.filters)
	return locators, filters, f.waiter
}

// ResolveLocator returns the Locator of the first mapper accepting sel
func (f *Factory) ResolveLocator(sel interface{}) (Locator, error) {
	locators, _, _ := f.snapshot()
	return resolveLocator(locators, sel)
}

// ResolveFilters returns a filter for every registered mapper whose key is in
// spec, in registration order. Keys no mapper handles are ignored.
func (f *Factory) ResolveFilters(spec FilterSpec) ([]Filter, error) {
	_, filters, _ := f.snapshot()
	return resolveFilters(filters, spec)
}

// NewQuery resolves sel and filter into a Query. A timeout > 0 makes One and
// All poll until a match shows up.
func (f *Factory) NewQuery(sel interface{}, filter FilterSpec, timeout time.Duration) (*Query, error) {
	locators, filters, waiter := f.snapshot()
	loc, err := resolveLocator(locators, sel)
	if err != nil {
		return nil, err
	}
	resolved, err := resolveFilters(filters, filter)
	if err != nil {
		return nil, err
	}

	q := &Query{
		By:          loc.By,
		Description: loc.Description,
		Timeout:     timeout,
		waiter:      waiter,
	}
	if len(resolved) > 0 {
		q.Filters = resolved
		descriptions := make([]string, len(resolved))
		for i, r := range resolved {
			descriptions[i] = r.Description
		}
		q.Description += " (" + strings.Join(descriptions, " and ") + ")"
	}
	return q, nil
}

func resolveLocator(locators []LocatorMapper, sel interface{}) (Locator, error) {
	for _, m := range locators {
		if loc, ok := m.MapLocator(sel); ok {
			return loc, nil
		}
	}
	return Locator{}, selene.Errorf(selene.ErrNoLocator, "%s", describeSelector(sel))
}

func resolveFilters(filters []FilterMapper, spec FilterSpec) ([]Filter, error) {
	if len(spec) == 0 {
		return nil, nil
	}

	resolved := make([]Filter, 0, len(spec))
	for _, m := range filters {
		arg, ok := spec[m.FilterKey()]
		if !ok {
			continue
		}
		filter, err := m.MapFilter(arg)
		if err != nil {
			return nil, err
		}
		if filter != nil && filter.Test != nil {
			resolved = append(resolved, *filter)
		}
	}
	return resolved, nil
}

func describeSelector(sel interface{}) string {
	if s, ok := sel.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%#v", sel)
}
