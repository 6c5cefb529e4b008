package fluent

import (
	"context"
	"time"

	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
	"gitlab.com/selene/until"
)

// Element is a located element with the Browser's lookups scoped to it
type Element struct {
	selene.Element
	browser *Browser
}

// Unwrap returns the driver element
func (e *Element) Unwrap() selene.Element {
	return e.Element
}

// Find the first descendant matching sel and filter
func (e *Element) Find(ctx context.Context, sel interface{}, filter query.FilterSpec, timeout time.Duration) (*Element, error) {
	return e.browser.find(ctx, e.Element, sel, filter, timeout)
}

// FindAll descendants matching sel and filter
func (e *Element) FindAll(ctx context.Context, sel interface{}, filter query.FilterSpec, timeout time.Duration) ([]*Element, error) {
	return e.browser.findAll(ctx, e.Element, sel, filter, timeout)
}

// Exists looks once for a descendant matching sel
func (e *Element) Exists(ctx context.Context, sel interface{}, filter query.FilterSpec) bool {
	return e.browser.exists(ctx, e.Element, sel, filter)
}

// Wait until spec holds. Element lookups in spec search below e; every
// other condition still runs against the session.
func (e *Element) Wait(ctx context.Context, spec interface{}, timeout time.Duration, message string) (interface{}, error) {
	parsed, err := until.Parse(spec)
	if err != nil {
		return nil, err
	}
	cond, err := e.browser.conditions.BuildSpec(scopeSpec(parsed, e.Element))
	if err != nil {
		return nil, err
	}
	return e.browser.wait(ctx, "Element.Wait", cond, timeout, message)
}

// scopeSpec rewrites element conditions into scoped ones below scope
func scopeSpec(spec until.Spec, scope selene.Scope) until.Spec {
	switch s := spec.(type) {
	case until.AnyOf:
		ret := make(until.AnyOf, len(s))
		for i, member := range s {
			ret[i] = scopeSpec(member, scope)
		}
		return ret
	case until.AllOf:
		ret := make(until.AllOf, len(s))
		for i, member := range s {
			ret[i] = scopeSpec(member, scope)
		}
		return ret
	case until.Not:
		return until.Not{Spec: scopeSpec(s.Spec, scope)}
	case until.Is:
		if s.Name == "element" {
			return until.Is{Name: "scoped", Arg: until.Scoped{Query: s.Arg, Scope: scope}}
		}
	}
	return spec
}
