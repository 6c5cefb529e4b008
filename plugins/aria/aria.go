// Package aria locates elements the way assistive technology and test
// suites name them: by ARIA role, accessible label and data-testid.
package aria

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gitlab.com/selene/fluent"
	"gitlab.com/selene/poll"
	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
	"gitlab.com/selene/until"
)

// Role selects by the role attribute, e.g. aria.Role("button")
type Role string

// Label selects by aria-label
type Label string

// TestID selects by data-testid
type TestID string

// Keys accepted in single key map selectors, e.g. {"testid": "save"}
var attrs = map[string]string{
	"role":   "role",
	"label":  "aria-label",
	"testid": "data-testid",
}

// Plugin registers the aria locators, the aria filter and the testid
// condition
type Plugin struct{}

// New aria plugin
func New() *Plugin {
	return &Plugin{}
}

// Register with r. Pass it to fluent.Browser.Use.
func (p *Plugin) Register(r fluent.Registrar) {
	r.AddLocator(query.LocatorFunc(Locate))
	r.AddFilter(query.NewFilterMapper("aria", Filter))
	r.RegisterCondition("testid", buildTestID)
}

// Locate maps Role, Label, TestID and {"role"|"label"|"testid": value}
func Locate(sel interface{}) (query.Locator, bool) {
	var key, value string
	switch s := sel.(type) {
	case Role:
		key, value = "role", string(s)
	case Label:
		key, value = "label", string(s)
	case TestID:
		key, value = "testid", string(s)
	case map[string]string:
		if len(s) != 1 {
			return query.Locator{}, false
		}
		for k, v := range s {
			key, value = k, v
		}
	case map[string]interface{}:
		if len(s) != 1 {
			return query.Locator{}, false
		}
		for k, v := range s {
			str, ok := v.(string)
			if !ok {
				return query.Locator{}, false
			}
			key, value = k, str
		}
	default:
		return query.Locator{}, false
	}

	attr, ok := attrs[key]
	if !ok || value == "" {
		return query.Locator{}, false
	}
	return query.Locator{
		By:          selene.ByAttr(attr, value),
		Description: fmt.Sprintf("%s %q", key, value),
	}, true
}

// Filter matches aria-* attribute states, e.g. {"expanded": true}
func Filter(arg interface{}) (*query.Filter, error) {
	states, ok := arg.(map[string]interface{})
	if !ok {
		return nil, selene.Errorf(selene.ErrInvalidArgument, "filter aria does not accept %T", arg)
	}
	if len(states) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)
	want := make(map[string]string, len(states))
	parts := make([]string, len(names))
	for i, name := range names {
		want[name] = fmt.Sprint(states[name])
		parts[i] = fmt.Sprintf("aria-%s=%s", name, want[name])
	}

	return &query.Filter{
		Description: strings.Join(parts, " "),
		Test: func(ctx context.Context, el selene.Element) (bool, error) {
			for _, name := range names {
				v, err := el.Attribute(ctx, "aria-"+name)
				if err != nil || v != want[name] {
					return false, err
				}
			}
			return true, nil
		},
	}, nil
}

func buildTestID(b *until.Builder, arg interface{}) (poll.Condition, error) {
	id, ok := arg.(string)
	if !ok || id == "" {
		return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "testid needs a non empty string, got %T", arg)
	}
	q, err := b.Queries().NewQuery(TestID(id), nil, 0)
	if err != nil {
		return poll.Condition{}, err
	}
	return q.UntilOne(nil), nil
}
