package query

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gitlab.com/selene/selene"
)

// FilterSpec selects filters by key, e.g. {"visible": true, "text": "Save"}
type FilterSpec map[string]interface{}

// TestFunc decides whether a located element passes a filter
type TestFunc func(ctx context.Context, el selene.Element) (bool, error)

// Filter is a resolved predicate over a single located element
type Filter struct {
	Description string
	Test        TestFunc
}

// FilterMapper resolves the FilterSpec entry stored under its key. It may
// return a nil Filter to decline an argument that filters nothing.
type FilterMapper interface {
	FilterKey() string
	MapFilter(arg interface{}) (*Filter, error)
}

type filterMapper struct {
	key string
	fn  func(arg interface{}) (*Filter, error)
}

func (m filterMapper) FilterKey() string { return m.key }

func (m filterMapper) MapFilter(arg interface{}) (*Filter, error) { return m.fn(arg) }

// NewFilterMapper adapts fn to a FilterMapper for key
func NewFilterMapper(key string, fn func(arg interface{}) (*Filter, error)) FilterMapper {
	return filterMapper{key: key, fn: fn}
}

func defaultFilters() []FilterMapper {
	return []FilterMapper{
		NewFilterMapper("visible", visibleFilter),
		NewFilterMapper("enabled", enabledFilter),
		NewFilterMapper("text", textFilter),
		NewFilterMapper("attr", attrFilter),
		NewFilterMapper("test", customFilter),
	}
}

func badArg(key string, arg interface{}) error {
	return selene.Errorf(selene.ErrInvalidArgument, "filter %s does not accept %T", key, arg)
}

func visibleFilter(arg interface{}) (*Filter, error) {
	want, ok := arg.(bool)
	if !ok {
		return nil, badArg("visible", arg)
	}
	desc := "visible"
	if !want {
		desc = "hidden"
	}
	return &Filter{
		Description: desc,
		Test: func(ctx context.Context, el selene.Element) (bool, error) {
			displayed, err := el.IsDisplayed(ctx)
			return displayed == want, err
		},
	}, nil
}

func enabledFilter(arg interface{}) (*Filter, error) {
	want, ok := arg.(bool)
	if !ok {
		return nil, badArg("enabled", arg)
	}
	desc := "enabled"
	if !want {
		desc = "disabled"
	}
	return &Filter{
		Description: desc,
		Test: func(ctx context.Context, el selene.Element) (bool, error) {
			enabled, err := el.IsEnabled(ctx)
			return enabled == want, err
		},
	}, nil
}

// textFilter matches a substring or, given a *regexp.Regexp, a pattern
func textFilter(arg interface{}) (*Filter, error) {
	switch t := arg.(type) {
	case string:
		if t == "" {
			return nil, nil
		}
		return &Filter{
			Description: fmt.Sprintf("text contains %q", t),
			Test: func(ctx context.Context, el selene.Element) (bool, error) {
				text, err := el.Text(ctx)
				return strings.Contains(text, t), err
			},
		}, nil
	case *regexp.Regexp:
		return &Filter{
			Description: "text matches /" + t.String() + "/",
			Test: func(ctx context.Context, el selene.Element) (bool, error) {
				text, err := el.Text(ctx)
				return t.MatchString(text), err
			},
		}, nil
	}
	return nil, badArg("text", arg)
}

func attrFilter(arg interface{}) (*Filter, error) {
	attrs := make(map[string]string)
	switch t := arg.(type) {
	case map[string]string:
		for k, v := range t {
			attrs[k] = v
		}
	case map[string]interface{}:
		for k, v := range t {
			attrs[k] = fmt.Sprint(v)
		}
	default:
		return nil, badArg("attr", arg)
	}
	if len(attrs) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%q", name, attrs[name])
	}

	return &Filter{
		Description: "[" + strings.Join(parts, " ") + "]",
		Test: func(ctx context.Context, el selene.Element) (bool, error) {
			for _, name := range names {
				value, err := el.Attribute(ctx, name)
				if err != nil || value != attrs[name] {
					return false, err
				}
			}
			return true, nil
		},
	}, nil
}

func customFilter(arg interface{}) (*Filter, error) {
	switch t := arg.(type) {
	case Filter:
		return &t, nil
	case *Filter:
		return t, nil
	case TestFunc:
		return &Filter{Description: "custom test", Test: t}, nil
	case func(context.Context, selene.Element) (bool, error):
		return &Filter{Description: "custom test", Test: t}, nil
	}
	return nil, badArg("test", arg)
}
