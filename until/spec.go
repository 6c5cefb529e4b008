package until

import (
	"fmt"
	"sort"

	"gitlab.com/selene/poll"
	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
)

// Spec is a parsed condition spec
type Spec interface {
	isSpec()
}

// AnyOf holds when at least one member holds on a tick
type AnyOf []Spec

// AllOf holds when every member holds on the same tick
type AllOf []Spec

// Not fails the wait as soon as Spec holds
type Not struct {
	Spec Spec
}

// Is names a registered condition and its argument
type Is struct {
	Name string
	Arg  interface{}
}

// Built wraps an already built condition
type Built struct {
	Condition poll.Condition
}

func (AnyOf) isSpec() {}
func (AllOf) isSpec() {}
func (Not) isSpec()   {}
func (Is) isSpec()    {}
func (Built) isSpec() {}

// Parse turns loosely typed input, as decoded from JSON or YAML or written
// inline, into a Spec. Slices are OR-ed, maps are AND-ed with their keys in
// sorted order, the "unless" key negates its value, and selectors (strings,
// selene.By, *query.Query) mean "element".
func Parse(v interface{}) (Spec, error) {
	switch t := v.(type) {
	case nil:
		return nil, selene.Errorf(selene.ErrInvalidArgument, "empty condition spec")
	case Spec:
		return t, nil
	case poll.Condition:
		return Built{Condition: t}, nil
	case *poll.Condition:
		if t == nil {
			return nil, selene.Errorf(selene.ErrInvalidArgument, "nil condition")
		}
		return Built{Condition: *t}, nil
	case string, selene.By, *query.Query:
		return Is{Name: "element", Arg: t}, nil
	case []Spec:
		if len(t) == 0 {
			return nil, selene.Errorf(selene.ErrInvalidArgument, "empty condition list")
		}
		return AnyOf(t), nil
	case []string:
		items := make([]interface{}, len(t))
		for i, s := range t {
			items[i] = s
		}
		return parseList(items)
	case []interface{}:
		return parseList(t)
	case map[string]interface{}:
		return parseMap(t)
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, v := range t {
			m[fmt.Sprint(k)] = v
		}
		return parseMap(m)
	}
	return nil, selene.Errorf(selene.ErrInvalidArgument, "unsupported condition spec %T", v)
}

func parseList(items []interface{}) (Spec, error) {
	if len(items) == 0 {
		return nil, selene.Errorf(selene.ErrInvalidArgument, "empty condition list")
	}
	ret := make(AnyOf, len(items))
	for i, item := range items {
		spec, err := Parse(item)
		if err != nil {
			return nil, err
		}
		ret[i] = spec
	}
	return ret, nil
}

func parseMap(m map[string]interface{}) (Spec, error) {
	if len(m) == 0 {
		return nil, selene.Errorf(selene.ErrInvalidArgument, "empty condition map")
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	ret := make(AllOf, 0, len(names))
	for _, name := range names {
		if name != "unless" {
			ret = append(ret, Is{Name: name, Arg: m[name]})
			continue
		}
		inner, err := Parse(m[name])
		if err != nil {
			return nil, err
		}
		ret = append(ret, Not{Spec: inner})
	}
	return ret, nil
}
