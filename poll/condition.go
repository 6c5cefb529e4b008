package poll

import (
	"context"
	"reflect"

	"gitlab.com/selene/selene"
)

// Func probes session state once. A falsy result means "not yet, retry",
// any other result satisfies the wait and an error stops it. It must be
// safe to invoke any number of times.
type Func func(ctx context.Context, s selene.Session) (interface{}, error)

// Condition is a named, re-evaluable probe
type Condition struct {
	Description string
	Fn          Func
	// Negative conditions never resolve truthy; they only fail. A wait on a
	// negative condition succeeds once its window elapses.
	Negative bool
}

// NewCondition with a description
func NewCondition(description string, fn Func) Condition {
	return Condition{Description: description, Fn: fn}
}

func (c Condition) String() string {
	return c.Description
}

// IsZero reports whether c has no probe function
func (c Condition) IsZero() bool {
	return c.Fn == nil
}

// Truthy reports whether v satisfies a wait. nil, false, nil pointers and
// empty strings, slices and maps are falsy.
func Truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	}
	return true
}
