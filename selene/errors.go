package selene

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// revive:exported
var (
	ErrNoSuchElement     = errors.New("no such element")
	ErrTimedOut          = errors.New("wait timed out")
	ErrNoLocator         = errors.New("no locator")
	ErrNoSuchCondition   = errors.New("no such condition")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConditionViolated = errors.New("condition violated")
)

// NoSuchElementErr when a query produced no element
type NoSuchElementErr struct {
	Description string
}

func (e *NoSuchElementErr) Error() string {
	return "no such element: " + e.Description
}

// Unwrap so errors.Is(err, ErrNoSuchElement) holds
func (e *NoSuchElementErr) Unwrap() error {
	return ErrNoSuchElement
}

// TimeoutErr when no poll tick satisfied a condition before the deadline
type TimeoutErr struct {
	Message string
	Elapsed time.Duration
}

func (e *TimeoutErr) Error() string {
	return fmt.Sprintf("%s: timed out after %s", e.Message, e.Elapsed)
}

// Unwrap so errors.Is(err, ErrTimedOut) holds
func (e *TimeoutErr) Unwrap() error {
	return ErrTimedOut
}

// ConditionErr is returned by an inverted (unless) condition once the
// wrapped condition became true. Value is what the wrapped condition
// resolved to, e.g. the element that became visible.
type ConditionErr struct {
	Description string
	Value       interface{}
}

func (e *ConditionErr) Error() string {
	return fmt.Sprintf("%s: %s", ErrConditionViolated, e.Description)
}

// Unwrap so errors.Is(err, ErrConditionViolated) holds
func (e *ConditionErr) Unwrap() error {
	return ErrConditionViolated
}

// IsNotFound reports whether err means a lookup matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoSuchElement)
}

// NotFound wraps a driver specific miss so IsNotFound recognises it.
func NotFound(by By) error {
	return errors.Wrapf(ErrNoSuchElement, "%s", by)
}

// detailErr reads "<kind>: <detail>", e.g. "no such condition: hover"
type detailErr struct {
	kind   error
	detail string
}

func (e *detailErr) Error() string {
	return e.kind.Error() + ": " + e.detail
}

func (e *detailErr) Unwrap() error {
	return e.kind
}

// Errorf annotates one of the sentinel errors above with detail so that
// errors.Is(err, kind) still holds.
func Errorf(kind error, format string, args ...interface{}) error {
	return errors.WithStack(&detailErr{kind: kind, detail: fmt.Sprintf(format, args...)})
}
