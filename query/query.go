package query

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/selene/poll"
	"gitlab.com/selene/selene"
	"golang.org/x/sync/errgroup"
)

// Query locates one or many elements inside a scope. Build it with
// Factory.NewQuery; it is not reused across calls.
type Query struct {
	By          selene.By
	Description string
	Timeout     time.Duration
	Filters     []Filter
	waiter      *poll.Waiter
}

func (q *Query) String() string {
	return q.Description
}

// One returns the first element in scope passing every filter, polling
// until Timeout when it is set.
func (q *Query) One(ctx context.Context, scope selene.Scope) (selene.Element, error) {
	if scope == nil {
		return nil, selene.Errorf(selene.ErrInvalidArgument, "nil scope")
	}
	if q.Timeout > 0 {
		v, err := q.getWaiter().Wait(ctx, rootOf(scope), q.UntilOne(scope), q.Timeout, "")
		if err != nil {
			return nil, err
		}
		return v.(selene.Element), nil
	}
	return q.FindOne(ctx, scope)
}

// All returns every element in scope passing every filter, polling until at
// least one shows up when Timeout is set.
func (q *Query) All(ctx context.Context, scope selene.Scope) ([]selene.Element, error) {
	if scope == nil {
		return nil, selene.Errorf(selene.ErrInvalidArgument, "nil scope")
	}
	if q.Timeout > 0 {
		v, err := q.getWaiter().Wait(ctx, rootOf(scope), q.UntilSome(scope), q.Timeout, "")
		if err != nil {
			return nil, err
		}
		return v.([]selene.Element), nil
	}
	return q.FindAll(ctx, scope)
}

// FindOne is the single-shot form of One. Filtered queries always go through
// FindAll since the first raw match may not be the first that passes.
func (q *Query) FindOne(ctx context.Context, scope selene.Scope) (selene.Element, error) {
	if scope == nil {
		return nil, selene.Errorf(selene.ErrInvalidArgument, "nil scope")
	}
	if len(q.Filters) > 0 {
		els, err := q.FindAll(ctx, scope)
		if err != nil {
			return nil, err
		}
		return q.assert(firstOf(els))
	}

	el, err := scope.FindElement(ctx, q.By)
	if err != nil && !selene.IsNotFound(err) {
		return nil, errors.Wrapf(err, "find %s", q.Description)
	}
	return q.assert(el)
}

// FindAll is the single-shot form of All
func (q *Query) FindAll(ctx context.Context, scope selene.Scope) ([]selene.Element, error) {
	if scope == nil {
		return nil, selene.Errorf(selene.ErrInvalidArgument, "nil scope")
	}
	els, err := scope.FindElements(ctx, q.By)
	if err != nil {
		return nil, errors.Wrapf(err, "find all %s", q.Description)
	}
	return q.filter(ctx, els)
}

// Probe looks once and reports whether an element was found. Lookup
// failures of any kind count as not found.
func (q *Query) Probe(ctx context.Context, scope selene.Scope) (selene.Element, bool) {
	el, err := q.FindOne(ctx, scope)
	if err != nil {
		if !selene.IsNotFound(err) {
			log.Ctx(ctx).Debug().Err(err).Str("query", q.Description).Msg("probe failed")
		}
		return nil, false
	}
	return el, true
}

// ProbeAll looks once and reports whether anything matched
func (q *Query) ProbeAll(ctx context.Context, scope selene.Scope) ([]selene.Element, bool) {
	els, err := q.FindAll(ctx, scope)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("query", q.Description).Msg("probe failed")
		return nil, false
	}
	return els, len(els) > 0
}

// UntilOne is the condition One polls: satisfied by the first matching
// element. A nil scope searches the session the wait runs against.
func (q *Query) UntilOne(scope selene.Scope) poll.Condition {
	return poll.NewCondition("for "+q.Description, func(ctx context.Context, s selene.Session) (interface{}, error) {
		el, ok := q.Probe(ctx, scopeOr(scope, s))
		if !ok {
			return nil, nil
		}
		return el, nil
	})
}

// UntilSome is the condition All polls: satisfied by a non-empty match set
func (q *Query) UntilSome(scope selene.Scope) poll.Condition {
	return poll.NewCondition("for "+q.Description, func(ctx context.Context, s selene.Session) (interface{}, error) {
		els, ok := q.ProbeAll(ctx, scopeOr(scope, s))
		if !ok {
			return nil, nil
		}
		return els, nil
	})
}

func (q *Query) assert(el selene.Element) (selene.Element, error) {
	if el == nil {
		return nil, &selene.NoSuchElementErr{Description: q.Description}
	}
	return el, nil
}

// filter keeps the elements passing every filter, in their original order.
// Candidates are tested concurrently.
func (q *Query) filter(ctx context.Context, els []selene.Element) ([]selene.Element, error) {
	if len(q.Filters) == 0 || len(els) == 0 {
		return els, nil
	}

	passed := make([]bool, len(els))
	g, gctx := errgroup.WithContext(ctx)
	for i, el := range els {
		i, el := i, el
		g.Go(func() error {
			ok, err := q.passes(gctx, el)
			passed[i] = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "filter %s", q.Description)
	}

	ret := make([]selene.Element, 0, len(els))
	for i, el := range els {
		if passed[i] {
			ret = append(ret, el)
		}
	}
	return ret, nil
}

func (q *Query) passes(ctx context.Context, el selene.Element) (bool, error) {
	for _, f := range q.Filters {
		ok, err := f.Test(ctx, el)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (q *Query) getWaiter() *poll.Waiter {
	if q.waiter == nil {
		return poll.NewWaiter(poll.DefaultInterval)
	}
	return q.waiter
}

func firstOf(els []selene.Element) selene.Element {
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

func scopeOr(scope selene.Scope, s selene.Session) selene.Scope {
	if scope == nil {
		return s
	}
	return scope
}

func rootOf(scope selene.Scope) selene.Session {
	if scope == nil {
		return nil
	}
	return scope.RootSession()
}
