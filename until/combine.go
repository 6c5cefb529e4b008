package until

import (
	"context"
	"strings"

	"gitlab.com/selene/poll"
	"gitlab.com/selene/selene"
	"golang.org/x/sync/errgroup"
)

// Method reduces the values of combined conditions
type Method string

// revive:exported
const (
	Every Method = "every"
	Some  Method = "some"
)

// All combines conds into one condition evaluating every member on the same
// tick, concurrently. With Every it holds when all members hold, with Some
// when at least one does; it resolves to true. A member error fails the tick.
// Negative members (unless) hold by not failing: they count as satisfied
// under Every and are ignored under Some, and a combination made only of
// them never resolves and instead succeeds once the wait window elapses.
// A single condition is returned unchanged.
func All(conds []poll.Condition, method Method) poll.Condition {
	if len(conds) == 1 {
		return conds[0]
	}
	if method == "" {
		method = Every
	}

	lines := make([]string, 0, len(conds)+1)
	lines = append(lines, "for "+string(method)+" of these:")
	negatives := 0
	for _, c := range conds {
		lines = append(lines, c.Description)
		if c.Negative {
			negatives++
		}
	}

	members := append([]poll.Condition(nil), conds...)
	cond := poll.NewCondition(strings.Join(lines, "\n* "), func(ctx context.Context, s selene.Session) (interface{}, error) {
		values := make([]interface{}, len(members))
		g, gctx := errgroup.WithContext(ctx)
		for i, c := range members {
			i, c := i, c
			g.Go(func() error {
				v, err := c.Fn(gctx, s)
				values[i] = v
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return reduce(members, values, method), nil
	})

	switch method {
	case Every:
		cond.Negative = len(conds) > 0 && negatives == len(conds)
	case Some:
		cond.Negative = negatives > 0
	}
	return cond
}

func reduce(members []poll.Condition, values []interface{}, method Method) bool {
	positives := 0
	truthy := 0
	for i, c := range members {
		if c.Negative {
			continue
		}
		positives++
		if poll.Truthy(values[i]) {
			truthy++
		}
	}
	if method == Some {
		return truthy > 0
	}
	return positives > 0 && truthy == positives
}

// Unless inverts inner: the returned condition fails with a
// *selene.ConditionErr carrying inner's value the moment inner holds, and is
// otherwise never satisfied, so a wait on it succeeds when its window ends.
func Unless(inner poll.Condition) poll.Condition {
	cond := poll.NewCondition("unless "+inner.Description, func(ctx context.Context, s selene.Session) (interface{}, error) {
		v, err := inner.Fn(ctx, s)
		if err != nil {
			return nil, err
		}
		if poll.Truthy(v) {
			return nil, &selene.ConditionErr{Description: inner.Description, Value: v}
		}
		return nil, nil
	})
	cond.Negative = true
	return cond
}
