package poll

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/selene/selene"
)

// DefaultInterval between ticks when a Waiter has none
const DefaultInterval = 100 * time.Millisecond

// Waiter repeatedly evaluates conditions until they hold or time runs out
type Waiter struct {
	Interval time.Duration
}

// NewWaiter ticking every interval
func NewWaiter(interval time.Duration) *Waiter {
	return &Waiter{Interval: interval}
}

// Wait on a Waiter with the DefaultInterval
func Wait(ctx context.Context, s selene.Session, c Condition, timeout time.Duration, message string) (interface{}, error) {
	return NewWaiter(DefaultInterval).Wait(ctx, s, c, timeout, message)
}

// Wait evaluates c against s until it returns a truthy value, which is
// returned. An error from c ends the wait immediately and is returned as is.
// When timeout elapses first a *selene.TimeoutErr is returned, unless c is
// Negative in which case the wait succeeds with a nil value. A timeout <= 0
// evaluates c exactly once. Each tick runs to completion before the
// deadline is checked; ctx cancellation is honored between ticks.
func (w *Waiter) Wait(ctx context.Context, s selene.Session, c Condition, timeout time.Duration, message string) (interface{}, error) {
	if c.Fn == nil {
		return nil, errors.Wrap(selene.ErrInvalidArgument, "condition has no probe function")
	}

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if message == "" {
		message = c.Description
	}

	logger := log.Ctx(ctx)
	start := time.Now()
	deadline := start.Add(timeout)

	for tick := 1; ; tick++ {
		metricTicks.Inc()
		value, err := c.Fn(ctx, s)
		if err != nil {
			recordWait(outcomeFailed, start)
			logger.Debug().Err(err).Int("tick", tick).Str("condition", c.Description).Msg("condition failed")
			return nil, err
		}
		if Truthy(value) {
			recordWait(outcomeSatisfied, start)
			logger.Debug().Int("tick", tick).Str("condition", c.Description).Msg("condition satisfied")
			return value, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if c.Negative {
				recordWait(outcomeHeld, start)
				logger.Debug().Int("tick", tick).Str("condition", c.Description).Msg("negative condition held")
				return nil, nil
			}
			recordWait(outcomeTimedOut, start)
			elapsed := time.Since(start)
			logger.Info().Dur("elapsed", elapsed).Int("ticks", tick).Str("condition", c.Description).Msg("wait timed out")
			return nil, &selene.TimeoutErr{Message: message, Elapsed: elapsed}
		}

		delay := interval
		if remaining < delay {
			delay = remaining
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			recordWait(outcomeCancelled, start)
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
