/*
Package await implements bounded waiting for conditions on a rendering
surface.

Every wait in the pipeline is a poll with a time budget. A wait ends
either Ready or TimedOut; callers decide whether a timeout is fatal or
whether they proceed with best effort.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package await

import (
	"context"
	"errors"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.await'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.await")
}

// Outcome is the result of a bounded wait.
type Outcome uint8

// Outcomes of WithBudget.
const (
	Ready Outcome = iota + 1
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Ready:
		return "ready"
	case TimedOut:
		return "timed out"
	}
	return "unknown"
}

// Condition is polled until it reports true. The context it receives
// expires with the wait's budget.
type Condition func(ctx context.Context) (bool, error)

// WithBudget polls cond every interval until it is true or the budget is
// spent. The first poll happens immediately.
//
// A condition failing with a deadline error counts as TimedOut. Other
// condition errors end the wait and are returned. If the parent context is
// cancelled, its error is returned.
func WithBudget(ctx context.Context, budget, interval time.Duration, cond Condition) (Outcome, error) {
	wctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	if interval <= 0 {
		interval = budget / 10
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for polls := 1; ; polls++ {
		ok, err := cond(wctx)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				tracer().P("polls", polls).Debugf("condition hit its deadline")
				return TimedOut, nil
			}
			return 0, err
		}
		if ok {
			return Ready, nil
		}
		select {
		case <-wctx.Done():
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			tracer().P("polls", polls).Debugf("budget of %v spent", budget)
			return TimedOut, nil
		case <-ticker.C:
		}
	}
}

// Sleep pauses for d, returning early with the context's error if it is
// cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
