package surface

import (
	"context"
	"fmt"
	"sync"
)

// RenderLock serializes visibility mutations on one surface. There must
// be exactly one lock per surface.
type RenderLock struct {
	mu sync.Mutex
}

// Hold acquires the lock, applies mutate and runs body. The restore
// returned by mutate is run when body returns, fails or panics. It runs
// with a context detached from ctx's cancellation, so a cancelled job
// still leaves the page in its original state.
//
// If both body and restore fail, the body's error is returned and the
// restore error is logged.
func (l *RenderLock) Hold(ctx context.Context, mutate Mutation, body func(ctx context.Context) error) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	restore, err := mutate(ctx)
	if err != nil {
		if restore != nil {
			if rerr := restore(context.WithoutCancel(ctx)); rerr != nil {
				tracer().Errorf("restore after failed mutation: %v", rerr)
			}
		}
		return fmt.Errorf("mutating surface: %w", err)
	}
	defer func() {
		if restore == nil {
			return
		}
		rerr := restore(context.WithoutCancel(ctx))
		if rerr == nil {
			return
		}
		if err == nil {
			err = fmt.Errorf("restoring surface: %w", rerr)
		} else {
			tracer().Errorf("restoring surface: %v", rerr)
		}
	}()
	return body(ctx)
}
