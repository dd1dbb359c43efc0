package surface_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cuishuai123/presenton/surface"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type page struct {
	hidden   bool
	restores int
}

func (p *page) hide(ctx context.Context) (surface.Restore, error) {
	p.hidden = true
	return func(ctx context.Context) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.hidden = false
		p.restores++
		return nil
	}, nil
}

func TestHoldRestoresAfterBody(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.surface")
	defer teardown()
	//
	var lock surface.RenderLock
	p := &page{}
	err := lock.Hold(context.Background(), p.hide, func(ctx context.Context) error {
		if !p.hidden {
			t.Errorf("expected mutation to be applied during body")
		}
		return nil
	})
	if err != nil || p.hidden || p.restores != 1 {
		t.Errorf("expected clean restore, have err=%v hidden=%v restores=%d", err, p.hidden, p.restores)
	}
}

func TestHoldRestoresOnFailureAndCancel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.surface")
	defer teardown()
	//
	var lock surface.RenderLock
	p := &page{}
	boom := errors.New("capture failed")
	ctx, cancel := context.WithCancel(context.Background())
	err := lock.Hold(ctx, p.hide, func(ctx context.Context) error {
		cancel()
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected body error, have %v", err)
	}
	if p.hidden || p.restores != 1 {
		t.Errorf("expected restore despite cancelled job context")
	}
}

func TestHoldRestoresOnPanic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.surface")
	defer teardown()
	//
	var lock surface.RenderLock
	p := &page{}
	func() {
		defer func() { _ = recover() }()
		_ = lock.Hold(context.Background(), p.hide, func(ctx context.Context) error {
			panic("boom")
		})
	}()
	if p.hidden {
		t.Errorf("expected restore after panic")
	}
	// lock must be free again
	if err := lock.Hold(context.Background(), p.hide, func(context.Context) error { return nil }); err != nil {
		t.Errorf("expected lock to be released, have %v", err)
	}
}
