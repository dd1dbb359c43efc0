package await_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuishuai123/presenton/await"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestReadyAfterPolls(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.await")
	defer teardown()
	//
	calls := 0
	out, err := await.WithBudget(context.Background(), time.Second, 5*time.Millisecond,
		func(ctx context.Context) (bool, error) {
			calls++
			return calls == 3, nil
		})
	if err != nil || out != await.Ready || calls != 3 {
		t.Errorf("expected ready after 3 polls, have %v/%v/%d", out, err, calls)
	}
}

func TestTimedOut(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.await")
	defer teardown()
	//
	start := time.Now()
	out, err := await.WithBudget(context.Background(), 30*time.Millisecond, 5*time.Millisecond,
		func(ctx context.Context) (bool, error) { return false, nil })
	if err != nil || out != await.TimedOut {
		t.Errorf("expected timeout, have %v/%v", out, err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("wait did not respect its budget")
	}
}

func TestBlockingConditionTimesOut(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.await")
	defer teardown()
	//
	out, err := await.WithBudget(context.Background(), 20*time.Millisecond, time.Millisecond,
		func(ctx context.Context) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		})
	if err != nil || out != await.TimedOut {
		t.Errorf("expected blocked condition to time out, have %v/%v", out, err)
	}
}

func TestConditionErrorAndCancel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.await")
	defer teardown()
	//
	boom := errors.New("page crashed")
	_, err := await.WithBudget(context.Background(), time.Second, time.Millisecond,
		func(ctx context.Context) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected condition error, have %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = await.WithBudget(ctx, time.Second, time.Millisecond,
		func(ctx context.Context) (bool, error) { return false, nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, have %v", err)
	}
	if await.Sleep(ctx, time.Hour) == nil {
		t.Errorf("expected Sleep to return on cancelled context")
	}
}
