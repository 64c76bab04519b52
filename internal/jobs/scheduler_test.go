package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var runs atomic.Int64
	s.Every(10*time.Millisecond, "counter", func(ctx context.Context) {
		runs.Add(1)
	})

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if got := runs.Load(); got < 3 {
		t.Errorf("Job ran %d times, want at least 3", got)
	}
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	s := NewScheduler()

	cancelled := make(chan struct{})
	s.Every(time.Hour, "blocker", func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	})

	// The first run is blocking on the context; Stop must release it
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("Job context was not cancelled by Stop")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after jobs finished")
	}
}

func TestScheduler_StopWaitsForInFlightRun(t *testing.T) {
	s := NewScheduler()

	var finished atomic.Bool
	started := make(chan struct{})
	s.Every(time.Hour, "slow", func(ctx context.Context) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	<-started
	s.Stop()

	if !finished.Load() {
		t.Error("Stop returned before the in-flight run finished")
	}
}
