// Package jobs runs the service's recurring background work: cache
// refreshes and the inactive-device sweep.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Scheduler runs named jobs at fixed intervals on their own goroutines.
// Each job fires once immediately, then on every tick. Stop cancels the
// shared context and waits for in-flight runs to return.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Every schedules fn to run now and then once per interval until Stop.
// Runs of the same job never overlap.
func (s *Scheduler) Every(interval time.Duration, name string, fn func(ctx context.Context)) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		log.Info().Str("job", name).Dur("interval", interval).Msg("Scheduled background job")
		fn(s.ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				fn(s.ctx)
			}
		}
	}()
}

// Stop cancels all jobs and blocks until running ones finish.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
