// Package schedule drives the periodic expiry sweep.
package schedule

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/lampbridge/pkg/timer"
)

const (
	DefaultInterval = time.Minute
	DefaultRecheck  = 20 * time.Second
)

// Sweeper runs one expiry pass.
type Sweeper interface {
	Sweep(ctx context.Context) timer.SweepResult
}

// Scheduler runs a sweep at every wall-clock multiple of interval, plus
// a re-check pass recheck after each one. Passes never overlap.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	recheck  time.Duration
	now      func() time.Time
}

// New creates a scheduler. A recheck that is zero or not shorter than the
// interval disables the mid-interval pass.
func New(sweeper Sweeper, interval, recheck time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		recheck:  recheck,
		now:      time.Now,
	}
}

// Start runs the scheduler in a goroutine. The returned channel is closed
// once it has stopped after ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	return done
}

// Run blocks until ctx is cancelled. It sweeps once immediately so timers
// that lapsed while the process was down are switched off.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().
		Dur("interval", s.interval).
		Dur("recheck", s.recheck).
		Msg("Starting sweep scheduler")

	s.pass(ctx, "startup")

	for {
		if !sleep(ctx, s.untilNextTick()) {
			break
		}
		s.pass(ctx, "scheduled")

		if s.recheck > 0 && s.recheck < s.interval {
			if !sleep(ctx, s.recheck) {
				break
			}
			s.pass(ctx, "recheck")
		}
	}

	log.Info().Msg("Sweep scheduler stopped")
}

func (s *Scheduler) pass(ctx context.Context, trigger string) {
	res := s.sweeper.Sweep(ctx)

	event := log.Debug()
	if res.Expired > 0 {
		event = log.Info()
	}
	if res.Failed > 0 || res.Err != nil {
		event = log.Warn().Err(res.Err)
	}
	event.
		Str("trigger", trigger).
		Int("checked", res.Checked).
		Int("expired", res.Expired).
		Int("failed", res.Failed).
		Msg("Sweep pass")
}

// untilNextTick returns the wait until the next multiple of interval.
func (s *Scheduler) untilNextTick() time.Duration {
	now := s.now()
	return now.Truncate(s.interval).Add(s.interval).Sub(now)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
