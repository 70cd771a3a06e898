package timer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/metrics"
	"go.uber.org/multierr"
)

// SweepResult summarises one sweep pass.
type SweepResult struct {
	Checked   int   // Records listed at the start of the pass
	Expired   int   // Records switched off and removed by this pass
	Satisfied int   // Lapsed records already removed by someone else
	Skipped   int   // Lapsed records extended before they could be removed
	Failed    int   // Records whose removal failed
	Err       error // Aggregate of every failure in the pass
}

// Sweep expires every timer that has lapsed at the current time.
func (e *Engine) Sweep(ctx context.Context) SweepResult {
	return e.SweepAt(ctx, e.now())
}

// SweepAt expires every timer with expired_at <= now. All records are
// judged against the same instant. Each lapsed lamp is switched off before
// its record is deleted. Failures are collected per record and never stop
// the pass.
func (e *Engine) SweepAt(ctx context.Context, now time.Time) SweepResult {
	var res SweepResult

	timers, err := e.store.List(ctx)
	if err != nil {
		res.Err = ioFailure("list timers", err)
		log.Error().Err(err).Msg("Sweep could not list timers")
		metrics.Incr("sweep.failures")
		return res
	}

	res.Checked = len(timers)
	metrics.Gauge("timers.active", float64(len(timers)))

	for _, t := range timers {
		if !t.Expired(now) {
			continue
		}
		if ctx.Err() != nil {
			res.Err = multierr.Append(res.Err, ctx.Err())
			break
		}

		if err := e.expire(ctx, t, now, &res); err != nil {
			res.Failed++
			res.Err = multierr.Append(res.Err, err)
			log.Error().
				Err(err).
				Int("number", t.Number).
				Str("id", t.ID.String()).
				Msg("Failed to expire timer")
		}
	}

	if res.Failed > 0 {
		metrics.Count("sweep.failures", int64(res.Failed))
	}

	log.Debug().
		Int("checked", res.Checked).
		Int("expired", res.Expired).
		Int("satisfied", res.Satisfied).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("Sweep finished")

	return res
}

// expire re-reads the record under its lamp lock, then switches the lamp
// off and removes the record.
func (e *Engine) expire(ctx context.Context, t lamp.Timer, now time.Time, res *SweepResult) error {
	unlock := e.lock(t.Number)
	defer unlock()

	current, err := e.store.List(ctx)
	if err != nil {
		return ioFailure("list timers", err)
	}

	fresh, ok := findByID(current, t.ID)
	if !ok {
		res.Satisfied++
		return nil
	}
	if !fresh.Expired(now) {
		res.Skipped++
		log.Debug().
			Int("number", fresh.Number).
			Time("expires_at", fresh.ExpiresAt()).
			Msg("Timer extended during sweep, leaving it")
		return nil
	}

	log.Info().
		Int("number", fresh.Number).
		Str("id", fresh.ID.String()).
		Time("expired_at", fresh.ExpiresAt()).
		Msg("Timer expired")

	e.publish(ctx, lamp.PowerOff(fresh.Number))

	if err := e.store.Delete(ctx, fresh.ID); err != nil {
		if errors.Is(err, lamp.ErrNotFound) {
			res.Satisfied++
			return nil
		}
		return ioFailure(fmt.Sprintf("delete expired timer %s", fresh.ID), err)
	}

	res.Expired++
	metrics.Incr("timer.expired")
	return nil
}
