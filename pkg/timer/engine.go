// Package timer owns the lifecycle of lamp timers: starting, extending,
// stopping and resetting them, and sweeping lapsed ones off.
//
// The engine keeps no copy of the record set. Every operation re-lists
// from the store, and all operations touching one lamp number run under
// that number's lock.
package timer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/metrics"
)

// Engine coordinates the record store and the publisher.
type Engine struct {
	store     lamp.Store
	publisher lamp.Publisher
	now       func() time.Time

	// Reset holds resetMu exclusively; per-lamp operations hold it shared.
	resetMu sync.RWMutex
	locksMu sync.Mutex
	locks   map[int]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine over the given store and publisher.
func NewEngine(store lamp.Store, publisher lamp.Publisher, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		publisher: publisher,
		now:       time.Now,
		locks:     make(map[int]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Publisher returns the publisher the engine sends commands through.
func (e *Engine) Publisher() lamp.Publisher {
	return e.publisher
}

// List returns every active timer in store order.
func (e *Engine) List(ctx context.Context) ([]lamp.Timer, error) {
	timers, err := e.store.List(ctx)
	if err != nil {
		return nil, ioFailure("list timers", err)
	}
	if timers == nil {
		timers = []lamp.Timer{}
	}
	return timers, nil
}

// Get returns the active timer for a lamp.
func (e *Engine) Get(ctx context.Context, number int) (lamp.Timer, error) {
	if !lamp.IsValidNumber(number) {
		return lamp.Timer{}, invalidNumber(number)
	}

	timers, err := e.store.List(ctx)
	if err != nil {
		return lamp.Timer{}, ioFailure("list timers", err)
	}

	t, ok := findByNumber(timers, number)
	if !ok {
		return lamp.Timer{}, noTimer(number)
	}
	return t, nil
}

// StartOrExtend arms a timer for addMinutes, or adds addMinutes to the
// existing timer's expiry. Extension compounds on the stored expiry even
// when it has already lapsed but not yet been swept. The returned bool is
// true when a new timer was created.
func (e *Engine) StartOrExtend(ctx context.Context, number, addMinutes int) (lamp.Timer, bool, error) {
	if !lamp.IsValidNumber(number) {
		return lamp.Timer{}, false, invalidNumber(number)
	}
	if addMinutes <= 0 || addMinutes > lamp.MaxMinutes {
		return lamp.Timer{}, false, fmt.Errorf("%w: duration must be between 1 and %d minutes, got %d",
			lamp.ErrInvalidArgument, lamp.MaxMinutes, addMinutes)
	}

	unlock := e.lock(number)
	defer unlock()

	timers, err := e.store.List(ctx)
	if err != nil {
		return lamp.Timer{}, false, ioFailure("list timers", err)
	}

	add := int64(addMinutes) * time.Minute.Milliseconds()

	var (
		result  lamp.Timer
		created bool
	)
	if existing, ok := findByNumber(timers, number); ok {
		if existing.ExpiredAt > math.MaxInt64-add {
			return lamp.Timer{}, false, fmt.Errorf("%w: lamp %d expiry cannot be extended further",
				lamp.ErrInvalidArgument, number)
		}
		existing.ExpiredAt += add
		result, err = e.store.Update(ctx, existing)
		if err != nil {
			return lamp.Timer{}, false, ioFailure("extend timer", err)
		}
		metrics.Incr("timer.extended")
		log.Info().
			Int("number", number).
			Int("add_minutes", addMinutes).
			Time("expires_at", result.ExpiresAt()).
			Msg("Timer extended")
	} else {
		startAt := e.now().UnixMilli()
		result, err = e.store.Create(ctx, lamp.Timer{
			Number:    number,
			StartAt:   startAt,
			ExpiredAt: startAt + add,
		})
		if err != nil {
			return lamp.Timer{}, false, ioFailure("create timer", err)
		}
		created = true
		metrics.Incr("timer.started")
		log.Info().
			Int("number", number).
			Int("minutes", addMinutes).
			Str("id", result.ID.String()).
			Msg("Timer started")
	}

	e.publish(ctx, lamp.PowerOn(number))

	return result, created, nil
}

// Stop cancels a lamp's timer and switches the lamp off. The power-off is
// only sent once the record is gone.
func (e *Engine) Stop(ctx context.Context, number int) (lamp.ID, error) {
	if !lamp.IsValidNumber(number) {
		return "", invalidNumber(number)
	}

	unlock := e.lock(number)
	defer unlock()

	timers, err := e.store.List(ctx)
	if err != nil {
		return "", ioFailure("list timers", err)
	}

	existing, ok := findByNumber(timers, number)
	if !ok {
		return "", noTimer(number)
	}

	if err := e.store.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, lamp.ErrNotFound) {
			return "", noTimer(number)
		}
		return "", ioFailure("delete timer", err)
	}

	metrics.Incr("timer.stopped")
	log.Info().Int("number", number).Str("id", existing.ID.String()).Msg("Timer stopped")

	e.publish(ctx, lamp.PowerOff(number))

	return existing.ID, nil
}

// Reset removes every timer and broadcasts a single power-off to all
// lamps. A partial failure is returned as one aggregate error; the
// broadcast still goes out if anything was removed.
func (e *Engine) Reset(ctx context.Context) (int, error) {
	e.resetMu.Lock()
	defer e.resetMu.Unlock()

	removed, err := e.store.DeleteAll(ctx)
	if err == nil || removed > 0 {
		e.publish(ctx, lamp.PowerOff(lamp.AllLamps))
	}
	metrics.Count("timer.reset", int64(removed))

	if err != nil {
		log.Error().Err(err).Int("removed", removed).Msg("Reset partially failed")
		return removed, ioFailure("reset timers", err)
	}

	log.Info().Int("removed", removed).Msg("All timers reset")
	return removed, nil
}

// Switch sends a direct power command without touching timers. Number 0
// addresses every lamp. Unlike timer operations the publish error is
// returned, since the command is the whole request.
func (e *Engine) Switch(ctx context.Context, number int, on bool) error {
	if number != lamp.AllLamps && !lamp.IsValidNumber(number) {
		return invalidNumber(number)
	}

	cmd := lamp.Command{Number: number, Status: on}
	if err := e.publisher.Publish(ctx, cmd); err != nil {
		return ioFailure("publish command", err)
	}

	log.Info().Int("number", number).Bool("status", on).Msg("Lamp switched")
	return nil
}

// publish is fire-and-forget: failures are logged and never undo a write.
func (e *Engine) publish(ctx context.Context, cmd lamp.Command) {
	if err := e.publisher.Publish(ctx, cmd); err != nil {
		log.Warn().
			Err(err).
			Int("number", cmd.Number).
			Bool("status", cmd.Status).
			Msg("Failed to publish command")
	}
}

// lock serializes operations on one lamp number and returns the unlock func.
func (e *Engine) lock(number int) func() {
	e.resetMu.RLock()

	e.locksMu.Lock()
	m, ok := e.locks[number]
	if !ok {
		m = &sync.Mutex{}
		e.locks[number] = m
	}
	e.locksMu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		e.resetMu.RUnlock()
	}
}

func findByNumber(timers []lamp.Timer, number int) (lamp.Timer, bool) {
	for _, t := range timers {
		if t.Number == number {
			return t, true
		}
	}
	return lamp.Timer{}, false
}

func findByID(timers []lamp.Timer, id lamp.ID) (lamp.Timer, bool) {
	for _, t := range timers {
		if t.ID == id {
			return t, true
		}
	}
	return lamp.Timer{}, false
}

func invalidNumber(number int) error {
	return fmt.Errorf("%w: lamp number %d", lamp.ErrInvalidArgument, number)
}

func noTimer(number int) error {
	return fmt.Errorf("%w: lamp %d has no active timer", lamp.ErrNotFound, number)
}

func ioFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", lamp.ErrIOFailure, op, err)
}
