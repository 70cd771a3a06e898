package timer

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/lamp/lamptest"
)

var t0 = time.UnixMilli(1_700_000_000_000)

func minutes(n int) int64 {
	return int64(n) * time.Minute.Milliseconds()
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func newEngine(store *lamptest.Store) (*Engine, *lamptest.Publisher, *clock) {
	pub := lamptest.NewPublisher()
	clk := &clock{now: t0}
	return NewEngine(store, pub, WithClock(clk.Now)), pub, clk
}

func TestStartOrExtend_CreatesTimer(t *testing.T) {
	store := lamptest.NewStore()
	engine, pub, _ := newEngine(store)

	timer, created, err := engine.StartOrExtend(context.Background(), 3, 5)
	require.NoError(t, err)

	assert.True(t, created)
	assert.NotEmpty(t, timer.ID)
	assert.Equal(t, 3, timer.Number)
	assert.Equal(t, t0.UnixMilli(), timer.StartAt)
	assert.Equal(t, t0.UnixMilli()+minutes(5), timer.ExpiredAt)
	assert.Equal(t, []lamp.Command{lamp.PowerOn(3)}, pub.Commands())
	assert.Len(t, store.Records(), 1)
}

func TestStartOrExtend_ExtendCompoundsOnStoredExpiry(t *testing.T) {
	store := lamptest.NewStore(lamp.Timer{Number: 2, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + minutes(5)})
	engine, pub, clk := newEngine(store)
	clk.Set(t0.Add(time.Minute))

	timer, created, err := engine.StartOrExtend(context.Background(), 2, 10)
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, t0.UnixMilli(), timer.StartAt)
	assert.Equal(t, t0.UnixMilli()+minutes(15), timer.ExpiredAt)
	assert.Equal(t, []lamp.Command{lamp.PowerOn(2)}, pub.Commands())

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, t0.UnixMilli()+minutes(15), records[0].ExpiredAt)
}

func TestStartOrExtend_ExtendLapsedTimerUsesStoredExpiry(t *testing.T) {
	store := lamptest.NewStore(lamp.Timer{Number: 1, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + minutes(5)})
	engine, _, clk := newEngine(store)
	clk.Set(t0.Add(30 * time.Minute))

	timer, _, err := engine.StartOrExtend(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, t0.UnixMilli()+minutes(15), timer.ExpiredAt)
}

func TestStartOrExtend_RepeatedCallsDoNotDuplicate(t *testing.T) {
	store := lamptest.NewStore()
	engine, pub, _ := newEngine(store)
	ctx := context.Background()

	_, created, err := engine.StartOrExtend(ctx, 4, 5)
	require.NoError(t, err)
	assert.True(t, created)

	timer, created, err := engine.StartOrExtend(ctx, 4, 5)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Len(t, store.Records(), 1)
	assert.Equal(t, t0.UnixMilli()+minutes(10), timer.ExpiredAt)
	assert.Len(t, pub.Commands(), 2)
}

func TestStartOrExtend_RejectsInvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		number  int
		minutes int
	}{
		{"broadcast number", 0, 5},
		{"number above range", 5, 5},
		{"negative number", -1, 5},
		{"zero minutes", 1, 0},
		{"negative minutes", 1, -3},
		{"minutes above cap", 1, lamp.MaxMinutes + 1},
		{"minutes that overflow milliseconds", 1, math.MaxInt64 / 60000 / 2 * 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := lamptest.NewStore()
			store.OnList = func(int) { t.Error("store must not be touched") }
			engine, pub, _ := newEngine(store)

			_, _, err := engine.StartOrExtend(context.Background(), tt.number, tt.minutes)

			assert.ErrorIs(t, err, lamp.ErrInvalidArgument)
			assert.Empty(t, pub.Commands())
			assert.Empty(t, store.Records())
		})
	}
}

func TestStartOrExtend_MaxMinutesKeepsExpiryAfterStart(t *testing.T) {
	store := lamptest.NewStore()
	engine, _, _ := newEngine(store)

	timer, created, err := engine.StartOrExtend(context.Background(), 1, lamp.MaxMinutes)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, t0.UnixMilli()+minutes(lamp.MaxMinutes), timer.ExpiredAt)
	assert.GreaterOrEqual(t, timer.ExpiredAt, timer.StartAt)

	res := engine.SweepAt(context.Background(), t0)
	assert.Equal(t, 0, res.Expired)
	assert.Len(t, store.Records(), 1)
}

func TestStartOrExtend_ExtensionOverflowIsRejected(t *testing.T) {
	stored := lamp.Timer{Number: 2, StartAt: t0.UnixMilli(), ExpiredAt: math.MaxInt64 - minutes(1)}
	store := lamptest.NewStore(stored)
	engine, pub, _ := newEngine(store)

	_, _, err := engine.StartOrExtend(context.Background(), 2, 5)

	assert.ErrorIs(t, err, lamp.ErrInvalidArgument)
	require.Len(t, store.Records(), 1)
	assert.Equal(t, int64(math.MaxInt64)-minutes(1), store.Records()[0].ExpiredAt)
	assert.Empty(t, pub.Commands())
}

func TestStartOrExtend_PublishFailureKeepsWrite(t *testing.T) {
	store := lamptest.NewStore()
	engine, pub, _ := newEngine(store)
	pub.Err = errors.New("broker gone")

	timer, created, err := engine.StartOrExtend(context.Background(), 1, 5)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, timer.Number)
	assert.Len(t, store.Records(), 1)
}

func TestStartOrExtend_StoreFailures(t *testing.T) {
	seeded := lamp.Timer{Number: 2, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + minutes(5)}

	tests := []struct {
		name   string
		number int
		setup  func(*lamptest.Store)
	}{
		{"list fails", 1, func(s *lamptest.Store) { s.FailList = true }},
		{"create fails", 1, func(s *lamptest.Store) { s.FailCreate = true }},
		{"update fails", 2, func(s *lamptest.Store) { s.FailUpdate = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := lamptest.NewStore(seeded)
			tt.setup(store)
			engine, pub, _ := newEngine(store)

			_, _, err := engine.StartOrExtend(context.Background(), tt.number, 5)

			assert.ErrorIs(t, err, lamp.ErrIOFailure)
			assert.ErrorIs(t, err, lamptest.ErrInjected)
			assert.Empty(t, pub.Commands())
		})
	}
}

func TestStop_RemovesTimerAndPublishesOnce(t *testing.T) {
	store := lamptest.NewStore(
		lamp.Timer{Number: 1, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + minutes(5)},
		lamp.Timer{Number: 3, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + minutes(5)},
	)
	engine, pub, _ := newEngine(store)

	id, err := engine.Stop(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, lamp.ID("2"), id)
	assert.Equal(t, []lamp.Command{lamp.PowerOff(3)}, pub.Commands())
	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Number)
}

func TestStop_NoTimer(t *testing.T) {
	engine, pub, _ := newEngine(lamptest.NewStore())

	_, err := engine.Stop(context.Background(), 2)

	assert.ErrorIs(t, err, lamp.ErrNotFound)
	assert.Empty(t, pub.Commands())
}

func TestStop_InvalidNumber(t *testing.T) {
	engine, pub, _ := newEngine(lamptest.NewStore())

	_, err := engine.Stop(context.Background(), 9)

	assert.ErrorIs(t, err, lamp.ErrInvalidArgument)
	assert.Empty(t, pub.Commands())
}

func TestStop_DeleteFailureSkipsPublish(t *testing.T) {
	store := lamptest.NewStore(lamp.Timer{ID: "a", Number: 1, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + minutes(5)})
	store.FailDeleteIDs["a"] = true
	engine, pub, _ := newEngine(store)

	_, err := engine.Stop(context.Background(), 1)

	assert.ErrorIs(t, err, lamp.ErrIOFailure)
	assert.Empty(t, pub.Commands())
	assert.Len(t, store.Records(), 1)
}

func TestReset(t *testing.T) {
	tests := []struct {
		name    string
		records int
	}{
		{"no timers", 0},
		{"one timer", 1},
		{"all lamps", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seed []lamp.Timer
			for i := 1; i <= tt.records; i++ {
				seed = append(seed, lamp.Timer{Number: i, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + minutes(i)})
			}
			store := lamptest.NewStore(seed...)
			engine, pub, _ := newEngine(store)

			removed, err := engine.Reset(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.records, removed)
			assert.Empty(t, store.Records())
			assert.Equal(t, []lamp.Command{lamp.PowerOff(lamp.AllLamps)}, pub.Commands())
		})
	}
}

func TestReset_PartialFailure(t *testing.T) {
	store := lamptest.NewStore(
		lamp.Timer{ID: "a", Number: 1},
		lamp.Timer{ID: "b", Number: 2},
		lamp.Timer{ID: "c", Number: 3},
	)
	store.FailDeleteIDs["b"] = true
	engine, pub, _ := newEngine(store)

	removed, err := engine.Reset(context.Background())

	assert.ErrorIs(t, err, lamp.ErrIOFailure)
	assert.Equal(t, 2, removed)
	require.Len(t, store.Records(), 1)
	assert.Equal(t, lamp.ID("b"), store.Records()[0].ID)
	assert.Equal(t, []lamp.Command{lamp.PowerOff(lamp.AllLamps)}, pub.Commands())
}

func TestSwitch(t *testing.T) {
	engine, pub, _ := newEngine(lamptest.NewStore())
	ctx := context.Background()

	require.NoError(t, engine.Switch(ctx, 0, true))
	require.NoError(t, engine.Switch(ctx, 4, false))
	assert.ErrorIs(t, engine.Switch(ctx, 5, true), lamp.ErrInvalidArgument)

	assert.Equal(t, []lamp.Command{
		{Number: 0, Status: true},
		{Number: 4, Status: false},
	}, pub.Commands())

	pub.Err = errors.New("broker gone")
	assert.ErrorIs(t, engine.Switch(ctx, 1, true), lamp.ErrIOFailure)
}

func TestGetAndList(t *testing.T) {
	store := lamptest.NewStore(
		lamp.Timer{Number: 4, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + minutes(5)},
		lamp.Timer{Number: 2, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + minutes(7)},
	)
	engine, _, _ := newEngine(store)
	ctx := context.Background()

	timers, err := engine.List(ctx)
	require.NoError(t, err)
	require.Len(t, timers, 2)
	assert.Equal(t, 4, timers[0].Number)
	assert.Equal(t, 2, timers[1].Number)

	timer, err := engine.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, t0.UnixMilli()+minutes(7), timer.ExpiredAt)

	_, err = engine.Get(ctx, 1)
	assert.ErrorIs(t, err, lamp.ErrNotFound)

	_, err = engine.Get(ctx, 0)
	assert.ErrorIs(t, err, lamp.ErrInvalidArgument)
}

func TestList_EmptyStoreReturnsEmptySlice(t *testing.T) {
	engine, _, _ := newEngine(lamptest.NewStore())

	timers, err := engine.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, timers)
	assert.Empty(t, timers)
}

func TestList_StoreFailure(t *testing.T) {
	store := lamptest.NewStore()
	store.FailList = true
	engine, _, _ := newEngine(store)

	_, err := engine.List(context.Background())
	assert.ErrorIs(t, err, lamp.ErrIOFailure)
}
