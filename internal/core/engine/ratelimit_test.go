package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/core"
)

type memoryQuotaStore struct {
	entries []core.QuotaEntry
	nextID  int64
}

func (m *memoryQuotaStore) SaveQuotaEntry(ctx context.Context, entry core.QuotaEntry) (core.QuotaEntry, error) {
	m.nextID++
	entry.ID = m.nextID
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *memoryQuotaStore) CountQuotaEntriesSince(ctx context.Context, since time.Time, kind core.ActionKind) (int, error) {
	count := 0
	for _, entry := range m.entries {
		if entry.OccurredAt.Before(since) {
			continue
		}
		if kind != "" && entry.ActionKind != kind {
			continue
		}
		count++
	}
	return count, nil
}

func (m *memoryQuotaStore) LastQuotaEntrySince(ctx context.Context, since time.Time) (*time.Time, error) {
	var last *time.Time
	for _, entry := range m.entries {
		if entry.OccurredAt.Before(since) {
			continue
		}
		at := entry.OccurredAt
		if last == nil || at.After(*last) {
			last = &at
		}
	}
	return last, nil
}

func newTestLimiter(store *memoryQuotaStore, clock *time.Time) *RateLimiter {
	clockFn := func() time.Time { return *clock }
	return &RateLimiter{
		Ledger: &Ledger{Store: store, Clock: clockFn},
		Config: config.RateLimitConfig{
			MaxActionsPerDay: 3,
			MinDelay:         10 * time.Second,
			MaxDelay:         20 * time.Second,
		},
		Clock: clockFn,
		Sleep: func(ctx context.Context, d time.Duration) error {
			*clock = clock.Add(d)
			return nil
		},
	}
}

func TestRateLimiterDailyCap(t *testing.T) {
	ctx := context.Background()
	store := &memoryQuotaStore{}
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(store, &clock)

	for i := 0; i < 3; i++ {
		clock = clock.Add(time.Minute)
		require.NoError(t, limiter.CheckAndConsume(ctx, core.ActionSearch))
	}

	remaining, err := limiter.RemainingToday(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)

	err = limiter.CheckAndConsume(ctx, core.ActionSearch)
	var quotaErr *core.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	require.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), quotaErr.ResetAt)

	// The failed attempt must not have been recorded.
	require.Len(t, store.entries, 3)
}

func TestRateLimiterResetsAtMidnightUTC(t *testing.T) {
	ctx := context.Background()
	store := &memoryQuotaStore{}
	clock := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	limiter := newTestLimiter(store, &clock)

	for i := 0; i < 3; i++ {
		clock = clock.Add(time.Minute)
		require.NoError(t, limiter.CheckAndConsume(ctx, core.ActionSearch))
	}

	ok, err := limiter.CanPerform(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// Crossing midnight restores the full quota and clears the spacing
	// requirement from yesterday's final action.
	clock = time.Date(2025, 3, 11, 0, 0, 1, 0, time.UTC)

	remaining, err := limiter.RemainingToday(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, remaining)

	wait, err := limiter.SecondsUntilNextAllowed(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, wait)
}

func TestRateLimiterRemainingNeverNegative(t *testing.T) {
	ctx := context.Background()
	store := &memoryQuotaStore{}
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(store, &clock)

	// Five entries against a cap of three, as a concurrent writer or a
	// lowered cap could leave behind.
	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Ledger.Record(ctx, core.ActionSearch))
	}

	remaining, err := limiter.RemainingToday(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)
}

func TestSecondsUntilNextAllowed(t *testing.T) {
	ctx := context.Background()
	store := &memoryQuotaStore{}
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(store, &clock)

	require.NoError(t, limiter.Ledger.Record(ctx, core.ActionSearch))

	t.Run("within spacing interval", func(t *testing.T) {
		clock = clock.Add(3 * time.Second)
		wait, err := limiter.SecondsUntilNextAllowed(ctx)
		require.NoError(t, err)
		require.Equal(t, 7, wait)
	})

	t.Run("interval elapsed", func(t *testing.T) {
		clock = clock.Add(12 * time.Second)
		wait, err := limiter.SecondsUntilNextAllowed(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, wait)
	})

	t.Run("no actions today", func(t *testing.T) {
		store.entries = nil
		wait, err := limiter.SecondsUntilNextAllowed(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, wait)
	})
}

func TestJitteredDelayBounds(t *testing.T) {
	limiter := &RateLimiter{
		Config: config.RateLimitConfig{
			MinDelay: 10 * time.Second,
			MaxDelay: 20 * time.Second,
		},
	}

	for i := 0; i < 1000; i++ {
		delay := limiter.JitteredDelay()
		require.GreaterOrEqual(t, delay, 10*time.Second)
		require.LessOrEqual(t, delay, 20*time.Second)
	}
}

func TestJitteredDelayDegenerateRange(t *testing.T) {
	limiter := &RateLimiter{
		Config: config.RateLimitConfig{
			MinDelay: 10 * time.Second,
			MaxDelay: 10 * time.Second,
		},
	}
	require.Equal(t, 10*time.Second, limiter.JitteredDelay())
}

func TestCheckAndConsumeWaitsBeforeRecording(t *testing.T) {
	ctx := context.Background()
	store := &memoryQuotaStore{}
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var slept []time.Duration
	limiter := newTestLimiter(store, &clock)
	limiter.Sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		clock = clock.Add(d)
		return nil
	}

	require.NoError(t, limiter.CheckAndConsume(ctx, core.ActionSearch))
	require.Empty(t, slept)

	clock = clock.Add(4 * time.Second)
	require.NoError(t, limiter.CheckAndConsume(ctx, core.ActionSearch))

	// The second action waited out the remaining six seconds and was
	// stamped after the wait, keeping ledger timestamps spaced.
	require.Equal(t, []time.Duration{6 * time.Second}, slept)
	require.Len(t, store.entries, 2)
	gap := store.entries[1].OccurredAt.Sub(store.entries[0].OccurredAt)
	require.GreaterOrEqual(t, gap, 10*time.Second)
}

func TestCheckAndConsumeCancelledDuringWait(t *testing.T) {
	store := &memoryQuotaStore{}
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(store, &clock)
	limiter.Sleep = nil

	ctx := context.Background()
	require.NoError(t, limiter.CheckAndConsume(ctx, core.ActionSearch))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := limiter.CheckAndConsume(cancelled, core.ActionSearch)
	require.ErrorIs(t, err, context.Canceled)

	// A cancelled wait must not consume quota.
	require.Len(t, store.entries, 1)
}
