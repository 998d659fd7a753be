package engine

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/core"
)

// RateLimiter enforces the daily action cap and minimum spacing between
// actions. It holds no state of its own: usage lives in the Ledger and the
// policy in the injected config, which is frozen for the process lifetime.
//
// Clock, Rand, and Sleep are injectable for tests; nil fields fall back to
// real time, math/rand, and a context-aware timer sleep.
type RateLimiter struct {
	Ledger *Ledger
	Config config.RateLimitConfig
	Clock  func() time.Time
	Rand   func() float64
	Sleep  func(ctx context.Context, d time.Duration) error
}

// ActionsToday counts actions recorded since midnight UTC, optionally
// restricted to one kind.
func (r *RateLimiter) ActionsToday(ctx context.Context, kind core.ActionKind) (int, error) {
	return r.Ledger.CountSince(ctx, r.todayStart(), kind)
}

// RemainingToday returns how many actions are still allowed today. The
// floor at zero covers ledgers that overshot the cap (concurrent writers,
// a lowered cap); the quota just reads as exhausted.
func (r *RateLimiter) RemainingToday(ctx context.Context) (int, error) {
	used, err := r.ActionsToday(ctx, "")
	if err != nil {
		return 0, err
	}
	remaining := r.Config.MaxActionsPerDay - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// CanPerform reports whether another action fits under today's cap.
func (r *RateLimiter) CanPerform(ctx context.Context) (bool, error) {
	used, err := r.ActionsToday(ctx, "")
	if err != nil {
		return false, err
	}
	return used < r.Config.MaxActionsPerDay, nil
}

// LastActionTime returns the most recent action timestamp since midnight
// UTC, or nil when none was recorded today.
func (r *RateLimiter) LastActionTime(ctx context.Context) (*time.Time, error) {
	return r.Ledger.MostRecentSince(ctx, r.todayStart())
}

// SecondsUntilNextAllowed returns how long to wait before the next action,
// in whole seconds. The lookback is scoped to since-midnight: an action
// late yesterday imposes no spacing on the first action of a new day.
func (r *RateLimiter) SecondsUntilNextAllowed(ctx context.Context) (int, error) {
	last, err := r.LastActionTime(ctx)
	if err != nil {
		return 0, err
	}
	if last == nil {
		return 0, nil
	}

	elapsed := r.now().Sub(*last).Seconds()
	remaining := r.Config.MinDelay.Seconds() - elapsed
	if remaining <= 0 {
		return 0, nil
	}
	return int(remaining), nil
}

// JitteredDelay draws a uniform delay from [MinDelay, MaxDelay],
// independent of any elapsed-time calculation.
func (r *RateLimiter) JitteredDelay() time.Duration {
	span := r.Config.MaxDelay - r.Config.MinDelay
	if span <= 0 {
		return r.Config.MinDelay
	}
	return r.Config.MinDelay + time.Duration(r.random()*float64(span))
}

// BlockUntilAllowed sleeps out the remaining spacing interval. This is the
// only blocking operation in the core; ctx cancellation aborts the wait.
func (r *RateLimiter) BlockUntilAllowed(ctx context.Context) error {
	wait, err := r.SecondsUntilNextAllowed(ctx)
	if err != nil {
		return err
	}
	if wait <= 0 {
		return nil
	}
	return r.sleep(ctx, time.Duration(wait)*time.Second)
}

// CheckAndConsume is the combined gate all callers go through: it fails
// with QuotaExceededError when the cap is reached, otherwise waits out the
// spacing interval and only then records the action, so timestamps in the
// ledger stay spaced even when the caller's remote call is slow.
func (r *RateLimiter) CheckAndConsume(ctx context.Context, kind core.ActionKind) error {
	ok, err := r.CanPerform(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return &core.QuotaExceededError{ResetAt: r.todayStart().Add(24 * time.Hour)}
	}

	if err := r.BlockUntilAllowed(ctx); err != nil {
		return err
	}
	return r.Ledger.Record(ctx, kind)
}

// ResetAt returns the next UTC midnight, when the daily quota resets.
func (r *RateLimiter) ResetAt() time.Time {
	return r.todayStart().Add(24 * time.Hour)
}

func (r *RateLimiter) todayStart() time.Time {
	now := r.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *RateLimiter) now() time.Time {
	if r != nil && r.Clock != nil {
		return r.Clock().UTC()
	}
	return time.Now().UTC()
}

func (r *RateLimiter) random() float64 {
	if r != nil && r.Rand != nil {
		return r.Rand()
	}
	return rand.Float64()
}

func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	if r != nil && r.Sleep != nil {
		return r.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
