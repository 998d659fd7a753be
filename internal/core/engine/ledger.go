package engine

import (
	"context"
	"errors"
	"time"

	"github.com/linkscout/linkscout/internal/core"
)

// QuotaStore persists quota entries. Implemented by the libsql store.
type QuotaStore interface {
	SaveQuotaEntry(ctx context.Context, entry core.QuotaEntry) (core.QuotaEntry, error)
	CountQuotaEntriesSince(ctx context.Context, since time.Time, kind core.ActionKind) (int, error)
	LastQuotaEntrySince(ctx context.Context, since time.Time) (*time.Time, error)
}

// Ledger is the append-only record of actions taken. It stamps occurred_at
// itself; callers never supply timestamps. Persistence failures propagate
// verbatim, the ledger does not retry.
type Ledger struct {
	Store QuotaStore
	Clock func() time.Time
}

// Record appends one entry for the given action kind at now (UTC).
func (l *Ledger) Record(ctx context.Context, kind core.ActionKind) error {
	if l == nil || l.Store == nil {
		return errors.New("ledger is not initialized")
	}

	_, err := l.Store.SaveQuotaEntry(ctx, core.QuotaEntry{
		ActionKind: kind,
		OccurredAt: l.now(),
	})
	return err
}

// CountSince returns the number of entries at or after the given time,
// optionally restricted to one action kind. Pure read.
func (l *Ledger) CountSince(ctx context.Context, since time.Time, kind core.ActionKind) (int, error) {
	if l == nil || l.Store == nil {
		return 0, errors.New("ledger is not initialized")
	}
	return l.Store.CountQuotaEntriesSince(ctx, since, kind)
}

// MostRecentSince returns the latest occurred_at among entries at or after
// the given time, or nil when none exist.
func (l *Ledger) MostRecentSince(ctx context.Context, since time.Time) (*time.Time, error) {
	if l == nil || l.Store == nil {
		return nil, errors.New("ledger is not initialized")
	}
	return l.Store.LastQuotaEntrySince(ctx, since)
}

func (l *Ledger) now() time.Time {
	if l != nil && l.Clock != nil {
		return l.Clock().UTC()
	}
	return time.Now().UTC()
}
