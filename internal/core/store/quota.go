package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/linkscout/linkscout/internal/core"
)

// SaveQuotaEntry appends one quota entry and returns it with the
// store-assigned id. Entries are never updated or deleted.
func (s *Store) SaveQuotaEntry(ctx context.Context, entry core.QuotaEntry) (core.QuotaEntry, error) {
	if s == nil || s.DB == nil {
		return core.QuotaEntry{}, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if entry.ActionKind == "" {
		return core.QuotaEntry{}, errors.New("action kind is required")
	}

	result, err := s.DB.ExecContext(ctx, `
		INSERT INTO quota_entries (action_kind, occurred_at)
		VALUES (?, ?)
	`, string(entry.ActionKind), entry.OccurredAt.UTC().Unix())
	if err != nil {
		return core.QuotaEntry{}, fmt.Errorf("store quota entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return core.QuotaEntry{}, fmt.Errorf("store quota entry id: %w", err)
	}

	entry.ID = id
	entry.OccurredAt = entry.OccurredAt.UTC()
	return entry, nil
}

// CountQuotaEntriesSince returns the number of entries with occurred_at at
// or after the given time, optionally restricted to one action kind.
func (s *Store) CountQuotaEntriesSince(ctx context.Context, since time.Time, kind core.ActionKind) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	query := `SELECT COUNT(1) FROM quota_entries WHERE occurred_at >= ?`
	args := []any{since.UTC().Unix()}
	if kind != "" {
		query += ` AND action_kind = ?`
		args = append(args, string(kind))
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count quota entries: %w", err)
	}

	return count, nil
}

// LastQuotaEntrySince returns the latest occurred_at among entries at or
// after the given time, or nil when none exist.
func (s *Store) LastQuotaEntrySince(ctx context.Context, since time.Time) (*time.Time, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var occurredAt sql.NullInt64
	err := s.DB.QueryRowContext(ctx, `
		SELECT MAX(occurred_at) FROM quota_entries WHERE occurred_at >= ?
	`, since.UTC().Unix()).Scan(&occurredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch last quota entry: %w", err)
	}

	if !occurredAt.Valid {
		return nil, nil
	}

	value := time.Unix(occurredAt.Int64, 0).UTC()
	return &value, nil
}
