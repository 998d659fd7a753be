package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linkscout/linkscout/internal/core"
)

const connectionColumns = `id, linkedin_urn_id, public_id, first_name, last_name,
	headline, location, current_company, current_title, profile_url,
	connection_degree, search_query, found_at`

// SaveConnection persists one connection record, assigning an id when the
// record has none, and returns the stored record.
func (s *Store) SaveConnection(ctx context.Context, record core.ConnectionRecord) (core.ConnectionRecord, error) {
	if s == nil || s.DB == nil {
		return core.ConnectionRecord{}, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.New().String()
	}
	record.FoundAt = record.FoundAt.UTC()

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO connections (`+connectionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.LinkedInURNID,
		record.PublicID,
		record.FirstName,
		record.LastName,
		nullString(record.Headline),
		nullString(record.Location),
		nullString(record.CurrentCompany),
		nullString(record.CurrentTitle),
		record.ProfileURL,
		record.ConnectionDegree,
		nullString(record.SearchQuery),
		record.FoundAt.Unix(),
	)
	if err != nil {
		return core.ConnectionRecord{}, fmt.Errorf("store connection: %w", err)
	}

	return record, nil
}

// ListConnections returns stored connection records, newest first.
func (s *Store) ListConnections(ctx context.Context, limit, offset int) ([]core.ConnectionRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+connectionColumns+`
		FROM connections
		ORDER BY found_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	return scanConnections(rows)
}

// AllConnections returns every stored record, newest first.
func (s *Store) AllConnections(ctx context.Context) ([]core.ConnectionRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+connectionColumns+`
		FROM connections
		ORDER BY found_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	return scanConnections(rows)
}

// ConnectionsByQuery returns stored records produced by one search query.
// A limit <= 0 means no limit.
func (s *Store) ConnectionsByQuery(ctx context.Context, query string, limit int) ([]core.ConnectionRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	stmt := `SELECT ` + connectionColumns + ` FROM connections WHERE search_query = ? ORDER BY found_at DESC, id`
	args := []any{query}
	if limit > 0 {
		stmt += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query connections: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	return scanConnections(rows)
}

// ConnectionByURN returns the stored record for a remote URN id, or nil
// when none exists.
func (s *Store) ConnectionByURN(ctx context.Context, urnID string) (*core.ConnectionRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+connectionColumns+`
		FROM connections
		WHERE linkedin_urn_id = ?
		LIMIT 1
	`, urnID)
	if err != nil {
		return nil, fmt.Errorf("fetch connection: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	records, err := scanConnections(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Stats aggregates stored-connection statistics for the status command.
func (s *Store) Stats(ctx context.Context) (*core.DatabaseStats, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	stats := &core.DatabaseStats{DegreeDistribution: make(map[int]int)}

	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM connections`).Scan(&stats.TotalConnections); err != nil {
		return nil, fmt.Errorf("count connections: %w", err)
	}

	if err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT current_company) FROM connections WHERE current_company IS NOT NULL
	`).Scan(&stats.UniqueCompanies); err != nil {
		return nil, fmt.Errorf("count companies: %w", err)
	}

	if err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT location) FROM connections WHERE location IS NOT NULL
	`).Scan(&stats.UniqueLocations); err != nil {
		return nil, fmt.Errorf("count locations: %w", err)
	}

	queryRows, err := s.DB.QueryContext(ctx, `
		SELECT DISTINCT search_query FROM connections WHERE search_query IS NOT NULL ORDER BY search_query
	`)
	if err != nil {
		return nil, fmt.Errorf("list search queries: %w", err)
	}
	defer queryRows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	for queryRows.Next() {
		var query string
		if err := queryRows.Scan(&query); err != nil {
			return nil, fmt.Errorf("scan search query: %w", err)
		}
		stats.SearchQueries = append(stats.SearchQueries, query)
	}
	if err := queryRows.Err(); err != nil {
		return nil, fmt.Errorf("list search queries: %w", err)
	}

	degreeRows, err := s.DB.QueryContext(ctx, `
		SELECT connection_degree, COUNT(1) FROM connections GROUP BY connection_degree
	`)
	if err != nil {
		return nil, fmt.Errorf("degree distribution: %w", err)
	}
	defer degreeRows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	for degreeRows.Next() {
		var degree, count int
		if err := degreeRows.Scan(&degree, &count); err != nil {
			return nil, fmt.Errorf("scan degree distribution: %w", err)
		}
		stats.DegreeDistribution[degree] = count
	}
	if err := degreeRows.Err(); err != nil {
		return nil, fmt.Errorf("degree distribution: %w", err)
	}

	return stats, nil
}

func scanConnections(rows *sql.Rows) ([]core.ConnectionRecord, error) {
	var records []core.ConnectionRecord
	for rows.Next() {
		var (
			record         core.ConnectionRecord
			headline       sql.NullString
			location       sql.NullString
			currentCompany sql.NullString
			currentTitle   sql.NullString
			searchQuery    sql.NullString
			foundAt        int64
		)
		if err := rows.Scan(
			&record.ID,
			&record.LinkedInURNID,
			&record.PublicID,
			&record.FirstName,
			&record.LastName,
			&headline,
			&location,
			&currentCompany,
			&currentTitle,
			&record.ProfileURL,
			&record.ConnectionDegree,
			&searchQuery,
			&foundAt,
		); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}

		record.Headline = headline.String
		record.Location = location.String
		record.CurrentCompany = currentCompany.String
		record.CurrentTitle = currentTitle.String
		record.SearchQuery = searchQuery.String
		record.FoundAt = time.Unix(foundAt, 0).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan connections: %w", err)
	}
	return records, nil
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
