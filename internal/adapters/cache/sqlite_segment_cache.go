package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLite backed cache for routed segment geometry. Keys are expected
// to be consistent (Coordinates.Key form) by the caller.
type SqliteSegmentCache struct {
	DB *sql.DB
}

func NewSqliteSegmentCache(db *sql.DB) *SqliteSegmentCache {
	return &SqliteSegmentCache{DB: db}
}

// Fetch cached geometry for one directed pair.
func (s *SqliteSegmentCache) Get(ctx context.Context, origin, destination string) (string, bool, error) {
	if s.DB == nil {
		return "", false, errors.New("segment cache: db is nil")
	}
	if origin == "" || destination == "" {
		return "", false, errors.New("get segment cache: origin and destination must be non-empty")
	}

	q := `
	SELECT geometry
	FROM segment_cache
	WHERE origin = ?
		AND destination = ?;
	`

	var geometry string
	err := s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&geometry)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get segment cache: query segment_cache table: %w", err)
	}

	return geometry, true, nil
}

// Store geometry for one directed pair, replacing any previous value.
func (s *SqliteSegmentCache) Put(ctx context.Context, origin, destination, geometry string) error {
	if s.DB == nil {
		return errors.New("segment cache: db is nil")
	}
	if origin == "" || destination == "" {
		return errors.New("insert segment cache: origin and destination must be non-empty")
	}
	if strings.TrimSpace(geometry) == "" {
		return errors.New("insert segment cache: empty geometry")
	}

	q := `
	INSERT OR REPLACE INTO segment_cache (origin, destination, geometry)
	VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, geometry); err != nil {
		return fmt.Errorf("insert segment cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
