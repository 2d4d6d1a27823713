package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"itinerary-view-service/internal/platform/obs"
)

// SQLSegmentCache is a Postgres-backed cache for routed segment
// geometry, keyed by a directed coordinate pair.
type SQLSegmentCache struct {
	DB *sql.DB
}

func NewSQLSegmentCache(db *sql.DB) *SQLSegmentCache {
	return &SQLSegmentCache{DB: db}
}

// Fetch cached geometry for one directed pair.
func (s *SQLSegmentCache) Get(
	ctx context.Context,
	origin, destination string,
) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "segment.cache.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("segment cache: db is nil")
	}
	if origin == "" || destination == "" {
		return "", false, errors.New("get segment cache: origin and destination must be non-empty")
	}

	q := `
	SELECT geometry
	FROM segment_cache
	WHERE origin = $1
		AND destination = $2;
	`

	var geometry string
	err = s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&geometry)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get segment cache: query segment_cache table: %w", err)
	}

	return geometry, true, nil
}

// Store geometry for one directed pair, replacing any previous value.
func (s *SQLSegmentCache) Put(ctx context.Context, origin, destination, geometry string) error {
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
	INSERT INTO segment_cache (origin, destination, geometry)
	VALUES ($1, $2, $3)
	ON CONFLICT (origin, destination) DO UPDATE
	SET geometry = EXCLUDED.geometry;
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, geometry); err != nil {
		return fmt.Errorf("insert segment cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
