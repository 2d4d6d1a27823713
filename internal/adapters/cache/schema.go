package cache

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the segment cache schema. The statement is portable
// across SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS segment_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		geometry TEXT NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create segment_cache table: %w", err)
	}

	return nil
}

// Flush drops all cached segment geometry.
func Flush(db *sql.DB) error {
	if db == nil {
		return errors.New("flush cache: DB is nil")
	}

	if _, err := db.Exec(`DELETE FROM segment_cache;`); err != nil {
		return fmt.Errorf("flush cache: delete rows: %w", err)
	}

	return nil
}
