// Package history persists which jobs the operator has viewed, backed by a
// small SQLite database in the XDG state directory. The home panel surfaces
// the most recent entries as shortcuts back into deep folder hierarchies.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recently-viewed job.
type Entry struct {
	Name       string
	Path       string
	LastViewed time.Time
	Views      int
}

// Store provides read/write access to the history database. A nil *Store is
// valid and behaves as an empty, write-discarding history, so callers never
// need to branch on whether persistence is available.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	name        TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	last_viewed INTEGER NOT NULL,
	view_count  INTEGER NOT NULL DEFAULT 1
);
`

// Open creates or opens the history database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record upserts a visit for the named job, bumping its view count and
// last-viewed time.
func (s *Store) Record(name, path string) error {
	return s.recordAt(name, path, time.Now())
}

func (s *Store) recordAt(name, path string, at time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO visits (name, path, last_viewed, view_count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET
			path = excluded.path,
			last_viewed = excluded.last_viewed,
			view_count = view_count + 1
	`, name, path, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("recording visit for %s: %w", name, err)
	}
	return nil
}

// Recent returns up to n entries, most recently viewed first.
func (s *Store) Recent(n int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(`
		SELECT name, path, last_viewed, view_count
		FROM visits
		ORDER BY last_viewed DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var viewed int64
		if err := rows.Scan(&e.Name, &e.Path, &viewed, &e.Views); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.LastViewed = time.UnixMilli(viewed)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
