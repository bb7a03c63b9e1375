// Package history persists request/response exchanges to a local SQLite
// database so the CLI can list past calls.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded exchange.
type Entry struct {
	ID         int64
	Timestamp  time.Time
	Method     string
	URL        string
	StatusCode int
	DurationMs int64
	Size       int64 // response body size in bytes
}

// Store is a SQLite-backed history store.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default history database location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "restflow_history.db"
	}
	return filepath.Join(home, ".restflow", "history.db")
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exchanges (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp   TEXT    NOT NULL,
	method      TEXT    NOT NULL,
	url         TEXT    NOT NULL,
	status_code INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	size        INTEGER NOT NULL
);
`

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save records one exchange.
func (s *Store) Save(e Entry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO exchanges (timestamp, method, url, status_code, duration_ms, size)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(time.RFC3339Nano), e.Method, e.URL, e.StatusCode, e.DurationMs, e.Size,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, timestamp, method, url, status_code, duration_ms, size
		 FROM exchanges ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Method, &e.URL, &e.StatusCode, &e.DurationMs, &e.Size); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if parsed, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			e.Timestamp = parsed
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history row iteration error: %w", err)
	}

	return entries, nil
}
