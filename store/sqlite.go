package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// maxRetries is the maximum number of retries for transient database errors.
const maxRetries = 5

// retryBaseDelay is the base delay for exponential backoff.
const retryBaseDelay = 50 * time.Millisecond

// schemaVersion is the current kv schema version, tracked via PRAGMA
// user_version. Increment when adding migrations.
const schemaVersion = 1

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLiteMedium stores keys as rows of a kv table in a SQLite database.
type SQLiteMedium struct {
	db *sql.DB
}

// OpenSQLiteMedium opens or creates the database at path and ensures the
// kv schema is present.
func OpenSQLiteMedium(path string) (*SQLiteMedium, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	var db *sql.DB
	err := withRetryNoResult(func() error {
		var err error
		db, err = sql.Open("sqlite", path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}

		// Busy timeout first so the remaining PRAGMAs can wait out a
		// concurrent writer instead of failing immediately.
		if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
			_ = db.Close()
			return fmt.Errorf("set busy timeout: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return fmt.Errorf("enable foreign keys: %w", err)
		}
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return fmt.Errorf("enable WAL mode: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m := &SQLiteMedium{db: db}
	if err := m.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func (m *SQLiteMedium) migrate() error {
	var version int
	if err := m.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	if _, err := m.db.Exec(kvSchema); err != nil {
		return fmt.Errorf("create kv schema: %w", err)
	}
	if _, err := m.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

// Read returns the stored bytes for key, or ErrNotFound.
func (m *SQLiteMedium) Read(key string) ([]byte, error) {
	return withRetry(func() ([]byte, error) {
		var value []byte
		err := m.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return value, nil
	})
}

// Write upserts data under key.
func (m *SQLiteMedium) Write(key string, data []byte) error {
	return withRetryNoResult(func() error {
		_, err := m.db.Exec(`
			INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, data, sqlTime(time.Now()))
		return err
	})
}

// Close releases the underlying database handle.
func (m *SQLiteMedium) Close() error {
	return m.db.Close()
}

// sqlTime formats a time.Time as a SQLite-compatible UTC string so the
// column sorts and compares consistently.
func sqlTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// isRetryableError checks if an error is a transient SQLite error.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLITE_BUSY (5), SQLITE_LOCKED (6)
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "SQLITE_LOCKED")
}

// withRetry executes fn with exponential backoff on transient errors.
func withRetry[T any](fn func() (T, error)) (T, error) {
	var result T
	var err error
	delay := retryBaseDelay

	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err = fn()
		if err == nil || !isRetryableError(err) {
			return result, err
		}

		time.Sleep(delay)
		delay *= 2
		if delay > 2*time.Second {
			delay = 2 * time.Second
		}
	}

	return result, fmt.Errorf("failed after %d retries: %w", maxRetries, err)
}

func withRetryNoResult(fn func() error) error {
	_, err := withRetry(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
