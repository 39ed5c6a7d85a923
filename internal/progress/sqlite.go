package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"valentinequest/internal/logging"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS progress (
	session_key TEXT PRIMARY KEY,
	state       TEXT NOT NULL,
	updated_at  INTEGER NOT NULL
)`

// SQLiteStore keeps progress blobs in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create progress table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the blob stored for key.
func (s *SQLiteStore) Load(ctx context.Context, key string) (State, bool) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM progress WHERE session_key = ?`, key).Scan(&blob)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.Warn("Failed to load progress for session %s: %v", key, err)
		}
		return Default(), false
	}
	st, err := Decode([]byte(blob))
	if err != nil {
		logging.Warn("Discarding corrupted progress row for session %s: %v", key, err)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM progress WHERE session_key = ?`, key)
		return Default(), false
	}
	return st, true
}

// Save upserts st for key.
func (s *SQLiteStore) Save(ctx context.Context, key string, st State) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if err := st.Validate(); err != nil {
		return err
	}
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO progress (session_key, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_key) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Clear deletes the row for key.
func (s *SQLiteStore) Clear(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE session_key = ?`, key); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// Purge deletes rows not updated within maxAge.
func (s *SQLiteStore) Purge(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge).UTC().UnixMilli()
	res, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge progress: %w", err)
	}
	return int(n), nil
}
