package lockstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hdelarosa/expediente-engine/internal/common"
)

// SQLiteStore is the shared-host implementation: several engine processes
// pointing at the same database file contend on one lock table.
type SQLiteStore struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
}

const lockSchema = `
CREATE TABLE IF NOT EXISTS analysis_lock (
	key        TEXT PRIMARY KEY,
	expires_at INTEGER NOT NULL
);`

// OpenSQLite opens (or creates) the lock database at path.
func OpenSQLite(path string, ttl time.Duration, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open lock store: %w", err)
	}
	if _, err := db.Exec(lockSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init lock store: %w", err)
	}
	return &SQLiteStore{db: db, ttl: ttl, logger: logger}, nil
}

func (s *SQLiteStore) Acquire(ctx context.Context, key string) (bool, error) {
	now := time.Now().Unix()
	exp := time.Now().Add(s.ttl).Unix()

	// Expired rows are fair game; the upsert only succeeds when the key is
	// absent or past its expiry.
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_lock (key, expires_at) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET expires_at = excluded.expires_at
		WHERE analysis_lock.expires_at <= ?`,
		key, exp, now)
	if err != nil {
		s.logger.Error("lockstore.sqlite.acquire_error", "key", key, "error", err)
		return false, common.WrapError(err, "acquire lock")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, common.WrapError(err, "acquire lock")
	}
	if n == 0 {
		s.logger.Debug("lockstore.sqlite.acquire_held", "key", key)
		return false, nil
	}
	s.logger.Debug("lockstore.sqlite.acquire_ok", "key", key, "ttl", s.ttl)
	return true, nil
}

func (s *SQLiteStore) Release(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM analysis_lock WHERE key = ?`, key); err != nil {
		s.logger.Error("lockstore.sqlite.release_error", "key", key, "error", err)
		return common.WrapError(err, "release lock")
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
