// Package ledger is the fact ledger store (component B): persistence for
// subjects, facts, supersessions, and retractions, plus the materialisation
// of current-state views over them. See pkg/fact for the data model this
// package stores.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no cgo
)

// SQLiteStore is the SQLite-backed ledger store. Its backing connection is
// owned and serialised internally — handlers hold a shared reference to one
// SQLiteStore and never mutate it after construction, per spec §5.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	clock  Clock
	closed bool
}

// Option configures a SQLiteStore at construction time.
type Option func(*SQLiteStore)

// WithClock overrides the store's clock, for deterministic tests.
func WithClock(c Clock) Option {
	return func(s *SQLiteStore) { s.clock = c }
}

// Open creates (or reuses) a SQLite database at path and ensures its schema
// exists. Connection tuning mirrors the teacher's store_init.go: WAL mode
// for concurrency, a busy timeout instead of failing immediately on lock
// contention, and a small connection pool since the store serialises
// its own writes anyway.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrapError("open", fmt.Errorf("open database: %w", err))
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, clock: SystemClock()}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, wrapError("open", fmt.Errorf("create schema: %w", err))
	}

	return s, nil
}

// Close releases the store's database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// ErrStoreClosed is returned when a method is called after Close.
var ErrStoreClosed = fmt.Errorf("ledger: store is closed")

func (s *SQLiteStore) checkOpen() error {
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}
