// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/fundkeeper/internal/feed"
	"github.com/mmynk/fundkeeper/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
// Live queries are driven by an in-process feed.Hub that is notified after
// every successful write.
type SQLiteStore struct {
	db     *sql.DB
	hub    *feed.Hub
	logger *slog.Logger

	clockMu       sync.Mutex
	lastTimestamp int64
}

// Option configures a SQLiteStore.
type Option func(*options)

type options struct {
	registry prometheus.Registerer
	logger   *slog.Logger
}

// WithMetrics registers the store's feed metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registry = reg }
}

// WithLogger sets the logger used by the store and its feed.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers and keeps per-connection pragmas.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Log timestamps continue from the newest persisted entry even if the
	// clock moved backwards since the last run.
	var last sql.NullInt64
	if err := db.QueryRow("SELECT MAX(timestamp) FROM logs").Scan(&last); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read last log timestamp: %w", err)
	}

	return &SQLiteStore{
		db:            db,
		hub:           feed.NewHub(o.registry, o.logger),
		logger:        o.logger,
		lastTimestamp: last.Int64,
	}, nil
}

// Close stops every live query and closes the database connection.
func (s *SQLiteStore) Close() error {
	s.hub.Close()
	return s.db.Close()
}

// nextTimestamp returns a server-assigned write time in unix nanoseconds
// that is strictly greater than the previous one handed out by this store.
func (s *SQLiteStore) nextTimestamp() int64 {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()

	ts := time.Now().UnixNano()
	if ts <= s.lastTimestamp {
		ts = s.lastTimestamp + 1
	}
	s.lastTimestamp = ts
	return ts
}

// checkAffected maps a write that touched no rows to storage.ErrNotFound.
func checkAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
