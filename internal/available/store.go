package available

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Entry is a cached availability answer
type Entry struct {
	Domain    string
	Available bool
	CheckedAt time.Time
	ExpiresAt time.Time
}

// Store caches availability answers until they expire. Only definitive
// answers are stored; provider errors are never cached.
type Store interface {
	Get(ctx context.Context, domainName string, now time.Time) (Entry, bool, error)
	Put(ctx context.Context, domainName string, available bool, now time.Time, ttl time.Duration) error
	Close() error
}

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemoryStore constructs an empty memory-backed store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get implements the Store interface.
func (s *MemoryStore) Get(_ context.Context, domainName string, now time.Time) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[domainName]
	if !ok {
		return Entry{}, false, nil
	}
	if !now.Before(e.ExpiresAt) {
		delete(s.entries, domainName)
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put implements the Store interface.
func (s *MemoryStore) Put(_ context.Context, domainName string, available bool, now time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[domainName] = Entry{
		Domain:    domainName,
		Available: available,
		CheckedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

// Close implements the Store interface.
func (s *MemoryStore) Close() error { return nil }

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS availability (
	domain     TEXT PRIMARY KEY,
	available  INTEGER NOT NULL,
	checked_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
)`

// purgeEvery is how many writes a SQLiteStore takes between purges.
const purgeEvery = 512

// SQLiteStore persists answers in a SQLite file so they survive restarts and
// can be shared by several processes on one host. Expired rows are deleted
// when the store is opened and every purgeEvery writes.
type SQLiteStore struct {
	db   *sql.DB
	puts atomic.Int64
}

// NewSQLiteStore opens (or creates) the cache database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	s := &SQLiteStore{db: db}
	s.purge(context.Background(), time.Now())
	return s, nil
}

// Get implements the Store interface.
func (s *SQLiteStore) Get(ctx context.Context, domainName string, now time.Time) (Entry, bool, error) {
	var (
		available          bool
		checkedAt, expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT available, checked_at, expires_at FROM availability WHERE domain = ? AND expires_at > ?`,
		domainName, now.UnixMilli(),
	).Scan(&available, &checkedAt, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return Entry{
		Domain:    domainName,
		Available: available,
		CheckedAt: time.UnixMilli(checkedAt),
		ExpiresAt: time.UnixMilli(expires),
	}, true, nil
}

// Put implements the Store interface.
func (s *SQLiteStore) Put(ctx context.Context, domainName string, available bool, now time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO availability (domain, available, checked_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(domain) DO UPDATE SET available = excluded.available,
		 checked_at = excluded.checked_at, expires_at = excluded.expires_at`,
		domainName, available, now.UnixMilli(), now.Add(ttl).UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if s.puts.Add(1)%purgeEvery == 0 {
		s.purge(ctx, now)
	}
	return nil
}

// Purge deletes expired entries and reports how many were removed.
func (s *SQLiteStore) Purge(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM availability WHERE expires_at <= ?`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) purge(ctx context.Context, now time.Time) {
	n, err := s.Purge(ctx, now)
	if err != nil {
		log.Warn().Err(err).Str("operation", "cache_purge").Msg("Availability cache purge failed")
		return
	}
	log.Debug().Str("operation", "cache_purge").Int64("removed", n).Msg("Expired availability entries removed")
}

// Close implements the Store interface.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
