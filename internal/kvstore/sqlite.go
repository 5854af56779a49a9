package kvstore

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const createItemsTable = `
CREATE TABLE IF NOT EXISTS items (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLiteStore implements Store on a SQLite database.
// All rows are loaded into memory on open; reads never touch the database.
// Writes reach the database before the cache, so a failed write leaves the
// cache unchanged.
type SQLiteStore struct {
	mu    sync.Mutex
	sqlDB *sql.DB
	cache *MemoryStore
	now   func() time.Time
}

// OpenSQLiteStore opens (creating if needed) a SQLite store at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" coherent.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(createItemsTable); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure items table: %w", err)
	}

	store := &SQLiteStore{
		sqlDB: sqlDB,
		cache: NewMemoryStore(),
		now:   time.Now,
	}

	if err := store.loadCache(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return store, nil
}

// loadCache reads every row into the cache.
func (s *SQLiteStore) loadCache() error {
	rows, err := s.sqlDB.Query(`SELECT key, value FROM items`)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		entries[key] = value
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate items: %w", err)
	}

	s.cache.load(entries)
	return nil
}

// Close closes the underlying SQLite database.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return err
}

// Len returns the number of stored keys.
func (s *SQLiteStore) Len() int {
	return s.cache.Len()
}

// Key returns the key at index.
func (s *SQLiteStore) Key(index int) (string, bool) {
	return s.cache.Key(index)
}

// Get returns the value stored under key.
func (s *SQLiteStore) Get(key string) (string, bool) {
	return s.cache.Get(key)
}

// Set upserts value under key.
func (s *SQLiteStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB == nil {
		return ErrClosed
	}

	_, err := s.sqlDB.Exec(`
INSERT INTO items (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("put item %q: %w", key, err)
	}

	return s.cache.Set(key, value)
}

// Remove deletes key.
func (s *SQLiteStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB == nil {
		return ErrClosed
	}

	if _, err := s.sqlDB.Exec(`DELETE FROM items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete item %q: %w", key, err)
	}

	return s.cache.Remove(key)
}

// Clear deletes every row.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB == nil {
		return ErrClosed
	}

	if _, err := s.sqlDB.Exec(`DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}

	return s.cache.Clear()
}
