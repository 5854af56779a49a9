// Package kvstore defines the flat key-value backing store that scoped
// storage is layered on, plus the implementations scopekv ships.
//
// A Store holds string values under string keys with no ordering guarantee
// and no transactions. Keys are enumerable by index so callers can scan the
// whole store; an index is only meaningful until the next mutation.
//
// Implementations:
//   - MemoryStore: process-local map, used when nothing durable is available
//   - FileStore: a single JSON object file rewritten atomically on change
//   - SQLiteStore: a SQLite table with an in-memory read cache
package kvstore

import (
	"errors"
	"fmt"

	"github.com/danieljhkim/scopekv/internal/fsops"
)

// Store is the flat key-value capability consumed by the storage layer.
type Store interface {
	// Len returns the number of keys currently stored.
	Len() int

	// Key returns the key at index, or false when index is outside [0, Len()).
	Key(index int) (string, bool)

	// Get returns the value stored under key.
	Get(key string) (string, bool)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Clear deletes every key.
	Clear() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

var (
	// ErrClosed indicates an operation on a store that has been closed.
	ErrClosed = errors.New("store is closed")

	// ErrUnknownBackend indicates an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown backend")
)

// Open opens a store for the named backend. path is ignored for the memory
// backend. The returned close function is always non-nil.
func Open(backend, path string, fs fsops.FS) (Store, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	case BackendJSON:
		store, err := OpenFileStore(fs, path)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case BackendSQLite:
		store, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Keys returns a snapshot of every key in s.
func Keys(s Store) []string {
	n := s.Len()
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if key, ok := s.Key(i); ok {
			keys = append(keys, key)
		}
	}
	return keys
}
