package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/danieljhkim/scopekv/internal/fsops"
)

// FileStore implements Store as a single JSON object on disk.
// The file is read once when opened; every mutation rewrites it atomically.
// Reads are served from memory.
type FileStore struct {
	mu    sync.Mutex
	fs    fsops.FS
	path  string
	cache *MemoryStore
}

// OpenFileStore loads the JSON store at path. A missing file is an empty store.
func OpenFileStore(fs fsops.FS, path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	s := &FileStore{
		fs:    fs,
		path:  path,
		cache: NewMemoryStore(),
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	entries := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal store file: %w", err)
		}
	}
	s.cache.load(entries)

	return s, nil
}

// Len returns the number of stored keys.
func (s *FileStore) Len() int {
	return s.cache.Len()
}

// Key returns the key at index.
func (s *FileStore) Key(index int) (string, bool) {
	return s.cache.Key(index)
}

// Get returns the value stored under key.
func (s *FileStore) Get(key string) (string, bool) {
	return s.cache.Get(key)
}

// Set stores value under key and persists the file.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.cache.Get(key)
	_ = s.cache.Set(key, value)

	if err := s.persist(); err != nil {
		if existed {
			_ = s.cache.Set(key, previous)
		} else {
			_ = s.cache.Remove(key)
		}
		return err
	}
	return nil
}

// Remove deletes key and persists the file.
func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.cache.Get(key)
	if !existed {
		return nil
	}
	_ = s.cache.Remove(key)

	if err := s.persist(); err != nil {
		_ = s.cache.Set(key, previous)
		return err
	}
	return nil
}

// Clear deletes every key and persists the empty file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.cache.snapshot()
	_ = s.cache.Clear()

	if err := s.persist(); err != nil {
		s.cache.load(previous)
		return err
	}
	return nil
}

// persist writes the cache to disk. Callers hold s.mu.
func (s *FileStore) persist() error {
	data, err := json.MarshalIndent(s.cache.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	return nil
}
