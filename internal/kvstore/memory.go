package kvstore

import "sync"

// MemoryStore implements Store with an in-process map.
type MemoryStore struct {
	mu     sync.RWMutex
	keys   []string
	index  map[string]int
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index:  make(map[string]int),
		values: make(map[string]string),
	}
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}

// Key returns the key at index.
func (m *MemoryStore) Key(index int) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index >= len(m.keys) {
		return "", false
	}
	return m.keys[index], true
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok
}

// Set stores value under key.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[key]; !ok {
		m.index[key] = len(m.keys)
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return nil
}

// Remove deletes key. The last key moves into the freed slot.
func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[key]
	if !ok {
		return nil
	}
	last := len(m.keys) - 1
	if i != last {
		moved := m.keys[last]
		m.keys[i] = moved
		m.index[moved] = i
	}
	m.keys = m.keys[:last]
	delete(m.index, key)
	delete(m.values, key)
	return nil
}

// Clear deletes every key.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = nil
	m.index = make(map[string]int)
	m.values = make(map[string]string)
	return nil
}

// snapshot copies the current contents.
func (m *MemoryStore) snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// load replaces the contents with entries.
func (m *MemoryStore) load(entries map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = make([]string, 0, len(entries))
	m.index = make(map[string]int, len(entries))
	m.values = make(map[string]string, len(entries))
	for k, v := range entries {
		m.index[k] = len(m.keys)
		m.keys = append(m.keys, k)
		m.values[k] = v
	}
}
