package store

import (
	"context"
	"sync"
)

// MemoryStore keeps items in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ LocalStorage = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{items: map[string]string{}}
}

func (m *MemoryStore) GetItem(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
