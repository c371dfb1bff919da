package bookmarks

import (
	"context"
	"sync"
)

// MemoryStorage keeps values in process memory. Values are copied in and out.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]map[string][]byte)}
}

func (m *MemoryStorage) Get(_ context.Context, owner, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[owner][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStorage) Set(_ context.Context, owner, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[owner] == nil {
		m.data[owner] = make(map[string][]byte)
	}
	m.data[owner][key] = append([]byte(nil), value...)
	return nil
}
