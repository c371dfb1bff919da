package bookmarks

import (
	"context"
	"sync"
	"time"
)

type managedStore struct {
	store    *Store
	lastUsed time.Time
}

// Manager hands out one Store per owner, loading it on first use. Degraded
// stores are not kept, so the next call reads storage again.
type Manager struct {
	storage Storage
	now     func() time.Time

	mu     sync.Mutex
	stores map[string]*managedStore
}

func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage, now: time.Now, stores: make(map[string]*managedStore)}
}

func (m *Manager) For(ctx context.Context, owner string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ms, ok := m.stores[owner]; ok && !ms.store.Degraded() {
		ms.lastUsed = m.now()
		return ms.store
	}
	s := Open(ctx, m.storage, owner)
	if s.Degraded() {
		delete(m.stores, owner)
		return s
	}
	m.stores[owner] = &managedStore{store: s, lastUsed: m.now()}
	return s
}

// Forget drops the cached store so the next For reloads from storage.
func (m *Manager) Forget(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, owner)
}

// Prune drops stores not used since cutoff and returns how many went.
func (m *Manager) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for owner, ms := range m.stores {
		if ms.lastUsed.Before(cutoff) {
			delete(m.stores, owner)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
