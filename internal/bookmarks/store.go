// Package bookmarks keeps the schemes a client has saved. The whole list is
// stored under a single key and rewritten on every change.
package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/scheme-assist/backend/internal/catalog"
	"github.com/scheme-assist/backend/internal/metrics"
	"github.com/scheme-assist/backend/pkg/logger"
)

// StorageKey is the client-local key holding the encoded list.
const StorageKey = "bookmarkedSchemes"

// ErrUnavailable is returned by mutations while the persisted list cannot be
// read. Writing then would overwrite bookmarks that were never loaded.
var ErrUnavailable = errors.New("bookmark storage unavailable")

// Storage is client-local key/value persistence partitioned by owner.
type Storage interface {
	Get(ctx context.Context, owner, key string) ([]byte, bool, error)
	Set(ctx context.Context, owner, key string, value []byte) error
}

type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Eligibility string `json:"eligibility"`
	Benefits    string `json:"benefits"`
	Category    string `json:"category"`
}

func FromScheme(s catalog.Scheme) Item {
	return Item{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Eligibility: s.Eligibility,
		Benefits:    s.Benefits,
		Category:    s.Category,
	}
}

// Store is the bookmark set of one owner, ordered by insertion.
type Store struct {
	storage Storage
	owner   string

	mu    sync.RWMutex
	items []Item
	// unread is set while the persisted list could not be fetched.
	unread bool
}

// Open loads the owner's list. Anything unreadable starts an empty list. A
// storage failure also leaves the store degraded until a later read works.
func Open(ctx context.Context, storage Storage, owner string) *Store {
	s := &Store{storage: storage, owner: owner, items: []Item{}}
	if err := s.loadLocked(ctx); err != nil {
		logger.Warn("Failed to load bookmarks, starting empty",
			zap.String("owner", owner),
			zap.Error(err),
		)
	}
	return s
}

// loadLocked replaces the in-memory list with the persisted one. Corrupt data
// counts as an empty list; only a storage failure is returned.
func (s *Store) loadLocked(ctx context.Context) error {
	data, ok, err := s.storage.Get(ctx, s.owner, StorageKey)
	if err != nil {
		metrics.StorageErrors.WithLabelValues("get").Inc()
		s.unread = true
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		return errors.Join(ErrUnavailable, err)
	}
	s.unread = false
	s.items = []Item{}
	if !ok {
		return nil
	}

	items, err := decode(data)
	if err != nil {
		logger.Warn("Discarding corrupt bookmark data",
			zap.String("owner", s.owner),
			zap.Error(err),
		)
		return nil
	}
	s.items = items
	return nil
}

// Degraded reports whether the persisted list has not been read yet because
// storage failed.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// writableLocked retries the load of a degraded store before a mutation.
func (s *Store) writableLocked(ctx context.Context) error {
	if !s.unread {
		return nil
	}
	if err := s.loadLocked(ctx); err != nil {
		metrics.BookmarkOps.WithLabelValues("write", "unavailable").Inc()
		return err
	}
	return nil
}

func decode(data []byte) ([]Item, error) {
	var raw []Item
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}

	seen := make(map[int]bool, len(raw))
	items := make([]Item, 0, len(raw))
	for _, it := range raw {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		items = append(items, it)
	}
	return items, nil
}

// Add appends item unless its id is already saved. It reports whether the set
// changed. A failed write is returned but the in-memory set keeps the item.
// A degraded store that still cannot be read returns ErrUnavailable.
func (s *Store) Add(ctx context.Context, item Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(ctx); err != nil {
		return false, err
	}

	if s.indexLocked(item.ID) >= 0 {
		metrics.BookmarkOps.WithLabelValues("add", "noop").Inc()
		return false, nil
	}
	s.items = append(s.items, item)
	metrics.BookmarkOps.WithLabelValues("add", "changed").Inc()
	return true, s.persistLocked(ctx)
}

// Remove drops id if present and reports whether the set changed.
func (s *Store) Remove(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(ctx); err != nil {
		return false, err
	}

	i := s.indexLocked(id)
	if i < 0 {
		metrics.BookmarkOps.WithLabelValues("remove", "noop").Inc()
		return false, nil
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	metrics.BookmarkOps.WithLabelValues("remove", "changed").Inc()
	return true, s.persistLocked(ctx)
}

func (s *Store) IsBookmarked(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

func (s *Store) Get(id int) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Item{}, false
	}
	return s.items[i], true
}

func (s *Store) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) indexLocked(id int) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	if err := s.storage.Set(ctx, s.owner, StorageKey, data); err != nil {
		metrics.StorageErrors.WithLabelValues("set").Inc()
		logger.Error("Failed to save bookmarks",
			zap.String("owner", s.owner),
			zap.Int("count", len(s.items)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}
