package usecase

import (
	"sync"

	"github.com/floramarket/storefront/internal/domain"
)

const (
	compareStorageKey   = "compare.ids"
	defaultCompareLimit = 3
)

// CompareStore holds the bounded comparison set. Eviction is strict
// FIFO: once the limit is exceeded the oldest-added item goes first,
// and re-adding a present item does not refresh its position.
type CompareStore struct {
	mutex     sync.Mutex
	items     []domain.Product
	limit     int
	persisted *PersistedStore[[]domain.Product]
}

// NewCompareStore hydrates the comparison set from durable storage.
// limit <= 0 falls back to 3.
func NewCompareStore(kv domain.KeyValue, limit int) *CompareStore {
	if limit <= 0 {
		limit = defaultCompareLimit
	}

	persisted := NewPersistedStore(kv, compareStorageKey, func() []domain.Product {
		return []domain.Product{}
	})

	items := persisted.Read()
	if len(items) > limit {
		items = items[len(items)-limit:]
	}

	return &CompareStore{
		items:     items,
		limit:     limit,
		persisted: persisted,
	}
}

// AddItem appends the product unless it is already present, then
// evicts from the front until the set fits the limit.
func (s *CompareStore) AddItem(p domain.Product) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, item := range s.items {
		if item.ID == p.ID {
			return
		}
	}

	s.items = append(s.items, p)
	if len(s.items) > s.limit {
		s.items = s.items[len(s.items)-s.limit:]
	}
	s.persisted.Write(s.snapshotLocked())
}

// RemoveItem drops the product with the given id.
func (s *CompareStore) RemoveItem(id int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persisted.Write(s.snapshotLocked())
}

// Clear empties the comparison set.
func (s *CompareStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items = s.items[:0]
	s.persisted.Write(s.snapshotLocked())
}

// Contains reports whether the product is in the set.
func (s *CompareStore) Contains(id int64) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Items returns a copy of the set in insertion order.
func (s *CompareStore) Items() []domain.Product {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers a listener for comparison-set changes.
func (s *CompareStore) Subscribe(fn func([]domain.Product)) func() {
	return s.persisted.Subscribe(fn)
}

func (s *CompareStore) snapshotLocked() []domain.Product {
	snapshot := make([]domain.Product, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}
