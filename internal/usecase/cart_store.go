package usecase

import (
	"context"
	"sync"

	"github.com/floramarket/storefront/internal/domain"
)

const cartStorageKey = "cart.items"

// CartStore is the quantity-merging cart. Every mutation is persisted
// write-through before the call returns.
type CartStore struct {
	mutex     sync.Mutex
	lines     []domain.CartLine
	persisted *PersistedStore[[]domain.CartLine]
	api       domain.CommerceAPI
	notifier  domain.Notifier
}

// NewCartStore hydrates the cart from durable storage.
func NewCartStore(kv domain.KeyValue, api domain.CommerceAPI, notifier domain.Notifier) *CartStore {
	persisted := NewPersistedStore(kv, cartStorageKey, func() []domain.CartLine {
		return []domain.CartLine{}
	})
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}

	return &CartStore{
		lines:     persisted.Read(),
		persisted: persisted,
		api:       api,
		notifier:  notifier,
	}
}

// AddItem merges the product into the cart: an existing line gains one
// unit of quantity, otherwise a new line with qty 1 is appended.
func (s *CartStore) AddItem(ctx context.Context, p domain.Product) {
	s.mutex.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].Item.ID == p.ID {
			s.lines[i].Qty++
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, domain.CartLine{Item: p, Qty: 1})
	}
	s.persisted.Write(s.snapshotLocked())
	s.mutex.Unlock()

	s.notifier.ProductAdded(p)
	s.notifier.Toast("В корзине: " + p.Name)

	if s.api != nil {
		go s.api.FireAnalytics(context.WithoutCancel(ctx), "cart:add", map[string]any{"product_id": p.ID})
	}
}

// RemoveItem drops the whole line for id regardless of quantity.
func (s *CartStore) RemoveItem(id int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.Item.ID != id {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.persisted.Write(s.snapshotLocked())
}

// Clear empties the cart.
func (s *CartStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lines = s.lines[:0]
	s.persisted.Write(s.snapshotLocked())
}

// Lines returns a copy of the current cart lines.
func (s *CartStore) Lines() []domain.CartLine {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.snapshotLocked()
}

// Count is the sum of line quantities, derived on demand.
func (s *CartStore) Count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Qty
	}
	return count
}

// Total is the sum of price times quantity, derived on demand.
func (s *CartStore) Total() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var total int64
	for _, line := range s.lines {
		total += line.Item.Price * int64(line.Qty)
	}
	return total
}

// Subscribe registers a listener for cart changes.
func (s *CartStore) Subscribe(fn func([]domain.CartLine)) func() {
	return s.persisted.Subscribe(fn)
}

func (s *CartStore) snapshotLocked() []domain.CartLine {
	snapshot := make([]domain.CartLine, len(s.lines))
	copy(snapshot, s.lines)
	return snapshot
}
