package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/floramarket/storefront/internal/domain"
)

// favoriteState overlays one product's server-confirmed flag with at
// most one live optimistic flip.
//
// issued is the token of the most recently started toggle request,
// resolved the highest token whose response has already been handled.
// The entry is mid-flip while issued > resolved, and only the response
// carrying the latest issued token may mutate state: last-issued wins,
// not last-arrived.
type favoriteState struct {
	product   domain.Product
	confirmed bool
	visible   bool
	issued    uint64
	resolved  uint64
}

func (st *favoriteState) midFlip() bool {
	return st.issued > st.resolved
}

// FavoritesStore is the server-authoritative favorites set with
// optimistic local toggling. It is never persisted locally; the
// snapshot is re-fetched from the commerce API.
type FavoritesStore struct {
	mutex       sync.Mutex
	api         domain.CommerceAPI
	notifier    domain.Notifier
	query       domain.FavoritesQuery
	entries     map[int64]*favoriteState
	order       []int64
	recommended []domain.Product
}

// NewFavoritesStore creates an empty store; call Reload to hydrate.
func NewFavoritesStore(api domain.CommerceAPI, notifier domain.Notifier, query domain.FavoritesQuery) *FavoritesStore {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &FavoritesStore{
		api:      api,
		notifier: notifier,
		query:    query,
		entries:  make(map[int64]*favoriteState),
	}
}

// Reload replaces the snapshot from the server. Entries mid-flip keep
// their optimistic state; everything else is discarded.
func (s *FavoritesStore) Reload(ctx context.Context) error {
	snapshot, err := s.api.GetFavorites(ctx, s.query)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	fresh := make(map[int64]*favoriteState, len(snapshot.Favorites))
	order := make([]int64, 0, len(snapshot.Favorites))
	for _, entry := range snapshot.Favorites {
		fresh[entry.Product.ID] = &favoriteState{
			product:   entry.Product,
			confirmed: true,
			visible:   true,
		}
		order = append(order, entry.Product.ID)
	}

	for id, st := range s.entries {
		if !st.midFlip() {
			continue
		}
		if kept, ok := fresh[id]; ok {
			// Server knows the product; keep its data but let the
			// in-flight flip govern the visible flag.
			st.product = kept.product
			st.confirmed = kept.confirmed
		} else {
			order = append(order, id)
		}
		fresh[id] = st
	}

	s.entries = fresh
	s.order = order
	s.recommended = snapshot.Recommended
	return nil
}

// Toggle flips the locally visible flag immediately and reconciles
// with the server in the background. The returned channel receives
// exactly one value: nil when the flip was confirmed (or superseded by
// a newer toggle), or the network error after the flip was reverted.
func (s *FavoritesStore) Toggle(ctx context.Context, productID int64) <-chan error {
	s.mutex.Lock()
	st, ok := s.entries[productID]
	if !ok {
		st = &favoriteState{product: domain.Product{ID: productID}}
		s.entries[productID] = st
		s.order = append(s.order, productID)
	}
	st.visible = !st.visible
	st.issued++
	token := st.issued
	s.mutex.Unlock()

	done := make(chan error, 1)
	go func() {
		result, err := s.api.ToggleFavorite(ctx, productID, "toggle")
		done <- s.resolve(productID, token, result, err)
	}()
	return done
}

// resolve applies a toggle response under the apply-if-latest rule.
// A stale response is discarded silently and reported as nil.
func (s *FavoritesStore) resolve(productID int64, token uint64, result *domain.ToggleResult, err error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	st, ok := s.entries[productID]
	if !ok {
		return nil
	}
	if token != st.issued {
		// Superseded by a newer toggle for this product.
		if token > st.resolved {
			st.resolved = token
		}
		return nil
	}
	st.resolved = token

	if err != nil {
		st.visible = st.confirmed
		s.dropIfIdleLocked(productID, st)
		s.notifier.Toast("Не удалось обновить избранное")
		log.Printf("[FAVORITES] toggle %d failed, reverted: %v", productID, err)
		return err
	}

	st.confirmed = result.Favorited
	st.visible = result.Favorited
	s.dropIfIdleLocked(productID, st)
	if result.Favorited {
		s.notifier.Toast("Добавлено в избранное")
	} else {
		s.notifier.Toast("Удалено из избранного")
	}
	return nil
}

// dropIfIdleLocked removes an entry that is neither favorited nor mid-flip.
func (s *FavoritesStore) dropIfIdleLocked(id int64, st *favoriteState) {
	if st.visible || st.confirmed || st.midFlip() {
		return
	}
	delete(s.entries, id)
	for i, ordered := range s.order {
		if ordered == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// IsFavorite reports the locally visible flag for the product.
func (s *FavoritesStore) IsFavorite(id int64) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	st, ok := s.entries[id]
	return ok && st.visible
}

// Count is the number of visibly favorited products.
func (s *FavoritesStore) Count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	count := 0
	for _, st := range s.entries {
		if st.visible {
			count++
		}
	}
	return count
}

// Entries returns the visibly favorited products in snapshot order,
// optimistic additions last.
func (s *FavoritesStore) Entries() []domain.FavoriteEntry {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries := make([]domain.FavoriteEntry, 0, len(s.order))
	for _, id := range s.order {
		if st, ok := s.entries[id]; ok && st.visible {
			entries = append(entries, domain.FavoriteEntry{Product: st.product})
		}
	}
	return entries
}

// Recommended returns the recommendation list from the last reload.
func (s *FavoritesStore) Recommended() []domain.Product {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	recommended := make([]domain.Product, len(s.recommended))
	copy(recommended, s.recommended)
	return recommended
}
