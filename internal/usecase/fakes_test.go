package usecase

import (
	"context"
	"sync"

	"github.com/floramarket/storefront/internal/domain"
)

// fakeAPI is an in-process CommerceAPI double. Toggle behavior is
// pluggable per test via toggleFn, which receives the 1-based call
// sequence number.
type fakeAPI struct {
	mutex     sync.Mutex
	products  []domain.Product
	favorites domain.FavoritesSnapshot
	toggleFn  func(call int, productID int64) (*domain.ToggleResult, error)

	toggleCalls int
	analytics   chan string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{analytics: make(chan string, 16)}
}

func (f *fakeAPI) GetProducts(ctx context.Context) ([]domain.Product, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeAPI) GetFavorites(ctx context.Context, q domain.FavoritesQuery) (*domain.FavoritesSnapshot, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	snapshot := f.favorites
	return &snapshot, nil
}

func (f *fakeAPI) ToggleFavorite(ctx context.Context, productID int64, action string) (*domain.ToggleResult, error) {
	f.mutex.Lock()
	f.toggleCalls++
	call := f.toggleCalls
	fn := f.toggleFn
	f.mutex.Unlock()

	if fn == nil {
		return &domain.ToggleResult{Favorited: true}, nil
	}
	return fn(call, productID)
}

func (f *fakeAPI) CreateOrder(ctx context.Context, order *domain.Order) (*domain.OrderReceipt, error) {
	return &domain.OrderReceipt{ID: 1, Status: "created"}, nil
}

func (f *fakeAPI) FireAnalytics(ctx context.Context, name string, payload map[string]any) {
	select {
	case f.analytics <- name:
	default:
	}
}

// recordingNotifier captures notifications emitted by the stores.
type recordingNotifier struct {
	mutex  sync.Mutex
	added  []domain.Product
	toasts []string
}

func (n *recordingNotifier) ProductAdded(p domain.Product) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.added = append(n.added, p)
}

func (n *recordingNotifier) Toast(message string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.toasts = append(n.toasts, message)
}

func (n *recordingNotifier) addedCount() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.added)
}

func (n *recordingNotifier) lastToast() string {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if len(n.toasts) == 0 {
		return ""
	}
	return n.toasts[len(n.toasts)-1]
}
