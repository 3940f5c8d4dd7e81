package domain

import "context"

// KeyValue defines the durable key-value storage the persisted stores
// write through to. Implementations must return ErrNotFound for a
// missing key; any other failure wraps ErrStorageUnavailable.
type KeyValue interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// CommerceAPI defines the remote commerce backend consumed by the core.
type CommerceAPI interface {
	GetProducts(ctx context.Context) ([]Product, error)
	GetFavorites(ctx context.Context, q FavoritesQuery) (*FavoritesSnapshot, error)
	ToggleFavorite(ctx context.Context, productID int64, action string) (*ToggleResult, error)
	CreateOrder(ctx context.Context, order *Order) (*OrderReceipt, error)

	// FireAnalytics is best-effort: implementations swallow failures.
	FireAnalytics(ctx context.Context, name string, payload map[string]any)
}

// Notifier receives user-facing notifications from the stores.
// The presentation layer implements it; the core only emits.
type Notifier interface {
	ProductAdded(p Product)
	Toast(message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) ProductAdded(Product) {}
func (NopNotifier) Toast(string)         {}
