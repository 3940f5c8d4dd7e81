package domain

import "time"

// Product is a catalog item as served by the commerce API.
// The core never mutates products; the API owns them.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url"`
	Desc        string    `json:"desc"`
	RatingAvg   float64   `json:"rating_avg"`
	RatingCount int       `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// CartLine is one cart entry. Qty is always >= 1: a line that would
// drop to zero is removed from the cart, never stored.
type CartLine struct {
	Item Product `json:"item"`
	Qty  int     `json:"qty"`
}

// FavoriteEntry is one favorite as reported by the commerce API.
type FavoriteEntry struct {
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoritesSnapshot is the payload returned by the favorites endpoint.
type FavoritesSnapshot struct {
	Favorites   []FavoriteEntry `json:"favorites"`
	Recommended []Product       `json:"recommended,omitempty"`
}

// FavoritesQuery selects whose favorites to fetch: the authenticated
// user (Mine) or a guest identified by email.
type FavoritesQuery struct {
	Mine  bool
	Email string
}

// ToggleResult is the server's answer to a favorite toggle.
type ToggleResult struct {
	Favorited bool `json:"favorited"`
}

// Order is the checkout payload forwarded to the commerce API.
type Order struct {
	CustomerName   string     `json:"customer_name"`
	CustomerEmail  string     `json:"customer_email"`
	Address        string     `json:"address,omitempty"`
	Comment        string     `json:"comment,omitempty"`
	Items          []CartLine `json:"items"`
	Total          int64      `json:"total"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
}

// OrderReceipt is the server's acknowledgement of a created order.
type OrderReceipt struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
