package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floramarket/storefront/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://api.example.com", 60)

	assert.NotNil(t, client)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.analyticsLimiter)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestGetProducts_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]domain.Product{
			{ID: 1, Name: "Розы красные", Category: "розы", Price: 2500},
			{ID: 2, Name: "Пионы", Category: "пионы", Price: 3900},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 60)

	products, err := client.GetProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Розы красные", products[0].Name)
	assert.Equal(t, int64(2500), products[0].Price)
}

func TestGetProducts_RetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]domain.Product{{ID: 7, Name: "Тюльпаны"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, 60)

	products, err := client.GetProducts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	require.Len(t, products, 1)
	assert.Equal(t, int64(7), products[0].ID)
}

func TestGetFavorites_GuestByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/favorites/", r.URL.Path)
		assert.Equal(t, "guest@example.com", r.URL.Query().Get("email"))
		assert.Empty(t, r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(domain.FavoritesSnapshot{
			Favorites: []domain.FavoriteEntry{{Product: domain.Product{ID: 3}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 60)

	snapshot, err := client.GetFavorites(context.Background(), domain.FavoritesQuery{Email: "guest@example.com"})

	require.NoError(t, err)
	require.Len(t, snapshot.Favorites, 1)
	assert.Equal(t, int64(3), snapshot.Favorites[0].Product.ID)
}

func TestGetFavorites_MineSendsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer opaque-token", r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.RawQuery)

		json.NewEncoder(w).Encode(domain.FavoritesSnapshot{})
	}))
	defer server.Close()

	client := NewClient(server.URL, 60)
	client.SetCredential("opaque-token")

	_, err := client.GetFavorites(context.Background(), domain.FavoritesQuery{Mine: true})

	require.NoError(t, err)
}

func TestToggleFavorite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/favorites/", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(42), body["product_id"])
		assert.Equal(t, "toggle", body["action"])

		json.NewEncoder(w).Encode(domain.ToggleResult{Favorited: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, 60)

	result, err := client.ToggleFavorite(context.Background(), 42, "")

	require.NoError(t, err)
	assert.True(t, result.Favorited)
}

func TestToggleFavorite_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 60)

	result, err := client.ToggleFavorite(context.Background(), 42, "toggle")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrAPIFailure)
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/", r.URL.Path)

		var order domain.Order
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		assert.NotEmpty(t, order.IdempotencyKey)
		assert.Len(t, order.Items, 1)

		json.NewEncoder(w).Encode(domain.OrderReceipt{ID: 1001, Status: "created"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 60)

	receipt, err := client.CreateOrder(context.Background(), &domain.Order{
		CustomerName: "Анна",
		Items:        []domain.CartLine{{Item: domain.Product{ID: 1, Price: 2500}, Qty: 2}},
		Total:        5000,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1001), receipt.ID)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	client := NewClient("http://unused", 60)

	_, err := client.CreateOrder(context.Background(), &domain.Order{})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestFireAnalytics_SwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 60)

	// Must not panic or surface anything.
	client.FireAnalytics(context.Background(), "cart:add", map[string]any{"product_id": 1})
}

func TestFireAnalytics_SendsEvent(t *testing.T) {
	received := make(chan map[string]any, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analytics/events/", r.URL.Path)

		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		received <- body
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, 60)
	client.FireAnalytics(context.Background(), "cart:add", map[string]any{"product_id": float64(5)})

	select {
	case body := <-received:
		assert.Equal(t, "cart:add", body["name"])
		assert.NotEmpty(t, body["event_id"])
	case <-time.After(time.Second):
		t.Fatal("analytics event never reached the server")
	}
}
