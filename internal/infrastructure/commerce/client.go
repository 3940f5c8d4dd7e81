package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/floramarket/storefront/internal/domain"
)

// Client talks to the remote commerce API.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	credential       string
	analyticsLimiter *rate.Limiter
	debug            bool
}

// NewClient creates a commerce API client. analyticsPerMinute bounds
// how many best-effort analytics events may leave the process.
func NewClient(baseURL string, analyticsPerMinute int) *Client {
	if analyticsPerMinute <= 0 {
		analyticsPerMinute = 60
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:          baseURL,
		analyticsLimiter: rate.NewLimiter(rate.Limit(float64(analyticsPerMinute)/60.0), 5),
	}
}

// SetDebug enables request/response logging.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// SetTimeout overrides the default 30s request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// SetCredential stores the bearer credential attached to account
// requests. The client treats it as an opaque presence flag.
func (c *Client) SetCredential(token string) {
	c.credential = token
}

// exponentialBackoff returns the wait before retry attempt n (1-based).
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Storefront/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.credential != "" {
		req.Header.Set("Authorization", "Bearer "+c.credential)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrAPIFailure, resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetProducts fetches the full catalog. Transient failures are retried
// up to 3 times with exponential backoff.
func (c *Client) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := c.newRequest(ctx, http.MethodGet, "/products/", nil)
		if err != nil {
			return nil, err
		}

		var products []domain.Product
		if err := c.do(req, &products); err != nil {
			if c.debug {
				log.Printf("[COMMERCE] GetProducts attempt %d failed: %v", attempt, err)
			}
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
			continue
		}

		if c.debug {
			log.Printf("[COMMERCE] GetProducts returned %d products", len(products))
		}
		return products, nil
	}
	return nil, lastErr
}

// GetFavorites fetches the caller's favorites snapshot.
func (c *Client) GetFavorites(ctx context.Context, q domain.FavoritesQuery) (*domain.FavoritesSnapshot, error) {
	path := "/account/favorites/"
	if !q.Mine && q.Email != "" {
		path += "?email=" + url.QueryEscape(q.Email)
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var snapshot domain.FavoritesSnapshot
	if err := c.do(req, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ToggleFavorite asks the server to flip a product's favorite state.
func (c *Client) ToggleFavorite(ctx context.Context, productID int64, action string) (*domain.ToggleResult, error) {
	if action == "" {
		action = "toggle"
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/account/favorites/", map[string]any{
		"product_id": productID,
		"action":     action,
	})
	if err != nil {
		return nil, err
	}

	var result domain.ToggleResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	if c.debug {
		log.Printf("[COMMERCE] ToggleFavorite(%d, %s) -> favorited=%v", productID, action, result.Favorited)
	}
	return &result, nil
}

// CreateOrder submits a checkout. An idempotency key is attached so a
// retried submit cannot double-order.
func (c *Client) CreateOrder(ctx context.Context, order *domain.Order) (*domain.OrderReceipt, error) {
	if order == nil || len(order.Items) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if order.IdempotencyKey == "" {
		order.IdempotencyKey = uuid.NewString()
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/orders/", order)
	if err != nil {
		return nil, err
	}

	var receipt domain.OrderReceipt
	if err := c.do(req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// FireAnalytics posts a best-effort analytics event. Failures are
// logged in debug mode and otherwise ignored; the limiter drops events
// instead of blocking the caller.
func (c *Client) FireAnalytics(ctx context.Context, name string, payload map[string]any) {
	if !c.analyticsLimiter.Allow() {
		return
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/analytics/events/", map[string]any{
		"event_id": uuid.NewString(),
		"name":     name,
		"payload":  payload,
	})
	if err != nil {
		return
	}

	if err := c.do(req, nil); err != nil && c.debug {
		log.Printf("[COMMERCE] analytics event %q dropped: %v", name, err)
	}
}
