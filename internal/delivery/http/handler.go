package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/floramarket/storefront/internal/domain"
	"github.com/floramarket/storefront/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog   *usecase.Catalog
	cart      *usecase.CartStore
	compare   *usecase.CompareStore
	favorites *usecase.FavoritesStore
	api       domain.CommerceAPI
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *usecase.Catalog,
	cart *usecase.CartStore,
	compare *usecase.CompareStore,
	favorites *usecase.FavoritesStore,
	api domain.CommerceAPI,
) *Handler {
	return &Handler{
		catalog:   catalog,
		cart:      cart,
		compare:   compare,
		favorites: favorites,
		api:       api,
	}
}

// HealthCheck returns the health status of the gateway
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storefront-gateway",
		"version": "1.0.0",
	})
}

// GetCatalog runs the filter pipeline and returns the ordered product
// list with the highlight map for the current query.
func (h *Handler) GetCatalog(c *gin.Context) {
	filters := usecase.Filters{
		Query:    c.Query("q"),
		Category: c.DefaultQuery("category", usecase.CategoryAll),
		Sort:     c.DefaultQuery("sort", usecase.SortNew),
	}

	var err error
	if filters.MinPrice, err = priceParam(c, "min_price"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_price must be an integer"})
		return
	}
	if filters.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_price must be an integer"})
		return
	}

	products, highlights := h.catalog.Apply(filters)
	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"highlights": highlights,
		"categories": h.catalog.Categories(),
	})
}

// RefreshCatalog re-fetches the product snapshot from the commerce API.
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if err := h.catalog.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": len(h.catalog.Products())})
}

// GetCart returns the cart lines with derived count and total.
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items": h.cart.Lines(),
		"count": h.cart.Count(),
		"total": h.cart.Total(),
	})
}

type addCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// AddCartItem adds one unit of a catalog product to the cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	product, ok := h.lookupProduct(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	h.cart.AddItem(c.Request.Context(), product)
	c.JSON(http.StatusOK, gin.H{"count": h.cart.Count(), "total": h.cart.Total()})
}

// RemoveCartItem drops the whole line for the product.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	h.cart.RemoveItem(id)
	c.JSON(http.StatusOK, gin.H{"count": h.cart.Count(), "total": h.cart.Total()})
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	h.cart.Clear()
	c.Status(http.StatusNoContent)
}

// GetCompare returns the comparison set in insertion order.
func (h *Handler) GetCompare(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.compare.Items()})
}

// AddCompareItem adds a catalog product to the comparison set.
func (h *Handler) AddCompareItem(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, ok := h.lookupProduct(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	h.compare.AddItem(product)
	c.JSON(http.StatusOK, gin.H{"items": h.compare.Items()})
}

// RemoveCompareItem drops a product from the comparison set.
func (h *Handler) RemoveCompareItem(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	h.compare.RemoveItem(id)
	c.JSON(http.StatusOK, gin.H{"items": h.compare.Items()})
}

// ClearCompare empties the comparison set.
func (h *Handler) ClearCompare(c *gin.Context) {
	h.compare.Clear()
	c.Status(http.StatusNoContent)
}

// GetFavorites returns the visible favorites overlay.
func (h *Handler) GetFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"favorites":   h.favorites.Entries(),
		"count":       h.favorites.Count(),
		"recommended": h.favorites.Recommended(),
	})
}

// ToggleFavorite flips a product's favorite flag optimistically and
// answers with the immediately visible state; reconciliation with the
// server continues in the background.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	h.favorites.Toggle(c.Request.Context(), id)
	c.JSON(http.StatusAccepted, gin.H{"favorited": h.favorites.IsFavorite(id)})
}

// ReloadFavorites replaces the favorites snapshot from the server.
func (h *Handler) ReloadFavorites(c *gin.Context) {
	if err := h.favorites.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": h.favorites.Count()})
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required"`
	Address       string `json:"address"`
	Comment       string `json:"comment"`
}

// Checkout submits the current cart as an order and clears the cart on success.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_name and customer_email are required"})
		return
	}

	items := h.cart.Lines()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	receipt, err := h.api.CreateOrder(c.Request.Context(), &domain.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Address:       req.Address,
		Comment:       req.Comment,
		Items:         items,
		Total:         h.cart.Total(),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.cart.Clear()
	c.JSON(http.StatusCreated, receipt)
}

func (h *Handler) lookupProduct(id int64) (domain.Product, bool) {
	for _, p := range h.catalog.Products() {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func idParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func priceParam(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
