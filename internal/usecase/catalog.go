package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/floramarket/storefront/internal/domain"
)

// Catalog owns the current product snapshot and the pipeline built
// from it. The pipeline is rebuilt whenever the snapshot changes and
// holds no cross-session state.
type Catalog struct {
	mutex    sync.RWMutex
	api      domain.CommerceAPI
	config   SearchConfig
	products []domain.Product
	pipeline *CatalogPipeline
}

// NewCatalog creates an empty catalog; call Load to hydrate.
func NewCatalog(api domain.CommerceAPI, config SearchConfig) *Catalog {
	c := &Catalog{api: api, config: config}
	c.replace(nil)
	return c
}

// Load fetches the product set from the commerce API and rebuilds the
// search pipeline.
func (c *Catalog) Load(ctx context.Context) error {
	products, err := c.api.GetProducts(ctx)
	if err != nil {
		return err
	}
	c.replace(products)
	log.Printf("[CATALOG] loaded %d products", len(products))
	return nil
}

// Replace swaps in a product snapshot directly. Used by tests and by
// callers that already hold the product set.
func (c *Catalog) Replace(products []domain.Product) {
	c.replace(products)
}

func (c *Catalog) replace(products []domain.Product) {
	snapshot := make([]domain.Product, len(products))
	copy(snapshot, products)

	pipeline := NewCatalogPipeline(snapshot, c.config)

	c.mutex.Lock()
	c.products = snapshot
	c.pipeline = pipeline
	c.mutex.Unlock()
}

// Apply runs the filter pipeline over the current snapshot.
func (c *Catalog) Apply(f Filters) ([]domain.Product, domain.HighlightMap) {
	c.mutex.RLock()
	pipeline := c.pipeline
	c.mutex.RUnlock()
	return pipeline.Apply(f)
}

// Products returns a copy of the current snapshot in catalog order.
func (c *Catalog) Products() []domain.Product {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	products := make([]domain.Product, len(c.products))
	copy(products, c.products)
	return products
}

// Categories returns "all" followed by the distinct, non-empty
// categories in catalog order.
func (c *Catalog) Categories() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	categories := []string{CategoryAll}
	seen := map[string]bool{}
	for _, p := range c.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}
