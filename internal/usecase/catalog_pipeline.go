package usecase

import (
	"sort"

	"github.com/floramarket/storefront/internal/domain"
)

// Sort keys accepted by the pipeline. Anything else falls back to SortNew.
const (
	SortNew    = "new"    // newest first, by creation timestamp
	SortRating = "rating" // highest rating average first
)

// CategoryAll passes every category through the filter.
const CategoryAll = "all"

// Filters are the user-facing catalog controls. Nil price bounds are
// unbounded; bounds are inclusive.
type Filters struct {
	Query    string
	Category string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

// CatalogPipeline composes the search index with category/price
// filters and sorting. Apply is pure and deterministic: identical
// inputs produce identical outputs and nothing is mutated.
type CatalogPipeline struct {
	index *SearchIndex
}

// NewCatalogPipeline builds the pipeline for one catalog snapshot.
func NewCatalogPipeline(products []domain.Product, config SearchConfig) *CatalogPipeline {
	return &CatalogPipeline{index: NewSearchIndex(products, config)}
}

// Apply runs search, filtering and sorting. Highlight spans keyed by
// product id survive filtering and sorting; products dropped from the
// result carry no highlights.
func (p *CatalogPipeline) Apply(f Filters) ([]domain.Product, domain.HighlightMap) {
	matches := p.index.Query(f.Query)

	list := make([]domain.Product, 0, len(matches))
	highlights := make(domain.HighlightMap, len(matches))
	for _, match := range matches {
		if !passesFilters(match.Product, f) {
			continue
		}
		list = append(list, match.Product)
		if len(match.Fields) > 0 {
			highlights[match.Product.ID] = match.Fields
		}
	}

	switch f.Sort {
	case SortRating:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].RatingAvg > list[j].RatingAvg
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	}

	return list, highlights
}

func passesFilters(p domain.Product, f Filters) bool {
	if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}
