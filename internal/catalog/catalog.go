// Package catalog filters and orders the product list for the shop page.
package catalog

import (
	"cmp"
	"net/url"
	"slices"
	"strings"

	"github.com/fjod/storefront/internal/domain"
)

const AllCategories = "All"

// Categories offered as shop filters, in display order.
var Categories = []string{
	AllCategories,
	"Electronics",
	"Mens Wear",
	"Women Wear",
	"Kids Wear",
	"Furniture",
	"Mens Accessories",
	"Women Accessories",
}

type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
)

type Query struct {
	Search   string
	Category string
	Sort     Sort
}

// ParseQuery reads q (or search), category and sort. Unknown values fall back to the defaults.
func ParseQuery(v url.Values) Query {
	q := Query{
		Search:   strings.TrimSpace(v.Get("q")),
		Category: strings.TrimSpace(v.Get("category")),
		Sort:     Sort(v.Get("sort")),
	}
	if q.Search == "" {
		q.Search = strings.TrimSpace(v.Get("search"))
	}
	if q.Category == "" {
		q.Category = AllCategories
	}
	switch q.Sort {
	case SortPriceLow, SortPriceHigh:
	default:
		q.Sort = SortNewest
	}
	return q
}

// Values is the inverse of ParseQuery, omitting defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Category != "" && q.Category != AllCategories {
		v.Set("category", q.Category)
	}
	if q.Sort != "" && q.Sort != SortNewest {
		v.Set("sort", string(q.Sort))
	}
	return v
}

// Apply returns the matching products. Newest keeps the backend order; price
// sorts are stable.
func Apply(products []domain.Product, q Query) []domain.Product {
	needle := strings.ToLower(q.Search)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if q.Category != "" && q.Category != AllCategories && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}
	switch q.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	}
	return out
}

// Featured returns the first n products.
func Featured(products []domain.Product, n int) []domain.Product {
	if len(products) <= n {
		return products
	}
	return products[:n]
}
