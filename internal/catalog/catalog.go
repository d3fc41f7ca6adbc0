// Package catalog holds the static product catalog.
package catalog

import "github.com/guttosm/green-haven/internal/domain/model"

// DefaultProducts is the storefront's plant catalog, in display order.
var DefaultProducts = []model.Product{
	{ID: 1, Name: "Aloe Vera", Price: 10, Image: "/static/img/aloe.svg"},
	{ID: 2, Name: "Snake Plant", Price: 15, Image: "/static/img/snake.svg"},
	{ID: 3, Name: "Peace Lily", Price: 20, Image: "/static/img/peace_lily.svg"},
}

// Catalog is a read-only product list. It is safe for concurrent use.
type Catalog struct {
	products []model.Product
	byID     map[int]int
}

// New builds a catalog from products. The slice is copied; when an ID
// repeats, lookups resolve to the first occurrence.
func New(products []model.Product) *Catalog {
	c := &Catalog{
		products: make([]model.Product, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		if _, exists := c.byID[p.ID]; !exists {
			c.byID[p.ID] = i
		}
	}
	return c
}

// Default returns the catalog built from DefaultProducts.
func Default() *Catalog {
	return New(DefaultProducts)
}

// All returns every product in catalog order. Callers get their own copy.
func (c *Catalog) All() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by ID.
func (c *Catalog) Get(id int) (model.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
