// Package catalog holds the immutable product catalog and its loaders.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/hairmatch/internal/models"
)

var (
	// ErrEmptyCatalog is returned when a catalog source yields no products.
	ErrEmptyCatalog = errors.New("catalog has no products")
	// ErrDuplicateID is returned when two products share an id.
	ErrDuplicateID = errors.New("duplicate product id")
)

// Catalog is a read-only, ordered set of products. Safe for concurrent use.
type Catalog struct {
	products []models.Product
	byID     map[int]int
}

// New validates and normalizes products into a Catalog. Order is preserved.
func New(products []models.Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for i, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product at position %d has no name", i)
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p.Normalize())
	}
	return c, nil
}

// Products returns a copy of the products in catalog order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// First returns the first product, used as the deterministic fallback recommendation.
func (c *Catalog) First() models.Product {
	return c.products[0]
}

// Get returns the product with the given id.
func (c *Catalog) Get(id int) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}
