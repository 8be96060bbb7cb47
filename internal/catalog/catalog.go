package catalog

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"

	"github.com/drstein77/storefront/internal/models"
)

// ErrNotFound is returned when no product has the requested name.
var ErrNotFound = errors.New("product not found")

// Catalog indexes products by name and by category.
// It is not safe for concurrent use; see storage.MemoryStorage.
type Catalog struct {
	products   map[string]models.Product
	order      []string
	categories map[string][]string
}

func New() *Catalog {
	return &Catalog{
		products:   make(map[string]models.Product),
		categories: make(map[string][]string),
	}
}

// Add inserts p or replaces the product with the same name. A replaced
// product keeps its list position and moves bucket if its category changed.
func (c *Catalog) Add(p models.Product) {
	old, exists := c.products[p.Name]
	c.products[p.Name] = p

	if !exists {
		c.order = append(c.order, p.Name)
		c.categories[p.Category] = append(c.categories[p.Category], p.Name)
		return
	}

	if old.Category != p.Category {
		c.dropFromCategory(old.Category, p.Name)
		c.categories[p.Category] = append(c.categories[p.Category], p.Name)
	}
}

func (c *Catalog) dropFromCategory(category, name string) {
	bucket := c.categories[category]
	for i, n := range bucket {
		if n == name {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(c.categories, category)
		return
	}
	c.categories[category] = bucket
}

// List returns every product in insertion order.
func (c *Catalog) List() []models.Product {
	return c.resolve(c.order)
}

// Get looks a product up by its exact name.
func (c *Catalog) Get(name string) (models.Product, bool) {
	p, ok := c.products[name]
	return p, ok
}

// ListByCategory returns the products of an exact category, or an empty slice.
func (c *Catalog) ListByCategory(category string) []models.Product {
	return c.resolve(c.categories[category])
}

// Search matches term case-insensitively against names and descriptions.
func (c *Catalog) Search(term string) []models.Product {
	needle := strings.ToLower(term)
	out := make([]models.Product, 0)
	for _, name := range c.order {
		p := c.products[name]
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the category names in lexical order.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for category := range c.categories {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Len() int {
	return len(c.order)
}

func (c *Catalog) resolve(names []string) []models.Product {
	out := make([]models.Product, 0, len(names))
	for _, name := range names {
		out = append(out, c.products[name])
	}
	return out
}
