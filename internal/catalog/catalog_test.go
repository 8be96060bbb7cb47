package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drstein77/storefront/internal/models"
)

func product(name, description, price, category string) models.Product {
	return models.Product{
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Category:    category,
	}
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestAddAndGet(t *testing.T) {
	c := New()
	book := product("Book", "A novel", "10.000", "Books")
	c.Add(book)

	got, ok := c.Get("Book")
	require.True(t, ok)
	assert.Equal(t, book, got)

	_, ok = c.Get("book")
	assert.False(t, ok, "lookup must be case-sensitive")
}

func TestAddOverwritesSameName(t *testing.T) {
	c := New()
	c.Add(product("Book", "first", "10.000", "Books"))
	c.Add(product("Pen", "ink", "2.500", "Office"))
	c.Add(product("Book", "second", "12.000", "Books"))

	assert.Equal(t, 2, c.Len())
	got, ok := c.Get("Book")
	require.True(t, ok)
	assert.Equal(t, "second", got.Description)
	assert.Equal(t, []string{"Book", "Pen"}, names(c.List()))
	assert.Equal(t, []string{"Book"}, names(c.ListByCategory("Books")))
	assert.Equal(t, "second", c.ListByCategory("Books")[0].Description)
}

func TestAddMovesCategoryBucket(t *testing.T) {
	c := New()
	c.Add(product("Book", "novel", "10.000", "Books"))
	c.Add(product("Book", "novel", "10.000", "Gifts"))

	assert.Empty(t, c.ListByCategory("Books"))
	assert.Equal(t, []string{"Book"}, names(c.ListByCategory("Gifts")))
	assert.Equal(t, []string{"Gifts"}, c.Categories())
}

func TestListKeepsInsertionOrder(t *testing.T) {
	c := New()
	for _, n := range []string{"Zeta", "Alpha", "Mid"} {
		c.Add(product(n, "", "1.000", "X"))
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, names(c.List()))
	// a second call starts over
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, names(c.List()))
}

func TestListByCategory(t *testing.T) {
	c := New()
	c.Add(product("Book", "novel", "10.000", "Books"))
	c.Add(product("Tuna", "canned", "21.000", "Food"))

	assert.Equal(t, []string{"Book"}, names(c.ListByCategory("Books")))
	assert.Empty(t, c.ListByCategory("books"))
	assert.NotNil(t, c.ListByCategory("Missing"))
}

func TestSearch(t *testing.T) {
	c := New()
	c.Add(product("Laptop", "Asus TUF gaming", "4000.215", "Tech"))
	c.Add(product("Phone", "512GB smartphone", "6780.000", "Tech"))
	c.Add(product("Soap", "Vanilla LAPtop cleaner", "20.000", "Care"))

	t.Run("name match is case-insensitive", func(t *testing.T) {
		assert.Equal(t, []string{"Laptop", "Soap"}, names(c.Search("lap")))
	})

	t.Run("description match", func(t *testing.T) {
		assert.Equal(t, []string{"Phone"}, names(c.Search("512gb")))
	})

	t.Run("category is not searched", func(t *testing.T) {
		assert.Empty(t, c.Search("Tech"))
	})
}
