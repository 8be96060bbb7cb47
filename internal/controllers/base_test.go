package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/compress"
	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/seed"
	"github.com/drstein77/storefront/internal/storage"
)

func newServer(t *testing.T) (*httptest.Server, *storage.MemoryStorage) {
	t.Helper()
	store, err := storage.NewMemoryStorage(context.Background(), nil, zap.NewNop(), seed.Default())
	require.NoError(t, err)

	srv := httptest.NewServer(NewBaseController(store, zap.NewNop()).Route())
	t.Cleanup(srv.Close)
	return srv, store
}

type productJSON struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Variant  string `json:"variant"`
}

func getProducts(t *testing.T, u string) []productJSON {
	t.Helper()
	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []productJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestGetProducts(t *testing.T) {
	srv, _ := newServer(t)

	t.Run("all", func(t *testing.T) {
		all := getProducts(t, srv.URL+"/api/v0/products")
		require.Len(t, all, 19)
		assert.Equal(t, "Libro de aventuras", all[0].Name)
		assert.Equal(t, "150.85", all[0].Price)
		assert.Equal(t, "digital", all[1].Variant)
	})

	t.Run("by category", func(t *testing.T) {
		books := getProducts(t, srv.URL+"/api/v0/products?category=Libros")
		assert.Len(t, books, 2)

		none := getProducts(t, srv.URL+"/api/v0/products?category=libros")
		assert.Empty(t, none)
	})

	t.Run("search", func(t *testing.T) {
		found := getProducts(t, srv.URL+"/api/v0/products?q=lap")
		require.Len(t, found, 1)
		assert.Equal(t, "Laptop", found[0].Name)
	})
}

func TestGetProduct(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v0/products/" + url.PathEscape("Jabón de baño"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p productJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, "Aseo", p.Category)

	missing, err := http.Get(srv.URL + "/api/v0/products/Nothing")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestGetProductDecodesNameOnce(t *testing.T) {
	srv, store := newServer(t)
	_, err := store.AddProducts(context.Background(), []models.Product{
		{Name: "A%41", Price: decimal.RequireFromString("1"), Category: "Odd"},
		{Name: "a/b", Price: decimal.RequireFromString("2"), Category: "Odd"},
	})
	require.NoError(t, err)

	for _, name := range []string{"A%41", "a/b"} {
		resp, err := http.Get(srv.URL + "/api/v0/products/" + url.PathEscape(name))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, name)

		var p productJSON
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
		resp.Body.Close()
		assert.Equal(t, name, p.Name)
	}

	missing, err := http.Get(srv.URL + "/api/v0/products/" + url.PathEscape("AA"))
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestPostPrices(t *testing.T) {
	for _, kind := range []string{compress.Zip, compress.Tar} {
		t.Run(kind, func(t *testing.T) {
			srv, store := newServer(t)

			var body bytes.Buffer
			w, err := compress.NewWriter(kind, &body, "prices.csv")
			require.NoError(t, err)
			require.NoError(t, seed.WriteCSV(w, []models.Product{
				{Name: "Pen", Description: "ink", Price: decimal.RequireFromString("2.5"), Category: "Oficina"},
			}))
			require.NoError(t, w.Close())

			resp, err := http.Post(srv.URL+"/api/v0/prices?archiveType="+kind, "application/"+kind, &body)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var stats struct {
				TotalItems      int    `json:"total_items"`
				TotalCategories int    `json:"total_categories"`
				TotalPrice      string `json:"total_price"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
			assert.Equal(t, 20, stats.TotalItems)

			p, err := store.GetProduct(context.Background(), "Pen")
			require.NoError(t, err)
			assert.Equal(t, "Oficina", p.Category)
		})
	}
}

func TestPostPricesRejectsBadArchive(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/api/v0/prices?archiveType=zip", "application/zip", bytes.NewBufferString("not a zip"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostPricesRejectsMalformedCSV(t *testing.T) {
	srv, store := newServer(t)

	var body bytes.Buffer
	w, err := compress.NewWriter(compress.Zip, &body, "prices.csv")
	require.NoError(t, err)
	_, err = io.WriteString(w, "A,\"bad\"quote,1,X\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/api/v0/prices?archiveType=zip", "application/zip", &body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, err = store.GetProduct(context.Background(), "A")
	assert.Error(t, err)
}

func TestGetPricesExport(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v0/prices?archiveType=tar")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/tar", resp.Header.Get("Content-Type"))

	r, err := compress.NewReader(compress.Tar, resp.Body)
	require.NoError(t, err)
	products, err := seed.ParseCSV(r)
	require.NoError(t, err)
	assert.Len(t, products, 19)
}

func TestCategoriesAndPing(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v0/categories")
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	var categories []string
	require.NoError(t, json.Unmarshal(data, &categories))
	assert.Contains(t, categories, "Medicamento")
	assert.Len(t, categories, 8)

	ping, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	ping.Body.Close()
	assert.Equal(t, http.StatusOK, ping.StatusCode)
}
