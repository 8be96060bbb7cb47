package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/catalog"
	"github.com/drstein77/storefront/internal/compress"
	"github.com/drstein77/storefront/internal/middleware"
	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/seed"
)

// Storage interface for catalog operations
type Storage interface {
	ProcessPrices(context.Context, io.Reader) (*models.ProcessResponse, error)
	GetAllProducts(context.Context) ([]models.Product, error)
	GetProduct(context.Context, string) (models.Product, error)
	ProductsByCategory(context.Context, string) ([]models.Product, error)
	SearchProducts(context.Context, string) ([]models.Product, error)
	Categories(context.Context) ([]string, error)
	Ping(context.Context) bool
}

// Log interface for logging
type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// ExportFileName is the CSV entry name inside exported archives.
const ExportFileName = "products.csv"

// BaseController serves the catalog over HTTP.
type BaseController struct {
	storage Storage
	log     Log
}

// NewBaseController creates a new BaseController instance
func NewBaseController(storage Storage, log Log) *BaseController {
	return &BaseController{
		storage: storage,
		log:     log,
	}
}

// Route sets up the routes for the BaseController
func (h *BaseController) Route() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/ping", h.ping)
	r.Get("/api/v0/products", h.getProducts)
	r.Get("/api/v0/products/{name}", h.getProduct)
	r.Get("/api/v0/categories", h.getCategories)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ArchiveTypeMiddleware)
		r.With(middleware.DecompressRequestMiddleware).Post("/api/v0/prices", h.postPrices)
		r.Get("/api/v0/prices", h.getPrices)
	})

	return r
}

func (h *BaseController) ping(w http.ResponseWriter, r *http.Request) {
	if !h.storage.Ping(r.Context()) {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// getProducts lists the catalog; ?category= filters by exact category and
// ?q= searches names and descriptions.
func (h *BaseController) getProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []models.Product
		err      error
	)
	query := r.URL.Query()
	switch {
	case query.Has("category"):
		products, err = h.storage.ProductsByCategory(r.Context(), query.Get("category"))
	case query.Has("q"):
		products, err = h.storage.SearchProducts(r.Context(), query.Get("q"))
	default:
		products, err = h.storage.GetAllProducts(r.Context())
	}
	if err != nil {
		h.fail(w, "Failed to retrieve products", err)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *BaseController) getProduct(w http.ResponseWriter, r *http.Request) {
	// chi routes on RawPath when it is set, leaving the param escaped
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}

	product, err := h.storage.GetProduct(r.Context(), name)
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, fmt.Sprintf("Product %q not found", name), http.StatusNotFound)
		return
	}
	if err != nil {
		h.fail(w, "Failed to retrieve product", err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

func (h *BaseController) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.storage.Categories(r.Context())
	if err != nil {
		h.fail(w, "Failed to retrieve categories", err)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

// postPrices imports a CSV of products uploaded inside an archive.
func (h *BaseController) postPrices(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	response, err := h.storage.ProcessPrices(r.Context(), r.Body)
	if errors.Is(err, seed.ErrInvalidRecord) || errors.Is(err, models.ErrUnknownVariant) {
		http.Error(w, fmt.Sprintf("Invalid prices: %v", err), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.fail(w, "Failed to process prices", err)
		return
	}

	h.log.Info("prices imported",
		zap.String("file", middleware.EntryName(r.Context())),
		zap.Int("total_items", response.TotalItems))
	h.writeJSON(w, http.StatusOK, response)
}

// getPrices exports the catalog as CSV inside an archive.
func (h *BaseController) getPrices(w http.ResponseWriter, r *http.Request) {
	products, err := h.storage.GetAllProducts(r.Context())
	if err != nil {
		h.fail(w, "Failed to retrieve prices", err)
		return
	}

	archiveType := middleware.ArchiveType(r.Context())
	w.Header().Set("Content-Type", "application/"+archiveType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=products.%s", archiveType))

	aw, err := compress.NewWriter(archiveType, w, ExportFileName)
	if err != nil {
		h.fail(w, "Failed to create archive", err)
		return
	}
	if err := seed.WriteCSV(aw, products); err != nil {
		h.log.Error("Failed to write prices", zap.Error(err))
		return
	}
	if err := aw.Close(); err != nil {
		h.log.Error("Failed to close archive", zap.Error(err))
	}
}

func (h *BaseController) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *BaseController) fail(w http.ResponseWriter, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), http.StatusInternalServerError)
}
