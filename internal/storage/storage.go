package storage

import (
	"context"
	"io"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/catalog"
	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/seed"
)

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// Keeper is a persistent catalog source.
type Keeper interface {
	GetAllProducts(context.Context) ([]models.Product, error)
	InsertProducts(context.Context, []models.Product) (*models.ProcessResponse, error)
	Ping(context.Context) bool
	Close() bool
}

// MemoryStorage is the shared, lock-guarded catalog. A keeper, when present,
// is the source it is loaded from and the sink imports are written to.
type MemoryStorage struct {
	mx      sync.RWMutex
	catalog *catalog.Catalog

	keeper Keeper
	log    Log
}

// NewMemoryStorage loads the catalog from keeper. Without a keeper, or when
// the keeper holds nothing, fallback is used and written to the keeper.
func NewMemoryStorage(ctx context.Context, keeper Keeper, log Log, fallback []models.Product) (*MemoryStorage, error) {
	s := &MemoryStorage{
		catalog: catalog.New(),
		keeper:  keeper,
		log:     log,
	}

	var products []models.Product
	if keeper != nil {
		var err error
		products, err = keeper.GetAllProducts(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "load products")
		}
		log.Info("products loaded from keeper", zap.Int("count", len(products)))
	}

	if len(products) == 0 {
		if _, err := s.AddProducts(ctx, fallback); err != nil {
			return nil, errors.Wrap(err, "seed catalog")
		}
		return s, nil
	}

	for _, p := range products {
		s.catalog.Add(p)
	}
	return s, nil
}

func (s *MemoryStorage) GetAllProducts(_ context.Context) ([]models.Product, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.catalog.List(), nil
}

func (s *MemoryStorage) GetProduct(_ context.Context, name string) (models.Product, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	p, ok := s.catalog.Get(name)
	if !ok {
		return models.Product{}, errors.Wrapf(catalog.ErrNotFound, "%q", name)
	}
	return p, nil
}

func (s *MemoryStorage) ProductsByCategory(_ context.Context, category string) ([]models.Product, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.catalog.ListByCategory(category), nil
}

func (s *MemoryStorage) SearchProducts(_ context.Context, term string) ([]models.Product, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.catalog.Search(term), nil
}

func (s *MemoryStorage) Categories(_ context.Context) ([]string, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.catalog.Categories(), nil
}

// AddProducts writes products to the keeper first, then to the catalog, and
// reports catalog statistics.
func (s *MemoryStorage) AddProducts(ctx context.Context, products []models.Product) (*models.ProcessResponse, error) {
	if s.keeper != nil && len(products) > 0 {
		if _, err := s.keeper.InsertProducts(ctx, products); err != nil {
			s.log.Error("keeper insert failed", zap.Error(err))
			return nil, errors.Wrap(err, "persist products")
		}
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	for _, p := range products {
		s.catalog.Add(p)
	}
	s.log.Info("products added", zap.Int("count", len(products)), zap.Int("catalog_size", s.catalog.Len()))
	return s.stats(), nil
}

// ProcessPrices imports products from CSV.
func (s *MemoryStorage) ProcessPrices(ctx context.Context, r io.Reader) (*models.ProcessResponse, error) {
	products, err := seed.ParseCSV(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse prices")
	}
	return s.AddProducts(ctx, products)
}

func (s *MemoryStorage) stats() *models.ProcessResponse {
	total := decimal.Zero
	products := s.catalog.List()
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return &models.ProcessResponse{
		TotalItems:      len(products),
		TotalCategories: len(s.catalog.Categories()),
		TotalPrice:      total,
	}
}

// Ping reports whether the keeper is reachable. Without a keeper storage is
// purely in memory and always ready.
func (s *MemoryStorage) Ping(ctx context.Context) bool {
	if s.keeper == nil {
		return true
	}
	return s.keeper.Ping(ctx)
}

func (s *MemoryStorage) Close() {
	if s.keeper != nil {
		s.keeper.Close()
	}
}
