package dbkeeper

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/models"
)

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// DBKeeper stores the catalog in PostgreSQL.
type DBKeeper struct {
	pool *pgxpool.Pool
	log  Log
}

// NewDBKeeper connects to dsn and applies the schema migrations.
func NewDBKeeper(ctx context.Context, dsn func() string, log Log) (*DBKeeper, error) {
	addr := dsn()
	if addr == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}

	config, err := pgxpool.ParseConfig(addr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := migrateUp(config.ConnConfig, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Connected!")

	return &DBKeeper{
		pool: pool,
		log:  log,
	}, nil
}

// InsertProducts upserts products by name in one transaction and returns
// statistics over the whole table.
func (kp *DBKeeper) InsertProducts(ctx context.Context, products []models.Product) (resp *models.ProcessResponse, err error) {
	if len(products) == 0 {
		return &models.ProcessResponse{TotalPrice: decimal.Zero}, nil
	}

	if kp.pool == nil {
		return nil, fmt.Errorf("database connection pool is nil")
	}

	tx, err := kp.pool.Begin(ctx)
	if err != nil {
		kp.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
				kp.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
			}
		}
	}()

	stmt := `
		INSERT INTO products (name, description, price, category, variant)
		VALUES ($1, $2, $3::numeric, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			price       = EXCLUDED.price,
			category    = EXCLUDED.category,
			variant     = EXCLUDED.variant
	`
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(stmt, p.Name, p.Description, p.Price.String(), p.Category, p.Variant.String())
	}

	br := tx.SendBatch(ctx, batch)
	for range products {
		if _, execErr := br.Exec(); execErr != nil {
			br.Close()
			err = fmt.Errorf("failed to execute batch query: %w", execErr)
			return nil, err
		}
	}
	if closeErr := br.Close(); closeErr != nil {
		err = fmt.Errorf("failed to close batch results: %w", closeErr)
		return nil, err
	}

	statsCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total string
	resp = &models.ProcessResponse{}
	row := tx.QueryRow(statsCtx, `
		SELECT COUNT(*), COUNT(DISTINCT category), COALESCE(SUM(price), 0)::text
		FROM products
	`)
	if scanErr := row.Scan(&resp.TotalItems, &resp.TotalCategories, &total); scanErr != nil {
		err = fmt.Errorf("failed to calculate stats: %w", scanErr)
		return nil, err
	}
	if resp.TotalPrice, err = decimal.NewFromString(total); err != nil {
		err = fmt.Errorf("failed to parse total price %q: %w", total, err)
		return nil, err
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		return nil, err
	}

	kp.log.Info("Products successfully upserted", zap.Int("count", len(products)))
	return resp, nil
}

// GetAllProducts returns the stored products in insertion order.
func (kp *DBKeeper) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	if kp.pool == nil {
		return nil, fmt.Errorf("database connection pool is nil")
	}

	query := `
		SELECT name, description, price::text, category, variant
		FROM products
		ORDER BY position
	`

	rows, err := kp.pool.Query(ctx, query)
	if err != nil {
		kp.log.Error("Failed to execute query", zap.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			product models.Product
			price   string
			variant string
		)
		if err := rows.Scan(&product.Name, &product.Description, &price, &product.Category, &variant); err != nil {
			kp.log.Error("Failed to scan row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if product.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("product %q has invalid price %q: %w", product.Name, price, err)
		}
		if product.Variant, err = models.ParseVariant(variant); err != nil {
			return nil, fmt.Errorf("product %q: %w", product.Name, err)
		}
		products = append(products, product)
	}

	if rows.Err() != nil {
		kp.log.Error("Error occurred during rows iteration", zap.Error(rows.Err()))
		return nil, fmt.Errorf("error during rows iteration: %w", rows.Err())
	}

	kp.log.Info("Successfully retrieved all products", zap.Int("count", len(products)))
	return products, nil
}

func (kp *DBKeeper) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := kp.pool.Ping(ctx); err != nil {
		kp.log.Error("Database ping failed", zap.Error(err))
		return false
	}

	return true
}

func (kp *DBKeeper) Close() bool {
	if kp.pool != nil {
		kp.pool.Close()
		kp.log.Info("Database connection pool closed")
		return true
	}
	kp.log.Info("Attempted to close a nil database connection pool")
	return false
}
