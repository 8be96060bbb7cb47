package dbkeeper

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/models"
)

// openTestKeeper connects to TEST_DATABASE_URI and empties the products table.
func openTestKeeper(t *testing.T) *DBKeeper {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URI")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URI not set")
	}

	ctx := context.Background()
	kp, err := NewDBKeeper(ctx, func() string { return dsn }, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { kp.Close() })

	_, err = kp.pool.Exec(ctx, `TRUNCATE products RESTART IDENTITY`)
	require.NoError(t, err)
	return kp
}

func TestNewDBKeeperEmptyDSN(t *testing.T) {
	_, err := NewDBKeeper(context.Background(), func() string { return "" }, zap.NewNop())
	assert.Error(t, err)
}

func TestInsertAndGetProducts(t *testing.T) {
	kp := openTestKeeper(t)
	ctx := context.Background()

	products := []models.Product{
		{Name: "Book", Description: "novel", Price: decimal.RequireFromString("10.000"), Category: "Books"},
		{Name: "Course", Description: "online", Price: decimal.RequireFromString("220.5"), Category: "Learning", Variant: models.Digital},
	}
	resp, err := kp.InsertProducts(ctx, products)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalItems)
	assert.Equal(t, 2, resp.TotalCategories)
	assert.True(t, decimal.RequireFromString("230.5").Equal(resp.TotalPrice))

	// upsert keeps the original position
	_, err = kp.InsertProducts(ctx, []models.Product{
		{Name: "Book", Description: "hardcover", Price: decimal.RequireFromString("12"), Category: "Books"},
	})
	require.NoError(t, err)

	got, err := kp.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Book", got[0].Name)
	assert.Equal(t, "hardcover", got[0].Description)
	assert.Equal(t, models.Digital, got[1].Variant)
	assert.True(t, kp.Ping(ctx))
}
