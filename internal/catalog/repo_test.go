package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/egorvolkov/storefront-backend/pkg/db/models"
	"github.com/egorvolkov/storefront-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:catalogrepo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec("PRAGMA foreign_keys = ON").Error)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  photo_key TEXT,
  year INTEGER,
  country TEXT,
  price TEXT NOT NULL DEFAULT '0',
  stock INTEGER NOT NULL DEFAULT 0,
  category_id TEXT NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, ddl := range statements {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM products")
		conn.Exec("DELETE FROM categories")
	})
	return conn
}

func seedCategory(t *testing.T, conn *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: name}
	require.NoError(t, conn.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, conn *gorm.DB, categoryID uuid.UUID, name string, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Price:      decimal.RequireFromString("9.99"),
		Stock:      5,
		CategoryID: categoryID,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestRepositoryDeleteCategoryCascadesToProducts(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := seedCategory(t, conn, "Chairs")
	other := seedCategory(t, conn, "Lamps")
	seedProduct(t, conn, category.ID, "Oak Chair", time.Now().UTC())
	seedProduct(t, conn, category.ID, "Pine Chair", time.Now().UTC())
	kept := seedProduct(t, conn, other.ID, "Desk Lamp", time.Now().UTC())

	require.NoError(t, repo.DeleteCategory(ctx, category.ID))

	var count int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	survivor, err := repo.FindProductByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", survivor.Name)
	assert.Equal(t, "Lamps", survivor.Category.Name)
}

func TestRepositoryRenameCategory(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := seedCategory(t, conn, "Chairs")

	renamed, err := repo.RenameCategory(ctx, category.ID, "Seating")
	require.NoError(t, err)
	assert.Equal(t, "Seating", renamed.Name)

	_, err = repo.RenameCategory(ctx, uuid.New(), "Ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryProductPhotoKeysByCategory(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := seedCategory(t, conn, "Chairs")
	other := seedCategory(t, conn, "Lamps")
	withPhoto := seedProduct(t, conn, category.ID, "Oak Chair", time.Now().UTC())
	seedProduct(t, conn, category.ID, "Pine Chair", time.Now().UTC())
	elsewhere := seedProduct(t, conn, other.ID, "Desk Lamp", time.Now().UTC())

	key := "Ab1Cd_chair.png"
	require.NoError(t, repo.SetProductPhotoKey(ctx, withPhoto.ID, &key))
	otherKey := "Xy9Zw_lamp.png"
	require.NoError(t, repo.SetProductPhotoKey(ctx, elsewhere.ID, &otherKey))

	keys, err := repo.ProductPhotoKeysByCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}

func TestRepositoryDeleteCategoryMissing(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)

	err := repo.DeleteCategory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListProductsByCategory(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	chairs := seedCategory(t, conn, "Chairs")
	lamps := seedCategory(t, conn, "Lamps")
	base := time.Now().UTC().Add(-time.Hour)
	seedProduct(t, conn, chairs.ID, "Oak Chair", base)
	seedProduct(t, conn, chairs.ID, "Pine Chair", base.Add(time.Minute))
	seedProduct(t, conn, lamps.ID, "Desk Lamp", base.Add(2*time.Minute))

	got, err := repo.ListProducts(ctx, &chairs.ID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pine Chair", got[0].Name)
	assert.Equal(t, "Oak Chair", got[1].Name)
}

func TestRepositoryListProductsPagination(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := seedCategory(t, conn, "Bulk")
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedProduct(t, conn, category.ID, fmt.Sprintf("Item %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.ListProducts(ctx, &category.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	// Limit plus one row to signal the next page.
	require.Len(t, first, 3)

	cursor := pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: first[1].CreatedAt,
		ID:        first[1].ID,
	})
	second, err := repo.ListProducts(ctx, &category.ID, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.NotEmpty(t, second)
	assert.True(t, second[0].CreatedAt.Before(first[1].CreatedAt))
}

func TestRepositoryUpdateProductPartial(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := seedCategory(t, conn, "Chairs")
	product := seedProduct(t, conn, category.ID, "Oak Chair", time.Now().UTC())

	newPrice := decimal.RequireFromString("19.50")
	updated, err := repo.UpdateProduct(ctx, product.ID, UpdateProductDTO{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Oak Chair", updated.Name)
	assert.Equal(t, 5, updated.Stock)
}

func TestRepositorySetProductPhotoKey(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := seedCategory(t, conn, "Chairs")
	product := seedProduct(t, conn, category.ID, "Oak Chair", time.Now().UTC())

	key := "Ab1Cd_chair.png"
	require.NoError(t, repo.SetProductPhotoKey(ctx, product.ID, &key))

	loaded, err := repo.FindProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.PhotoKey)
	assert.Equal(t, key, *loaded.PhotoKey)

	require.NoError(t, repo.SetProductPhotoKey(ctx, product.ID, nil))
	loaded, err = repo.FindProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.PhotoKey)
}
