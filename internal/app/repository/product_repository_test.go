package repository

import (
	"testing"

	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductRepo(t *testing.T) (ProductRepository, *gorm.DB) {
	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })
	return NewProductRepository(database), database
}

func seedProducts(t *testing.T, repo ProductRepository) {
	products := []model.Product{
		{SKU: "GJK-REG-250", Name: "Regular Gajak 250g", Category: "gajak", PricePerKg: 450, GSTPercent: 5, IsPopular: true},
		{SKU: "GJK-SPL-250", Name: "Special Gajak 250g", Category: "gajak", PricePerKg: 520, GSTPercent: 5},
		{SKU: "GJK-DRY-500", Name: "Dry Fruit Gajak 500g", Category: "dry-fruit", PricePerKg: 680, GSTPercent: 5},
		{SKU: "GJK-TIL-250", Name: "Til Gajak 250g", Category: "gajak", PricePerKg: 420, GSTPercent: 5},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	repo, _ := setupProductRepo(t)
	seedProducts(t, repo)

	t.Run("no filter returns everything", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{})
		require.NoError(t, err)
		assert.Len(t, products, 4)
	})

	t.Run("popular products sort first", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, "GJK-REG-250", products[0].SKU)
	})

	t.Run("search matches name", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{Search: "Dry Fruit"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "GJK-DRY-500", products[0].SKU)
	})

	t.Run("search matches SKU fragment", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{Search: "TIL"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "GJK-TIL-250", products[0].SKU)
	})

	t.Run("search matches category", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{Search: "dry-fruit"})
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("limit and offset paginate", func(t *testing.T) {
		page1, err := repo.FindWithFilter(ProductFilter{Limit: 2})
		require.NoError(t, err)
		page2, err := repo.FindWithFilter(ProductFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, page1, 2)
		assert.Len(t, page2, 2)
		assert.NotEqual(t, page1[0].SKU, page2[0].SKU)
	})
}

func TestProductRepository_CountWithFilter(t *testing.T) {
	repo, _ := setupProductRepo(t)
	seedProducts(t, repo)

	total, err := repo.CountWithFilter(ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	// Count ignores pagination so the client can page against the full total.
	filtered, err := repo.CountWithFilter(ProductFilter{Search: "Gajak", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), filtered)
}

func TestProductRepository_FindBySKU(t *testing.T) {
	repo, _ := setupProductRepo(t)
	seedProducts(t, repo)

	product, err := repo.FindBySKU("GJK-SPL-250")
	require.NoError(t, err)
	assert.Equal(t, "Special Gajak 250g", product.Name)
	assert.Equal(t, 520.0, product.PricePerKg)

	_, err = repo.FindBySKU("GJK-NOPE-000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_DeleteBySKU(t *testing.T) {
	repo, _ := setupProductRepo(t)
	seedProducts(t, repo)

	require.NoError(t, repo.DeleteBySKU("GJK-TIL-250"))

	_, err := repo.FindBySKU("GJK-TIL-250")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	total, err := repo.CountWithFilter(ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestProductRepository_RotateDealOfDay(t *testing.T) {
	repo, _ := setupProductRepo(t)
	seedProducts(t, repo)

	first, err := repo.RotateDealOfDay()
	require.NoError(t, err)
	assert.True(t, first.IsDealOfDay)

	second, err := repo.RotateDealOfDay()
	require.NoError(t, err)
	assert.True(t, second.IsDealOfDay)
	assert.NotEqual(t, first.SKU, second.SKU)

	deal, err := repo.FindDealOfDay()
	require.NoError(t, err)
	assert.Equal(t, second.SKU, deal.SKU)
}
