package db

import (
	"testing"

	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleTotalTrigger(t *testing.T) {
	database, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(database)

	category := model.Category{Name: "Billeteras", MainCategory: model.MainCategoryLeather}
	require.NoError(t, database.Create(&category).Error)
	product := model.Product{Title: "Billetera", Description: "Cuero", Price: 1200, CategoryID: category.ID, Available: true, MainCategory: model.MainCategoryLeather}
	require.NoError(t, database.Create(&product).Error)

	sale := model.Sale{CustomerName: "Ana"}
	require.NoError(t, database.Create(&sale).Error)

	readTotal := func() int64 {
		var s model.Sale
		require.NoError(t, database.First(&s, sale.ID).Error)
		return s.TotalAmount
	}

	first := model.SaleItem{SaleID: sale.ID, ProductID: product.ID, Quantity: 2, UnitPrice: 1200, Subtotal: 2400}
	second := model.SaleItem{SaleID: sale.ID, ProductID: product.ID, Quantity: 1, UnitPrice: 500, Subtotal: 500}
	require.NoError(t, database.Create(&first).Error)
	require.NoError(t, database.Create(&second).Error)
	assert.Equal(t, int64(2900), readTotal())

	require.NoError(t, database.Model(&first).Update("subtotal", 3600).Error)
	assert.Equal(t, int64(4100), readTotal())

	require.NoError(t, database.Delete(&second).Error)
	assert.Equal(t, int64(3600), readTotal())
}

func TestSeed(t *testing.T) {
	database, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(database)

	t.Run("skips when not configured", func(t *testing.T) {
		require.NoError(t, Seed(database, &config.AdminSeedConfig{}))
		var count int64
		database.Model(&model.AdminUser{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("creates admin once", func(t *testing.T) {
		cfg := &config.AdminSeedConfig{Email: "admin@gmp.uy", Password: "artesanias2024", Name: "GMP"}
		require.NoError(t, Seed(database, cfg))
		require.NoError(t, Seed(database, cfg))

		var admins []model.AdminUser
		require.NoError(t, database.Find(&admins).Error)
		require.Len(t, admins, 1)
		assert.True(t, util.VerifyPassword(admins[0].PasswordHash, "artesanias2024"))
	})
}
