package repository

import (
	"testing"
	"time"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })
	return database
}

func createCategory(t *testing.T, database *gorm.DB, name string, main model.MainCategory) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, MainCategory: main}
	require.NoError(t, database.Create(category).Error)
	return category
}

var productSeq int

// createProduct inserts a product with a distinct created_at so ordering is stable.
func createProduct(t *testing.T, database *gorm.DB, category *model.Category, title string, price int64, status model.InventoryStatus, available bool) *model.Product {
	t.Helper()
	productSeq++
	product := &model.Product{
		Title:           title,
		Slug:            title,
		Description:     "Hecho a mano: " + title,
		Price:           price,
		CategoryID:      category.ID,
		Available:       available,
		InventoryStatus: status,
		MainCategory:    category.MainCategory,
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, productSeq, 0, time.UTC),
	}
	require.NoError(t, database.Create(product).Error)
	return product
}

func productIDs(products []model.Product) []uint {
	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
