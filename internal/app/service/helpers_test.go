package service

import (
	"testing"
	"time"

	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testActor = Actor{UserID: 1, Email: "admin@gmp.uy"}

type testEnv struct {
	db         *gorm.DB
	products   repository.ProductRepository
	categories repository.CategoryRepository
	sales      repository.SaleRepository
	activity   repository.ActivityLogRepository
	messages   repository.ContactMessageRepository
	admins     repository.AdminUserRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	return &testEnv{
		db:         database,
		products:   repository.NewProductRepository(database),
		categories: repository.NewCategoryRepository(database),
		sales:      repository.NewSaleRepository(database),
		activity:   repository.NewActivityLogRepository(database),
		messages:   repository.NewContactMessageRepository(database),
		admins:     repository.NewAdminUserRepository(database),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Catalog: config.CatalogConfig{
			PriceLow:       50000,
			PriceHigh:      100000,
			FeaturedLimit:  3,
			SearchDebounce: 10 * time.Millisecond,
		},
		Contact: config.ContactConfig{
			WhatsAppNumber: "59898702414",
			InstagramURL:   "https://www.instagram.com/gmp.artesanias/",
		},
	}
}

func (e *testEnv) category(t *testing.T, name string, main model.MainCategory) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, MainCategory: main}
	require.NoError(t, e.categories.Create(category))
	return category
}

func (e *testEnv) product(t *testing.T, category *model.Category, title string, price int64, status model.InventoryStatus) *model.Product {
	t.Helper()
	product := &model.Product{
		Title:            title,
		Slug:             title,
		Description:      "Hecho a mano",
		ShortDescription: title,
		Price:            price,
		CategoryID:       category.ID,
		Available:        true,
		InventoryStatus:  status,
		MainCategory:     category.MainCategory,
	}
	require.NoError(t, e.products.Create(product))
	return product
}

func (e *testEnv) logCount(t *testing.T) int {
	t.Helper()
	logs, err := e.activity.Find(repository.ActivityLogFilter{})
	require.NoError(t, err)
	return len(logs)
}

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }
