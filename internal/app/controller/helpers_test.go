package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/internal/db"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
	"github.com/gmp-artesanias/gmp-backend/internal/storage"
	ws "github.com/gmp-artesanias/gmp-backend/internal/websocket"
	"github.com/gmp-artesanias/gmp-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret        = "test-secret"
	testAdminEmail    = "admin@gmp.uy"
	testAdminPassword = "clave-segura"
)

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = true
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenID], nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	admin  *model.AdminUser
	token  string
	hub    *ws.Hub

	products   repository.ProductRepository
	categories repository.CategoryRepository
	contact    service.ContactService
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             testSecret,
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

// setupControllerTest mounts every controller on a fresh database. store may be nil.
func setupControllerTest(t *testing.T, store storage.ObjectStorage) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := testConfig()

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	saleRepo := repository.NewSaleRepository(testDB)
	messageRepo := repository.NewContactMessageRepository(testDB)
	activityRepo := repository.NewActivityLogRepository(testDB)
	adminRepo := repository.NewAdminUserRepository(testDB)

	hash, err := util.HashPassword(testAdminPassword)
	require.NoError(t, err)
	admin := &model.AdminUser{Email: testAdminEmail, Name: "Admin", PasswordHash: hash}
	require.NoError(t, testDB.Create(admin).Error)

	revoker := &memoryRevoker{revoked: map[string]bool{}}
	activityService := service.NewActivityService(activityRepo)
	authService := service.NewAuthService(adminRepo, cfg.JWT, revoker)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, cfg, nil)
	contactService := service.NewContactService(messageRepo)

	hub := ws.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	contactService.OnUnreadChange(hub.PushUnreadCount)

	upgrader := ws.NewUpgrader([]string{"*"})
	authMiddleware := middleware.NewAuthMiddleware(testSecret, authService)

	catalogCtrl := NewCatalogController(catalogService, upgrader, nil)
	contactCtrl := NewContactController(contactService)
	authCtrl := NewAuthController(authService)
	productCtrl := NewProductController(service.NewProductService(productRepo, categoryRepo, activityService))
	categoryCtrl := NewCategoryController(service.NewCategoryService(categoryRepo, productRepo, activityService))
	saleCtrl := NewSaleController(service.NewSaleService(saleRepo, productRepo, activityService), service.NewExportService(saleRepo))
	activityCtrl := NewActivityController(activityService)
	dashboardCtrl := NewDashboardController(service.NewDashboardService(productRepo, categoryRepo, saleRepo, messageRepo))
	uploadCtrl := NewUploadController(service.NewUploadService(store, "products", nil))
	notificationCtrl := NewNotificationController(hub, contactService, upgrader)

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())

	r.GET("/catalog/products", catalogCtrl.ListProducts)
	r.GET("/catalog/products/:ref", catalogCtrl.GetProduct)
	r.GET("/catalog/featured", catalogCtrl.Featured)
	r.GET("/catalog/categories", catalogCtrl.Categories)
	r.GET("/catalog/live", catalogCtrl.Live)
	r.POST("/contact", contactCtrl.Submit)

	r.POST("/auth/login", authCtrl.Login)
	r.POST("/auth/refresh", authCtrl.Refresh)

	adminGroup := r.Group("/admin", authMiddleware.Authenticate(), authMiddleware.RequireRole(model.RoleAdmin))
	adminGroup.POST("/auth/logout", authCtrl.Logout)
	adminGroup.GET("/auth/me", authCtrl.Me)
	adminGroup.GET("/products", productCtrl.List)
	adminGroup.POST("/products", productCtrl.Create)
	adminGroup.GET("/products/:id", productCtrl.Get)
	adminGroup.PUT("/products/:id", productCtrl.Update)
	adminGroup.DELETE("/products/:id", productCtrl.Delete)
	adminGroup.POST("/uploads/images", uploadCtrl.UploadImages)
	adminGroup.POST("/uploads/presign", uploadCtrl.Presign)
	adminGroup.GET("/categories", categoryCtrl.List)
	adminGroup.POST("/categories", categoryCtrl.Create)
	adminGroup.PUT("/categories/:id", categoryCtrl.Update)
	adminGroup.DELETE("/categories/:id", categoryCtrl.Delete)
	adminGroup.GET("/sales", saleCtrl.List)
	adminGroup.POST("/sales", saleCtrl.Create)
	adminGroup.GET("/sales/export", saleCtrl.Export)
	adminGroup.GET("/sales/:id", saleCtrl.Get)
	adminGroup.PUT("/sales/:id", saleCtrl.Update)
	adminGroup.PATCH("/sales/:id/status", saleCtrl.UpdateStatus)
	adminGroup.DELETE("/sales/:id", saleCtrl.Delete)
	adminGroup.GET("/activity", activityCtrl.List)
	adminGroup.GET("/activity/recent", activityCtrl.Recent)
	adminGroup.DELETE("/activity/:id", activityCtrl.Delete)
	adminGroup.GET("/messages", contactCtrl.List)
	adminGroup.GET("/messages/unread-count", contactCtrl.UnreadCount)
	adminGroup.PATCH("/messages/:id/read", contactCtrl.ToggleRead)
	adminGroup.DELETE("/messages/:id", contactCtrl.Delete)
	adminGroup.GET("/dashboard", dashboardCtrl.Stats)
	adminGroup.GET("/ws", notificationCtrl.Connect)

	tokens, err := util.GenerateTokenPair(admin.ID, admin.Email, model.RoleAdmin, testSecret, time.Hour, 24*time.Hour)
	require.NoError(t, err)

	return &testServer{
		router:     r,
		db:         testDB,
		admin:      admin,
		token:      tokens.AccessToken,
		hub:        hub,
		products:   productRepo,
		categories: categoryRepo,
		contact:    contactService,
	}
}

// do sends a JSON request. Admin requests carry the test token.
func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return s.doWithToken(t, method, path, body, s.token)
}

func (s *testServer) doWithToken(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func (s *testServer) category(t *testing.T, name string, main model.MainCategory) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, MainCategory: main}
	require.NoError(t, s.categories.Create(category))
	return category
}

func (s *testServer) product(t *testing.T, category *model.Category, title string, price int64, status model.InventoryStatus) *model.Product {
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
	require.NoError(t, s.products.Create(product))
	return product
}
