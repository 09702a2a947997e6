package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/internal/app/controller"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/internal/db"
	"github.com/gmp-artesanias/gmp-backend/internal/metrics"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
	"github.com/gmp-artesanias/gmp-backend/internal/router"
	"github.com/gmp-artesanias/gmp-backend/internal/scheduler"
	"github.com/gmp-artesanias/gmp-backend/internal/storage"
	"github.com/gmp-artesanias/gmp-backend/internal/websocket"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/gmp-artesanias/gmp-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: true,
	})

	logger.Info("Starting GMP Artesanías backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(db.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(db.GetDB(), &cfg.Admin); err != nil {
		logger.Warn("Failed to seed admin user", map[string]interface{}{
			"error": err.Error(),
		})
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Optional token blacklist
	var revoker service.TokenRevoker
	if cfg.Redis.Enabled() {
		blacklist, err := redis.NewTokenBlacklist(&cfg.Redis)
		if err != nil {
			logger.Warn("Token blacklist disabled, logout will not revoke tokens", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			revoker = blacklist
			defer blacklist.Close()
		}
	}

	// Optional image storage
	var store storage.ObjectStorage
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, &cfg.S3)
		if err != nil {
			logger.Warn("Image storage disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			store = s3Storage
		}
	}

	// Initialize repositories
	database := db.GetDB()
	productRepo := repository.NewProductRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	saleRepo := repository.NewSaleRepository(database)
	messageRepo := repository.NewContactMessageRepository(database)
	activityRepo := repository.NewActivityLogRepository(database)
	adminRepo := repository.NewAdminUserRepository(database)

	// Initialize services
	activityService := service.NewActivityService(activityRepo)
	authService := service.NewAuthService(adminRepo, cfg.JWT, revoker)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, cfg, m)
	productService := service.NewProductService(productRepo, categoryRepo, activityService)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, activityService)
	saleService := service.NewSaleService(saleRepo, productRepo, activityService)
	exportService := service.NewExportService(saleRepo)
	contactService := service.NewContactService(messageRepo)
	dashboardService := service.NewDashboardService(productRepo, categoryRepo, saleRepo, messageRepo)
	uploadService := service.NewUploadService(store, cfg.S3.Folder, m)

	// Admin notifications
	hub := websocket.NewHub(m)
	go hub.Run(ctx)
	contactService.OnUnreadChange(hub.PushUnreadCount)

	unreadScheduler := scheduler.NewUnreadCountScheduler(contactService, hub, m)
	if err := unreadScheduler.Start(cfg.Notifier.UnreadCountSpec); err != nil {
		logger.Fatal("Failed to start unread count scheduler", err)
	}

	// Initialize controllers
	upgrader := websocket.NewUpgrader(cfg.CORS.AllowedOrigins)
	controllers := router.Controllers{
		Catalog:      controller.NewCatalogController(catalogService, upgrader, m),
		Contact:      controller.NewContactController(contactService),
		Auth:         controller.NewAuthController(authService),
		Product:      controller.NewProductController(productService),
		Category:     controller.NewCategoryController(categoryService),
		Sale:         controller.NewSaleController(saleService, exportService),
		Activity:     controller.NewActivityController(activityService),
		Dashboard:    controller.NewDashboardController(dashboardService),
		Upload:       controller.NewUploadController(uploadService),
		Notification: controller.NewNotificationController(hub, contactService, upgrader),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, authService)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	engine := router.NewRouter(controllers, authMiddleware, m, metricsHandler, cfg).Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	unreadScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	stop()

	logger.Info("Server stopped successfully")
}
