package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/internal/app/controller"
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	apperrors "github.com/gmp-artesanias/gmp-backend/internal/errors"
	"github.com/gmp-artesanias/gmp-backend/internal/metrics"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
)

// Controllers groups every HTTP handler the router mounts.
type Controllers struct {
	Catalog      *controller.CatalogController
	Contact      *controller.ContactController
	Auth         *controller.AuthController
	Product      *controller.ProductController
	Category     *controller.CategoryController
	Sale         *controller.SaleController
	Activity     *controller.ActivityController
	Dashboard    *controller.DashboardController
	Upload       *controller.UploadController
	Notification *controller.NotificationController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.Metrics
	metricsHandler http.Handler
	config         *config.Config
}

// NewRouter wires the handlers. metricsHandler serves /metrics and may be nil.
func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
	metricsHandler http.Handler,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		metrics:        m,
		metricsHandler: metricsHandler,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		middleware.GetLoggerFromContext(c).Error("Recovered from panic", nil, map[string]interface{}{
			"panic": recovered,
			"path":  c.Request.URL.Path,
		})
		apperrors.InternalError(c, "")
		c.Abort()
	}))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(r.metrics))
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "GMP Artesanías API is running",
		})
	})
	if r.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(r.metricsHandler))
	}

	ctrl := r.controllers
	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/products", ctrl.Catalog.ListProducts)
			catalog.GET("/products/:ref", ctrl.Catalog.GetProduct)
			catalog.GET("/featured", ctrl.Catalog.Featured)
			catalog.GET("/categories", ctrl.Catalog.Categories)
			catalog.GET("/live", ctrl.Catalog.Live)
		}

		v1.POST("/contact", ctrl.Contact.Submit)

		auth := v1.Group("/admin/auth")
		{
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/refresh", ctrl.Auth.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), ctrl.Auth.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), ctrl.Auth.Me)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/dashboard", ctrl.Dashboard.Stats)
			admin.GET("/ws", ctrl.Notification.Connect)

			products := admin.Group("/products")
			{
				products.GET("", ctrl.Product.List)
				products.POST("", ctrl.Product.Create)
				products.GET("/:id", ctrl.Product.Get)
				products.PUT("/:id", ctrl.Product.Update)
				products.DELETE("/:id", ctrl.Product.Delete)
			}

			uploads := admin.Group("/uploads")
			{
				uploads.POST("/images", ctrl.Upload.UploadImages)
				uploads.POST("/presign", ctrl.Upload.Presign)
			}

			categories := admin.Group("/categories")
			{
				categories.GET("", ctrl.Category.List)
				categories.POST("", ctrl.Category.Create)
				categories.PUT("/:id", ctrl.Category.Update)
				categories.DELETE("/:id", ctrl.Category.Delete)
			}

			sales := admin.Group("/sales")
			{
				sales.GET("", ctrl.Sale.List)
				sales.POST("", ctrl.Sale.Create)
				sales.GET("/export", ctrl.Sale.Export)
				sales.GET("/:id", ctrl.Sale.Get)
				sales.PUT("/:id", ctrl.Sale.Update)
				sales.PATCH("/:id/status", ctrl.Sale.UpdateStatus)
				sales.DELETE("/:id", ctrl.Sale.Delete)
			}

			activity := admin.Group("/activity")
			{
				activity.GET("", ctrl.Activity.List)
				activity.GET("/recent", ctrl.Activity.Recent)
				activity.DELETE("/:id", ctrl.Activity.Delete)
			}

			messages := admin.Group("/messages")
			{
				messages.GET("", ctrl.Contact.List)
				messages.GET("/unread-count", ctrl.Contact.UnreadCount)
				messages.PATCH("/:id/read", ctrl.Contact.ToggleRead)
				messages.DELETE("/:id", ctrl.Contact.Delete)
			}
		}
	}

	return router
}
