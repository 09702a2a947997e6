package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/internal/catalog"
	apperrors "github.com/gmp-artesanias/gmp-backend/internal/errors"
	"github.com/gmp-artesanias/gmp-backend/internal/metrics"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
	ws "github.com/gmp-artesanias/gmp-backend/internal/websocket"
	"github.com/gorilla/websocket"
)

const catalogChannel = "catalog"

type CatalogController struct {
	catalogService service.CatalogService
	upgrader       *websocket.Upgrader
	metrics        *metrics.Metrics
}

func NewCatalogController(catalogService service.CatalogService, upgrader *websocket.Upgrader, m *metrics.Metrics) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		upgrader:       upgrader,
		metrics:        m,
	}
}

// ListProducts returns the storefront products matching the query filters
// GET /api/v1/catalog/products
func (ctrl *CatalogController) ListProducts(c *gin.Context) {
	filters, err := filtersFromQuery(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFilter, err.Error())
		return
	}

	products, err := ctrl.catalogService.ListProducts(filters)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"filters":  filters,
	})
}

func filtersFromQuery(c *gin.Context) (catalog.Filters, error) {
	var (
		filters catalog.Filters
		err     error
	)
	if filters.MainCategory, err = catalog.ParseMainCategory(c.Query("main_category")); err != nil {
		return filters, err
	}
	filters.Category = catalog.ParseCategory(c.Query("category"))
	if filters.Inventory, err = catalog.ParseInventoryFlags(c.Query("inventory")); err != nil {
		return filters, err
	}
	if filters.Prices, err = catalog.ParsePriceRanges(c.Query("price")); err != nil {
		return filters, err
	}
	filters.Search = c.Query("search")
	return filters, nil
}

// GetProduct returns one visible product by id or slug
// GET /api/v1/catalog/products/:ref
func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	detail, err := ctrl.catalogService.GetProduct(c.Param("ref"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": detail})
}

// Featured returns the newest featured products
// GET /api/v1/catalog/featured
func (ctrl *CatalogController) Featured(c *gin.Context) {
	products, err := ctrl.catalogService.Featured()
	if err != nil {
		respondError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Categories returns every category with its product count
// GET /api/v1/catalog/categories
func (ctrl *CatalogController) Categories(c *gin.Context) {
	categories, err := ctrl.catalogService.Categories()
	if err != nil {
		respondError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type liveMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	*catalog.Snapshot
}

// Live runs a filter session over a websocket. The client sends filter
// events and receives a snapshot after each refresh.
// GET /api/v1/catalog/live
func (ctrl *CatalogController) Live(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade catalog connection", err)
		return
	}

	client := ws.NewClient(conn, 0)
	ctrl.metrics.AddSocketClients(catalogChannel, 1)
	defer ctrl.metrics.AddSocketClients(catalogChannel, -1)

	send := func(msg liveMessage) {
		data, err := json.Marshal(msg)
		if err != nil {
			log.Error("Failed to marshal catalog message", err)
			return
		}
		if !client.TrySend(data) {
			log.Warn("Catalog client send buffer full")
		}
	}

	session := ctrl.catalogService.NewSession(func(snap catalog.Snapshot) {
		send(liveMessage{Type: "snapshot", Snapshot: &snap})
	})
	session.OnError(func(_ uint64, err error) {
		msg := "No se pudo actualizar el catálogo"
		if errors.Is(err, service.ErrCategoryNotFound) {
			msg = "Categoría no encontrada"
		}
		send(liveMessage{Type: "error", Message: msg})
	})

	go client.WritePump()
	session.Refresh()

	client.ReadPump(func(message []byte) {
		var ev catalog.Event
		if err := json.Unmarshal(message, &ev); err != nil {
			send(liveMessage{Type: "error", Message: "Mensaje inválido"})
			return
		}
		if err := session.Apply(ev); err != nil {
			send(liveMessage{Type: "error", Message: err.Error()})
		}
	})

	session.Close()
	client.Close()
}
