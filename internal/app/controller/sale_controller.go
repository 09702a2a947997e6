package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
)

type SaleController struct {
	saleService   service.SaleService
	exportService service.ExportService
}

func NewSaleController(saleService service.SaleService, exportService service.ExportService) *SaleController {
	return &SaleController{
		saleService:   saleService,
		exportService: exportService,
	}
}

type UpdateSaleStatusRequest struct {
	Status model.SaleStatus `json:"status" binding:"required"`
}

// List returns sales, newest first
// GET /api/v1/admin/sales
func (ctrl *SaleController) List(c *gin.Context) {
	sales, err := ctrl.saleService.List(c.Query("search"))
	if err != nil {
		respondError(c, err, "sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales": sales,
		"count": len(sales),
	})
}

// Get returns a sale with its items
// GET /api/v1/admin/sales/:id
func (ctrl *SaleController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sale, err := ctrl.saleService.Get(id)
	if err != nil {
		respondError(c, err, "sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// Create records a sale and its items
// POST /api/v1/admin/sales
func (ctrl *SaleController) Create(c *gin.Context) {
	var input service.SaleInput
	if !bindJSON(c, &input) {
		return
	}

	sale, err := ctrl.saleService.Create(actorFrom(c), input)
	if err != nil {
		respondError(c, err, "create sale")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Sale created", map[string]interface{}{
		"sale_id": sale.ID,
		"total":   sale.TotalAmount,
	})
	c.JSON(http.StatusCreated, gin.H{"sale": sale})
}

// Update edits a sale, reconciling its items
// PUT /api/v1/admin/sales/:id
func (ctrl *SaleController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.SaleInput
	if !bindJSON(c, &input) {
		return
	}

	sale, err := ctrl.saleService.Update(actorFrom(c), id, input)
	if err != nil {
		respondError(c, err, "update sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// UpdateStatus moves a sale to another status
// PATCH /api/v1/admin/sales/:id/status
func (ctrl *SaleController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateSaleStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := ctrl.saleService.UpdateStatus(actorFrom(c), id, req.Status)
	if err != nil {
		respondError(c, err, "update sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// Delete removes a sale and its items
// DELETE /api/v1/admin/sales/:id
func (ctrl *SaleController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.saleService.Delete(actorFrom(c), id); err != nil {
		respondError(c, err, "delete sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venta eliminada"})
}

// Export downloads every sale as CSV or XLSX
// GET /api/v1/admin/sales/export?format=csv|xlsx
func (ctrl *SaleController) Export(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportCSV))))

	var buf bytes.Buffer
	rows, err := ctrl.exportService.ExportSales(&buf, format)
	if err != nil {
		respondError(c, err, "sale")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Sales exported", map[string]interface{}{
		"format": format,
		"rows":   rows,
	})
	filename := fmt.Sprintf("ventas-%s.%s", time.Now().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
