package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Stats returns the dashboard counters
// GET /api/v1/admin/dashboard
func (ctrl *DashboardController) Stats(c *gin.Context) {
	stats, err := ctrl.dashboardService.Stats()
	if err != nil {
		respondError(c, err, "dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
