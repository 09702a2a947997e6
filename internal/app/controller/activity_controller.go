package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	apperrors "github.com/gmp-artesanias/gmp-backend/internal/errors"
)

type ActivityController struct {
	activityService service.ActivityService
}

func NewActivityController(activityService service.ActivityService) *ActivityController {
	return &ActivityController{activityService: activityService}
}

// List returns activity entries, newest first
// GET /api/v1/admin/activity?search=&action_type=&limit=
func (ctrl *ActivityController) List(c *gin.Context) {
	filter := repository.ActivityLogFilter{
		Search:     c.Query("search"),
		ActionType: model.ActionType(c.Query("action_type")),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			apperrors.RespondWithValidationError(c, map[string]string{"limit": "Debe ser un número positivo"})
			return
		}
		filter.Limit = limit
	}

	entries, err := ctrl.activityService.List(filter)
	if err != nil {
		respondError(c, err, "activity")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": entries,
		"count":    len(entries),
	})
}

// Recent returns the latest entries for the dashboard
// GET /api/v1/admin/activity/recent
func (ctrl *ActivityController) Recent(c *gin.Context) {
	entries, err := ctrl.activityService.Recent()
	if err != nil {
		respondError(c, err, "activity")
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

// Delete removes one entry
// DELETE /api/v1/admin/activity/:id
func (ctrl *ActivityController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.activityService.Delete(id); err != nil {
		respondError(c, err, "delete activity")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registro eliminado"})
}
