package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	apperrors "github.com/gmp-artesanias/gmp-backend/internal/errors"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
	"github.com/gmp-artesanias/gmp-backend/internal/storage"
)

// parseID reads a numeric path parameter, answering 400 when it is not one.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": param,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body, answering 400 when it is malformed.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return false
	}
	return true
}

func actorFrom(c *gin.Context) service.Actor {
	id, _ := middleware.GetUserID(c)
	email, _ := middleware.GetUserEmail(c)
	return service.Actor{UserID: id, Email: email}
}

var notFound = []struct {
	err     error
	code    string
	message string
}{
	{service.ErrProductNotFound, apperrors.ProductNotFound, "Producto no encontrado"},
	{service.ErrCategoryNotFound, apperrors.CategoryNotFound, "Categoría no encontrada"},
	{service.ErrSaleNotFound, apperrors.SaleNotFound, "Venta no encontrada"},
	{service.ErrSaleItemNotFound, apperrors.SaleNotFound, "El ítem no pertenece a esta venta"},
	{service.ErrMessageNotFound, apperrors.MessageNotFound, "Mensaje no encontrado"},
	{service.ErrActivityNotFound, apperrors.ActivityNotFound, "Registro de actividad no encontrado"},
	{service.ErrAdminNotFound, apperrors.ResourceNotFound, "Usuario no encontrado"},
}

// respondError maps service errors onto HTTP responses. Anything unknown is
// logged and answered with a client-safe message.
func respondError(c *gin.Context, err error, context string) {
	var (
		validation *service.ValidationError
		inUse      *service.CategoryInUseError
	)
	switch {
	case errors.As(err, &validation):
		apperrors.RespondWithValidationError(c, validation.Fields)
		return
	case errors.As(err, &inUse):
		apperrors.Conflict(c, apperrors.CategoryHasProducts, inUse.Error())
		return
	case errors.Is(err, service.ErrCategoryExists):
		apperrors.Conflict(c, apperrors.CategoryAlreadyExists, "Ya existe una categoría con ese nombre")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Email o contraseña incorrectos")
		return
	case errors.Is(err, service.ErrInvalidToken):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Token de autenticación inválido")
		return
	case errors.Is(err, service.ErrTokenRevoked):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "La sesión fue cerrada")
		return
	case errors.Is(err, service.ErrStorageUnavailable):
		apperrors.ServiceUnavailable(c, apperrors.UploadUnavailable, "La subida de imágenes no está configurada")
		return
	case errors.Is(err, storage.ErrUnsupportedType):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Solo se permiten imágenes JPEG, PNG, WEBP o GIF")
		return
	case errors.Is(err, storage.ErrFileTooLarge):
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "La imagen supera los 5 MB")
		return
	}

	for _, nf := range notFound {
		if errors.Is(err, nf.err) {
			apperrors.NotFound(c, nf.code, nf.message)
			return
		}
	}

	middleware.GetLoggerFromContext(c).Error("Request failed", err, map[string]interface{}{
		"context": context,
	})
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
}
