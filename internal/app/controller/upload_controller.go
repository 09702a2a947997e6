package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	apperrors "github.com/gmp-artesanias/gmp-backend/internal/errors"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
)

// maxUploadForm bounds the multipart form held in memory; larger parts spill to disk.
const maxUploadForm = 32 << 20

type UploadController struct {
	uploadService service.UploadService
}

func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadImages stores the images of the "images" form field and returns
// their public URLs. Files that fail are listed under "failed".
// POST /api/v1/admin/uploads/images
func (ctrl *UploadController) UploadImages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := c.Request.ParseMultipartForm(maxUploadForm); err != nil {
		log.Warn("Invalid multipart form", map[string]interface{}{"error": err.Error()})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Formulario inválido")
		return
	}
	headers := c.Request.MultipartForm.File["images"]
	if len(headers) == 0 {
		apperrors.RespondWithValidationError(c, map[string]string{"images": "Seleccioná al menos una imagen"})
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, h := range headers {
		h := h
		files = append(files, service.UploadFile{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
			Open: func() (io.ReadCloser, error) {
				return h.Open()
			},
		})
	}

	result, err := ctrl.uploadService.UploadImages(c.Request.Context(), files)
	if err != nil {
		respondError(c, err, "upload")
		return
	}

	if len(result.URLs) == 0 {
		log.Warn("No image could be uploaded", map[string]interface{}{"files": len(files)})
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   apperrors.UploadFailed,
			"message": "No se pudo subir ninguna imagen",
			"failed":  result.Failed,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Presign returns a direct upload URL for one image
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) Presign(c *gin.Context) {
	var req PresignRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := ctrl.uploadService.PresignImage(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		respondError(c, err, "upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload": upload})
}
