package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gmp-artesanias/gmp-backend/internal/metrics"
	"github.com/gmp-artesanias/gmp-backend/internal/storage"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
)

// UploadFile is one image received from the admin form.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type UploadResult struct {
	URLs   []string        `json:"urls"`
	Failed []UploadFailure `json:"failed,omitempty"`
}

type UploadService interface {
	UploadImages(ctx context.Context, files []UploadFile) (*UploadResult, error)
	PresignImage(ctx context.Context, filename, contentType string) (*storage.PresignedUpload, error)
}

type uploadService struct {
	store   storage.ObjectStorage
	folder  string
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewUploadService accepts a nil store; uploads then fail with ErrStorageUnavailable.
func NewUploadService(store storage.ObjectStorage, folder string, m *metrics.Metrics) UploadService {
	return &uploadService{
		store:   store,
		folder:  folder,
		metrics: m,
		now:     time.Now,
	}
}

// UploadImages stores files one at a time. A file that fails is reported in
// the result and does not stop the rest.
func (s *uploadService) UploadImages(ctx context.Context, files []UploadFile) (*UploadResult, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if len(files) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"images": "Seleccioná al menos una imagen"}}
	}

	result := &UploadResult{URLs: []string{}}
	for _, file := range files {
		url, err := s.uploadOne(ctx, file)
		s.metrics.RecordImageUpload(err)
		if err != nil {
			logger.Warn("Image upload failed", map[string]interface{}{
				"file":  file.Name,
				"error": err.Error(),
			})
			result.Failed = append(result.Failed, UploadFailure{Name: file.Name, Error: err.Error()})
			continue
		}
		result.URLs = append(result.URLs, url)
	}

	logger.Info("Images uploaded", map[string]interface{}{
		"uploaded": len(result.URLs),
		"failed":   len(result.Failed),
	})
	return result, nil
}

func (s *uploadService) uploadOne(ctx context.Context, file UploadFile) (string, error) {
	if err := storage.ValidateImage(file.ContentType, file.Size); err != nil {
		return "", err
	}
	body, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer body.Close()

	key := storage.ObjectKey(s.folder, file.Name, s.now())
	return s.store.Put(ctx, key, file.ContentType, body, file.Size)
}

func (s *uploadService) PresignImage(ctx context.Context, filename, contentType string) (*storage.PresignedUpload, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if err := storage.ValidateImage(contentType, 0); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"content_type": "Tipo de archivo no permitido"}}
	}
	return s.store.PresignPut(ctx, storage.ObjectKey(s.folder, filename, s.now()), contentType)
}
