package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gmp-artesanias/gmp-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	objects map[string]string
	failOn  string
}

func (f *fakeStorage) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	if f.failOn != "" && strings.Contains(key, f.failOn) {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = string(data)
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) PresignPut(_ context.Context, key, _ string) (*storage.PresignedUpload, error) {
	return &storage.PresignedUpload{UploadURL: "https://upload.test/" + key, FileURL: "https://cdn.test/" + key, Key: key}, nil
}

func fileOf(name, contentType, body string) UploadFile {
	return UploadFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestUploadService_UploadImages(t *testing.T) {
	store := &fakeStorage{objects: map[string]string{}, failOn: "rota"}
	svc := NewUploadService(store, "products", nil)

	result, err := svc.UploadImages(context.Background(), []UploadFile{
		fileOf("billetera.jpg", "image/jpeg", "jpeg-bytes"),
		fileOf("manual.pdf", "application/pdf", "pdf"),
		fileOf("rota.png", "image/png", "png-bytes"),
		fileOf("cartera.webp", "image/webp", "webp-bytes"),
	})
	require.NoError(t, err)

	require.Len(t, result.URLs, 2)
	assert.True(t, strings.HasPrefix(result.URLs[0], "https://cdn.test/products/"))
	assert.True(t, strings.HasSuffix(result.URLs[0], "-billetera.jpg"))
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "manual.pdf", result.Failed[0].Name)
	assert.Equal(t, "rota.png", result.Failed[1].Name)
	assert.Len(t, store.objects, 2)
}

func TestUploadService_Unavailable(t *testing.T) {
	svc := NewUploadService(nil, "products", nil)

	_, err := svc.UploadImages(context.Background(), []UploadFile{fileOf("a.png", "image/png", "x")})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	_, err = svc.PresignImage(context.Background(), "a.png", "image/png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestUploadService_Presign(t *testing.T) {
	svc := NewUploadService(&fakeStorage{objects: map[string]string{}}, "products", nil)

	upload, err := svc.PresignImage(context.Background(), "Cartera Verde.png", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(upload.Key, "-cartera-verde.png"))

	_, err = svc.PresignImage(context.Background(), "x.exe", "application/octet-stream")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UploadImages(context.Background(), nil)
	assert.ErrorAs(t, err, &verr)
}
