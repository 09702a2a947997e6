package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	key := ObjectKey("/products/", "Billetera Marrón.JPG", now)
	assert.Regexp(t, regexp.MustCompile(`^products/1700000000123-[0-9a-f]{8}-billetera-marron\.jpg$`), key)

	key = ObjectKey("products", "???.png", now)
	assert.Regexp(t, regexp.MustCompile(`^products/1700000000123-[0-9a-f]{8}-imagen\.png$`), key)

	assert.NotEqual(t, ObjectKey("p", "a.png", now), ObjectKey("p", "a.png", now))
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage("image/webp", 1024))
	assert.ErrorIs(t, ValidateImage("application/pdf", 1024), ErrUnsupportedType)
	assert.ErrorIs(t, ValidateImage("image/png", MaxImageSize+1), ErrFileTooLarge)
}

func TestPublicURL(t *testing.T) {
	s := &S3Storage{bucket: "gmp", region: "sa-east-1"}
	assert.Equal(t, "https://gmp.s3.sa-east-1.amazonaws.com/products/a.png", s.PublicURL("products/a.png"))

	s.baseURL = "https://cdn.gmp.uy"
	assert.Equal(t, "https://cdn.gmp.uy/products/a.png", s.PublicURL("products/a.png"))
}
