package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	MaxImageSize  = 5 << 20
	presignExpiry = 15 * time.Minute
)

var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var (
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrFileTooLarge    = errors.New("file exceeds the maximum size")
)

// ObjectStorage stores product images and returns their public URLs.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error)
}

var _ ObjectStorage = (*S3Storage)(nil)

type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
	baseURL string
}

// NewS3Storage uses static credentials when configured, otherwise the
// default AWS credential chain.
func NewS3Storage(ctx context.Context, cfg *config.S3Config) (*S3Storage, error) {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// PresignPut returns a short-lived URL the dashboard can upload to directly.
func (s *S3Storage) PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return &PresignedUpload{UploadURL: req.URL, FileURL: s.PublicURL(key), Key: key}, nil
}

func (s *S3Storage) PublicURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// ObjectKey names an upload "<folder>/<unix ms>-<random>-<clean name><ext>".
func ObjectKey(folder, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if name == "" {
		name = "imagen"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/%d-%s-%s%s", strings.Trim(folder, "/"), now.UnixMilli(), random, name, ext)
}

// ValidateImage checks the declared type and size of an upload.
func ValidateImage(contentType string, size int64) error {
	if size > MaxImageSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, MaxImageSize)
	}
	for _, allowed := range AllowedImageTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
}
