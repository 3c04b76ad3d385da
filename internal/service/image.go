package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/mesobmatch/backend/config"
	"github.com/pageza/mesobmatch/backend/internal/apperr"
	"go.uber.org/zap"
)

// MaxImageSize is the largest recipe image accepted for upload.
const MaxImageSize = 15 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore is the subset of the S3 client used for images.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ImageService stores recipe images in S3
type ImageService struct {
	store  ObjectStore
	bucket string
	urlFor func(key string) string
	logger *zap.Logger
}

// NewImageService creates a new ImageService backed by the configured bucket
func NewImageService(s3Config *config.S3Config, logger *zap.Logger) *ImageService {
	return NewImageServiceWithStore(s3Config.Client, s3Config.BucketName, s3Config.ObjectURL, logger)
}

func NewImageServiceWithStore(store ObjectStore, bucket string, urlFor func(key string) string, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		store:  store,
		bucket: bucket,
		urlFor: urlFor,
		logger: logger,
	}
}

// ValidateImage checks the declared size and content type of an upload and
// returns the file extension to store it under.
func ValidateImage(size int64, contentType string) (string, error) {
	if size <= 0 {
		return "", apperr.New(apperr.ErrUnprocessable, 0, "Image file is empty")
	}
	if size > MaxImageSize {
		return "", apperr.Newf(apperr.ErrUnprocessable, 0, "Image must be smaller than %dMB", MaxImageSize>>20)
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := imageExtensions[mediaType]
	if !ok {
		return "", apperr.New(apperr.ErrUnprocessable, 0, "Image must be a JPEG, PNG, GIF or WebP file")
	}
	return ext, nil
}

// UploadRecipeImage stores the image under a fresh key and returns its
// public URL and object key.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID int64, body io.Reader, size int64, contentType string) (url, key string, err error) {
	ext, err := ValidateImage(size, contentType)
	if err != nil {
		return "", "", err
	}

	key = path.Join("recipe-images", fmt.Sprintf("%d", recipeID), uuid.New().String()+ext)
	_, err = s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url = s.urlFor(key)
	s.logger.Info("uploaded recipe image",
		zap.Int64("recipe_id", recipeID),
		zap.String("key", key))
	return url, key, nil
}

func (s *ImageService) DeleteImage(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	s.logger.Info("deleted recipe image", zap.String("key", key))
	return nil
}
