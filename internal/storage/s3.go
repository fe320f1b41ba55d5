package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"catalogd/internal/config"
	"catalogd/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3Storage implements RenditionStorage for AWS S3 and S3-compatible storage
type S3Storage struct {
	client   *s3.Client
	uploader *manager.Uploader
	config   *config.S3Config
	bucket   string
}

// Ensure S3Storage implements the RenditionStorage interface
var _ RenditionStorage = (*S3Storage)(nil)

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(cfg *config.S3Config) (*S3Storage, error) {
	logger.Info("Initializing S3 storage",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", cfg.Region),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("use_ssl", cfg.UseSSL))

	awsConfig, err := createAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "https://s3.amazonaws.com" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and custom endpoints
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024 // 10MB parts for multipart uploads
		u.Concurrency = 3
	})

	storage := &S3Storage{
		client:   client,
		uploader: uploader,
		config:   cfg,
		bucket:   cfg.Bucket,
	}

	// Test connection
	if err := storage.Health(context.Background()); err != nil {
		return nil, fmt.Errorf("S3 health check failed: %w", err)
	}

	logger.Info("S3 storage initialized successfully")
	return storage, nil
}

// Upload uploads a rendition to S3
func (s *S3Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	logger.DebugWithContext(ctx, "Uploading rendition to S3",
		zap.String("key", key),
		zap.Int64("size", size),
		zap.String("content_type", contentType))

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	// Renditions are immutable: the random filename suffix changes on
	// every upload, so a long cache lifetime is safe
	if strings.HasPrefix(contentType, "image/") {
		input.CacheControl = aws.String("public, max-age=31536000, immutable")
	}

	_, err := s.uploader.Upload(ctx, input)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to upload rendition to S3",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to upload rendition: %w", err)
	}

	return nil
}

// Download retrieves a rendition as a stream
func (s *S3Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("rendition not found: %s", key)
		}
		return nil, fmt.Errorf("failed to download rendition: %w", err)
	}
	return result.Body, nil
}

// Delete removes a rendition; S3 deletes are idempotent so a missing key
// is not an error
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete rendition: %w", err)
	}

	logger.DebugWithContext(ctx, "Rendition deleted from S3",
		zap.String("key", key))
	return nil
}

// Exists checks if a rendition exists in S3
func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check rendition existence: %w", err)
	}
	return true, nil
}

// GetURL returns the public URL for a rendition
func (s *S3Storage) GetURL(key string) string {
	if s.config.UseSSL {
		if s.config.Endpoint == "https://s3.amazonaws.com" {
			return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
		}
		return fmt.Sprintf("%s/%s/%s", s.config.Endpoint, s.bucket, key)
	}

	return fmt.Sprintf("http://%s/%s/%s",
		strings.TrimPrefix(s.config.Endpoint, "http://"), s.bucket, key)
}

// Health checks storage service health
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("S3 health check failed: %w", err)
	}
	return nil
}

// Helper functions

// createAWSConfig creates AWS configuration with static credentials
func createAWSConfig(cfg *config.S3Config) (aws.Config, error) {
	credProvider := credentials.NewStaticCredentialsProvider(
		cfg.AccessKey,
		cfg.SecretKey,
		"", // session token not needed for static credentials
	)

	awsConfig, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credProvider),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return aws.Config{}, err
	}

	return awsConfig, nil
}

// isNotFoundError checks if the error is a "not found" error
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	return strings.Contains(err.Error(), "404") ||
		strings.Contains(err.Error(), "NoSuchKey") ||
		strings.Contains(err.Error(), "Not Found")
}
