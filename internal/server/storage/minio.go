// Package storage provides the object stores behind the API server.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// MinioConfig describes an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// MinioStore serves objects from a MinIO or S3-compatible bucket.
type MinioStore struct {
	logger *slog.Logger
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the bucket and checks that it exists.
func NewMinioStore(ctx context.Context, logger *slog.Logger, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	logger.Info("connected to object storage",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("bucket", cfg.Bucket))

	return &MinioStore{logger: logger, client: client, bucket: cfg.Bucket}, nil
}

// List returns up to limit objects directly under prefix. Sub-prefixes
// ("directories") are skipped.
func (s *MinioStore) List(ctx context.Context, prefix string, limit int) ([]domain.ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	})

	objects := []domain.ObjectInfo{}
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, object.Err)
		}
		if object.Key == "" || object.Key[len(object.Key)-1] == '/' {
			continue
		}
		objects = append(objects, domain.ObjectInfo{
			Key:         object.Key,
			Size:        object.Size,
			ContentType: object.ContentType,
		})
		if limit > 0 && len(objects) >= limit {
			break
		}
	}
	return objects, nil
}

// Get opens the object stored under key.
func (s *MinioStore) Get(ctx context.Context, key string) (*domain.Blob, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	// GetObject is lazy; Stat surfaces NoSuchKey.
	info, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}

	return &domain.Blob{
		Body:        object,
		ContentType: info.ContentType,
		Size:        info.Size,
	}, nil
}

var _ ports.ObjectStore = (*MinioStore)(nil)
