// Package objectstore keeps uploaded event banners in an S3-compatible bucket.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gravadigital/campus-events-api/internal/config"
	"github.com/gravadigital/campus-events-api/internal/logger"
)

// MinioStore stores objects in a MinIO bucket and hands out public URLs
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
	log        *log.Logger
}

// New connects to the configured endpoint and creates the bucket if missing
func New(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	oc := cfg.ObjectStore

	client, err := minio.New(oc.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(oc.AccessKey, oc.SecretKey, ""),
		Secure: oc.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	s := newStore(client, oc.Bucket, publicBase(oc.Endpoint, oc.Bucket, oc.UseSSL, oc.PublicBaseURL))
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	s.log.Info("Object store ready", "endpoint", oc.Endpoint, "bucket", oc.Bucket)
	return s, nil
}

func newStore(client *minio.Client, bucket, publicBase string) *MinioStore {
	return &MinioStore{
		client:     client,
		bucket:     bucket,
		publicBase: publicBase,
		log:        logger.WithContext("component", "objectstore"),
	}
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.log.Info("Created bucket", "bucket", s.bucket)
	return nil
}

// Put uploads r under key and returns the object's public URL
func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("Failed to upload object", "key", key, "error", err)
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.log.Debug("Uploaded object", "key", key, "size", info.Size, "etag", info.ETag)
	return s.URL(key), nil
}

// URL returns the public URL of key
func (s *MinioStore) URL(key string) string {
	return s.publicBase + "/" + strings.TrimLeft(key, "/")
}

// publicBase is the URL prefix objects are served from. An explicit base
// wins; otherwise the bucket is addressed path-style on the endpoint.
func publicBase(endpoint, bucket string, useSSL bool, explicit string) string {
	if explicit != "" {
		return strings.TrimRight(explicit, "/")
	}
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(endpoint, "/"), bucket)
}
