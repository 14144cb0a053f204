package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

// LogoObjectStore is the object storage used for business logos.
type LogoObjectStore interface {
	Put(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, objectKey string) error
}

type MinIOLogoStore struct {
	client   *minio.Client
	bucket   string
	initOnce sync.Once
	initErr  error
}

func NewMinIOLogoStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinIOLogoStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOLogoStore{client: client, bucket: bucket}, nil
}

// ensureBucket runs once on first use so startup never blocks on MinIO.
func (s *MinIOLogoStore) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = fmt.Errorf("%w: check bucket: %v", ErrLogoStorageUnavailable, err)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.initErr = fmt.Errorf("%w: create bucket: %v", ErrLogoStorageUnavailable, err)
		}
	})
	return s.initErr
}

// Ping checks the bucket without creating it.
func (s *MinIOLogoStore) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("%w: %v", ErrLogoStorageUnavailable, err)
	}
	return nil
}

func (s *MinIOLogoStore) Put(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error {
	if err := s.ensureBucket(ctx); err != nil {
		observability.RecordLogoStorageOperation(ctx, "put", "error")
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		observability.RecordLogoStorageOperation(ctx, "put", "error")
		return fmt.Errorf("put logo object: %w", err)
	}
	observability.RecordLogoStorageOperation(ctx, "put", "success")
	return nil
}

func (s *MinIOLogoStore) PresignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		observability.RecordLogoStorageOperation(ctx, "presign", "error")
		return "", err
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, ttl, nil)
	if err != nil {
		observability.RecordLogoStorageOperation(ctx, "presign", "error")
		return "", fmt.Errorf("presign logo object: %w", err)
	}
	observability.RecordLogoStorageOperation(ctx, "presign", "success")
	return u.String(), nil
}

func (s *MinIOLogoStore) Remove(ctx context.Context, objectKey string) error {
	if err := s.ensureBucket(ctx); err != nil {
		observability.RecordLogoStorageOperation(ctx, "remove", "error")
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		observability.RecordLogoStorageOperation(ctx, "remove", "error")
		return fmt.Errorf("remove logo object: %w", err)
	}
	observability.RecordLogoStorageOperation(ctx, "remove", "success")
	return nil
}
