package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type MinIOOptions struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Location      string
	UseSSL        bool
	PublicBaseURL string
}

var _ ObjectStorage = (*minioStorage)(nil)

type minioStorage struct {
	client   *minio.Client
	bucket   string
	location string
	urls     objectURLs
	logger   zerolog.Logger
}

func NewMinIOStorage(opts MinIOOptions, logger zerolog.Logger) (ObjectStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &minioStorage{
		client:   client,
		bucket:   opts.Bucket,
		location: opts.Location,
		urls:     objectURLs{base: minioBaseURL(opts)},
		logger:   logger.With().Str("component", "minio").Logger(),
	}, nil
}

// minioBaseURL is the URL prefix of every object in the bucket.
func minioBaseURL(opts MinIOOptions) string {
	base := strings.TrimRight(opts.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, opts.Endpoint)
	}
	return base + "/" + opts.Bucket
}

// EnsureReady implements ObjectStorage.
func (m *minioStorage) EnsureReady(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.bucket, err)
	}
	if exists {
		m.logger.Debug().Str("bucket", m.bucket).Msg("Bucket already exists")
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.location}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.bucket, err)
	}
	m.logger.Info().Str("bucket", m.bucket).Msg("✅ Bucket created")
	return nil
}

// Upload implements ObjectStorage.
func (m *minioStorage) Upload(ctx context.Context, userID string, file models.UploadedFile) (string, error) {
	key := objectKey(userID, file.Name)
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(file.Data), int64(len(file.Data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	m.logger.Debug().Str("key", key).Int64("size", info.Size).Msg("📤 Object uploaded")
	return m.urls.url(key), nil
}

// Delete implements ObjectStorage.
func (m *minioStorage) Delete(ctx context.Context, fileURL string) error {
	key, err := m.urls.key(fileURL)
	if err != nil {
		return err
	}

	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
