package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/mbpt/peertutor-backend/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// Image upload errors.
var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image too large")
)

// Allowed image MIME types and their object name extensions.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore uploads images and yields their public URLs.
type ImageStore interface {
	UploadImage(ctx context.Context, folder, contentType string, size int64, data io.Reader) (string, error)
}

// MinIOStore stores images in a MinIO (S3-compatible) bucket. Objects are
// named by UUID under a per-entity folder and addressed by a plain public URL.
type MinIOStore struct {
	client   *minio.Client
	bucket   string
	region   string
	maxBytes int64
	log      zerolog.Logger
}

// NewMinIOStore connects to the object storage endpoint and ensures the
// bucket exists.
func NewMinIOStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
		Region: cfg.StorageRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	exists, err := client.BucketExists(bootCtx, cfg.StorageBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(bootCtx, cfg.StorageBucket, minio.MakeBucketOptions{Region: cfg.StorageRegion}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		log.Info().Str("bucket", cfg.StorageBucket).Msg("Created storage bucket")
	}

	log.Info().
		Str("endpoint", cfg.StorageEndpoint).
		Str("bucket", cfg.StorageBucket).
		Bool("ssl", cfg.StorageUseSSL).
		Msg("Object storage connected")

	return &MinIOStore{
		client:   client,
		bucket:   cfg.StorageBucket,
		region:   cfg.StorageRegion,
		maxBytes: cfg.MaxUploadBytes,
		log:      log,
	}, nil
}

// UploadImage validates the content type and size, stores the object under
// folder/<uuid><ext>, and returns its public URL.
func (s *MinIOStore) UploadImage(ctx context.Context, folder, contentType string, size int64, data io.Reader) (string, error) {
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}
	if size > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, size, s.maxBytes)
	}

	key := folder + "/" + uuid.New().String() + ext
	info, err := s.client.PutObject(ctx, s.bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	s.log.Debug().
		Str("bucket", s.bucket).
		Str("key", key).
		Str("etag", info.ETag).
		Int64("size", size).
		Msg("Image uploaded")

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key), nil
}
