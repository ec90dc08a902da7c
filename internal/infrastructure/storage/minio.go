package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"buchladen-backend/internal/config"
	"buchladen-backend/pkg/logger"
)

// ObjectInfo describes a stored blob.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// BlobStore is the contract for binary attachment storage. Objects are
// keyed "<resource>/<id>/<random>" so that all blobs of one entity share
// a listable prefix.
type BlobStore interface {
	// Put streams reader into an object under key. size may be -1 when
	// unknown; the stream is then chunked by the client.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Get opens the object for reading along with its metadata.
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)

	// List returns all objects whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// RemoveByPrefix deletes every object under prefix and reports how
	// many were removed.
	RemoveByPrefix(ctx context.Context, prefix string) (int, error)
}

// MinioStore implements BlobStore against a MinIO (or S3-compatible) bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

var _ BlobStore = (*MinioStore)(nil)

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg config.MinIOConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("created bucket", map[string]interface{}{"bucket": cfg.Bucket})
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %q: %w", key, err)
	}
	return nil
}

func (s *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open object %q: %w", key, err)
	}

	// GetObject is lazy; Stat forces the first request and surfaces
	// not-found errors here instead of on the first Read.
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, nil, fmt.Errorf("failed to stat object %q: %w", key, err)
	}

	return obj, &ObjectInfo{
		Key:         stat.Key,
		Size:        stat.Size,
		ContentType: stat.ContentType,
	}, nil
}

func (s *MinioStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var infos []ObjectInfo

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %q: %w", prefix, obj.Err)
		}
		infos = append(infos, ObjectInfo{
			Key:         obj.Key,
			Size:        obj.Size,
			ContentType: obj.ContentType,
		})
	}

	return infos, nil
}

func (s *MinioStore) RemoveByPrefix(ctx context.Context, prefix string) (int, error) {
	infos, err := s.List(ctx, prefix)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, info := range infos {
		if err := s.client.RemoveObject(ctx, s.bucket, info.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("failed to remove object %q: %w", info.Key, err)
		}
		removed++
	}

	return removed, nil
}
