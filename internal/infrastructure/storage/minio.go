package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"foodgram-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage lưu ảnh recipe trên MinIO
type MinIOStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinIOStorage khởi tạo MinIO client và tạo bucket nếu chưa có
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, client.EndpointURL().Host)
	}

	return &MinIOStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

// ObjectURL: <public>/<bucket>/<key>
func (s *MinIOStorage) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}

// Upload uploads a file to MinIO
// key: đường dẫn file trong bucket (vd: recipes/<uuid>/original.png)
func (s *MinIOStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return s.ObjectURL(key), nil
}

// Download downloads a file from MinIO
func (s *MinIOStorage) Download(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return data, nil
}

// DeleteByPrefix xóa tất cả files có prefix (vd: recipes/<uuid>/)
// Dùng khi xóa recipe hoặc khi ảnh bị thay thế
func (s *MinIOStorage) DeleteByPrefix(ctx context.Context, prefix string) error {
	objectsCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var keys []minio.ObjectInfo
	for object := range objectsCh {
		if object.Err != nil {
			return fmt.Errorf("error listing objects: %w", object.Err)
		}
		keys = append(keys, minio.ObjectInfo{Key: object.Key})
	}
	if len(keys) == 0 {
		return nil
	}

	toRemove := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		toRemove <- k
	}
	close(toRemove)

	for rmErr := range s.client.RemoveObjects(ctx, s.bucket, toRemove, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			return fmt.Errorf("failed to remove %s: %w", rmErr.ObjectName, rmErr.Err)
		}
	}
	return nil
}

// ListPrefixes trả các thư mục con trực tiếp của root (vd: recipes/<uuid>/)
// mà object mới nhất bên trong được sửa trước modifiedBefore
func (s *MinIOStorage) ListPrefixes(ctx context.Context, root string, modifiedBefore time.Time) ([]string, error) {
	// cancel để goroutine listing của minio dừng khi return sớm
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	newest := make(map[string]time.Time)
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    root,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		prefix, ok := childPrefix(root, object.Key)
		if !ok {
			continue
		}
		if object.LastModified.After(newest[prefix]) {
			newest[prefix] = object.LastModified
		}
	}

	var out []string
	for prefix, modified := range newest {
		if modified.Before(modifiedBefore) {
			out = append(out, prefix)
		}
	}
	return out, nil
}

// childPrefix: ("recipes/", "recipes/abc/original.png") → "recipes/abc/"
func childPrefix(root, key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, root)
	if !ok {
		return "", false
	}
	dir, _, found := strings.Cut(rest, "/")
	if !found || dir == "" {
		return "", false
	}
	return root + dir + "/", true
}
