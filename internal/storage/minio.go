package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"wsync/internal/config"
)

// objectStore adapts the Store contract onto an S3-compatible backend
// (MinIO, AWS S3, etc.) for deployments that cannot use local disk. It is
// safe for concurrent use by multiple goroutines.
type objectStore struct {
	client  *minio.Client
	bucket  string
	maxSize int64
}

var _ Store = (*objectStore)(nil)

// NewMinIO creates an object-store backend. It validates connectivity and
// ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig, maxSize int64) (Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("max upload size must be positive, got %d", maxSize)
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	store := &objectStore{client: cli, bucket: cfg.Bucket, maxSize: maxSize}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return store, nil
}

// Save uploads the stream under the sanitized name. The size limit is
// enforced by a counting reader, and a failed upload removes whatever object
// may have been left behind.
func (m *objectStore) Save(ctx context.Context, name string, r io.Reader) (FileInfo, error) {
	safe := SanitizeFilename(name)
	lr := &limitedReader{r: r, max: m.maxSize}

	info, err := m.client.PutObject(ctx, m.bucket, safe, lr, -1, minio.PutObjectOptions{
		ContentType: contentTypeFor(safe),
	})
	if err != nil {
		m.removeQuietly(safe)
		if lr.exceeded {
			return FileInfo{}, fmt.Errorf("%w (max %d bytes)", ErrSizeLimit, m.maxSize)
		}
		return FileInfo{}, fmt.Errorf("put object %s: %w", safe, err)
	}
	if info.Size == 0 {
		m.removeQuietly(safe)
		return FileInfo{}, fmt.Errorf("object %s was not written", safe)
	}
	return FileInfo{Name: safe, Size: info.Size}, nil
}

func (m *objectStore) Open(ctx context.Context, name string) (io.ReadCloser, FileInfo, error) {
	info, err := m.Stat(ctx, name)
	if err != nil {
		return nil, FileInfo{}, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, info.Name, minio.GetObjectOptions{})
	if err != nil {
		return nil, FileInfo{}, fmt.Errorf("get object %s: %w", info.Name, err)
	}
	return obj, info, nil
}

func (m *objectStore) Stat(ctx context.Context, name string) (FileInfo, error) {
	safe := SanitizeFilename(name)
	st, err := m.client.StatObject(ctx, m.bucket, safe, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return FileInfo{}, ErrNotFound
		}
		return FileInfo{}, fmt.Errorf("stat object %s: %w", safe, err)
	}
	return FileInfo{Name: safe, Size: st.Size}, nil
}

func (m *objectStore) Delete(ctx context.Context, name string) (bool, error) {
	safe := SanitizeFilename(name)
	if _, err := m.client.StatObject(ctx, m.bucket, safe, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s: %w", safe, err)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, safe, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("remove object %s: %w", safe, err)
	}
	return true, nil
}

func (m *objectStore) Ping(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("ping object store: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}

// removeQuietly cleans up after a failed upload. A fresh context is used
// because the request context may already be cancelled.
func (m *objectStore) removeQuietly(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// limitedReader counts bytes as the object store consumes the stream and
// fails the read once the cumulative size crosses the limit.
type limitedReader struct {
	r        io.Reader
	max      int64
	n        int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		l.exceeded = true
		return n, ErrSizeLimit
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("read upload stream: %w", err)
	}
	return n, err
}
