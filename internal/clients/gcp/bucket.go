package gcp

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/lumabyte/storypipe/internal/platform/logger"
)

type Config struct {
	Bucket    string
	CDNDomain string
}

// BucketService is the object-store boundary used by both pipeline stages.
type BucketService interface {
	UploadObject(ctx context.Context, key string, r io.Reader, contentType string) error
	DownloadObject(ctx context.Context, key string) (io.ReadCloser, error)
	PublicURL(key string) string
	BucketName() string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucket        string
	cdnDomain     string
}

func NewBucketService(ctx context.Context, log *logger.Logger, cfg Config) (BucketService, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("missing story bucket name")
	}

	opts := ClientOptionsFromEnv()
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	stClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &bucketService{
		log:           log.With("service", "BucketService"),
		storageClient: stClient,
		bucket:        bucket,
		cdnDomain:     strings.TrimSpace(cfg.CDNDomain),
	}, nil
}

func (bs *bucketService) UploadObject(ctx context.Context, key string, r io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %q to bucket %q: %w", key, bs.bucket, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer for object %q: %w", key, err)
	}
	return nil
}

// readCloserWithCancel ties the download context's cancel to the reader's
// Close; canceling earlier would make callers read 0 bytes.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (bs *bucketService) DownloadObject(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)

	r, err := bs.storageClient.Bucket(bs.bucket).Object(key).NewReader(ctx2)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open reader for object %q in bucket %q: %w", key, bs.bucket, err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (bs *bucketService) PublicURL(key string) string {
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucket, key)
}

func (bs *bucketService) BucketName() string {
	return bs.bucket
}
