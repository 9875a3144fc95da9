package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/datahub-backend/internal/platform/logger"
	"github.com/yungbote/datahub-backend/internal/utils"
)

// Client is the process-wide object storage handle. Container names map 1:1
// to Bucket registry rows; object keys are stored verbatim.
type Client interface {
	CreateBucket(ctx context.Context, bucketName string) error
	DeleteBucket(ctx context.Context, bucketName string) error
	ListObjects(ctx context.Context, bucketName string) ([]string, error)
	GetObject(ctx context.Context, bucketName, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucketName, key string, r io.Reader) error
	DeleteObject(ctx context.Context, bucketName, key string) error
}

type gcsClient struct {
	log       *logger.Logger
	storage   *storage.Client
	projectID string
}

func NewGCSClient(ctx context.Context, log *logger.Logger) (Client, error) {
	clientLog := log.With("client", "GCSClient")

	projectID := utils.GetEnv("GCS_PROJECT_ID", "", log)
	if projectID == "" {
		return nil, fmt.Errorf("missing env var GCS_PROJECT_ID")
	}

	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if credsFile := utils.GetEnv("GCS_CREDENTIALS_FILE", "", log); credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	stClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &gcsClient{log: clientLog, storage: stClient, projectID: projectID}, nil
}

func (gc *gcsClient) CreateBucket(ctx context.Context, bucketName string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := gc.storage.Bucket(bucketName).Create(ctx, gc.projectID, nil); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", bucketName, err)
	}
	return nil
}

// DeleteBucket removes the physical container. The store requires the
// container to be empty; callers empty it first.
func (gc *gcsClient) DeleteBucket(ctx context.Context, bucketName string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := gc.storage.Bucket(bucketName).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete bucket %q: %w", bucketName, err)
	}
	return nil
}

func (gc *gcsClient) ListObjects(ctx context.Context, bucketName string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	it := gc.storage.Bucket(bucketName).Objects(ctx, nil)
	keys := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %q: %w", bucketName, err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (gc *gcsClient) PutObject(ctx context.Context, bucketName, key string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := gc.storage.Bucket(bucketName).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %q to bucket %q: %w", key, bucketName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer for object %q in bucket %q: %w", key, bucketName, err)
	}
	return nil
}

func (gc *gcsClient) DeleteObject(ctx context.Context, bucketName, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := gc.storage.Bucket(bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %q in bucket %q: %w", key, bucketName, err)
	}
	return nil
}

// readCloserWithCancel ties the read context's cancel to Close, so the
// context stays alive for the life of the reader. Cancelling before the
// caller reads would hand back 0 bytes.
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

func (gc *gcsClient) GetObject(ctx context.Context, bucketName, key string) (io.ReadCloser, error) {
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)

	r, err := gc.storage.Bucket(bucketName).Object(key).NewReader(ctx2)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open reader for object %q in bucket %q: %w", key, bucketName, err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}
