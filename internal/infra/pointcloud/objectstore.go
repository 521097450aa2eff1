package pointcloud

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/daslab/treeshade/internal/domain/pointcloud"
)

// ObjectStoreOptions configures the S3-compatible backend.
type ObjectStoreOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
}

// ObjectStore reads point clouds from an S3-compatible bucket (R2, MinIO, S3).
type ObjectStore struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewObjectStore constructs the storage adapter.
func NewObjectStore(opts ObjectStoreOptions, logger *slog.Logger) (*ObjectStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("object store bucket is required")
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(opts.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(opts.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       useSSL,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &ObjectStore{
		client: client,
		bucket: opts.Bucket,
		prefix: opts.Prefix,
		logger: logger.With("component", "pointcloud.objectstore"),
	}, nil
}

// Load fetches and decodes `<prefix><treeID>.json`.
func (s *ObjectStore) Load(ctx context.Context, treeID string) ([]domain.Sample, error) {
	id, err := domain.NormalizeTreeID(treeID)
	if err != nil {
		return nil, err
	}
	key := objectName(s.prefix, id)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(err, key)
	}
	defer obj.Close()
	payload, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapError(err, key)
	}
	return domain.Decode(payload)
}

func (s *ObjectStore) mapError(err error, key string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return domain.ErrNotFound
	case "NoSuchBucket":
		s.logger.Error("point cloud bucket missing", "bucket", s.bucket)
	}
	return fmt.Errorf("get object %s: %w", key, err)
}

var _ domain.Store = (*ObjectStore)(nil)

func objectName(prefix, treeID string) string {
	return prefix + treeID + ".json"
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
