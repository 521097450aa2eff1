package pointcloud

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	domain "github.com/daslab/treeshade/internal/domain/pointcloud"
)

// Cache is the key/value surface CachedStore needs. A miss is reported as
// ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ValkeyCache implements Cache on a Valkey (or Redis) server.
type ValkeyCache struct {
	client valkey.Client
}

func NewValkeyCache(client valkey.Client) *ValkeyCache {
	return &ValkeyCache{client: client}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(payload), true, nil
}

// Set stores value. A zero ttl keeps the entry until evicted.
func (c *ValkeyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	builder := c.client.B().Set().Key(key).Value(string(value))
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

// CachedStore fronts another store with a read-through cache.
// Cache failures are logged and fall through to the backing store.
type CachedStore struct {
	next   domain.Store
	cache  Cache
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedStore wraps next. A zero ttl keeps entries until evicted.
func NewCachedStore(next domain.Store, cache Cache, prefix string, ttl time.Duration, logger *slog.Logger) *CachedStore {
	if prefix == "" {
		prefix = "treeshade"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{
		next:   next,
		cache:  cache,
		prefix: prefix,
		ttl:    cacheTTL(ttl),
		logger: logger.With("component", "pointcloud.cache"),
	}
}

func (s *CachedStore) Load(ctx context.Context, treeID string) ([]domain.Sample, error) {
	id, err := domain.NormalizeTreeID(treeID)
	if err != nil {
		return nil, err
	}
	key := s.cloudKey(id)

	payload, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("point cloud cache read failed", "treeId", id, "error", err)
	case ok:
		samples, decodeErr := domain.Decode(payload)
		if decodeErr == nil {
			return samples, nil
		}
		s.logger.Warn("discarding malformed cache entry", "treeId", id, "error", decodeErr)
	}

	samples, err := s.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, samples)
	return samples, nil
}

func (s *CachedStore) store(ctx context.Context, key string, samples []domain.Sample) {
	payload, err := domain.Encode(samples)
	if err != nil {
		s.logger.Warn("encode point cloud for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("point cloud cache write failed", "key", key, "error", err)
	}
}

func (s *CachedStore) cloudKey(treeID string) string {
	return fmt.Sprintf("%s:cloud:%s", s.prefix, treeID)
}

// cacheTTL rounds sub-second expirations up; EX only takes whole seconds.
func cacheTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}

var (
	_ domain.Store = (*CachedStore)(nil)
	_ Cache        = (*ValkeyCache)(nil)
)
