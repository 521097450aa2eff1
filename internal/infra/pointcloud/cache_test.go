package pointcloud

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/daslab/treeshade/internal/domain/pointcloud"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	c.ttls[key] = ttl
	c.sets++
	return nil
}

type countingStore struct {
	next  domain.Store
	loads int
}

func (s *countingStore) Load(ctx context.Context, treeID string) ([]domain.Sample, error) {
	s.loads++
	return s.next.Load(ctx, treeID)
}

func newCachedFixture(t *testing.T, ttl time.Duration) (*CachedStore, *fakeCache, *countingStore) {
	t.Helper()
	mem := NewMemoryStore()
	require.NoError(t, mem.Put("42", []domain.Sample{
		{X: 1, Y: 2, Z: 3, Intensity: 0.5, ReturnNumber: 1, NumberOfReturns: 2},
	}))
	backing := &countingStore{next: mem}
	cache := newFakeCache()
	return NewCachedStore(backing, cache, "test", ttl, newTestLogger()), cache, backing
}

func TestCachedStoreMissThenHit(t *testing.T) {
	store, cache, backing := newCachedFixture(t, 90*time.Second)
	ctx := context.Background()

	first, err := store.Load(ctx, "42")
	require.NoError(t, err)
	require.Equal(t, 1, backing.loads)
	require.Equal(t, 1, cache.sets)
	require.Equal(t, 90*time.Second, cache.ttls["test:cloud:42"])

	cached, err := domain.Decode(cache.entries["test:cloud:42"])
	require.NoError(t, err)
	require.Equal(t, first, cached)

	second, err := store.Load(ctx, " 42 ")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, backing.loads, "second load must be served from cache")
	require.Equal(t, 1, cache.sets)
}

func TestCachedStoreRoundsShortTTL(t *testing.T) {
	store, cache, _ := newCachedFixture(t, 200*time.Millisecond)
	_, err := store.Load(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, time.Second, cache.ttls["test:cloud:42"])
}

func TestCachedStoreDiscardsMalformedEntry(t *testing.T) {
	store, cache, backing := newCachedFixture(t, time.Minute)
	cache.entries["test:cloud:42"] = []byte(`[[1,2]]`)

	samples, err := store.Load(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Equal(t, 1, backing.loads)
	require.Equal(t, 1, cache.sets)

	rewritten, err := domain.Decode(cache.entries["test:cloud:42"])
	require.NoError(t, err)
	require.Equal(t, samples, rewritten)
}

func TestCachedStoreReadErrorFallsThrough(t *testing.T) {
	store, cache, backing := newCachedFixture(t, time.Minute)
	cache.getErr = errors.New("connection refused")

	samples, err := store.Load(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Equal(t, 1, backing.loads)
}

func TestCachedStoreBackendErrors(t *testing.T) {
	store, cache, _ := newCachedFixture(t, time.Minute)

	_, err := store.Load(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Zero(t, cache.sets)

	_, err = store.Load(context.Background(), "../42")
	require.ErrorIs(t, err, domain.ErrInvalidTreeID)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
