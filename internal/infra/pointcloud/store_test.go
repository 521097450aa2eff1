package pointcloud

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/daslab/treeshade/internal/domain/pointcloud"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	samples := []domain.Sample{{X: 1, Y: 2, Z: 3, Intensity: 0.5, ReturnNumber: 1, NumberOfReturns: 2}}
	require.NoError(t, store.Put(" 180683 ", samples))

	got, err := store.Load(context.Background(), "180683")
	require.NoError(t, err)
	require.Equal(t, samples, got)

	got[0].X = 99
	again, err := store.Load(context.Background(), "180683")
	require.NoError(t, err)
	require.Equal(t, 1.0, again[0].X)
}

func TestMemoryStoreErrors(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Load(context.Background(), "../etc/passwd")
	require.ErrorIs(t, err, domain.ErrInvalidTreeID)

	require.ErrorIs(t, store.Put("", nil), domain.ErrInvalidTreeID)
}

func TestDirStore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "42.json"), []byte(`[[1,2,3,0.5,1,2],[4,5,6,0.1,2,2]]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.json"), []byte(`[[1,2]]`), 0o600))

	store, err := NewDirStore(root)
	require.NoError(t, err)

	samples, err := store.Load(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, samples, 2)
	require.Equal(t, 6.0, samples[1].Z)

	_, err = store.Load(context.Background(), "43")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Load(context.Background(), "bad")
	require.ErrorIs(t, err, domain.ErrMalformed)

	_, err = NewDirStore(filepath.Join(root, "42.json"))
	require.Error(t, err)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acc.r2.cloudflarestorage.com", sanitizeEndpoint(" https://acc.r2.cloudflarestorage.com/bucket "))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestObjectNameAndCacheKey(t *testing.T) {
	require.Equal(t, "clouds/7.json", objectName("clouds/", "7"))

	cached := NewCachedStore(NewMemoryStore(), newFakeCache(), "", time.Minute, nil)
	require.Equal(t, "treeshade:cloud:7", cached.cloudKey("7"))
}

func TestCacheTTL(t *testing.T) {
	require.Equal(t, time.Duration(0), cacheTTL(0))
	require.Equal(t, time.Second, cacheTTL(10*time.Millisecond))
	require.Equal(t, time.Hour, cacheTTL(time.Hour))
}

func TestNewObjectStoreRequiresBucket(t *testing.T) {
	_, err := NewObjectStore(ObjectStoreOptions{Endpoint: "localhost:9000"}, nil)
	require.Error(t, err)

	store, err := NewObjectStore(ObjectStoreOptions{Endpoint: "http://localhost:9000", Bucket: "trees"}, nil)
	require.NoError(t, err)
	require.Equal(t, "trees", store.bucket)
}
