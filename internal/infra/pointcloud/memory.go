package pointcloud

import (
	"context"
	"sync"

	domain "github.com/daslab/treeshade/internal/domain/pointcloud"
)

// MemoryStore keeps point clouds in memory. Useful for tests and local dev.
type MemoryStore struct {
	mu     sync.RWMutex
	clouds map[string][]domain.Sample
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clouds: make(map[string][]domain.Sample)}
}

// Put registers the samples of a tree, replacing any previous cloud.
func (s *MemoryStore) Put(treeID string, samples []domain.Sample) error {
	id, err := domain.NormalizeTreeID(treeID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clouds[id] = append([]domain.Sample(nil), samples...)
	return nil
}

// Load returns a copy of the stored samples.
func (s *MemoryStore) Load(_ context.Context, treeID string) ([]domain.Sample, error) {
	id, err := domain.NormalizeTreeID(treeID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	samples, ok := s.clouds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.Sample(nil), samples...), nil
}

var _ domain.Store = (*MemoryStore)(nil)
