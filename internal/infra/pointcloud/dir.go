package pointcloud

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	domain "github.com/daslab/treeshade/internal/domain/pointcloud"
)

// DirStore reads one `<treeID>.json` file per tree from a local directory.
type DirStore struct {
	root string
}

// NewDirStore constructs the store. The directory must exist.
func NewDirStore(root string) (*DirStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("point cloud dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("point cloud dir: %s is not a directory", root)
	}
	return &DirStore{root: root}, nil
}

// Load reads and decodes the cloud of treeID.
func (s *DirStore) Load(ctx context.Context, treeID string) ([]domain.Sample, error) {
	id, err := domain.NormalizeTreeID(treeID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(filepath.Join(s.root, objectName("", id)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return domain.Decode(payload)
}

var _ domain.Store = (*DirStore)(nil)
