package pointcloud

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/daslab/treeshade/internal/domain/pointcloud"
)

// PostgresStore reads clouds from the tree_point_clouds table:
//
//	CREATE TABLE tree_point_clouds (
//	    tree_id TEXT PRIMARY KEY,
//	    points  JSONB NOT NULL
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Load fetches the points column of treeID.
func (s *PostgresStore) Load(ctx context.Context, treeID string) ([]domain.Sample, error) {
	id, err := domain.NormalizeTreeID(treeID)
	if err != nil {
		return nil, err
	}
	var payload []byte
	err = s.pool.QueryRow(ctx, `
		SELECT points::text
		FROM tree_point_clouds
		WHERE tree_id = $1
	`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return domain.Decode(payload)
}

var _ domain.Store = (*PostgresStore)(nil)
