package pointcloud

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/daslab/treeshade/pkg/errors"
)

// ErrNotFound is returned when no point cloud exists for a tree.
var ErrNotFound = errors.New("point cloud not found")

// ErrInvalidTreeID rejects identifiers that cannot be used as storage keys.
var ErrInvalidTreeID = errors.New("invalid tree id")

// Store loads the scanned point cloud of a single tree.
type Store interface {
	Load(ctx context.Context, treeID string) ([]Sample, error)
}

// NormalizeTreeID trims the identifier and rejects path-like values.
func NormalizeTreeID(treeID string) (string, error) {
	id := strings.TrimSpace(treeID)
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return "", ErrInvalidTreeID
	}
	return id, nil
}

// WrapLoadError maps store failures onto application error codes.
func WrapLoadError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, "point cloud not found", err)
	case errors.Is(err, ErrInvalidTreeID):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "treeId is invalid", err)
	case errors.Is(err, ErrMalformed):
		return apperrors.Wrap(apperrors.CodeCorruptData, "stored point cloud is malformed", err)
	default:
		return apperrors.Wrap(apperrors.CodeStorage, "failed to load point cloud", err)
	}
}
