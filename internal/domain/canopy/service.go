package canopy

import (
	"context"
	"log/slog"

	"github.com/daslab/treeshade/internal/domain/pointcloud"
	apperrors "github.com/daslab/treeshade/pkg/errors"
)

// Service exposes canopy height and density estimation.
type Service interface {
	Estimate(ctx context.Context, req EstimateRequest) (Response, error)
	TreeStats(ctx context.Context, req TreeStatsRequest) (Response, error)
}

type service struct {
	store  pointcloud.Store
	logger *slog.Logger
}

// NewService wires up the canopy domain.
func NewService(store pointcloud.Store, logger *slog.Logger) Service {
	return &service{
		store:  store,
		logger: logger.With("component", "canopy.service"),
	}
}

func (s *service) Estimate(_ context.Context, req EstimateRequest) (Response, error) {
	var (
		window   Window
		expected float64
	)
	switch {
	case req.HalfWidth != nil:
		window = Window{HalfWidth: *req.HalfWidth}
	case req.TrunkDiameter != nil:
		w, err := WindowFromTrunkDiameter(*req.TrunkDiameter)
		if err != nil {
			return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "trunkDiameter must be a non-negative number", err)
		}
		window = w
		expected = ExpectedCanopyFeet(*req.TrunkDiameter)
	default:
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "halfWidth or trunkDiameter is required", nil)
	}
	return s.estimate(req.Points, window, expected, "")
}

func (s *service) TreeStats(ctx context.Context, req TreeStatsRequest) (Response, error) {
	treeID, err := pointcloud.NormalizeTreeID(req.TreeID)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "treeId is invalid", err)
	}
	window, err := WindowFromTrunkDiameter(req.TrunkDiameter)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "trunkDiameter must be a non-negative number", err)
	}

	points, err := s.store.Load(ctx, treeID)
	if err != nil {
		return Response{}, pointcloud.WrapLoadError(err)
	}
	s.logger.Debug("canopy point cloud loaded", "tree_id", treeID, "points", len(points))

	return s.estimate(points, window, ExpectedCanopyFeet(req.TrunkDiameter), treeID)
}

func (s *service) estimate(points []pointcloud.Sample, window Window, expected float64, treeID string) (Response, error) {
	stats, err := Estimate(points, window)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeEmptyWindow, "no canopy points inside the window", err)
	}
	return Response{
		TreeID:             treeID,
		HalfWidth:          window.HalfWidth,
		ExpectedCanopyFeet: expected,
		Stats:              stats,
	}, nil
}
