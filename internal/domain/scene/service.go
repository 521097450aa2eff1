package scene

import (
	"context"
	"errors"
	"log/slog"

	"github.com/daslab/treeshade/internal/domain/canopy"
	"github.com/daslab/treeshade/internal/domain/pointcloud"
	"github.com/daslab/treeshade/internal/domain/shadow"
	apperrors "github.com/daslab/treeshade/pkg/errors"
)

const (
	treePointSize   = 3
	treeOpacity     = 0.75
	shadowPointSize = 2
	shadowOpacity   = 1
	sizeUnits       = "feet"
)

// Service prepares the layers the map mounts when a tree or season is picked.
type Service interface {
	Prepare(ctx context.Context, req Request) (Response, error)
}

type service struct {
	table  shadow.SunTable
	store  pointcloud.Store
	logger *slog.Logger
}

// NewService wires up the scene domain.
func NewService(table shadow.SunTable, store pointcloud.Store, logger *slog.Logger) Service {
	return &service{
		table:  table,
		store:  store,
		logger: logger.With("component", "scene.service"),
	}
}

func (s *service) Prepare(ctx context.Context, req Request) (Response, error) {
	sel := req.Selection
	treeID, err := pointcloud.NormalizeTreeID(sel.TreeID)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "selection.treeId is invalid", err)
	}
	origin := shadow.Origin{Latitude: sel.Latitude, Longitude: sel.Longitude}
	slots, err := s.table.Season(req.Season)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "season is not in the sun table", err)
	}
	if err := shadow.ValidateOrigin(origin); err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "selection coordinates are invalid", err)
	}

	samples, err := s.store.Load(ctx, treeID)
	if err != nil {
		return Response{}, pointcloud.WrapLoadError(err)
	}

	coordinateOrigin := [2]float64{origin.Longitude, origin.Latitude}
	resp := Response{
		TreeID:  treeID,
		Season:  req.Season,
		Skipped: []SkippedSlot{},
	}
	resp.Layers = append(resp.Layers, Layer{
		ID:               TreeLayerID(treeID),
		Kind:             LayerKindTree,
		CoordinateOrigin: coordinateOrigin,
		PointSize:        treePointSize,
		SizeUnits:        sizeUnits,
		Opacity:          treeOpacity,
		Points:           TreePoints(samples),
	})

	for _, slot := range slots {
		if !slot.Visible {
			resp.Skipped = append(resp.Skipped, SkippedSlot{Label: slot.Label, Reason: ReasonHidden})
			continue
		}
		points, err := shadow.Project(origin, slot, samples)
		if err != nil {
			reason := ReasonInvalid
			if errors.Is(err, shadow.ErrDegenerateProjection) {
				reason = ReasonDegenerate
			}
			s.logger.Warn("shadow slot skipped", "tree_id", treeID, "season", req.Season, "label", slot.Label, "error", err)
			resp.Skipped = append(resp.Skipped, SkippedSlot{Label: slot.Label, Reason: reason})
			continue
		}
		sun := slot
		resp.Layers = append(resp.Layers, Layer{
			ID:               ShadowLayerID(treeID, req.Season, slot.Label),
			Kind:             LayerKindShadow,
			Label:            slot.Label,
			CoordinateOrigin: coordinateOrigin,
			PointSize:        shadowPointSize,
			SizeUnits:        sizeUnits,
			Opacity:          shadowOpacity,
			Sun:              &sun,
			FootprintArea:    shadow.FootprintArea(points),
			Points:           points,
		})
	}

	ids := make([]string, len(resp.Layers))
	for i, layer := range resp.Layers {
		ids[i] = layer.ID
	}
	resp.Diff = DiffLayers(req.ActiveLayers, ids)

	window, err := canopy.WindowFromTrunkDiameter(sel.TrunkDiameter)
	if err == nil {
		var stats canopy.Stats
		stats, err = canopy.Estimate(samples, window)
		if err == nil {
			resp.Stats = &stats
		}
	}
	if err != nil {
		resp.StatsError = apperrors.CodeEmptyWindow
		s.logger.Info("canopy stats unavailable", "tree_id", treeID, "error", err)
	}

	s.logger.Info("scene prepared",
		"tree_id", treeID,
		"season", req.Season,
		"points", len(samples),
		"layers", len(resp.Layers),
		"skipped", len(resp.Skipped),
		"mount", len(resp.Diff.Mount),
		"unmount", len(resp.Diff.Unmount),
	)
	return resp, nil
}
