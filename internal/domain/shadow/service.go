package shadow

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/daslab/treeshade/pkg/errors"
)

// Service exposes shadow projection and the configured sun table.
type Service interface {
	Project(ctx context.Context, req ProjectRequest) (ProjectResponse, error)
	Table(ctx context.Context) SunTable
	Season(ctx context.Context, index int) (SeasonResponse, error)
}

type service struct {
	table  SunTable
	logger *slog.Logger
}

// NewService wires up the shadow domain.
func NewService(table SunTable, logger *slog.Logger) Service {
	return &service{
		table:  table,
		logger: logger.With("component", "shadow.service"),
	}
}

func (s *service) Project(_ context.Context, req ProjectRequest) (ProjectResponse, error) {
	points, err := Project(req.Origin, req.Sun, req.Samples)
	if err != nil {
		return ProjectResponse{}, WrapProjectError(err)
	}
	s.logger.Debug("shadow projected", "label", req.Sun.Label, "points", len(points))
	return ProjectResponse{
		Label:         req.Sun.Label,
		Points:        points,
		FootprintArea: FootprintArea(points),
	}, nil
}

func (s *service) Table(_ context.Context) SunTable {
	seasons := make([][]SunPosition, len(s.table.Seasons))
	for i := range s.table.Seasons {
		seasons[i], _ = s.table.Season(i)
	}
	return SunTable{Seasons: seasons}
}

func (s *service) Season(_ context.Context, index int) (SeasonResponse, error) {
	positions, err := s.table.Season(index)
	if err != nil {
		return SeasonResponse{}, apperrors.Wrap(apperrors.CodeNotFound, "season not found", err)
	}
	return SeasonResponse{Season: index, Positions: positions}, nil
}

// WrapProjectError maps projection failures onto application error codes.
func WrapProjectError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAngle):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "sun or origin angle is invalid", err)
	case errors.Is(err, ErrDegenerateProjection):
		return apperrors.Wrap(apperrors.CodeDegenerateProjection, "sun is on the horizon", err)
	default:
		return apperrors.Wrap(apperrors.CodeInvalidInput, "projection failed", err)
	}
}
