package suntable

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/daslab/treeshade/internal/domain/shadow"
	apperrors "github.com/daslab/treeshade/pkg/errors"
	"github.com/daslab/treeshade/pkg/util"
)

// Service computes sun positions on demand.
type Service interface {
	Compute(ctx context.Context, req ComputeRequest) (ComputeResponse, error)
}

type service struct {
	cfg     Config
	locator Locator
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the sun table domain. cfg supplies the defaults for
// omitted request fields.
func NewService(cfg Config, locator Locator, logger *slog.Logger) Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &service{
		cfg:     cfg,
		locator: locator,
		logger:  logger.With("component", "suntable.service"),
		now:     util.NowUTC,
	}
}

func (s *service) Compute(_ context.Context, req ComputeRequest) (ComputeResponse, error) {
	cfg := s.cfg
	if req.Latitude != nil {
		cfg.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		cfg.Longitude = *req.Longitude
	}
	if err := cfg.Validate(); err != nil {
		return ComputeResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "lat/lon are invalid", err)
	}

	raw := strings.TrimSpace(req.Date)
	if raw == "" {
		raw = s.now().In(cfg.Location).Format("2006-01-02")
	}
	date, err := util.ParseDate(raw, cfg.Location)
	if err != nil {
		return ComputeResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be formatted as YYYY-MM-DD", err)
	}

	slots := Day(cfg, s.locator, date)
	positions := make([]shadow.SunPosition, len(slots))
	visible := 0
	for i, slot := range slots {
		positions[i] = slot.Position
		if slot.Position.Visible {
			visible++
		}
	}
	s.logger.Info("sun positions computed", "date", raw, "lat", cfg.Latitude, "lon", cfg.Longitude, "visible", visible)

	return ComputeResponse{
		Date:      raw,
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Timezone:  cfg.Location.String(),
		Slots:     slots,
		Positions: positions,
	}, nil
}
