package suntable

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/daslab/treeshade/pkg/errors"
)

func newTestService() *service {
	svc := NewService(testConfig(), hourLocator{}, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2023, 3, 20, 15, 0, 0, 0, time.UTC) }
	return svc
}

func TestComputeUsesDefaults(t *testing.T) {
	resp, err := newTestService().Compute(context.Background(), ComputeRequest{})
	require.NoError(t, err)
	require.Equal(t, "2023-03-20", resp.Date)
	require.Equal(t, 40.7, resp.Latitude)
	require.Equal(t, "UTC", resp.Timezone)
	require.Len(t, resp.Slots, 15)
	require.Len(t, resp.Positions, 15)
	require.Equal(t, resp.Slots[7].Position, resp.Positions[7])
}

func TestComputeOverrides(t *testing.T) {
	lat, lon := 51.5, -0.1
	resp, err := newTestService().Compute(context.Background(), ComputeRequest{
		Latitude:  &lat,
		Longitude: &lon,
		Date:      "2022-12-21",
	})
	require.NoError(t, err)
	require.Equal(t, "2022-12-21", resp.Date)
	require.Equal(t, 51.5, resp.Latitude)
	require.Equal(t, -0.1, resp.Longitude)
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	svc := newTestService()

	_, err := svc.Compute(context.Background(), ComputeRequest{Date: "yesterday"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	lat := -95.0
	_, err = svc.Compute(context.Background(), ComputeRequest{Latitude: &lat})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
