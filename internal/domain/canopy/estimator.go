package canopy

import (
	"errors"
	"math"

	"github.com/daslab/treeshade/internal/domain/pointcloud"
)

// ErrEmptyWindow is returned when the window is degenerate or holds no points.
var ErrEmptyWindow = errors.New("no points inside canopy window")

// Window is a square horizontal region centred on the trunk, in feet.
type Window struct {
	HalfWidth float64 `json:"halfWidth"`
}

// Contains reports whether the sample lies inside the window footprint.
func (w Window) Contains(s pointcloud.Sample) bool {
	return s.X >= -w.HalfWidth && s.X <= w.HalfWidth && s.Y >= -w.HalfWidth && s.Y <= w.HalfWidth
}

// Stats summarises the vertical extent of a canopy.
type Stats struct {
	HeightMeters float64 `json:"heightMeters"`
	Density      float64 `json:"density"`
	Count        int     `json:"count"`
}

// Estimate scans the points once and reports the vertical extent of those that
// fall inside the window, plus extent per retained point.
func Estimate(points []pointcloud.Sample, window Window) (Stats, error) {
	if !(window.HalfWidth > 0) || math.IsInf(window.HalfWidth, 0) {
		return Stats{}, ErrEmptyWindow
	}

	var (
		maxZ  = math.Inf(-1)
		minZ  = math.Inf(1)
		count int
	)
	for _, p := range points {
		if !window.Contains(p) {
			continue
		}
		count++
		maxZ = math.Max(maxZ, p.Z)
		minZ = math.Min(minZ, p.Z)
	}
	if count == 0 {
		return Stats{}, ErrEmptyWindow
	}

	height := (maxZ - minZ) * pointcloud.FeetPerMeter
	return Stats{
		HeightMeters: height,
		Density:      height / float64(count),
		Count:        count,
	}, nil
}
