package shadow

import (
	"fmt"
	"math"

	"github.com/daslab/treeshade/internal/domain/pointcloud"
)

const (
	// GroundOffset lifts projected points just above the terrain mesh.
	GroundOffset = 0.1

	degenerateTangent = 1e-9
)

// Project casts every sample onto the ground along the sun direction and
// shades it by the slot's shade factor. The result has one point per sample,
// in input order.
func Project(origin Origin, sun SunPosition, samples []pointcloud.Sample) ([]ProjectedPoint, error) {
	if err := ValidateOrigin(origin); err != nil {
		return nil, err
	}
	if !finite(sun.AzimuthDegrees) || !finite(sun.AltitudeDegrees) {
		return nil, fmt.Errorf("%w: azimuth=%v altitude=%v", ErrInvalidAngle, sun.AzimuthDegrees, sun.AltitudeDegrees)
	}

	azimuth := sun.AzimuthDegrees * math.Pi / 180
	sinAz, cosAz := math.Sin(azimuth), math.Cos(azimuth)
	// Shadow length uses tan(-altitude); the sign flips the cast away from the sun.
	tanAltitude := math.Tan(-sun.AltitudeDegrees * math.Pi / 180)
	if !finite(tanAltitude) || math.Abs(tanAltitude) < degenerateTangent {
		return nil, fmt.Errorf("%w: altitude=%v", ErrDegenerateProjection, sun.AltitudeDegrees)
	}

	factor := clamp(sun.ShadeFactor, 0, 1)
	weight := factor * factor

	points := make([]ProjectedPoint, len(samples))
	for i, sample := range samples {
		displacement := sample.Z / tanAltitude
		s := weight * sample.Depth()
		tone := clamp(255-100*s, 0, 255)
		points[i] = ProjectedPoint{
			X: sample.X/pointcloud.FeetPerMeter + displacement*sinAz,
			Y: sample.Y/pointcloud.FeetPerMeter + displacement*cosAz,
			Z: GroundOffset,
			R: tone,
			G: tone,
			B: tone,
			A: clamp(150*s, 0, 255),
		}
	}
	return points, nil
}

// ValidateOrigin rejects non-finite or out of range coordinates.
func ValidateOrigin(origin Origin) error {
	if !finite(origin.Latitude) || !finite(origin.Longitude) ||
		math.Abs(origin.Latitude) > 90 || math.Abs(origin.Longitude) > 180 {
		return fmt.Errorf("%w: origin lat=%v lon=%v", ErrInvalidAngle, origin.Latitude, origin.Longitude)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
