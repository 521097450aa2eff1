package canopy

import (
	"fmt"
	"math"

	"github.com/daslab/treeshade/internal/domain/pointcloud"
)

// Allometric constants relating trunk cross-section to crown spread.
const (
	crownAreaSlope     = 28.2
	crownAreaIntercept = 7
	inchesPerFoot      = 12
)

// ExpectedCanopyFeet estimates crown spread in feet from trunk diameter at
// breast height, in inches.
func ExpectedCanopyFeet(trunkDiameterInches float64) float64 {
	radiusMeters := trunkDiameterInches / inchesPerFoot / pointcloud.FeetPerMeter / 2
	basalArea := radiusMeters * radiusMeters * math.Pi
	return (basalArea*crownAreaSlope + crownAreaIntercept) / 2 * pointcloud.FeetPerMeter
}

// WindowFromTrunkDiameter sizes the scan window to a quarter of the expected
// crown spread on each side of the trunk.
func WindowFromTrunkDiameter(trunkDiameterInches float64) (Window, error) {
	if math.IsNaN(trunkDiameterInches) || math.IsInf(trunkDiameterInches, 0) || trunkDiameterInches < 0 {
		return Window{}, fmt.Errorf("%w: trunk diameter %v", ErrEmptyWindow, trunkDiameterInches)
	}
	return Window{HalfWidth: ExpectedCanopyFeet(trunkDiameterInches) / 4}, nil
}
