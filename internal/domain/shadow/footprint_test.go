package shadow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFootprintAreaSquareWithInteriorPoints(t *testing.T) {
	points := []ProjectedPoint{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
		{X: 1, Y: 1}, {X: 0.5, Y: 1.5}, {X: 1, Y: 0},
	}
	require.InDelta(t, 4, FootprintArea(points), 1e-9)
}

func TestFootprintAreaDegenerate(t *testing.T) {
	require.Zero(t, FootprintArea(nil))
	require.Zero(t, FootprintArea([]ProjectedPoint{{X: 1}, {X: 2}}))
	require.Zero(t, FootprintArea([]ProjectedPoint{{X: 0}, {X: 1}, {X: 2}, {X: 3}}))
	require.Zero(t, FootprintArea([]ProjectedPoint{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}))
}

func TestFootprintAreaTriangle(t *testing.T) {
	points := []ProjectedPoint{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}
	require.InDelta(t, 6, FootprintArea(points), 1e-9)
}
