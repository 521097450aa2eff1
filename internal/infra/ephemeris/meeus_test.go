package ephemeris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	nycLat = 40.707
	nycLon = -73.993
)

func TestPositionSolarNoonSummerSolstice(t *testing.T) {
	// Solar noon in lower Manhattan is close to 16:57 UTC in late June.
	az, alt := NewMeeus().Position(time.Date(2022, 6, 21, 16, 57, 0, 0, time.UTC), nycLat, nycLon)
	require.InDelta(t, 90-nycLat+23.44, alt, 1)
	require.InDelta(t, 180, az, 5)
}

func TestPositionMorningIsEast(t *testing.T) {
	az, alt := NewMeeus().Position(time.Date(2022, 9, 22, 13, 0, 0, 0, time.UTC), nycLat, nycLon)
	require.Greater(t, alt, 0.0)
	require.Greater(t, az, 90.0)
	require.Less(t, az, 180.0)
}

func TestPositionNightIsBelowHorizon(t *testing.T) {
	_, alt := NewMeeus().Position(time.Date(2022, 12, 21, 5, 0, 0, 0, time.UTC), nycLat, nycLon)
	require.Less(t, alt, 0.0)
}
