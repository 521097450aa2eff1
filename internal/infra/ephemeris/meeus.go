package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
)

const deg = math.Pi / 180

// Meeus computes topocentric sun angles from the low precision solar theory
// in Meeus, Astronomical Algorithms, ch. 25.
type Meeus struct{}

// NewMeeus constructs the ephemeris.
func NewMeeus() *Meeus {
	return &Meeus{}
}

// Position returns the sun azimuth, clockwise from north, and altitude above
// the horizon, both in degrees. Longitude is positive east.
func (Meeus) Position(t time.Time, latitude, longitude float64) (azimuth, altitude float64) {
	jd := julian.TimeToJD(t.UTC())
	ra, dec := solar.ApparentEquatorial(jd)
	alpha := math.Atan2(ra.Sin(), ra.Cos())
	theta := sidereal.Apparent(jd).Angle().Rad()

	hourAngle := theta + longitude*deg - alpha
	phi := latitude * deg

	sinAlt := math.Sin(phi)*dec.Sin() + math.Cos(phi)*dec.Cos()*math.Cos(hourAngle)
	altitude = math.Asin(math.Max(-1, math.Min(1, sinAlt))) / deg

	// Meeus measures azimuth westward from south.
	fromSouth := math.Atan2(math.Sin(hourAngle), math.Cos(hourAngle)*math.Sin(phi)-dec.Sin()/dec.Cos()*math.Cos(phi))
	azimuth = math.Mod(fromSouth/deg+180, 360)
	if azimuth < 0 {
		azimuth += 360
	}
	return azimuth, altitude
}
