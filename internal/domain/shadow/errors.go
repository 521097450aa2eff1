package shadow

import "errors"

var (
	// ErrInvalidAngle rejects non-finite or out of range angles.
	ErrInvalidAngle = errors.New("invalid angle")
	// ErrDegenerateProjection is returned when the sun sits on the horizon and
	// the shadow length is unbounded.
	ErrDegenerateProjection = errors.New("degenerate projection")
	// ErrUnknownSeason is returned for a season index outside the table.
	ErrUnknownSeason = errors.New("unknown season")
)
