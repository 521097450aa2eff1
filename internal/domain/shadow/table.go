package shadow

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// SunTable holds the discrete sun positions, indexed by season then time slot.
type SunTable struct {
	Seasons [][]SunPosition `json:"seasons" yaml:"seasons"`
}

// Season returns the time slots of one season.
func (t SunTable) Season(index int) ([]SunPosition, error) {
	if index < 0 || index >= len(t.Seasons) {
		return nil, fmt.Errorf("%w: %d (table has %d)", ErrUnknownSeason, index, len(t.Seasons))
	}
	out := make([]SunPosition, len(t.Seasons[index]))
	copy(out, t.Seasons[index])
	return out, nil
}

// Validate checks that every visible slot can be projected.
func (t SunTable) Validate() error {
	if len(t.Seasons) == 0 {
		return errors.New("sun table has no seasons")
	}
	for si, season := range t.Seasons {
		if len(season) == 0 {
			return fmt.Errorf("season %d has no time slots", si)
		}
		labels := make(map[string]struct{}, len(season))
		for pi, pos := range season {
			label := strings.TrimSpace(pos.Label)
			if label == "" {
				return fmt.Errorf("season %d slot %d: label cannot be empty", si, pi)
			}
			if _, dup := labels[label]; dup {
				return fmt.Errorf("season %d slot %d: duplicate label %q", si, pi, label)
			}
			labels[label] = struct{}{}
			if pos.ShadeFactor < 0 || pos.ShadeFactor > 1 || math.IsNaN(pos.ShadeFactor) {
				return fmt.Errorf("season %d slot %d: shade factor %v outside [0,1]", si, pi, pos.ShadeFactor)
			}
			if !pos.Visible {
				continue
			}
			if !finite(pos.AzimuthDegrees) || !finite(pos.AltitudeDegrees) {
				return fmt.Errorf("season %d slot %d: %w", si, pi, ErrInvalidAngle)
			}
			if pos.AltitudeDegrees <= 0 || pos.AltitudeDegrees > 90 {
				return fmt.Errorf("season %d slot %d: visible slot altitude %v outside (0,90]", si, pi, pos.AltitudeDegrees)
			}
		}
	}
	return nil
}

// DefaultTable is the New York City table: summer solstice, equinox, winter
// solstice, and an all-hidden season used to switch shadows off.
func DefaultTable() SunTable {
	return SunTable{Seasons: [][]SunPosition{
		{
			{63, 5, 0.3, "1", true},
			{72, 16, 0.4, "2", true},
			{81, 27, 0.5, "3", true},
			{90, 38, 0.6, "4", true},
			{101, 49, 0.7, "5", true},
			{116, 60, 0.8, "6", true},
			{141, 69, 0.9, "7", true},
			{182, 73, 1, "8", true},
			{222, 68, 0.9, "9", true},
			{245, 59, 0.8, "10", true},
			{260, 48, 0.7, "11", true},
			{271, 37, 0.6, "12", true},
			{280, 26, 0.5, "13", true},
			{289, 15, 0.4, "14", true},
			{298, 4, 0.3, "15", true},
		},
		{
			{1, 1, 0.3, "1", false},
			{1, 1, 0.4, "2", false},
			{99, 11, 0.5, "3", true},
			{109, 22, 0.6, "4", true},
			{122, 32, 0.7, "5", true},
			{137, 41, 0.8, "6", true},
			{156, 47, 0.9, "7", true},
			{179, 50, 1, "8", true},
			{201, 48, 0.9, "9", true},
			{221, 42, 0.8, "10", true},
			{237, 33, 0.7, "11", true},
			{249, 23, 0.6, "12", true},
			{269, 12, 0.5, "13", true},
			{1, 1, 0.4, "14", false},
			{1, 1, 0.3, "15", false},
		},
		{
			{1, 1, 0, "1", false},
			{1, 1, 0.4, "2", false},
			{128, 6, 0.5, "3", true},
			{139, 14, 0.6, "4", true},
			{152, 20, 0.7, "5", true},
			{166, 25, 0.8, "6", true},
			{181, 26, 0.9, "7", true},
			{196, 24, 1, "8", true},
			{210, 20, 0.9, "9", true},
			{223, 13, 0.8, "10", true},
			{233, 5, 0.7, "11", true},
			{243, 5, 0.6, "12", false},
			{1, 1, 0.5, "13", false},
			{1, 1, 0.4, "14", false},
			{1, 1, 0, "15", false},
		},
		{
			{1, 1, 0, "1", false},
			{1, 1, 0.4, "2", false},
			{128, 6, 0.5, "3", false},
			{139, 14, 0.6, "4", false},
			{152, 20, 0.7, "5", false},
			{166, 25, 0.8, "6", false},
			{181, 26, 0.9, "7", false},
			{196, 24, 1, "8", false},
			{210, 20, 0.9, "9", false},
			{223, 13, 0.8, "10", false},
			{233, 5, 0.7, "11", false},
			{243, 5, 0.6, "12", false},
			{1, 1, 0.5, "13", false},
			{1, 1, 0.4, "14", false},
			{1, 1, 0, "15", false},
		},
	}}
}
