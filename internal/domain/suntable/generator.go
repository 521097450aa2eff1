package suntable

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/daslab/treeshade/internal/domain/shadow"
	"github.com/daslab/treeshade/pkg/util"
)

const minShadeFactor = 0.3

// Locator resolves the sun direction for an instant and place.
type Locator interface {
	Position(t time.Time, latitude, longitude float64) (azimuth, altitude float64)
}

// Validate checks the slot layout.
func (c Config) Validate() error {
	if math.IsNaN(c.Latitude) || math.Abs(c.Latitude) > 90 {
		return fmt.Errorf("%w: latitude %v", shadow.ErrInvalidAngle, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || math.Abs(c.Longitude) > 180 {
		return fmt.Errorf("%w: longitude %v", shadow.ErrInvalidAngle, c.Longitude)
	}
	if c.Slots <= 0 {
		return errors.New("slots must be positive")
	}
	if c.SlotInterval <= 0 {
		return errors.New("slot interval must be positive")
	}
	if c.FirstSlot < 0 {
		return errors.New("first slot cannot be negative")
	}
	return nil
}

// Generate builds one season row per configured date.
func Generate(cfg Config, locator Locator) (shadow.SunTable, error) {
	if err := cfg.Validate(); err != nil {
		return shadow.SunTable{}, err
	}
	if len(cfg.SeasonDates) == 0 {
		return shadow.SunTable{}, errors.New("at least one season date is required")
	}
	table := shadow.SunTable{Seasons: make([][]shadow.SunPosition, 0, len(cfg.SeasonDates))}
	for _, raw := range cfg.SeasonDates {
		date, err := util.ParseDate(raw, cfg.Location)
		if err != nil {
			return shadow.SunTable{}, fmt.Errorf("season date %q: %w", raw, err)
		}
		slots := Day(cfg, locator, date)
		positions := make([]shadow.SunPosition, len(slots))
		for i, slot := range slots {
			positions[i] = slot.Position
		}
		table.Seasons = append(table.Seasons, positions)
	}
	return table, nil
}

// Day computes the time slots for one local date. cfg must be valid.
func Day(cfg Config, locator Locator, date time.Time) []Slot {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	centre := float64(cfg.Slots-1) / 2

	slots := make([]Slot, cfg.Slots)
	for i := range slots {
		at := midnight.Add(cfg.FirstSlot + time.Duration(i)*cfg.SlotInterval)
		az, alt := locator.Position(at, cfg.Latitude, cfg.Longitude)
		az, alt = round1(az), round1(alt)
		slots[i] = Slot{
			Time: at.Format("15:04"),
			Position: shadow.SunPosition{
				AzimuthDegrees:  az,
				AltitudeDegrees: alt,
				ShadeFactor:     ShadeFactor(float64(i), centre),
				Label:           strconv.Itoa(i + 1),
				Visible:         alt > 0 && alt >= cfg.MinAltitude,
			},
		}
	}
	return slots
}

// ShadeFactor weights a slot by its distance from the middle of the day:
// 1 at the centre, dropping 0.1 per slot, never below 0.3.
func ShadeFactor(slot, centre float64) float64 {
	f := 1 - 0.1*math.Abs(slot-centre)
	return round1(math.Max(minShadeFactor, f))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
