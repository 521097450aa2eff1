package suntable

import (
	"time"

	"github.com/daslab/treeshade/internal/domain/shadow"
)

// Config describes the slot layout of a generated table.
type Config struct {
	Latitude     float64
	Longitude    float64
	Location     *time.Location
	SeasonDates  []string
	FirstSlot    time.Duration
	SlotInterval time.Duration
	Slots        int
	MinAltitude  float64
}

// ComputeRequest asks for the slots of a single date.
type ComputeRequest struct {
	Latitude  *float64 `json:"lat" form:"lat"`
	Longitude *float64 `json:"lon" form:"lon"`
	Date      string   `json:"date" form:"date"`
}

// ComputeResponse is serialized back to API consumers.
type ComputeResponse struct {
	Date      string               `json:"date"`
	Latitude  float64              `json:"lat"`
	Longitude float64              `json:"lon"`
	Timezone  string               `json:"timezone"`
	Slots     []Slot               `json:"slots"`
	Positions []shadow.SunPosition `json:"positions"`
}

// Slot pairs a generated position with its local wall clock time.
type Slot struct {
	Time     string             `json:"time" yaml:"time"`
	Position shadow.SunPosition `json:"position" yaml:"position"`
}
