package scene

import (
	"github.com/daslab/treeshade/internal/domain/canopy"
	"github.com/daslab/treeshade/internal/domain/shadow"
)

// LayerKind distinguishes the scanned tree from its shadow snapshots.
type LayerKind string

const (
	LayerKindTree   LayerKind = "tree"
	LayerKindShadow LayerKind = "shadow"
)

// Selection is the tree the user picked on the map. Callers pass it on every
// request; the service keeps no selection state.
type Selection struct {
	TreeID        string  `json:"treeId"`
	Latitude      float64 `json:"lat"`
	Longitude     float64 `json:"lon"`
	TrunkDiameter float64 `json:"trunkDiameter"`
}

// Request asks for the layers of one tree in one season. ActiveLayers holds
// the ids mounted by the previous render pass.
type Request struct {
	Selection    Selection `json:"selection"`
	Season       int       `json:"season"`
	ActiveLayers []string  `json:"activeLayers"`
}

// Layer describes one point cloud layer for the rendering host.
type Layer struct {
	ID               string                  `json:"id"`
	Kind             LayerKind               `json:"kind"`
	Label            string                  `json:"label,omitempty"`
	CoordinateOrigin [2]float64              `json:"coordinateOrigin"`
	PointSize        float64                 `json:"pointSize"`
	SizeUnits        string                  `json:"sizeUnits"`
	Opacity          float64                 `json:"opacity"`
	Sun              *shadow.SunPosition     `json:"sun,omitempty"`
	FootprintArea    float64                 `json:"footprintArea,omitempty"`
	Points           []shadow.ProjectedPoint `json:"points"`
}

// SkippedSlot records a time slot that produced no layer.
type SkippedSlot struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// Diff tells the host which layers to add, remove, or leave alone.
type Diff struct {
	Mount   []string `json:"mount"`
	Unmount []string `json:"unmount"`
	Keep    []string `json:"keep"`
}

// Response is the render pass for one request.
type Response struct {
	TreeID     string        `json:"treeId"`
	Season     int           `json:"season"`
	Layers     []Layer       `json:"layers"`
	Skipped    []SkippedSlot `json:"skipped"`
	Diff       Diff          `json:"diff"`
	Stats      *canopy.Stats `json:"stats,omitempty"`
	StatsError string        `json:"statsError,omitempty"`
}

// Slot skip reasons.
const (
	ReasonHidden     = "hidden"
	ReasonDegenerate = "degenerate_projection"
	ReasonInvalid    = "invalid_angle"
)
