package canopy

import "github.com/daslab/treeshade/internal/domain/pointcloud"

// EstimateRequest carries an already loaded point cloud. Exactly one of
// HalfWidth or TrunkDiameter sizes the window; HalfWidth wins when both are set.
type EstimateRequest struct {
	Points        []pointcloud.Sample `json:"points"`
	HalfWidth     *float64            `json:"halfWidth,omitempty"`
	TrunkDiameter *float64            `json:"trunkDiameter,omitempty"`
}

// TreeStatsRequest asks for stats of a stored tree point cloud.
type TreeStatsRequest struct {
	TreeID        string  `json:"treeId"`
	TrunkDiameter float64 `json:"trunkDiameter"`
}

// Response is serialized back to API consumers.
type Response struct {
	TreeID             string  `json:"treeId,omitempty"`
	HalfWidth          float64 `json:"halfWidth"`
	ExpectedCanopyFeet float64 `json:"expectedCanopyFeet,omitempty"`
	Stats
}
