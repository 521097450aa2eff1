package shadow

import "github.com/daslab/treeshade/internal/domain/pointcloud"

// ProjectRequest captures one shadow snapshot request.
type ProjectRequest struct {
	Origin  Origin              `json:"origin"`
	Sun     SunPosition         `json:"sun"`
	Samples []pointcloud.Sample `json:"samples"`
}

// ProjectResponse is serialized back to API consumers.
type ProjectResponse struct {
	Label         string           `json:"label"`
	Points        []ProjectedPoint `json:"points"`
	FootprintArea float64          `json:"footprintArea"`
}

// SeasonResponse lists the slots of one season.
type SeasonResponse struct {
	Season    int           `json:"season"`
	Positions []SunPosition `json:"positions"`
}
