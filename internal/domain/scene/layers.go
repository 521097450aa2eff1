package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/daslab/treeshade/internal/domain/pointcloud"
	"github.com/daslab/treeshade/internal/domain/shadow"
)

// TreeLayerID names the layer holding the scanned tree itself.
func TreeLayerID(treeID string) string {
	return fmt.Sprintf("tree-%s", treeID)
}

// ShadowLayerID names one shadow snapshot of a tree.
func ShadowLayerID(treeID string, season int, label string) string {
	return fmt.Sprintf("shadow-%s-%d-%s", treeID, season, label)
}

// DiffLayers compares the ids mounted by the previous pass with the ids of the
// new pass. Output slices are sorted and never nil.
func DiffLayers(previous, next []string) Diff {
	prev := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		prev[id] = struct{}{}
	}
	want := make(map[string]struct{}, len(next))
	for _, id := range next {
		want[id] = struct{}{}
	}

	diff := Diff{Mount: []string{}, Unmount: []string{}, Keep: []string{}}
	for id := range want {
		if _, ok := prev[id]; ok {
			diff.Keep = append(diff.Keep, id)
		} else {
			diff.Mount = append(diff.Mount, id)
		}
	}
	for id := range prev {
		if _, ok := want[id]; !ok {
			diff.Unmount = append(diff.Unmount, id)
		}
	}
	sort.Strings(diff.Mount)
	sort.Strings(diff.Unmount)
	sort.Strings(diff.Keep)
	return diff
}

// TreePoints colours the raw scan by intensity, tinting green by return depth.
func TreePoints(samples []pointcloud.Sample) []shadow.ProjectedPoint {
	points := make([]shadow.ProjectedPoint, len(samples))
	for i, s := range samples {
		depth := s.Depth()
		points[i] = shadow.ProjectedPoint{
			X: s.X / pointcloud.FeetPerMeter,
			Y: s.Y / pointcloud.FeetPerMeter,
			Z: s.Z / pointcloud.FeetPerMeter,
			R: channel(s.Intensity * 255),
			G: channel(s.Intensity*125 + s.Intensity*225*(depth+1)),
			B: channel(s.Intensity * 255),
			A: channel(100*depth + 100),
		}
	}
	return points
}

func channel(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(255, v))
}
