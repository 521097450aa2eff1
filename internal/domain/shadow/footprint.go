package shadow

import "sort"

// FootprintArea returns the convex hull area, in square metres, covered by the
// ground-projected points. Fewer than three distinct points cover no area.
func FootprintArea(points []ProjectedPoint) float64 {
	if len(points) < 3 {
		return 0
	}
	pts := make([][2]float64, len(points))
	for i, p := range points {
		pts[i] = [2]float64{p.X, p.Y}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] == pts[j][0] {
			return pts[i][1] < pts[j][1]
		}
		return pts[i][0] < pts[j][0]
	})

	// Andrew's monotone chain.
	hull := make([][2]float64, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]
	if len(hull) < 3 {
		return 0
	}

	var twice float64
	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		twice += a[0]*b[1] - b[0]*a[1]
	}
	if twice < 0 {
		twice = -twice
	}
	return twice / 2
}

func cross(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}
