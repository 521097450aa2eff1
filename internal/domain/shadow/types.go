package shadow

// Origin is the tree base the point offsets are measured from.
type Origin struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}

// SunPosition is one time slot of the sun lookup table.
type SunPosition struct {
	AzimuthDegrees  float64 `json:"azimuth" yaml:"azimuth"`
	AltitudeDegrees float64 `json:"altitude" yaml:"altitude"`
	ShadeFactor     float64 `json:"shade" yaml:"shade"`
	Label           string  `json:"label" yaml:"label"`
	Visible         bool    `json:"visible" yaml:"visible"`
}

// ProjectedPoint is a renderable point in metre offsets from the origin.
type ProjectedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}
