package pointcloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// FeetPerMeter converts the survey's foot-based offsets into metres.
const FeetPerMeter = 3.28

// MinFields is the number of values a stored record must carry.
const MinFields = 6

// ErrMalformed reports a record that cannot be read as a Sample.
var ErrMalformed = errors.New("malformed point cloud record")

// Sample is one lidar return relative to the tree base. Records are stored as
// [x_ft, y_ft, z_ft, intensity, returnNumber, numberOfReturns, ...].
type Sample struct {
	X               float64
	Y               float64
	Z               float64
	Intensity       float64
	ReturnNumber    float64
	NumberOfReturns float64
}

// Depth is NumberOfReturns - ReturnNumber, floored at zero. It drives shading
// and colouring; a negative difference only shows up in corrupt records.
func (s Sample) Depth() float64 {
	d := s.NumberOfReturns - s.ReturnNumber
	if d < 0 || math.IsNaN(d) {
		return 0
	}
	return d
}

// UnmarshalJSON accepts the positional array layout used by the point cloud files.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var fields []float64
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	sample, err := FromFields(fields)
	if err != nil {
		return err
	}
	*s = sample
	return nil
}

// MarshalJSON writes the positional array layout.
func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal([MinFields]float64{s.X, s.Y, s.Z, s.Intensity, s.ReturnNumber, s.NumberOfReturns})
}

// FromFields builds a Sample from a positional record. Extra fields are ignored.
func FromFields(fields []float64) (Sample, error) {
	if len(fields) < MinFields {
		return Sample{}, fmt.Errorf("%w: want at least %d fields, got %d", ErrMalformed, MinFields, len(fields))
	}
	return Sample{
		X:               fields[0],
		Y:               fields[1],
		Z:               fields[2],
		Intensity:       fields[3],
		ReturnNumber:    fields[4],
		NumberOfReturns: fields[5],
	}, nil
}

// Decode parses a JSON point cloud file.
func Decode(data []byte) ([]Sample, error) {
	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		if errors.Is(err, ErrMalformed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return samples, nil
}

// Encode serialises samples into the JSON file layout.
func Encode(samples []Sample) ([]byte, error) {
	if samples == nil {
		samples = []Sample{}
	}
	return json.Marshal(samples)
}
