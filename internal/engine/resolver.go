package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/takeoff/internal/geometry"
	"github.com/piwi3910/takeoff/internal/model"
)

// PitchFactor converts a plan-view area to the sloped surface area of a
// roof with the given rise per 12 units of run.
func PitchFactor(pitch float64) float64 {
	if pitch <= 0 {
		return 1
	}
	r := pitch / 12
	return math.Sqrt(1 + r*r)
}

// MeasurementValue derives a real-world property of one measurement using
// its page's effective scale. Unsupported combinations such as the area of
// a line yield 0.
func MeasurementValue(m model.Measurement, prop model.Property, scales model.Scales) float64 {
	scale := scales.ForPage(m.PageIndex)
	switch prop {
	case model.PropertyCount:
		return float64(len(m.Points))
	case model.PropertyArea:
		if m.Type != model.MeasurementShape {
			return 0
		}
		return geometry.PolygonArea(m.Points) / (scale * scale) * PitchFactor(m.Pitch)
	case model.PropertyLength:
		switch m.Type {
		case model.MeasurementShape:
			return geometry.ClosedPathLength(m.Points) / scale
		case model.MeasurementLine:
			return geometry.PathLength(m.Points) / scale
		}
	}
	return 0
}

// measurementIndex gives ID lookup while keeping declaration order for
// group scans.
type measurementIndex struct {
	byID map[string]int
	all  []model.Measurement
}

func newMeasurementIndex(ms []model.Measurement) measurementIndex {
	idx := measurementIndex{
		byID: make(map[string]int, len(ms)),
		all:  ms,
	}
	for i, m := range ms {
		if _, dup := idx.byID[m.ID]; !dup {
			idx.byID[m.ID] = i
		}
	}
	return idx
}

func (idx measurementIndex) find(id string) (model.Measurement, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return model.Measurement{}, false
	}
	return idx.all[i], true
}

// resolve converts a source to a number. The error explains a zero that
// came from a dangling reference.
func (idx measurementIndex) resolve(src model.VariableSource, scales model.Scales) (float64, error) {
	switch s := src.(type) {
	case nil:
		return 0, nil
	case model.ManualValue:
		return s.Value, nil
	case model.PitchValue:
		return s.Ratio(), nil
	case model.MeasurementSource:
		m, ok := idx.find(s.MeasurementID)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingMeasurement, s.MeasurementID)
		}
		return MeasurementValue(m, s.Property, scales), nil
	case model.GroupSource:
		var total float64
		for _, m := range idx.all {
			if m.Group == s.Group {
				total += MeasurementValue(m, s.Property, scales)
			}
		}
		return total, nil
	default:
		return 0, fmt.Errorf("unsupported variable source %T", src)
	}
}

// ResolveVariable converts a variable source into a number against the
// given measurements and scales. Missing references resolve to 0.
func ResolveVariable(src model.VariableSource, measurements []model.Measurement, scales model.Scales) float64 {
	v, _ := newMeasurementIndex(measurements).resolve(src, scales)
	return v
}
