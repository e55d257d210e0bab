package model

import (
	"github.com/google/uuid"

	"github.com/piwi3910/takeoff/internal/geometry"
)

// MeasurementType distinguishes open polylines from closed shapes.
type MeasurementType string

const (
	MeasurementLine  MeasurementType = "line"
	MeasurementShape MeasurementType = "shape" // Implicitly closed polygon
)

// Property is the derived quantity read from a measurement.
type Property string

const (
	PropertyLength Property = "length"
	PropertyArea   Property = "area"
	PropertyCount  Property = "count"
)

// Measurement is a user-drawn line or shape on a plan page.
type Measurement struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      MeasurementType  `json:"type"`
	Points    []geometry.Point `json:"points"`
	PageIndex int              `json:"page_index"`
	Group     string           `json:"group,omitempty"`  // Free-form aggregation key
	Pitch     float64          `json:"pitch,omitempty"`  // Roof rise per 12 units of run (shapes only)
	Hidden    bool             `json:"hidden,omitempty"` // Display only; still measured
}

// NewMeasurement creates a measurement with a generated ID.
func NewMeasurement(name string, kind MeasurementType, page int, points ...geometry.Point) Measurement {
	return Measurement{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Type:      kind,
		Points:    points,
		PageIndex: page,
	}
}

// Scales holds the pixels-per-unit conversion for a project. Pages maps a
// page index to an override of Global.
type Scales struct {
	Global float64         `json:"scale"`
	Pages  map[int]float64 `json:"page_scales,omitempty"`
}

// ForPage returns the effective scale for a page. A page override wins when
// positive; otherwise the global scale is used. A missing or non-positive
// scale resolves to 1 so that quantities stay in raw page units instead of
// becoming infinite.
func (s Scales) ForPage(page int) float64 {
	if v, ok := s.Pages[page]; ok && v > 0 {
		return v
	}
	if s.Global > 0 {
		return s.Global
	}
	return 1
}
