package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// VariableSource is where an instance variable gets its value. It is a
// closed set: ManualValue, PitchValue, MeasurementSource and GroupSource.
type VariableSource interface {
	sourceKind() string
}

// ManualValue is a number typed in by the user.
type ManualValue struct {
	Value float64
}

// PitchValue is a manual slope entered as rise over run, e.g. 5/12.
type PitchValue struct {
	Rise float64
	Run  float64
}

// Ratio returns rise divided by run, or 0 when run is zero.
func (p PitchValue) Ratio() float64 {
	if p.Run == 0 {
		return 0
	}
	return p.Rise / p.Run
}

func (p PitchValue) String() string {
	return strconv.FormatFloat(p.Rise, 'f', -1, 64) + "/" + strconv.FormatFloat(p.Run, 'f', -1, 64)
}

// MeasurementSource reads a property of a single measurement.
type MeasurementSource struct {
	MeasurementID string
	Property      Property
}

// GroupSource sums a property over every measurement in a group.
type GroupSource struct {
	Group    string
	Property Property
}

func (ManualValue) sourceKind() string       { return sourceManual }
func (PitchValue) sourceKind() string        { return sourceManual }
func (MeasurementSource) sourceKind() string { return sourceMeasurement }
func (GroupSource) sourceKind() string       { return sourceGroup }

const (
	sourceManual      = "manual"
	sourceMeasurement = "measurement"
	sourceGroup       = "measurement_group"
)

// ParseManual interprets a typed manual value. "rise/run" with a non-zero
// run becomes a PitchValue; anything else is parsed as a float, and
// unparseable input becomes zero. Parsing is strict: trailing text such as
// "12 ft" is rejected rather than read as a leading number, and "5/0" is
// not a pitch and not a number.
func ParseManual(s string) VariableSource {
	s = strings.TrimSpace(s)
	if rise, run, ok := strings.Cut(s, "/"); ok {
		r1, err1 := strconv.ParseFloat(strings.TrimSpace(rise), 64)
		r2, err2 := strconv.ParseFloat(strings.TrimSpace(run), 64)
		if err1 == nil && err2 == nil && r2 != 0 {
			return PitchValue{Rise: r1, Run: r2}
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ManualValue{}
	}
	return ManualValue{Value: v}
}

// Binding wraps a VariableSource for serialization. The JSON form is a
// kind-tagged object; manual values serialize as a number, or as a
// "rise/run" string for pitches.
type Binding struct {
	Source VariableSource
}

// Bind is shorthand for Binding{Source: src}.
func Bind(src VariableSource) Binding {
	return Binding{Source: src}
}

type bindingJSON struct {
	Kind          string          `json:"kind"`
	Value         json.RawMessage `json:"value,omitempty"`
	MeasurementID string          `json:"measurement_id,omitempty"`
	Group         string          `json:"group,omitempty"`
	Property      Property        `json:"property,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b Binding) MarshalJSON() ([]byte, error) {
	var out bindingJSON
	switch s := b.Source.(type) {
	case nil:
		out.Kind = sourceManual
		out.Value = json.RawMessage("0")
	case ManualValue:
		out.Kind = sourceManual
		raw, err := json.Marshal(s.Value)
		if err != nil {
			return nil, err
		}
		out.Value = raw
	case PitchValue:
		out.Kind = sourceManual
		raw, err := json.Marshal(s.String())
		if err != nil {
			return nil, err
		}
		out.Value = raw
	case MeasurementSource:
		out.Kind = sourceMeasurement
		out.MeasurementID = s.MeasurementID
		out.Property = s.Property
	case GroupSource:
		out.Kind = sourceGroup
		out.Group = s.Group
		out.Property = s.Property
	default:
		return nil, fmt.Errorf("unsupported variable source %T", b.Source)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Binding) UnmarshalJSON(data []byte) error {
	var in bindingJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case sourceManual:
		b.Source = decodeManual(in.Value)
	case sourceMeasurement:
		b.Source = MeasurementSource{MeasurementID: in.MeasurementID, Property: in.Property}
	case sourceGroup:
		b.Source = GroupSource{Group: in.Group, Property: in.Property}
	default:
		return fmt.Errorf("unknown variable source kind %q", in.Kind)
	}
	return nil
}

func decodeManual(raw json.RawMessage) VariableSource {
	if len(raw) == 0 {
		return ManualValue{}
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return ManualValue{Value: num}
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return ParseManual(text)
	}
	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil && flag {
		return ManualValue{Value: 1}
	}
	return ManualValue{}
}
