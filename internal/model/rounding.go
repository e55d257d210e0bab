package model

import "math"

// RoundMode is the rounding policy applied to a node's computed quantity.
type RoundMode string

const (
	RoundUp      RoundMode = "up"      // Ceiling: buy whole units
	RoundDown    RoundMode = "down"    // Floor
	RoundNearest RoundMode = "nearest" // Half away from zero
	RoundNone    RoundMode = "none"    // Keep fractional quantities
)

func (r RoundMode) String() string {
	switch r {
	case RoundUp:
		return "Round Up"
	case RoundDown:
		return "Round Down"
	case RoundNearest:
		return "Round Nearest"
	default:
		return "None"
	}
}

// ApplyRounding rounds value according to mode. Unknown modes leave the
// value unchanged.
func ApplyRounding(value float64, mode RoundMode) float64 {
	switch mode {
	case RoundUp:
		return math.Ceil(value)
	case RoundDown:
		return math.Floor(value)
	case RoundNearest:
		return math.Round(value)
	default:
		return value
	}
}
