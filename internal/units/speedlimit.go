package units

import (
	"fmt"
	"strconv"
	"strings"
)

// SpeedLimit is the speed-limit regulation attached to a lanelet. It is an
// immutable value: construct with NewSpeedLimit or ParseSpeedLimit.
type SpeedLimit struct {
	value float64
	unit  string
}

// NewSpeedLimit builds a speed limit from a positive value and a valid unit.
func NewSpeedLimit(value float64, unit string) (SpeedLimit, error) {
	if value <= 0 {
		return SpeedLimit{}, fmt.Errorf("speed limit must be positive, got %v", value)
	}
	if !IsValid(unit) {
		return SpeedLimit{}, fmt.Errorf("unknown speed unit %q (valid: %s)", unit, GetValidUnitsString())
	}
	return SpeedLimit{value: value, unit: unit}, nil
}

// ParseSpeedLimit parses compact map-tag notation such as "10mph", "30kmh"
// or "8.33mps": a positive number immediately followed by a unit.
func ParseSpeedLimit(s string) (SpeedLimit, error) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	if trimmed == "" {
		return SpeedLimit{}, fmt.Errorf("empty speed limit")
	}

	split := len(trimmed)
	for i, r := range trimmed {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			split = i
			break
		}
	}
	value, err := strconv.ParseFloat(trimmed[:split], 64)
	if err != nil {
		return SpeedLimit{}, fmt.Errorf("speed limit %q: bad numeric value", s)
	}
	return NewSpeedLimit(value, trimmed[split:])
}

// Value returns the numeric value in the limit's own unit.
func (s SpeedLimit) Value() float64 { return s.value }

// Unit returns the unit string.
func (s SpeedLimit) Unit() string { return s.unit }

// MetersPerSecond returns the limit converted to m/s.
func (s SpeedLimit) MetersPerSecond() float64 {
	return ToMetersPerSecond(s.value, s.unit)
}

// IsZero reports whether the limit is the unset zero value.
func (s SpeedLimit) IsZero() bool { return s.unit == "" }

func (s SpeedLimit) String() string {
	return fmt.Sprintf("%g%s", s.value, s.unit)
}
