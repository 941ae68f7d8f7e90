// Package units provides shared constants and validation for speed units,
// plus the SpeedLimit regulation value carried by lanelets.
package units

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMH  = "kmh"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmh, kmph, kph"
}

// ConvertSpeed converts a speed from meters per second to the target units
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPS:
		return speedMPS
	case MPH:
		return speedMPS * 2.2369362920544
	case KMH, KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// ToMetersPerSecond converts a speed in the given units to meters per second
func ToMetersPerSecond(speed float64, sourceUnits string) float64 {
	switch sourceUnits {
	case MPS:
		return speed
	case MPH:
		return speed / 2.2369362920544
	case KMH, KMPH, KPH:
		return speed / 3.6
	default:
		return speed
	}
}
