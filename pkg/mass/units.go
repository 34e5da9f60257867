package mass

import (
	"fmt"
	"strings"
)

// Conversion factors.
const (
	CubicCMToCubicM = 1e-6
	KgToGram        = 1000.0
	KgToPound       = 2.20462263
)

// UnitMode selects how masses are displayed.
type UnitMode int

const (
	Metric   UnitMode = iota // grams and kilograms
	Imperial                 // pounds
)

func (u UnitMode) String() string {
	switch u {
	case Metric:
		return "metric"
	case Imperial:
		return "imperial"
	default:
		return fmt.Sprintf("UnitMode(%d)", int(u))
	}
}

// metricLengths are the length units that select metric output.
var metricLengths = map[string]bool{"mm": true, "cm": true, "m": true}

// UnitModeFromLength derives the display mode from a length unit name:
// mm, cm and m are metric, everything else is imperial.
func UnitModeFromLength(unit string) UnitMode {
	if metricLengths[strings.ToLower(strings.TrimSpace(unit))] {
		return Metric
	}
	return Imperial
}

// ParseUnitMode accepts "metric", "imperial", or a length unit name.
func ParseUnitMode(s string) (UnitMode, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	case "mm", "cm", "m", "in", "ft":
		return UnitModeFromLength(v), nil
	default:
		return Metric, fmt.Errorf("mass: unknown unit %q", s)
	}
}
