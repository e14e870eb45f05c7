package valueobject

import "fmt"

// RiskLevel is an immutable value object representing a rockfall risk band.
type RiskLevel struct {
	value string
}

var (
	RiskLevelSafe   = RiskLevel{value: "Safe"}
	RiskLevelLow    = RiskLevel{value: "Low"}
	RiskLevelMedium = RiskLevel{value: "Medium"}
	RiskLevelHigh   = RiskLevel{value: "High"}
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "Safe":
		return RiskLevelSafe, nil
	case "Low":
		return RiskLevelLow, nil
	case "Medium":
		return RiskLevelMedium, nil
	case "High":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromProbability classifies a probability (0-100) into its band.
// Bands are checked from the highest threshold down.
func RiskLevelFromProbability(probability int) RiskLevel {
	switch {
	case probability >= 75:
		return RiskLevelHigh
	case probability >= 50:
		return RiskLevelMedium
	case probability >= 25:
		return RiskLevelLow
	default:
		return RiskLevelSafe
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// Recommendation returns the operational guidance shown for this level.
func (r RiskLevel) Recommendation() string {
	switch r.value {
	case "High":
		return "Immediate evacuation recommended. Halt all mining operations in the area."
	case "Medium":
		return "Increased monitoring required. Consider restricting access to high-risk zones."
	case "Low":
		return "Continue normal operations with regular monitoring."
	default:
		return "Current conditions are stable. Maintain routine safety protocols."
	}
}

// AlertLevel maps the level onto the three levels an alert can carry.
// Safe is reported as Low.
func (r RiskLevel) AlertLevel() RiskLevel {
	if r.Equal(RiskLevelSafe) {
		return RiskLevelLow
	}
	return r
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
