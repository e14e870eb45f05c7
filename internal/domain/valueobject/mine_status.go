package valueobject

import "fmt"

// MineStatus is the operational state of a mine site.
type MineStatus struct {
	value string
}

var (
	MineStatusActive            = MineStatus{value: "Active"}
	MineStatusInactive          = MineStatus{value: "Inactive"}
	MineStatusUnderConstruction = MineStatus{value: "Under Construction"}
)

// MineStatusFromString reconstructs a MineStatus from its string representation.
func MineStatusFromString(s string) (MineStatus, error) {
	switch s {
	case "Active":
		return MineStatusActive, nil
	case "Inactive":
		return MineStatusInactive, nil
	case "Under Construction":
		return MineStatusUnderConstruction, nil
	default:
		return MineStatus{}, fmt.Errorf("invalid mine status: %s", s)
	}
}

func (s MineStatus) String() string { return s.value }

func (s MineStatus) Equal(other MineStatus) bool { return s.value == other.value }

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Validate checks the coordinates fall on the globe.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %v", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %v", c.Lng)
	}
	return nil
}
