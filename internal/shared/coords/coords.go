package coords

import (
	"fmt"
	"strconv"
	"strings"

	"alliance-tracker/internal/shared/errors"
)

// Coordinates identifies a location in the game world as galaxy:system:planet.
// Planet position 0 within a system is reserved for the scan marker record.
type Coordinates struct {
	Galaxy int64 `json:"galaxy"`
	System int64 `json:"system"`
	Planet int64 `json:"planet"`
}

func New(galaxy, system, planet int64) Coordinates {
	return Coordinates{Galaxy: galaxy, System: system, Planet: planet}
}

// Parse reads the rendered "g:s:p" form.
func Parse(s string) (Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Coordinates{}, errors.Validationf("invalid coordinates %q", s)
	}

	values := make([]int64, 3)
	for i, part := range parts {
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return Coordinates{}, errors.Validationf("invalid coordinates %q", s)
		}
		if value < 0 {
			return Coordinates{}, errors.Validationf("invalid coordinates %q", s)
		}
		values[i] = value
	}

	return Coordinates{Galaxy: values[0], System: values[1], Planet: values[2]}, nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%d:%d:%d", c.Galaxy, c.System, c.Planet)
}

// IsMarker reports whether the coordinates address a system scan marker.
func (c Coordinates) IsMarker() bool {
	return c.Planet == 0
}

// Marker returns the scan marker coordinates for the same system.
func (c Coordinates) Marker() Coordinates {
	return Coordinates{Galaxy: c.Galaxy, System: c.System, Planet: 0}
}
