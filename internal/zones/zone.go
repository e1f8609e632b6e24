// Package zones defines percentage-based snap zones, their persisted
// settings document, and the geometry that maps zones onto monitors.
package zones

import "fmt"

// Zone describes one snap target in percentages of a monitor's work area,
// so a layout survives resolution changes. Monitor is the 1-based ordinal
// assigned by the topology snapshot.
type Zone struct {
	Monitor int     `json:"monitor"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Name    string  `json:"name,omitempty"`
}

// Validate checks that the zone describes a non-empty region inside its
// monitor's work area.
func (z Zone) Validate() error {
	if z.Monitor < 1 {
		return fmt.Errorf("monitor ordinal must be >= 1, got %d", z.Monitor)
	}
	if z.X < 0 || z.X > 100 || z.Y < 0 || z.Y > 100 {
		return fmt.Errorf("zone origin out of range: x=%.2f y=%.2f", z.X, z.Y)
	}
	if z.Width <= 0 || z.Height <= 0 {
		return fmt.Errorf("zone size must be positive: width=%.2f height=%.2f", z.Width, z.Height)
	}
	if z.X+z.Width > 100.5 || z.Y+z.Height > 100.5 {
		return fmt.Errorf("zone extends past its monitor: x+width=%.2f y+height=%.2f",
			z.X+z.Width, z.Y+z.Height)
	}
	return nil
}

// Label returns the zone's display name, falling back to "Zone N" for the
// given 1-based position when no name was set.
func (z Zone) Label(position int) string {
	if z.Name != "" {
		return z.Name
	}
	return fmt.Sprintf("Zone %d", position)
}
