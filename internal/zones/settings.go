package zones

import "fmt"

// SettingsVersion is the current settings document format version.
const SettingsVersion = 1

// Settings is the persisted zone layout: the ordered zone list, a format
// version, and the monitor fingerprint captured at the last save. Zone
// order is significant; a zone's position drives its hotkey binding (1-9)
// and the stacking order for overlapping zones, last listed on top.
type Settings struct {
	Zones              []Zone `json:"zones"`
	Version            int    `json:"version"`
	MonitorFingerprint string `json:"monitor_fingerprint,omitempty"`
}

// DefaultSettings builds the stock layout for the given monitor count.
// Monitor 1 gets four quarters plus left/right halves that deliberately
// overlap them; every additional monitor gets a top half, a bottom half,
// and a full-screen zone.
func DefaultSettings(monitorCount int) *Settings {
	s := &Settings{Version: SettingsVersion, Zones: []Zone{}}
	if monitorCount < 1 {
		return s
	}

	s.Zones = []Zone{
		{Monitor: 1, X: 0, Y: 0, Width: 50, Height: 50, Name: "Top-Left Quarter"},
		{Monitor: 1, X: 50, Y: 0, Width: 50, Height: 50, Name: "Top-Right Quarter"},
		{Monitor: 1, X: 0, Y: 50, Width: 50, Height: 50, Name: "Bottom-Left Quarter"},
		{Monitor: 1, X: 50, Y: 50, Width: 50, Height: 50, Name: "Bottom-Right Quarter"},
		{Monitor: 1, X: 0, Y: 0, Width: 50, Height: 100, Name: "Left Half"},
		{Monitor: 1, X: 50, Y: 0, Width: 50, Height: 100, Name: "Right Half"},
	}
	for m := 2; m <= monitorCount; m++ {
		s.Zones = append(s.Zones,
			Zone{Monitor: m, X: 0, Y: 0, Width: 100, Height: 50, Name: fmt.Sprintf("Monitor %d Top Half", m)},
			Zone{Monitor: m, X: 0, Y: 50, Width: 100, Height: 50, Name: fmt.Sprintf("Monitor %d Bottom Half", m)},
			Zone{Monitor: m, X: 0, Y: 0, Width: 100, Height: 100, Name: fmt.Sprintf("Monitor %d Full", m)},
		)
	}
	return s
}

// Validate checks every zone in the list.
func (s *Settings) Validate() error {
	for i, z := range s.Zones {
		if err := z.Validate(); err != nil {
			return fmt.Errorf("zone %d: %w", i+1, err)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate a draft without
// touching the live settings.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	out := &Settings{
		Version:            s.Version,
		MonitorFingerprint: s.MonitorFingerprint,
		Zones:              make([]Zone, len(s.Zones)),
	}
	copy(out.Zones, s.Zones)
	return out
}
