package zones

import (
	"github.com/snapzone/snapzone/internal/platform"
	"github.com/snapzone/snapzone/internal/topology"
)

// Resolved is a zone mapped onto the current topology. ZoneIndex is the
// zone's position in the settings list, not its position in the resolved
// slice: orphaned zones are skipped during resolution but their neighbours
// keep their original numbers, so hotkey digits and overlay badges stay
// stable across monitor unplugs.
type Resolved struct {
	ZoneIndex int
	Zone      Zone
	Monitor   topology.Monitor
	Rect      platform.Rect
}

// Resolve maps zone percentages onto monitor work areas, producing pixel
// rectangles. Zones whose monitor ordinal is not present in the topology
// are skipped. The result preserves the relative order of the input.
func Resolve(zoneList []Zone, monitors []topology.Monitor) []Resolved {
	resolved := make([]Resolved, 0, len(zoneList))
	for i, z := range zoneList {
		m, ok := topology.ByIndex(monitors, z.Monitor)
		if !ok {
			continue
		}
		resolved = append(resolved, Resolved{
			ZoneIndex: i,
			Zone:      z,
			Monitor:   m,
			Rect:      rectFor(z, m.WorkArea),
		})
	}
	return resolved
}

// rectFor converts one zone's percentages to pixels within a work area.
// Each axis truncates independently, so a 33.3% + 33.3% + 33.4% split never
// overflows the monitor; adjacent zones may underlap by a pixel instead.
func rectFor(z Zone, work platform.Rect) platform.Rect {
	return platform.Rect{
		X:      work.X + int(float64(work.Width)*z.X/100.0),
		Y:      work.Y + int(float64(work.Height)*z.Y/100.0),
		Width:  int(float64(work.Width) * z.Width / 100.0),
		Height: int(float64(work.Height) * z.Height / 100.0),
	}
}

// FromRect is the inverse of resolution: it converts a pixel rectangle back
// to percentages of a monitor's work area, for capturing an edited or
// hand-placed window as a zone. Round-trips within a pixel on the same
// topology.
func FromRect(rect platform.Rect, m topology.Monitor) (x, y, width, height float64) {
	work := m.WorkArea
	if work.Width <= 0 || work.Height <= 0 {
		return 0, 0, 0, 0
	}
	x = float64(rect.X-work.X) * 100.0 / float64(work.Width)
	y = float64(rect.Y-work.Y) * 100.0 / float64(work.Height)
	width = float64(rect.Width) * 100.0 / float64(work.Width)
	height = float64(rect.Height) * 100.0 / float64(work.Height)
	return x, y, width, height
}

// HasOrphans reports whether any zone refers to a monitor ordinal beyond
// the connected count.
func HasOrphans(zoneList []Zone, monitorCount int) bool {
	return MissingMonitorZoneCount(zoneList, monitorCount) > 0
}

// MissingMonitorZoneCount counts zones whose monitor is not connected.
// These are skipped by Resolve but kept in the settings so they come back
// when the monitor does.
func MissingMonitorZoneCount(zoneList []Zone, monitorCount int) int {
	n := 0
	for _, z := range zoneList {
		if z.Monitor < 1 || z.Monitor > monitorCount {
			n++
		}
	}
	return n
}
