// Package topology snapshots the connected monitor layout and assigns the
// stable 1-based ordinals that zone definitions refer to.
package topology

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/snapzone/snapzone/internal/platform"
)

// Monitor is one display in the current topology. Index is the 1-based
// ordinal zones address; monitors are ordered left to right, then top to
// bottom, so the ordinal is stable for a given physical arrangement.
type Monitor struct {
	Index    int
	Name     string
	Primary  bool
	Bounds   platform.Rect
	WorkArea platform.Rect
}

// Topology is a point-in-time snapshot of the connected monitors together
// with the fingerprint that identifies the arrangement.
type Topology struct {
	Monitors    []Monitor
	Fingerprint string
}

// DisplaySource is the subset of the platform backend needed to read the
// monitor layout.
type DisplaySource interface {
	Displays() ([]platform.Display, error)
}

// Snapshot reads the current monitor layout from the backend. An empty
// layout (all outputs disabled mid-hotplug) is not an error; it yields a
// topology with no monitors and the fingerprint "0:".
func Snapshot(src DisplaySource) (*Topology, error) {
	displays, err := src.Displays()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate displays: %w", err)
	}

	sort.Slice(displays, func(i, j int) bool {
		if displays[i].Bounds.X != displays[j].Bounds.X {
			return displays[i].Bounds.X < displays[j].Bounds.X
		}
		return displays[i].Bounds.Y < displays[j].Bounds.Y
	})

	monitors := make([]Monitor, 0, len(displays))
	for i, d := range displays {
		monitors = append(monitors, Monitor{
			Index:    i + 1,
			Name:     d.Name,
			Primary:  d.Primary,
			Bounds:   d.Bounds,
			WorkArea: d.Usable,
		})
	}

	return &Topology{
		Monitors:    monitors,
		Fingerprint: FingerprintOf(monitors),
	}, nil
}

// Monitor returns the monitor with the given 1-based ordinal.
func (t *Topology) Monitor(ordinal int) (Monitor, bool) {
	return ByIndex(t.Monitors, ordinal)
}

// MonitorForPoint returns the monitor whose bounds contain the given root
// coordinates, falling back to the first monitor when the point is outside
// every display (e.g. during a hotplug race). The second return is false
// only when the topology has no monitors at all.
func (t *Topology) MonitorForPoint(x, y int) (Monitor, bool) {
	for _, m := range t.Monitors {
		if m.Bounds.Contains(x, y) {
			return m, true
		}
	}
	if len(t.Monitors) == 0 {
		return Monitor{}, false
	}
	return t.Monitors[0], true
}

// ByIndex returns the monitor with the given 1-based ordinal.
func ByIndex(monitors []Monitor, ordinal int) (Monitor, bool) {
	for _, m := range monitors {
		if m.Index == ordinal {
			return m, true
		}
	}
	return Monitor{}, false
}

// FingerprintOf renders the compact identity string for a monitor layout,
// e.g. "2:1920x1080@0,0;1920x1080@1920,0". It encodes the count plus each
// monitor's full bounds in ordinal order, so any resolution change, move,
// or plug event produces a different string.
func FingerprintOf(monitors []Monitor) string {
	parts := make([]string, 0, len(monitors))
	for _, m := range monitors {
		parts = append(parts, fmt.Sprintf("%dx%d@%d,%d",
			m.Bounds.Width, m.Bounds.Height, m.Bounds.X, m.Bounds.Y))
	}
	return fmt.Sprintf("%d:%s", len(monitors), strings.Join(parts, ";"))
}

// HasChanged reports whether the stored fingerprint no longer matches the
// current one. An empty stored fingerprint means nothing was recorded yet
// and never counts as a change.
func HasChanged(stored, current string) bool {
	if stored == "" {
		return false
	}
	return stored != current
}

// DescribeChange summarizes how the layout differs from the stored
// fingerprint, suitable for a log line or desktop notification.
func DescribeChange(stored, current string) string {
	oldCount := fingerprintCount(stored)
	newCount := fingerprintCount(current)
	switch {
	case oldCount == 0 || newCount == 0:
		return "monitor layout changed"
	case newCount > oldCount:
		return fmt.Sprintf("monitor connected (%d -> %d)", oldCount, newCount)
	case newCount < oldCount:
		return fmt.Sprintf("monitor disconnected (%d -> %d)", oldCount, newCount)
	default:
		return "monitor layout rearranged"
	}
}

func fingerprintCount(fingerprint string) int {
	head, _, ok := strings.Cut(fingerprint, ":")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
