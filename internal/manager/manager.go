// Package manager orchestrates topology, zone settings, the overlay, the
// gesture engine, and placement. Every mutation of the zone state funnels
// through one Manager so gesture callbacks, hotkeys, and IPC commands never
// race each other.
package manager

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/snapzone/snapzone/internal/gesture"
	"github.com/snapzone/snapzone/internal/overlay"
	"github.com/snapzone/snapzone/internal/platform"
	"github.com/snapzone/snapzone/internal/topology"
	"github.com/snapzone/snapzone/internal/zones"
)

// Desktop is the slice of the platform backend the manager uses directly.
// The gesture engine and the placement executor hold their own views.
type Desktop interface {
	Displays() ([]platform.Display, error)
	ActiveWindow() (platform.WindowID, error)
}

// OverlayController drives the on-screen zone rectangles.
type OverlayController interface {
	Show(regions []overlay.Region) error
	Highlight(index int)
	Hide()
	Visible() bool
	IsOverlayWindow(id platform.WindowID) bool
}

// Placer performs verified window placement.
type Placer interface {
	Place(win platform.WindowID, target platform.Rect) bool
}

// Notifier delivers transient user notifications, best-effort.
type Notifier interface {
	Notify(summary, body string)
}

// Status is a point-in-time snapshot for the status command.
type Status struct {
	Monitors     int
	Zones        int
	Orphaned     int
	Fingerprint  string
	OverlayShown bool
	SettingsPath string
}

// Manager owns the zone settings and their resolved geometry.
type Manager struct {
	mu       sync.RWMutex
	desktop  Desktop
	store    *zones.Store
	overlay  OverlayController
	placer   Placer
	notifier Notifier

	settings *zones.Settings
	topo     *topology.Topology
	resolved []zones.Resolved
	orphans  int
}

// New creates a manager. Call Start before serving commands. notifier may
// be nil.
func New(desktop Desktop, store *zones.Store, ov OverlayController, placer Placer, notifier Notifier) *Manager {
	return &Manager{
		desktop:  desktop,
		store:    store,
		overlay:  ov,
		placer:   placer,
		notifier: notifier,
	}
}

// Start takes the first topology snapshot and loads the zone settings,
// generating defaults when none are saved yet.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	topo, err := topology.Snapshot(m.desktop)
	if err != nil {
		return fmt.Errorf("failed to enumerate monitors: %w", err)
	}
	m.topo = topo
	log.Printf("Topology: %d monitor(s), fingerprint %s", len(topo.Monitors), topo.Fingerprint)

	if err := m.reloadLocked(); err != nil {
		return err
	}

	// A fingerprint stamped at save time that no longer matches means the
	// monitor layout changed while the daemon was down.
	if saved := m.settings.MonitorFingerprint; topology.HasChanged(saved, topo.Fingerprint) {
		log.Printf("Topology: %s", topology.DescribeChange(saved, topo.Fingerprint))
	}
	return nil
}

// ReloadSettings re-reads the settings file and rebuilds zone geometry.
func (m *Manager) ReloadSettings() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reloadLocked()
}

// reloadLocked loads settings from disk. Absent and empty files produce
// generated defaults. Corrupt files were already backed up by the store;
// they also fall back to defaults. Unexpected read failures propagate and
// leave whatever settings are already in memory untouched.
func (m *Manager) reloadLocked() error {
	loaded, err := m.store.Load()
	switch {
	case errors.Is(err, zones.ErrCorruptSettings):
		log.Printf("Zones: %v; falling back to defaults", err)
		m.notify("Zone settings corrupt", "The saved layout was backed up and defaults were restored.")
		loaded = nil
	case err != nil:
		return err
	}

	if loaded == nil || len(loaded.Zones) == 0 {
		loaded = zones.DefaultSettings(len(m.topo.Monitors))
		log.Printf("Zones: generated %d default zone(s) for %d monitor(s)",
			len(loaded.Zones), len(m.topo.Monitors))
	} else {
		log.Printf("Zones: loaded %d zone(s) from %s", len(loaded.Zones), m.store.Path())
	}

	m.settings = loaded
	m.rebuildLocked()
	return nil
}

// RefreshTopology re-enumerates monitors and rebuilds zone geometry when
// the fingerprint changed. It reports whether a change was seen.
func (m *Manager) RefreshTopology() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	topo, err := topology.Snapshot(m.desktop)
	if err != nil {
		return false, fmt.Errorf("failed to enumerate monitors: %w", err)
	}

	old := m.topo.Fingerprint
	m.topo = topo
	if !topology.HasChanged(old, topo.Fingerprint) {
		return false, nil
	}

	log.Printf("Topology: %s", topology.DescribeChange(old, topo.Fingerprint))
	m.rebuildLocked()
	if m.orphans > 0 {
		m.notify("Monitors changed",
			fmt.Sprintf("%d zone(s) now reference a disconnected monitor.", m.orphans))
	}
	return true, nil
}

// rebuildLocked recomputes resolved geometry and refreshes the overlay
// when it is showing.
func (m *Manager) rebuildLocked() {
	m.resolved = zones.Resolve(m.settings.Zones, m.topo.Monitors)
	m.orphans = zones.MissingMonitorZoneCount(m.settings.Zones, len(m.topo.Monitors))
	if m.orphans > 0 {
		log.Printf("Zones: %d zone(s) reference disconnected monitors and are hidden", m.orphans)
	}
	if m.overlay.Visible() {
		if err := m.overlay.Show(m.regionsLocked()); err != nil {
			log.Printf("Overlay: refresh failed: %v", err)
		}
	}
}

// regionsLocked converts resolved zones into overlay regions. The badge
// number is the zone's original list position, which is what hotkeys 1-9
// target, so orphan skips leave gaps rather than renumbering.
func (m *Manager) regionsLocked() []overlay.Region {
	regions := make([]overlay.Region, len(m.resolved))
	for i, r := range m.resolved {
		regions[i] = overlay.Region{
			Rect:   r.Rect,
			Number: r.ZoneIndex + 1,
			Name:   r.Zone.Name,
		}
	}
	return regions
}

// Zones returns a copy of the configured zone list.
func (m *Manager) Zones() []zones.Zone {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]zones.Zone, len(m.settings.Zones))
	copy(out, m.settings.Zones)
	return out
}

// ResolvedZones returns a copy of the current resolved geometry.
func (m *Manager) ResolvedZones() []zones.Resolved {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]zones.Resolved, len(m.resolved))
	copy(out, m.resolved)
	return out
}

// Monitors returns a copy of the current monitor list.
func (m *Manager) Monitors() []topology.Monitor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]topology.Monitor, len(m.topo.Monitors))
	copy(out, m.topo.Monitors)
	return out
}

// Status reports a snapshot for the status command.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Status{
		Monitors:     len(m.topo.Monitors),
		Zones:        len(m.settings.Zones),
		Orphaned:     m.orphans,
		Fingerprint:  m.topo.Fingerprint,
		OverlayShown: m.overlay.Visible(),
		SettingsPath: m.store.Path(),
	}
}

// SetZones replaces the in-memory zone list. Persist with SaveLayout.
func (m *Manager) SetZones(list []zones.Zone) error {
	for i, z := range list {
		if err := z.Validate(); err != nil {
			return fmt.Errorf("zone %d: %w", i+1, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings.Zones = make([]zones.Zone, len(list))
	copy(m.settings.Zones, list)
	log.Printf("Zones: list replaced, %d zone(s)", len(list))
	m.rebuildLocked()
	return nil
}

// UpdateZone replaces the zone at a 0-based list position.
func (m *Manager) UpdateZone(index int, z zones.Zone) error {
	if err := z.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.settings.Zones) {
		return fmt.Errorf("no zone at position %d", index+1)
	}
	m.settings.Zones[index] = z
	m.rebuildLocked()
	return nil
}

// ApplyZoneRect converts an edited pixel rectangle back into percentages
// of the zone's monitor working area and stores them.
func (m *Manager) ApplyZoneRect(index int, rect platform.Rect) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.settings.Zones) {
		return fmt.Errorf("no zone at position %d", index+1)
	}
	z := m.settings.Zones[index]
	mon, ok := m.topo.Monitor(z.Monitor)
	if !ok {
		return fmt.Errorf("zone %d references disconnected monitor %d", index+1, z.Monitor)
	}
	z.X, z.Y, z.Width, z.Height = zones.FromRect(rect, mon)
	m.settings.Zones[index] = z
	m.rebuildLocked()
	return nil
}

// ResetDefaults regenerates the default layout for the current monitor
// count. The result lives in memory until SaveLayout.
func (m *Manager) ResetDefaults() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = zones.DefaultSettings(len(m.topo.Monitors))
	log.Printf("Zones: reset to %d default zone(s)", len(m.settings.Zones))
	m.rebuildLocked()
}

// SaveLayout stamps the current fingerprint and persists the settings. On
// failure the in-memory zones stay valid.
func (m *Manager) SaveLayout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings.Version = zones.SettingsVersion
	m.settings.MonitorFingerprint = m.topo.Fingerprint
	if err := m.store.Save(m.settings); err != nil {
		log.Printf("Zones: save failed: %v", err)
		m.notify("Save failed", "Zone layout could not be written; the current zones remain active.")
		return err
	}
	log.Printf("Zones: saved %d zone(s) to %s", len(m.settings.Zones), m.store.Path())
	return nil
}

// ShowZones renders every resolved zone with its number.
func (m *Manager) ShowZones() error {
	m.mu.RLock()
	regions := m.regionsLocked()
	m.mu.RUnlock()
	return m.overlay.Show(regions)
}

// HideZones removes the zone overlay.
func (m *Manager) HideZones() {
	m.overlay.Hide()
}

// ToggleZones flips overlay visibility and reports the new state.
func (m *Manager) ToggleZones() (bool, error) {
	if m.overlay.Visible() {
		m.overlay.Hide()
		return false, nil
	}
	return true, m.ShowZones()
}

// SnapActive places the focused window into zone number n.
func (m *Manager) SnapActive(n int) (bool, error) {
	win, err := m.desktop.ActiveWindow()
	if err != nil || win == 0 {
		return false, fmt.Errorf("no active window to snap")
	}
	return m.SnapWindow(win, n)
}

// SnapWindow places win into zone number n (1-based list position, the
// same numbering the overlay badges and hotkeys use). The bool reports
// whether the window verifiably moved; placement refusal is a normal
// outcome, not an error. SnapWindow blocks through placement delays, so
// event-loop callers wrap it in a goroutine.
func (m *Manager) SnapWindow(win platform.WindowID, n int) (bool, error) {
	m.mu.RLock()
	if n < 1 || n > len(m.settings.Zones) {
		count := len(m.settings.Zones)
		m.mu.RUnlock()
		return false, fmt.Errorf("no zone %d (have %d)", n, count)
	}
	target, ok := m.resolvedByNumberLocked(n)
	m.mu.RUnlock()

	if !ok {
		m.notify("Zone unavailable", fmt.Sprintf("Zone %d is on a disconnected monitor.", n))
		return false, fmt.Errorf("zone %d references a disconnected monitor", n)
	}
	return m.placeAndNotify(win, n, target), nil
}

// resolvedByNumberLocked finds the resolved zone whose original list
// position is n. Orphan skips mean the resolved slice position and the
// list position can differ.
func (m *Manager) resolvedByNumberLocked(n int) (zones.Resolved, bool) {
	for _, r := range m.resolved {
		if r.ZoneIndex == n-1 {
			return r, true
		}
	}
	return zones.Resolved{}, false
}

// placeAndNotify runs the placement executor and reports the outcome to
// the user.
func (m *Manager) placeAndNotify(win platform.WindowID, n int, target zones.Resolved) bool {
	name := target.Zone.Label(n)
	log.Printf("Snap: window 0x%x -> zone %d (%s) %dx%d at %d,%d",
		win, n, name, target.Rect.Width, target.Rect.Height, target.Rect.X, target.Rect.Y)

	moved := m.placer.Place(win, target.Rect)
	if !moved {
		log.Printf("Snap: window 0x%x did not move", win)
		m.notify("Snap failed", "The window did not move; it may not support repositioning.")
		return false
	}
	m.notify("Snapped", fmt.Sprintf("Window placed in %s.", name))
	return true
}

// GestureCallbacks wires the drag gesture into zone lookup, the overlay,
// and placement. Drop dispatches placement on its own goroutine so the X
// event loop never blocks on placement delays.
func (m *Manager) GestureCallbacks() gesture.Callbacks {
	return gesture.Callbacks{
		ZoneAt: func(x, y int) (int, bool) {
			m.mu.RLock()
			defer m.mu.RUnlock()
			return zones.ZoneAt(m.resolved, x, y)
		},
		ShowZones: func() {
			if err := m.ShowZones(); err != nil {
				log.Printf("Overlay: show failed: %v", err)
			}
		},
		Highlight: func(index int) {
			m.overlay.Highlight(index)
		},
		HideZones: func() {
			m.overlay.Hide()
		},
		Drop: func(win platform.WindowID, zoneIndex int) {
			m.mu.RLock()
			if zoneIndex < 0 || zoneIndex >= len(m.resolved) {
				m.mu.RUnlock()
				return
			}
			target := m.resolved[zoneIndex]
			m.mu.RUnlock()
			go m.placeAndNotify(win, target.ZoneIndex+1, target)
		},
		Cancel:      func() {},
		IsOwnWindow: m.overlay.IsOverlayWindow,
	}
}

func (m *Manager) notify(summary, body string) {
	if m.notifier == nil {
		return
	}
	m.notifier.Notify(summary, body)
}
