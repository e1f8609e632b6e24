package palette

import (
	"fmt"
	"strconv"
	"strings"
)

// ZoneEntry is one zone row offered by the picker.
type ZoneEntry struct {
	Number   int    // 1-based position in the zone list (the hotkey number)
	Name     string // Optional display name
	Monitor  int    // 1-based monitor index the zone targets
	Geometry string // Resolved pixel geometry, empty while orphaned
	Orphaned bool   // True when the zone's monitor is disconnected
}

// Picker presents the configured zones and returns the chosen zone number.
type Picker struct {
	backend Backend
	message string
}

func NewPicker(backend Backend) *Picker {
	return &Picker{backend: backend}
}

// SetMessage sets a context line shown in the message bar on backends that have one.
func (p *Picker) SetMessage(message string) {
	p.message = message
}

// Pick shows one row per zone and returns the selected 1-based zone number.
// Returns ErrCancelled when the user dismisses the palette.
func (p *Picker) Pick(entries []ZoneEntry) (int, error) {
	if len(entries) == 0 {
		return 0, fmt.Errorf("palette: no zones to show")
	}

	items := buildZoneItems(entries)
	for {
		selected, err := p.backend.Show("snapzone", items, p.message)
		if err != nil {
			return 0, err
		}

		// Backends without non-selectable rows can still return a header; re-show.
		if selected.IsHeader || selected.IsDivider || selected.Action == "" {
			continue
		}

		number, err := strconv.Atoi(selected.Action)
		if err != nil || number < 1 {
			return 0, fmt.Errorf("palette: unexpected selection %q", selected.Action)
		}
		return number, nil
	}
}

// buildZoneItems renders zone entries as palette rows, inserting a monitor
// header whenever the monitor changes. Entries keep their list order because
// the row number doubles as the snap hotkey number.
func buildZoneItems(entries []ZoneEntry) []Item {
	items := make([]Item, 0, len(entries)+2)
	lastMonitor := 0
	for _, e := range entries {
		if e.Monitor != lastMonitor {
			items = append(items, Item{
				Label:    fmt.Sprintf("Monitor %d", e.Monitor),
				IsHeader: true,
			})
			lastMonitor = e.Monitor
		}
		items = append(items, Item{
			Label:    zoneLabel(e),
			Action:   strconv.Itoa(e.Number),
			Meta:     zoneMeta(e),
			IsUrgent: e.Orphaned,
		})
	}
	return items
}

func zoneLabel(e ZoneEntry) string {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = fmt.Sprintf("Zone %d", e.Number)
	}
	label := fmt.Sprintf("%d: %s", e.Number, name)
	switch {
	case e.Orphaned:
		label += "  (monitor disconnected)"
	case e.Geometry != "":
		label += "  " + e.Geometry
	}
	return label
}

func zoneMeta(e ZoneEntry) string {
	meta := fmt.Sprintf("zone snap %d monitor %d", e.Number, e.Monitor)
	if name := strings.TrimSpace(e.Name); name != "" {
		meta += " " + name
	}
	return meta
}
