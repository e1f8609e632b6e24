package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/snapzone/snapzone/internal/ipc"
	"github.com/snapzone/snapzone/internal/zones"
)

// zoneItem implements list.Item for the zone list sidebar.
type zoneItem struct {
	number   int
	zone     zones.Zone
	orphaned bool
}

func (i zoneItem) Title() string {
	title := fmt.Sprintf("%d: %s", i.number, i.zone.Label(i.number))
	if i.orphaned {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("! ") + title
	}
	return "  " + title
}

func (i zoneItem) Description() string {
	desc := fmt.Sprintf("  monitor %d  •  %.0f,%.0f  %.0f×%.0f%%",
		i.zone.Monitor, i.zone.X, i.zone.Y, i.zone.Width, i.zone.Height)
	if i.orphaned {
		desc += "  (disconnected)"
	}
	return desc
}

func (i zoneItem) FilterValue() string { return i.zone.Label(i.number) }

// statusMsg is sent after a tab action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// ZonesTab is the sub-model for the zone layout editor tab.
type ZonesTab struct {
	list     list.Model
	settings *zones.Settings
	monitors []ipc.MonitorInfo // empty when the daemon is not running

	// Edit mode
	editing   bool
	form      *huh.Form
	editIndex int // -1 while adding a new zone

	// Form-bound values (strings for huh, converted on submit)
	fMonitor string
	fX       string
	fY       string
	fWidth   string
	fHeight  string
	fName    string

	statusText string

	width  int
	height int
	ready  bool
}

// NewZonesTab creates the zones tab over the shared working settings.
func NewZonesTab(settings *zones.Settings, monitors []ipc.MonitorInfo) ZonesTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Zones"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	zt := ZonesTab{
		list:      l,
		settings:  settings,
		monitors:  monitors,
		editIndex: -1,
	}
	zt.rebuildItems()
	return zt
}

// Init implements tea.Model.
func (z ZonesTab) Init() tea.Cmd { return nil }

// setMonitors replaces the topology after a refresh so orphan markers track
// the live monitor count.
func (z *ZonesTab) setMonitors(monitors []ipc.MonitorInfo) {
	z.monitors = monitors
	z.rebuildItems()
}

// Update handles messages for the zones tab.
func (z ZonesTab) Update(msg tea.Msg) (ZonesTab, tea.Cmd) {
	if z.editing {
		return z.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		z.width = msg.Width
		z.height = msg.Height
		z.updateListSize()
		z.ready = true
		return z, nil

	case statusMsg:
		z.statusText = msg.text
		return z, clearStatusAfter(3 * time.Second)

	case clearStatusMsg:
		z.statusText = ""
		return z, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			z.startEditing(-1)
			return z, z.form.Init()
		case "e", "enter":
			if idx := z.selectedIndex(); idx >= 0 {
				z.startEditing(idx)
				return z, z.form.Init()
			}
			return z, nil
		case "x", "delete":
			return z.deleteSelected()
		case "J":
			return z.moveSelected(1)
		case "K":
			return z.moveSelected(-1)
		}
	}

	var cmd tea.Cmd
	z.list, cmd = z.list.Update(msg)
	return z, cmd
}

func (z ZonesTab) updateEditing(msg tea.Msg) (ZonesTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			z.editing = false
			z.form = nil
			return z, nil
		}
	case tea.WindowSizeMsg:
		z.width = msg.Width
		z.height = msg.Height
		z.updateListSize()
	}

	form, cmd := z.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		z.form = f
	}

	if z.form.State == huh.StateCompleted {
		zt := z
		zt.applyForm()
		zt.editing = false
		zt.form = nil
		if zt.statusText != "" {
			return zt, clearStatusAfter(3 * time.Second)
		}
		return zt, nil
	}

	return z, cmd
}

// startEditing opens the zone form. index -1 adds a new zone; otherwise the
// zone at index is loaded for editing.
func (z *ZonesTab) startEditing(index int) {
	z.editIndex = index

	if index >= 0 && index < len(z.settings.Zones) {
		zone := z.settings.Zones[index]
		z.fMonitor = strconv.Itoa(zone.Monitor)
		z.fX = formatPct(zone.X)
		z.fY = formatPct(zone.Y)
		z.fWidth = formatPct(zone.Width)
		z.fHeight = formatPct(zone.Height)
		z.fName = zone.Name
	} else {
		z.fMonitor = "1"
		z.fX = "0"
		z.fY = "0"
		z.fWidth = "50"
		z.fHeight = "100"
		z.fName = ""
	}

	monitorDesc := "1-based monitor ordinal"
	if len(z.monitors) > 0 {
		monitorDesc = fmt.Sprintf("1-based monitor ordinal (%d connected)", len(z.monitors))
	}

	w := z.width - 4
	if w < 40 {
		w = 40
	}

	z.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("monitor").
				Title("Monitor").
				Description(monitorDesc).
				Value(&z.fMonitor),

			huh.NewInput().
				Key("x").
				Title("X %").
				Description("Left edge, percent of the monitor work area").
				Value(&z.fX),

			huh.NewInput().
				Key("y").
				Title("Y %").
				Description("Top edge, percent of the monitor work area").
				Value(&z.fY),

			huh.NewInput().
				Key("width").
				Title("Width %").
				Value(&z.fWidth),

			huh.NewInput().
				Key("height").
				Title("Height %").
				Value(&z.fHeight),

			huh.NewInput().
				Key("name").
				Title("Name").
				Description("Optional display name").
				Value(&z.fName),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	z.editing = true
}

// applyForm validates the form values and writes them back into the zone
// list. Invalid values surface as a status message and leave the list
// untouched.
func (z *ZonesTab) applyForm() {
	monitor, err := strconv.Atoi(strings.TrimSpace(z.fMonitor))
	if err != nil {
		z.statusText = "monitor must be a number"
		return
	}

	parse := func(field, value string) (float64, bool) {
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			z.statusText = field + " must be a number"
			return 0, false
		}
		return v, true
	}

	x, ok := parse("x", z.fX)
	if !ok {
		return
	}
	y, ok := parse("y", z.fY)
	if !ok {
		return
	}
	width, ok := parse("width", z.fWidth)
	if !ok {
		return
	}
	height, ok := parse("height", z.fHeight)
	if !ok {
		return
	}

	zone := zones.Zone{
		Monitor: monitor,
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		Name:    strings.TrimSpace(z.fName),
	}
	if err := zone.Validate(); err != nil {
		z.statusText = err.Error()
		return
	}

	if z.editIndex >= 0 && z.editIndex < len(z.settings.Zones) {
		z.settings.Zones[z.editIndex] = zone
		z.statusText = fmt.Sprintf("zone %d updated", z.editIndex+1)
	} else {
		z.settings.Zones = append(z.settings.Zones, zone)
		z.statusText = fmt.Sprintf("zone %d added", len(z.settings.Zones))
	}
	z.rebuildItems()
}

func (z ZonesTab) deleteSelected() (ZonesTab, tea.Cmd) {
	idx := z.selectedIndex()
	if idx < 0 {
		return z, nil
	}
	if len(z.settings.Zones) <= 1 {
		z.statusText = "cannot delete the last zone"
		return z, clearStatusAfter(3 * time.Second)
	}

	z.settings.Zones = append(z.settings.Zones[:idx], z.settings.Zones[idx+1:]...)
	z.rebuildItems()
	if idx >= len(z.settings.Zones) {
		idx = len(z.settings.Zones) - 1
	}
	z.list.Select(idx)
	z.statusText = "zone deleted"
	return z, clearStatusAfter(3 * time.Second)
}

// moveSelected swaps the selected zone with its neighbor. Zone order is the
// hotkey order, so reordering renumbers.
func (z ZonesTab) moveSelected(delta int) (ZonesTab, tea.Cmd) {
	idx := z.selectedIndex()
	if idx < 0 {
		return z, nil
	}
	target := idx + delta
	if target < 0 || target >= len(z.settings.Zones) {
		return z, nil
	}

	z.settings.Zones[idx], z.settings.Zones[target] = z.settings.Zones[target], z.settings.Zones[idx]
	z.rebuildItems()
	z.list.Select(target)
	z.statusText = fmt.Sprintf("zone moved to position %d", target+1)
	return z, clearStatusAfter(3 * time.Second)
}

func (z ZonesTab) selectedIndex() int {
	if _, ok := z.list.SelectedItem().(zoneItem); !ok {
		return -1
	}
	return z.list.Index()
}

func (z *ZonesTab) rebuildItems() {
	monitorCount := len(z.monitors)
	items := make([]list.Item, 0, len(z.settings.Zones))
	for i, zone := range z.settings.Zones {
		items = append(items, zoneItem{
			number:   i + 1,
			zone:     zone,
			orphaned: monitorCount > 0 && zone.Monitor > monitorCount,
		})
	}
	z.list.SetItems(items)
}

func (z *ZonesTab) updateListSize() {
	listHeight := z.height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	z.list.SetSize(z.sidebarWidth(), listHeight)
}

func (z ZonesTab) sidebarWidth() int {
	sw := z.width * 35 / 100
	if sw < 24 {
		sw = 24
	}
	if sw > 44 {
		sw = 44
	}
	return sw
}

// View implements tea.Model.
func (z ZonesTab) View() string {
	if !z.ready || z.width == 0 || z.height == 0 {
		return ""
	}

	if z.editing && z.form != nil {
		return z.viewEditing()
	}

	sidebarWidth := z.sidebarWidth()
	previewWidth := z.width - sidebarWidth - 3
	if previewWidth < 10 {
		previewWidth = 10
	}

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(z.height - 2).
		Render(z.list.View())

	preview := z.renderPreview(previewWidth)

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", z.height-2))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, preview)
	status := z.renderTabStatus()

	return lipgloss.JoinVertical(lipgloss.Left, columns, status)
}

func (z ZonesTab) viewEditing() string {
	action := "Editing"
	if z.editIndex < 0 {
		action = "Adding"
	}
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render(action+" Zone") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	content := header + "\n\n" + z.form.View()

	style := lipgloss.NewStyle().
		Width(z.width).
		Height(z.height).
		Padding(1, 2)

	return style.Render(content)
}

func (z ZonesTab) renderPreview(previewWidth int) string {
	idx := z.selectedIndex()
	if idx < 0 || idx >= len(z.settings.Zones) {
		return ""
	}
	zone := z.settings.Zones[idx]

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf(" Monitor %d  ·  %s", zone.Monitor, zone.Label(idx+1)))

	workW, workH := 0, 0
	for _, m := range z.monitors {
		if m.Index == zone.Monitor {
			workW, workH = m.WorkWidth, m.WorkHeight
			break
		}
	}
	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(" " + summarizeMonitorZones(z.settings.Zones, zone.Monitor, workW, workH))

	previewHeight := z.height - 6
	if previewHeight < 5 {
		previewHeight = 5
	}
	asciiWidth := previewWidth - 2
	if asciiWidth < 5 {
		asciiWidth = 5
	}
	lines := renderZonePreview(z.settings.Zones, zone.Monitor, idx+1, asciiWidth, previewHeight)

	previewBlock := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, "", previewBlock)
}

func (z ZonesTab) renderTabStatus() string {
	left := ""
	if z.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(z.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("a:add  e:edit  x:delete  J/K:reorder")

	gap := z.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(z.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}

// formatPct trims trailing zeros so form fields show "50" rather than
// "50.000000".
func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
