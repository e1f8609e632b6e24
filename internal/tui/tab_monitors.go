package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snapzone/snapzone/internal/ipc"
	"github.com/snapzone/snapzone/internal/zones"
)

// monitorsRefreshedMsg carries fresh topology from the daemon. The app model
// consumes it so every tab sees the same monitor list.
type monitorsRefreshedMsg struct {
	monitors    []ipc.MonitorInfo
	fingerprint string
	err         error
}

func refreshMonitors(client *ipc.Client) tea.Cmd {
	return func() tea.Msg {
		monitors, err := client.GetMonitors()
		if err != nil {
			return monitorsRefreshedMsg{err: err}
		}
		msg := monitorsRefreshedMsg{monitors: monitors.Monitors}
		if status, err := client.GetStatus(); err == nil {
			msg.fingerprint = status.Fingerprint
		}
		return msg
	}
}

// monitorItem implements list.Item for the monitor list sidebar.
type monitorItem struct {
	monitor ipc.MonitorInfo
}

func (i monitorItem) Title() string {
	name := i.monitor.Name
	if name == "" {
		name = fmt.Sprintf("Monitor %d", i.monitor.Index)
	}
	title := fmt.Sprintf("%d: %s", i.monitor.Index, name)
	if i.monitor.Primary {
		title += " *"
	}
	return title
}

func (i monitorItem) Description() string {
	return fmt.Sprintf("%d×%d at %d,%d",
		i.monitor.Width, i.monitor.Height, i.monitor.X, i.monitor.Y)
}

func (i monitorItem) FilterValue() string { return i.monitor.Name }

// MonitorsTab shows the detected monitor topology. It is read only; zones
// are edited on the zones tab.
type MonitorsTab struct {
	list     list.Model
	monitors []ipc.MonitorInfo
	settings *zones.Settings
	client   *ipc.Client // nil when the daemon is not running

	statusText string

	width  int
	height int
	ready  bool
}

// NewMonitorsTab creates the monitors tab. client may be nil; refresh then
// reports that the daemon is unavailable.
func NewMonitorsTab(monitors []ipc.MonitorInfo, settings *zones.Settings, client *ipc.Client) MonitorsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Monitors"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	mt := MonitorsTab{
		list:     l,
		monitors: monitors,
		settings: settings,
		client:   client,
	}
	mt.rebuildItems()
	return mt
}

// Init implements tea.Model.
func (m MonitorsTab) Init() tea.Cmd { return nil }

// setMonitors replaces the topology after a refresh.
func (m *MonitorsTab) setMonitors(monitors []ipc.MonitorInfo) {
	m.monitors = monitors
	m.rebuildItems()
}

// Update handles messages for the monitors tab.
func (m MonitorsTab) Update(msg tea.Msg) (MonitorsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - 2
		if listHeight < 1 {
			listHeight = 1
		}
		m.list.SetSize(m.sidebarWidth(), listHeight)
		m.ready = true
		return m, nil

	case statusMsg:
		m.statusText = msg.text
		return m, clearStatusAfter(3 * time.Second)

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			if m.client == nil {
				m.statusText = "daemon not running"
				return m, clearStatusAfter(3 * time.Second)
			}
			m.statusText = "refreshing..."
			return m, refreshMonitors(m.client)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *MonitorsTab) rebuildItems() {
	items := make([]list.Item, 0, len(m.monitors))
	for _, mon := range m.monitors {
		items = append(items, monitorItem{monitor: mon})
	}
	m.list.SetItems(items)
}

func (m MonitorsTab) sidebarWidth() int {
	sw := m.width * 35 / 100
	if sw < 24 {
		sw = 24
	}
	if sw > 44 {
		sw = 44
	}
	return sw
}

// View implements tea.Model.
func (m MonitorsTab) View() string {
	if !m.ready || m.width == 0 || m.height == 0 {
		return ""
	}

	if len(m.monitors) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(1, 2).
			Render("No monitor data.\n\nStart the daemon (snapzone daemon) and press r to refresh.")
		return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(empty)
	}

	sidebarWidth := m.sidebarWidth()
	detailWidth := m.width - sidebarWidth - 3
	if detailWidth < 10 {
		detailWidth = 10
	}

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(m.height - 2).
		Render(m.list.View())

	detail := m.renderDetail(detailWidth)

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", m.height-2))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, detail)
	status := m.renderTabStatus()

	return lipgloss.JoinVertical(lipgloss.Left, columns, status)
}

func (m MonitorsTab) renderDetail(detailWidth int) string {
	item, ok := m.list.SelectedItem().(monitorItem)
	if !ok {
		return ""
	}
	mon := item.monitor

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	name := mon.Name
	if name == "" {
		name = fmt.Sprintf("Monitor %d", mon.Index)
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(" " + name)
	if mon.Primary {
		title += lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("  primary")
	}

	rows := []string{
		title,
		"",
		row(" Geometry", fmt.Sprintf("%d×%d at %d,%d", mon.Width, mon.Height, mon.X, mon.Y)),
		row(" Work area", fmt.Sprintf("%d×%d at %d,%d", mon.WorkWidth, mon.WorkHeight, mon.WorkX, mon.WorkY)),
		row(" Zones", m.zoneCountText(mon.Index)),
	}

	previewHeight := m.height - len(rows) - 4
	if previewHeight >= 5 {
		asciiWidth := detailWidth - 2
		if asciiWidth < 5 {
			asciiWidth = 5
		}
		lines := renderZonePreview(m.settings.Zones, mon.Index, 0, asciiWidth, previewHeight)
		rows = append(rows, "", lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m MonitorsTab) zoneCountText(monitor int) string {
	count := 0
	for _, z := range m.settings.Zones {
		if z.Monitor == monitor {
			count++
		}
	}
	if count == 1 {
		return "1 zone"
	}
	return fmt.Sprintf("%d zones", count)
}

func (m MonitorsTab) renderTabStatus() string {
	left := ""
	if m.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(m.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("r:refresh from daemon")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
