// Package tui implements the interactive configuration editor. It edits
// zone layouts and daemon settings, talking to a running daemon when one is
// available and falling back to the files on disk when not.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/snapzone/snapzone/internal/config"
	"github.com/snapzone/snapzone/internal/ipc"
	"github.com/snapzone/snapzone/internal/zones"
)

// Run loads the current state and starts the editor. It refuses to start
// without an interactive terminal.
func Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the configuration editor needs an interactive terminal")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	m, err := newModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

type model struct {
	active Tab

	zonesTab    ZonesTab
	monitorsTab MonitorsTab
	generalTab  GeneralTab
	overlay     SaveOverlay

	// Working copies shared with the tabs, plus the snapshots the save
	// overlay diffs against.
	cfg          *config.Config
	origCfg      *config.Config
	settings     *zones.Settings
	origSettings *zones.Settings

	store     *zones.Store
	client    *ipc.Client
	connected bool

	monitors    []ipc.MonitorInfo
	fingerprint string

	width  int
	height int
}

// newModel gathers state from the daemon when it is running, otherwise from
// the files on disk.
func newModel(cfg *config.Config) (model, error) {
	settingsPath := cfg.ZonesPath
	if settingsPath == "" {
		var err error
		settingsPath, err = zones.DefaultSettingsPath()
		if err != nil {
			return model{}, err
		}
	}
	// The store only logs when it backs up a corrupt file; routing that to
	// stderr would scribble over the alternate screen.
	store := zones.NewStore(settingsPath, slog.New(slog.NewTextHandler(io.Discard, nil)))

	client := ipc.NewClient()
	connected := client.Ping() == nil

	var settings *zones.Settings
	var monitors []ipc.MonitorInfo
	var fingerprint string

	if connected {
		zonesData, err := client.GetZones()
		if err != nil {
			connected = false
		} else {
			settings = settingsFromZoneInfo(zonesData)
			fingerprint = zonesData.Fingerprint
			if monitorsData, err := client.GetMonitors(); err == nil {
				monitors = monitorsData.Monitors
			}
		}
	}

	if settings == nil {
		loaded, err := store.Load()
		if err == nil && loaded != nil {
			settings = loaded
		} else {
			// Missing or corrupt file; corrupt ones were backed up by
			// the store already.
			settings = zones.DefaultSettings(1)
		}
	}

	m := model{
		active:       TabZones,
		cfg:          cfg,
		origCfg:      cloneConfig(cfg),
		settings:     settings,
		origSettings: settings.Clone(),
		store:        store,
		client:       client,
		connected:    connected,
		monitors:     monitors,
		fingerprint:  fingerprint,
	}
	m.zonesTab = NewZonesTab(m.settings, m.monitors)
	m.monitorsTab = NewMonitorsTab(m.monitors, m.settings, m.client)
	m.generalTab = NewGeneralTab(m.cfg)
	return m, nil
}

// settingsFromZoneInfo rebuilds a settings document from the daemon's view
// of the zone list.
func settingsFromZoneInfo(data *ipc.ZonesData) *zones.Settings {
	s := &zones.Settings{
		Version:            zones.SettingsVersion,
		MonitorFingerprint: data.Fingerprint,
		Zones:              make([]zones.Zone, 0, len(data.Zones)),
	}
	for _, z := range data.Zones {
		s.Zones = append(s.Zones, zones.Zone{
			Monitor: z.Monitor,
			X:       z.X,
			Y:       z.Y,
			Width:   z.Width,
			Height:  z.Height,
			Name:    z.Name,
		})
	}
	return s
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Status bar, tab bar with margin, and help bar take four rows.
		content := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.zonesTab, cmd = m.zonesTab.Update(content)
		cmds = append(cmds, cmd)
		m.monitorsTab, cmd = m.monitorsTab.Update(content)
		cmds = append(cmds, cmd)
		m.generalTab, cmd = m.generalTab.Update(content)
		cmds = append(cmds, cmd)
		m.overlay, cmd = m.overlay.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case monitorsRefreshedMsg:
		return m.handleRefresh(msg)

	case tea.KeyMsg:
		if m.overlay.Active() {
			var cmd tea.Cmd
			m.overlay, cmd = m.overlay.Update(msg)
			return m, cmd
		}

		// A form in progress owns the keyboard; only ctrl+c breaks out.
		if m.capturing() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m.updateActiveTab(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "ctrl+s":
			m.overlay.Open(m.saveTargets())
			return m, nil
		case "tab":
			m.active = (m.active + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.active = (m.active + tabCount - 1) % tabCount
			return m, nil
		case "1":
			m.active = TabZones
			return m, nil
		case "2":
			m.active = TabMonitors
			return m, nil
		case "3":
			m.active = TabGeneral
			return m, nil
		}
		return m.updateActiveTab(msg)
	}

	// Everything else (status ticks, list and form internals) goes to all
	// tabs; each ignores what it does not understand.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.zonesTab, cmd = m.zonesTab.Update(msg)
	cmds = append(cmds, cmd)
	m.monitorsTab, cmd = m.monitorsTab.Update(msg)
	cmds = append(cmds, cmd)
	m.generalTab, cmd = m.generalTab.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) handleRefresh(msg monitorsRefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.connected = false
		var cmd tea.Cmd
		m.monitorsTab, cmd = m.monitorsTab.Update(statusMsg{text: "refresh failed: daemon not reachable"})
		return m, cmd
	}

	m.connected = true
	m.monitors = msg.monitors
	if msg.fingerprint != "" {
		m.fingerprint = msg.fingerprint
	}
	m.zonesTab.setMonitors(msg.monitors)
	m.monitorsTab.setMonitors(msg.monitors)

	var cmd tea.Cmd
	m.monitorsTab, cmd = m.monitorsTab.Update(statusMsg{text: "topology refreshed"})
	return m, cmd
}

func (m model) updateActiveTab(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case TabZones:
		m.zonesTab, cmd = m.zonesTab.Update(msg)
	case TabMonitors:
		m.monitorsTab, cmd = m.monitorsTab.Update(msg)
	case TabGeneral:
		m.generalTab, cmd = m.generalTab.Update(msg)
	}
	return m, cmd
}

// capturing reports whether the active tab has a form open that should see
// every key except ctrl+c.
func (m model) capturing() bool {
	switch m.active {
	case TabZones:
		return m.zonesTab.editing
	case TabGeneral:
		return m.generalTab.editing
	}
	return false
}

func (m model) saveTargets() saveTargets {
	return saveTargets{
		cfg:          m.cfg,
		origCfg:      m.origCfg,
		settings:     m.settings,
		origSettings: m.origSettings,
		store:        m.store,
		client:       m.client,
		connected:    m.connected,
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.overlay.Active() {
		return m.overlay.View()
	}

	status := renderStatusBar(m.connected, len(m.settings.Zones), m.fingerprint, m.width)
	tabBar := renderTabBar(m.active, m.width)

	var content string
	switch m.active {
	case TabZones:
		content = m.zonesTab.View()
	case TabMonitors:
		content = m.monitorsTab.View()
	case TabGeneral:
		content = m.generalTab.View()
	}

	help := renderHelpBar(m.width)
	return lipgloss.JoinVertical(lipgloss.Left, status, tabBar, content, help)
}
