package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/snapzone/snapzone/internal/config"
)

// GeneralTab is the sub-model for daemon settings: gestures, hotkeys,
// placement and the palette backend.
type GeneralTab struct {
	cfg *config.Config

	editing bool
	form    *huh.Form

	// Form-bound values
	fModifier  string
	fCooldown  string
	fDenylist  string
	fPrefix    string
	fToggle    string
	fPoll      string
	fTolerance string
	fRetry     bool
	fNotify    bool
	fBackend   string
	fLogLevel  string

	statusText string

	width  int
	height int
	ready  bool
}

// NewGeneralTab creates the general settings tab over the shared config.
func NewGeneralTab(cfg *config.Config) GeneralTab {
	return GeneralTab{cfg: cfg}
}

// Init implements tea.Model.
func (g GeneralTab) Init() tea.Cmd { return nil }

// Update handles messages for the general tab.
func (g GeneralTab) Update(msg tea.Msg) (GeneralTab, tea.Cmd) {
	if g.editing {
		return g.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
		g.ready = true
		return g, nil

	case statusMsg:
		g.statusText = msg.text
		return g, clearStatusAfter(3 * time.Second)

	case clearStatusMsg:
		g.statusText = ""
		return g, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "e", "enter":
			g.startEditing()
			return g, g.form.Init()
		}
	}

	return g, nil
}

func (g GeneralTab) updateEditing(msg tea.Msg) (GeneralTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			g.editing = false
			g.form = nil
			return g, nil
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		gt := g
		gt.applyForm()
		gt.editing = false
		gt.form = nil
		if gt.statusText != "" {
			return gt, clearStatusAfter(3 * time.Second)
		}
		return gt, nil
	}

	return g, cmd
}

func (g *GeneralTab) startEditing() {
	g.fModifier = g.cfg.GestureModifier
	g.fCooldown = strconv.Itoa(g.cfg.GestureCooldownMS)
	g.fDenylist = strings.Join(g.cfg.GestureDenylist, ", ")
	g.fPrefix = g.cfg.SnapHotkeyPrefix
	g.fToggle = g.cfg.ToggleHotkey
	g.fPoll = strconv.Itoa(g.cfg.TopologyPollSeconds)
	g.fTolerance = strconv.Itoa(g.cfg.PlacementTolerancePx)
	g.fRetry = g.cfg.PlacementRetry
	g.fNotify = g.cfg.Notifications
	g.fBackend = g.cfg.PaletteBackend
	g.fLogLevel = g.cfg.LogLevel

	w := g.width - 4
	if w < 40 {
		w = 40
	}

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("modifier").
				Title("Gesture modifier").
				Description("Held while dragging a window to snap on release").
				Options(
					huh.NewOption("control", "control"),
					huh.NewOption("shift", "shift"),
					huh.NewOption("alt (mod1)", "mod1"),
					huh.NewOption("super (mod4)", "mod4"),
				).
				Value(&g.fModifier),

			huh.NewInput().
				Key("cooldown").
				Title("Gesture cooldown (ms)").
				Description("Snaps within the cooldown of the last one are ignored").
				Value(&g.fCooldown),

			huh.NewInput().
				Key("denylist").
				Title("Gesture denylist").
				Description("Comma-separated WM_CLASS values that never drag-snap").
				Value(&g.fDenylist),

			huh.NewInput().
				Key("prefix").
				Title("Snap hotkey prefix").
				Description("Combined with 1-9, e.g. mod4-control").
				Value(&g.fPrefix),

			huh.NewInput().
				Key("toggle").
				Title("Overlay toggle hotkey").
				Value(&g.fToggle),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("poll").
				Title("Topology poll (seconds)").
				Description("How often to check for monitor changes").
				Value(&g.fPoll),

			huh.NewInput().
				Key("tolerance").
				Title("Placement tolerance (px)").
				Value(&g.fTolerance),

			huh.NewConfirm().
				Key("retry").
				Title("Placement retry").
				Description("Reassert geometry once when the WM adjusts it").
				Affirmative("On").
				Negative("Off").
				Value(&g.fRetry),

			huh.NewConfirm().
				Key("notify").
				Title("Desktop notifications").
				Affirmative("On").
				Negative("Off").
				Value(&g.fNotify),

			huh.NewSelect[string]().
				Key("backend").
				Title("Palette backend").
				Options(
					huh.NewOption("auto", "auto"),
					huh.NewOption("rofi", "rofi"),
					huh.NewOption("fuzzel", "fuzzel"),
					huh.NewOption("wofi", "wofi"),
					huh.NewOption("dmenu", "dmenu"),
				).
				Value(&g.fBackend),

			huh.NewSelect[string]().
				Key("loglevel").
				Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warning", "warning"),
					huh.NewOption("error", "error"),
				).
				Value(&g.fLogLevel),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	g.editing = true
}

// applyForm validates the form values against the config rules and writes
// them back. Invalid values surface as a status message.
func (g *GeneralTab) applyForm() {
	cooldown, err := strconv.Atoi(strings.TrimSpace(g.fCooldown))
	if err != nil {
		g.statusText = "cooldown must be a number"
		return
	}
	poll, err := strconv.Atoi(strings.TrimSpace(g.fPoll))
	if err != nil {
		g.statusText = "poll seconds must be a number"
		return
	}
	tolerance, err := strconv.Atoi(strings.TrimSpace(g.fTolerance))
	if err != nil {
		g.statusText = "tolerance must be a number"
		return
	}

	var denylist []string
	for _, entry := range strings.Split(g.fDenylist, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			denylist = append(denylist, entry)
		}
	}

	next := *g.cfg
	next.GestureModifier = g.fModifier
	next.GestureCooldownMS = cooldown
	next.GestureDenylist = denylist
	next.SnapHotkeyPrefix = strings.TrimSpace(g.fPrefix)
	next.ToggleHotkey = strings.TrimSpace(g.fToggle)
	next.TopologyPollSeconds = poll
	next.PlacementTolerancePx = tolerance
	next.PlacementRetry = g.fRetry
	next.Notifications = g.fNotify
	next.PaletteBackend = g.fBackend
	next.LogLevel = g.fLogLevel

	if err := next.Validate(); err != nil {
		g.statusText = err.Error()
		return
	}

	*g.cfg = next
	g.statusText = "settings updated (ctrl-s to save)"
}

// View implements tea.Model.
func (g GeneralTab) View() string {
	if !g.ready || g.width == 0 || g.height == 0 {
		return ""
	}

	if g.editing && g.form != nil {
		header := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render("Editing Settings") +
			lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Render("  (esc to cancel)")

		return lipgloss.NewStyle().
			Width(g.width).
			Height(g.height).
			Padding(1, 2).
			Render(header + "\n\n" + g.form.View())
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}

	denylist := "(none)"
	if len(g.cfg.GestureDenylist) > 0 {
		denylist = strings.Join(g.cfg.GestureDenylist, ", ")
	}

	zonesPath := g.cfg.ZonesPath
	if zonesPath == "" {
		zonesPath = "(default)"
	}

	rows := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Gestures"),
		row("  Modifier", g.cfg.GestureModifier),
		row("  Cooldown", fmt.Sprintf("%d ms", g.cfg.GestureCooldownMS)),
		row("  Denylist", denylist),
		"",
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Hotkeys"),
		row("  Snap prefix", g.cfg.SnapHotkeyPrefix+"-1..9"),
		row("  Overlay toggle", g.cfg.ToggleHotkey),
		"",
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Behavior"),
		row("  Topology poll", fmt.Sprintf("%d s", g.cfg.TopologyPollSeconds)),
		row("  Placement tolerance", fmt.Sprintf("%d px", g.cfg.PlacementTolerancePx)),
		row("  Placement retry", onOff(g.cfg.PlacementRetry)),
		row("  Notifications", onOff(g.cfg.Notifications)),
		row("  Palette backend", g.cfg.PaletteBackend),
		row("  Log level", g.cfg.LogLevel),
		"",
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Paths"),
		row("  Zones file", zonesPath),
	}

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("e:edit")

	content := strings.Join(rows, "\n")

	body := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height - 1).
		Padding(1, 2).
		Render(content)

	status := g.renderTabStatus(hint)
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}

func (g GeneralTab) renderTabStatus(hint string) string {
	left := ""
	if g.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(g.statusText)
	}

	gap := g.width - lipgloss.Width(left) - lipgloss.Width(hint)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(g.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + hint)
}
