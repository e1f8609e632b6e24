package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/snapzone/snapzone/internal/config"
	"github.com/snapzone/snapzone/internal/ipc"
	"github.com/snapzone/snapzone/internal/zones"
)

type savePhase int

const (
	saveHidden savePhase = iota
	savePreview
	saveResult
)

// saveTargets bundles everything a save needs: the working copies, the
// snapshots they are diffed against, and the places they go.
type saveTargets struct {
	cfg          *config.Config
	origCfg      *config.Config
	settings     *zones.Settings
	origSettings *zones.Settings
	store        *zones.Store
	client       *ipc.Client
	connected    bool
}

// SaveOverlay previews pending changes as a diff and saves on confirm.
// While visible it captures all input.
type SaveOverlay struct {
	phase   savePhase
	targets saveTargets

	zonesPending bool
	cfgPending   bool
	diff         []diffLine
	scroll       int

	resultText string
	resultErr  bool

	width  int
	height int
}

// Active reports whether the overlay should receive all input.
func (s SaveOverlay) Active() bool { return s.phase != saveHidden }

// Open computes the pending diff and shows the preview.
func (s *SaveOverlay) Open(targets saveTargets) {
	s.targets = targets
	s.scroll = 0
	s.resultText = ""
	s.resultErr = false

	zonesBefore := settingsLines(targets.origSettings)
	zonesAfter := settingsLines(targets.settings)
	cfgBefore := configLines(targets.origCfg)
	cfgAfter := configLines(targets.cfg)

	s.zonesPending = !equalLines(zonesBefore, zonesAfter)
	s.cfgPending = !equalLines(cfgBefore, cfgAfter)

	s.diff = nil
	if s.zonesPending {
		s.diff = append(s.diff, diffLine{kind: diffSection, text: "zones.json"})
		s.diff = append(s.diff, filterDiffContext(lcsDiff(zonesBefore, zonesAfter), 2)...)
	}
	if s.cfgPending {
		if len(s.diff) > 0 {
			s.diff = append(s.diff, diffLine{kind: diffSame, text: ""})
		}
		s.diff = append(s.diff, diffLine{kind: diffSection, text: "config.yaml"})
		s.diff = append(s.diff, filterDiffContext(lcsDiff(cfgBefore, cfgAfter), 2)...)
	}

	s.phase = savePreview
}

// Update handles input while the overlay is visible.
func (s SaveOverlay) Update(msg tea.Msg) (SaveOverlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		return s, nil

	case tea.KeyMsg:
		if s.phase == saveResult {
			s.phase = saveHidden
			return s, nil
		}

		switch msg.String() {
		case "esc", "n", "q":
			s.phase = saveHidden
		case "y", "enter":
			if !s.zonesPending && !s.cfgPending {
				s.phase = saveHidden
				return s, nil
			}
			text, err := performSave(s.targets, s.zonesPending, s.cfgPending)
			if err != nil {
				s.resultText = err.Error()
				s.resultErr = true
			} else {
				s.resultText = text
			}
			s.phase = saveResult
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			if s.scroll < s.maxScroll() {
				s.scroll++
			}
		case "pgup":
			s.scroll -= s.visibleDiffLines()
			if s.scroll < 0 {
				s.scroll = 0
			}
		case "pgdown":
			s.scroll += s.visibleDiffLines()
			if max := s.maxScroll(); s.scroll > max {
				s.scroll = max
			}
		}
	}
	return s, nil
}

func (s SaveOverlay) visibleDiffLines() int {
	v := s.height - 10
	if v < 3 {
		v = 3
	}
	return v
}

func (s SaveOverlay) maxScroll() int {
	max := len(s.diff) - s.visibleDiffLines()
	if max < 0 {
		max = 0
	}
	return max
}

// View renders the overlay centered over the full terminal.
func (s SaveOverlay) View() string {
	boxWidth := s.width - 8
	if boxWidth > 100 {
		boxWidth = 100
	}
	if boxWidth < 30 {
		boxWidth = 30
	}

	var content string
	switch {
	case s.phase == saveResult:
		content = s.viewResult()
	case !s.zonesPending && !s.cfgPending:
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("No pending changes.") + "\n\n" +
			lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Render("esc: close")
	default:
		content = s.viewDiff(boxWidth - 4)
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render("Save Changes")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxWidth).
		Render(title + "\n\n" + content)

	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) viewDiff(width int) string {
	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	delStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	sameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	gapStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))

	visible := s.visibleDiffLines()
	end := s.scroll + visible
	if end > len(s.diff) {
		end = len(s.diff)
	}

	var b strings.Builder
	for _, line := range s.diff[s.scroll:end] {
		text := line.text
		if lipgloss.Width(text) > width-2 {
			text = truncateLine(text, width-2)
		}
		switch line.kind {
		case diffAdded:
			b.WriteString(addStyle.Render("+ " + text))
		case diffRemoved:
			b.WriteString(delStyle.Render("- " + text))
		case diffGap:
			b.WriteString(gapStyle.Render("  " + text))
		case diffSection:
			b.WriteString(sectionStyle.Render(text))
		default:
			b.WriteString(sameStyle.Render("  " + text))
		}
		b.WriteString("\n")
	}

	scrollHint := ""
	if len(s.diff) > visible {
		scrollHint = fmt.Sprintf("  (%d-%d of %d, j/k to scroll)", s.scroll+1, end, len(s.diff))
	}

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("y: save    esc: cancel" + scrollHint)

	return strings.TrimRight(b.String(), "\n") + "\n\n" + footer
}

func (s SaveOverlay) viewResult() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	if s.resultErr {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	}
	return style.Render(s.resultText) + "\n\n" +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("press any key to close")
}

// performSave writes pending zones and config. Zones go through the daemon
// when it is running so the in-memory layout and the file stay in step;
// otherwise they go straight to disk. On success the snapshots are advanced
// so the next diff starts clean.
func performSave(t saveTargets, zonesPending, cfgPending bool) (string, error) {
	var saved []string

	if zonesPending {
		if err := t.settings.Validate(); err != nil {
			return "", err
		}
		if t.connected && t.client != nil {
			if err := t.client.SetZones(zoneSpecs(t.settings)); err != nil {
				return "", fmt.Errorf("apply zones: %w", err)
			}
			if err := t.client.SaveLayout(); err != nil {
				return "", fmt.Errorf("persist zones: %w", err)
			}
			saved = append(saved, "zones applied via daemon")
		} else {
			if err := t.store.Save(t.settings); err != nil {
				return "", fmt.Errorf("write zones: %w", err)
			}
			saved = append(saved, "zones written to "+t.store.Path())
		}
		*t.origSettings = *t.settings.Clone()
	}

	if cfgPending {
		if err := t.cfg.Save(); err != nil {
			return "", fmt.Errorf("write config: %w", err)
		}
		msg := "config saved"
		if t.connected {
			msg += " (run snapzone reload to apply)"
		}
		saved = append(saved, msg)
		*t.origCfg = *cloneConfig(t.cfg)
	}

	if len(saved) == 0 {
		return "nothing to save", nil
	}
	return strings.Join(saved, "\n"), nil
}

func zoneSpecs(s *zones.Settings) []ipc.ZoneSpec {
	specs := make([]ipc.ZoneSpec, 0, len(s.Zones))
	for _, z := range s.Zones {
		specs = append(specs, ipc.ZoneSpec{
			Monitor: z.Monitor,
			X:       z.X,
			Y:       z.Y,
			Width:   z.Width,
			Height:  z.Height,
			Name:    z.Name,
		})
	}
	return specs
}

// settingsLines renders zone settings the way the store writes them, so
// the diff matches what lands on disk.
func settingsLines(s *zones.Settings) []string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}

func configLines(c *config.Config) []string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// cloneConfig deep-copies a config through its YAML form.
func cloneConfig(c *config.Config) *config.Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		dup := *c
		return &dup
	}
	var dup config.Config
	if err := yaml.Unmarshal(data, &dup); err != nil {
		dup = *c
	}
	return &dup
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func truncateLine(s string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

type diffKind int

const (
	diffSame diffKind = iota
	diffAdded
	diffRemoved
	diffGap
	diffSection
)

type diffLine struct {
	kind diffKind
	text string
}

// lcsDiff produces a line diff via longest common subsequence. For inputs
// whose DP table would exceed 500000 cells it falls back to a pairwise
// comparison, which is coarser but bounded.
func lcsDiff(before, after []string) []diffLine {
	if len(before)*len(after) > 500000 {
		return parallelDiff(before, after)
	}

	rows := len(before) + 1
	cols := len(after) + 1
	table := make([][]int, rows)
	for i := range table {
		table[i] = make([]int, cols)
	}
	for i := len(before) - 1; i >= 0; i-- {
		for j := len(after) - 1; j >= 0; j-- {
			if before[i] == after[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else if table[i+1][j] >= table[i][j+1] {
				table[i][j] = table[i+1][j]
			} else {
				table[i][j] = table[i][j+1]
			}
		}
	}

	var out []diffLine
	i, j := 0, 0
	for i < len(before) && j < len(after) {
		switch {
		case before[i] == after[j]:
			out = append(out, diffLine{kind: diffSame, text: before[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			out = append(out, diffLine{kind: diffRemoved, text: before[i]})
			i++
		default:
			out = append(out, diffLine{kind: diffAdded, text: after[j]})
			j++
		}
	}
	for ; i < len(before); i++ {
		out = append(out, diffLine{kind: diffRemoved, text: before[i]})
	}
	for ; j < len(after); j++ {
		out = append(out, diffLine{kind: diffAdded, text: after[j]})
	}
	return out
}

// parallelDiff walks both sides in lockstep. It misreads insertions as
// whole-line changes but never allocates a quadratic table.
func parallelDiff(before, after []string) []diffLine {
	var out []diffLine
	n := len(before)
	if len(after) > n {
		n = len(after)
	}
	for i := 0; i < n; i++ {
		switch {
		case i >= len(before):
			out = append(out, diffLine{kind: diffAdded, text: after[i]})
		case i >= len(after):
			out = append(out, diffLine{kind: diffRemoved, text: before[i]})
		case before[i] == after[i]:
			out = append(out, diffLine{kind: diffSame, text: before[i]})
		default:
			out = append(out, diffLine{kind: diffRemoved, text: before[i]})
			out = append(out, diffLine{kind: diffAdded, text: after[i]})
		}
	}
	return out
}

// filterDiffContext keeps changed lines plus context lines around them,
// collapsing unchanged stretches into a "..." marker.
func filterDiffContext(lines []diffLine, context int) []diffLine {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.kind == diffAdded || l.kind == diffRemoved {
			for j := i - context; j <= i+context; j++ {
				if j >= 0 && j < len(lines) {
					keep[j] = true
				}
			}
		}
	}

	var out []diffLine
	skipping := false
	for i, l := range lines {
		if keep[i] {
			out = append(out, l)
			skipping = false
		} else if !skipping {
			out = append(out, diffLine{kind: diffGap, text: "..."})
			skipping = true
		}
	}
	return out
}
