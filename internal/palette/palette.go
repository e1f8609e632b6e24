package palette

import (
	"fmt"
	"os/exec"
	"strings"
)

// Item is a single selectable row in the palette.
type Item struct {
	Label     string // Display text
	Action    string // Action identifier returned on selection
	Meta      string // Hidden search keywords (rofi meta field)
	IsHeader  bool   // Non-selectable section header (bold)
	IsDivider bool   // Non-selectable divider line (dim)
	IsUrgent  bool   // Highlighted as urgent (rofi urgent row)
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Markup        bool // Supports pango markup in labels
	NonSelectable bool // Supports non-selectable rows (headers)
	IndexOutput   bool // Can output selection index (not just text)
	MessageBar    bool // Supports message/prompt bar
	RowStates     bool // Supports urgent row highlighting
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	// Show displays the palette and returns the selected item.
	// prompt: the prompt text shown to the user
	// items: the list of items to display
	// message: optional context message (shown in rofi message bar)
	Show(prompt string, items []Item, message string) (Item, error)

	// Capabilities returns the features supported by this backend.
	Capabilities() Capabilities
}

// DetectBackend returns the first available palette backend found in PATH, in
// priority order: rofi, fuzzel, wofi, dmenu.
func DetectBackend() (string, error) {
	if _, err := exec.LookPath("rofi"); err == nil {
		return "rofi", nil
	}
	if _, err := exec.LookPath("fuzzel"); err == nil {
		return "fuzzel", nil
	}
	if _, err := exec.LookPath("wofi"); err == nil {
		return "wofi", nil
	}
	if _, err := exec.LookPath("dmenu"); err == nil {
		return "dmenu", nil
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: rofi, fuzzel, wofi, dmenu)")
}

// AutoDetect selects the first available backend in priority order.
func AutoDetect() (Backend, error) {
	name, err := DetectBackend()
	if err != nil {
		return nil, err
	}
	return NewBackend(name)
}

// NewBackend creates a backend by name.
//
// Supported names: auto, rofi, fuzzel, wofi, dmenu.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AutoDetect()
	case "rofi":
		if _, err := exec.LookPath("rofi"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "rofi")
		}
		return NewRofiBackend(), nil
	case "fuzzel":
		if _, err := exec.LookPath("fuzzel"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "fuzzel")
		}
		return NewFuzzelBackend(), nil
	case "wofi":
		if _, err := exec.LookPath("wofi"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "wofi")
		}
		return NewWofiBackend(), nil
	case "dmenu":
		if _, err := exec.LookPath("dmenu"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "dmenu")
		}
		return NewDmenuBackend(), nil
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, rofi, fuzzel, wofi, dmenu)", name)
	}
}
