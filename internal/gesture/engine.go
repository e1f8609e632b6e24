// Package gesture recognizes the modifier-held pointer drag that drives
// zone snapping. The engine consumes a press/move/release stream, decides
// when a drop happened, and leaves all window movement to its callbacks.
package gesture

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/snapzone/snapzone/internal/platform"
)

// DefaultCooldown is the minimum delay between a gesture release and the
// next accepted press. Some window managers synthesize a click when a drag
// grab ends; without the cooldown that click re-arms the engine.
const DefaultCooldown = 500 * time.Millisecond

// DefaultDenylist holds WM_CLASS fragments of shell windows that must never
// be snapped, even when they end up under the cursor.
var DefaultDenylist = []string{"plank", "polybar", "xfce4-panel", "plasmashell", "Conky"}

// WindowGate is the subset of the platform backend used to capture and
// qualify the candidate window.
type WindowGate interface {
	WindowAt(x, y int) (platform.WindowID, bool)
	ActiveWindow() (platform.WindowID, error)
	WindowClass(id platform.WindowID) (string, error)
	IsValidWindow(id platform.WindowID) bool
	IsViewable(id platform.WindowID) (bool, error)
	IsMinimized(id platform.WindowID) (bool, error)
}

// Callbacks connect the engine to the overlay display and the placement
// path. ZoneAt resolves a root coordinate to a resolved-zone position;
// Drop receives that position together with the candidate captured at
// press time. IsOwnWindow screens out the overlay manager's own windows.
type Callbacks struct {
	ZoneAt      func(x, y int) (int, bool)
	ShowZones   func()
	Highlight   func(index int)
	HideZones   func()
	Drop        func(win platform.WindowID, zoneIndex int)
	Cancel      func()
	IsOwnWindow func(id platform.WindowID) bool
}

// Engine is the drag gesture state machine. Events arrive from the X event
// loop; the mutex guards against the manager reading session state from
// other goroutines.
type Engine struct {
	mu       sync.Mutex
	windows  WindowGate
	cb       Callbacks
	state    *State
	cooldown time.Duration
	denylist []string

	now func() time.Time
}

// Options tunes the engine. Zero values pick the defaults.
type Options struct {
	Cooldown time.Duration
	Denylist []string
}

// New creates a gesture engine in the idle phase.
func New(windows WindowGate, cb Callbacks, opts Options) *Engine {
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	denylist := opts.Denylist
	if denylist == nil {
		denylist = DefaultDenylist
	}
	return &Engine{
		windows:  windows,
		cb:       cb,
		state:    NewState(),
		cooldown: cooldown,
		denylist: denylist,
		now:      time.Now,
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase
}

// DragBegin handles a modifier-held button press. It returns false, and no
// pointer grab is taken, when the press falls inside the cooldown or no
// candidate window can be captured.
func (e *Engine) DragBegin(x, y int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.LastRelease.IsZero() && e.now().Sub(e.state.LastRelease) < e.cooldown {
		return false
	}

	// A stale session means we missed a release; start clean.
	if e.state.Phase == PhaseTracking && e.cb.HideZones != nil {
		e.cb.HideZones()
	}
	e.state.Reset()

	candidate, ok := e.windows.WindowAt(x, y)
	if !ok {
		active, err := e.windows.ActiveWindow()
		if err != nil || active == 0 {
			return false
		}
		candidate = active
	}

	e.state.Phase = PhaseArmed
	e.state.Candidate = candidate
	e.state.PressX = x
	e.state.PressY = y
	return true
}

// DragStep handles pointer motion. The first qualifying motion promotes the
// session to tracking; every motion after that re-runs the hit-test and
// moves the highlight.
func (e *Engine) DragStep(x, y int, modifierHeld bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state.Phase {
	case PhaseArmed:
		if !modifierHeld {
			e.cancelLocked("modifier released")
			return
		}
		if reason, ok := e.qualifyLocked(); !ok {
			e.cancelLocked(reason)
			return
		}
		e.state.Phase = PhaseTracking
		log.Printf("Gesture: tracking window 0x%x", e.state.Candidate)
		if e.cb.ShowZones != nil {
			e.cb.ShowZones()
		}
		e.updateHighlightLocked(x, y)

	case PhaseTracking:
		e.updateHighlightLocked(x, y)
	}
}

// DragEnd handles the button release: a hit-test at the release point
// decides between drop and cancel, overlays come down either way, and the
// cooldown starts.
func (e *Engine) DragEnd(x, y int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state.Phase {
	case PhaseArmed:
		e.state.LastRelease = e.now()
		e.state.Reset()
		if e.cb.Cancel != nil {
			e.cb.Cancel()
		}

	case PhaseTracking:
		candidate := e.state.Candidate
		index, hit := -1, false
		if e.cb.ZoneAt != nil {
			index, hit = e.cb.ZoneAt(x, y)
		}
		if e.cb.HideZones != nil {
			e.cb.HideZones()
		}
		e.state.LastRelease = e.now()
		e.state.Reset()

		if hit {
			log.Printf("Gesture: dropped window 0x%x on zone %d", candidate, index)
			if e.cb.Drop != nil {
				e.cb.Drop(candidate, index)
			}
		} else {
			log.Printf("Gesture: released outside all zones, cancelled")
			if e.cb.Cancel != nil {
				e.cb.Cancel()
			}
		}
	}
}

// qualifyLocked checks that the captured candidate is still a window worth
// snapping. Candidates that fail never qualify later in the same session,
// so the caller cancels rather than retrying.
func (e *Engine) qualifyLocked() (reason string, ok bool) {
	win := e.state.Candidate
	if win == 0 || !e.windows.IsValidWindow(win) {
		return "candidate window gone", false
	}
	if e.cb.IsOwnWindow != nil && e.cb.IsOwnWindow(win) {
		return "candidate is an overlay window", false
	}
	if viewable, err := e.windows.IsViewable(win); err != nil || !viewable {
		return "candidate not viewable", false
	}
	if minimized, err := e.windows.IsMinimized(win); err == nil && minimized {
		return "candidate minimized", false
	}
	class, err := e.windows.WindowClass(win)
	if err == nil && e.isDenylisted(class) {
		return "candidate class " + class + " is denylisted", false
	}
	return "", true
}

func (e *Engine) isDenylisted(class string) bool {
	lower := strings.ToLower(class)
	for _, entry := range e.denylist {
		if entry != "" && strings.Contains(lower, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}

func (e *Engine) updateHighlightLocked(x, y int) {
	index := -1
	if e.cb.ZoneAt != nil {
		if i, ok := e.cb.ZoneAt(x, y); ok {
			index = i
		}
	}
	if index == e.state.Highlight {
		return
	}
	e.state.Highlight = index
	if e.cb.Highlight != nil {
		e.cb.Highlight(index)
	}
}

// cancelLocked aborts the session before tracking started, so there are no
// overlays to tear down.
func (e *Engine) cancelLocked(reason string) {
	if reason != "" {
		log.Printf("Gesture: cancelled (%s)", reason)
	}
	e.state.Reset()
	if e.cb.Cancel != nil {
		e.cb.Cancel()
	}
}
