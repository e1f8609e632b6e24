package gesture

import (
	"time"

	"github.com/snapzone/snapzone/internal/platform"
)

// Phase represents the current phase of the drag gesture
type Phase int

const (
	// PhaseIdle means no gesture is in progress
	PhaseIdle Phase = iota
	// PhaseArmed means a modifier press was seen and a candidate window captured
	PhaseArmed
	// PhaseTracking means the drag is live and zone overlays are visible
	PhaseTracking
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseArmed:
		return "armed"
	case PhaseTracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// State holds the transient drag session. Candidate is captured once at
// press time and never re-acquired; Highlight is the resolved zone position
// currently lit, -1 when the pointer is over no zone.
type State struct {
	Phase     Phase
	Candidate platform.WindowID
	PressX    int
	PressY    int
	Highlight int

	// LastRelease survives Reset so the press cooldown spans sessions.
	LastRelease time.Time
}

// NewState creates a new idle state
func NewState() *State {
	return &State{
		Phase:     PhaseIdle,
		Candidate: 0,
		Highlight: -1,
	}
}

// Reset returns the session to idle. The release timestamp is kept; it
// gates the next press, not the current session.
func (s *State) Reset() {
	s.Phase = PhaseIdle
	s.Candidate = 0
	s.PressX = 0
	s.PressY = 0
	s.Highlight = -1
}
