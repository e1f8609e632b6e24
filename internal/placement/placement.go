// Package placement moves windows into zone rectangles and verifies that
// the move actually happened. Window managers and fixed-size windows both
// lie about placement, so every attempt is checked by re-reading geometry.
package placement

import (
	"log"
	"time"

	"github.com/snapzone/snapzone/internal/platform"
)

// Defaults for the executor's timing and verification knobs.
const (
	DefaultTolerance    = 5
	DefaultPreMoveDelay = 150 * time.Millisecond
	DefaultRestoreDelay = 200 * time.Millisecond
	DefaultRetryDelay   = 250 * time.Millisecond
)

// windowOps is the subset of the platform backend the executor drives.
type windowOps interface {
	WindowRect(id platform.WindowID) (platform.Rect, error)
	IsValidWindow(id platform.WindowID) bool
	IsMinimized(id platform.WindowID) (bool, error)
	Restore(id platform.WindowID) error
	MoveResize(id platform.WindowID, bounds platform.Rect) error
	Configure(id platform.WindowID, bounds platform.Rect) error
	Move(id platform.WindowID, x, y int) error
	Resize(id platform.WindowID, width, height int) error
}

// Options tunes the executor. Zero values pick the defaults; retry is on
// unless DisableRetry is set.
type Options struct {
	Tolerance    int
	PreMoveDelay time.Duration
	RestoreDelay time.Duration
	RetryDelay   time.Duration
	DisableRetry bool
}

// Placer executes verified window placement.
type Placer struct {
	windows      windowOps
	isOwnWindow  func(id platform.WindowID) bool
	tolerance    int
	preMoveDelay time.Duration
	restoreDelay time.Duration
	retryDelay   time.Duration
	retry        bool

	// sleep hook, swapped out by tests.
	sleep func(time.Duration)
}

// New creates a placement executor. isOwnWindow screens out the zone
// overlay's windows; pass nil when there is no overlay.
func New(windows windowOps, isOwnWindow func(id platform.WindowID) bool, opts Options) *Placer {
	p := &Placer{
		windows:      windows,
		isOwnWindow:  isOwnWindow,
		tolerance:    opts.Tolerance,
		preMoveDelay: opts.PreMoveDelay,
		restoreDelay: opts.RestoreDelay,
		retryDelay:   opts.RetryDelay,
		retry:        !opts.DisableRetry,
		sleep:        time.Sleep,
	}
	if p.tolerance <= 0 {
		p.tolerance = DefaultTolerance
	}
	if p.preMoveDelay <= 0 {
		p.preMoveDelay = DefaultPreMoveDelay
	}
	if p.restoreDelay <= 0 {
		p.restoreDelay = DefaultRestoreDelay
	}
	if p.retryDelay <= 0 {
		p.retryDelay = DefaultRetryDelay
	}
	return p
}

// Place moves win into target and reports whether the window verifiably
// moved. False is a normal outcome: fixed-size dialogs and windows of more
// privileged processes accept the request without budging. Place blocks
// for its delays, so callers run it off the event loop.
func (p *Placer) Place(win platform.WindowID, target platform.Rect) bool {
	if win == 0 {
		return false
	}
	if p.isOwnWindow != nil && p.isOwnWindow(win) {
		return false
	}
	if !p.windows.IsValidWindow(win) {
		log.Printf("Placement: window 0x%x no longer valid", win)
		return false
	}

	if minimized, err := p.windows.IsMinimized(win); err == nil && minimized {
		if err := p.windows.Restore(win); err != nil {
			log.Printf("Placement: restore of 0x%x failed: %v", win, err)
			return false
		}
		p.sleep(p.restoreDelay)
	}

	// The WM may still be unwinding its own drag loop right after a button
	// release; moving too early gets silently overridden.
	p.sleep(p.preMoveDelay)

	if p.attempt(win, target) {
		return true
	}
	if !p.retry {
		return false
	}
	p.sleep(p.retryDelay)
	return p.attempt(win, target)
}

// attempt runs the strategy chain once and verifies the result against the
// geometry read before the chain ran.
func (p *Placer) attempt(win platform.WindowID, target platform.Rect) bool {
	before, err := p.windows.WindowRect(win)
	if err != nil {
		log.Printf("Placement: cannot read geometry of 0x%x: %v", win, err)
		return false
	}

	applied := false
	for _, s := range p.strategies() {
		if err := s.apply(win, target); err != nil {
			log.Printf("Placement: %s failed for 0x%x: %v", s.name, win, err)
			continue
		}
		applied = true
		break
	}
	if !applied {
		return false
	}

	after, err := p.windows.WindowRect(win)
	if err != nil {
		log.Printf("Placement: cannot re-read geometry of 0x%x: %v", win, err)
		return false
	}

	// The OS result is not trusted: success means the window observably
	// moved or resized beyond jitter tolerance.
	return exceedsTolerance(before, after, p.tolerance)
}

type strategy struct {
	name  string
	apply func(win platform.WindowID, target platform.Rect) error
}

// strategies returns the ordered placement chain: ask the window manager
// first, bypass it second, split the request last for WMs that drop
// combined configure masks.
func (p *Placer) strategies() []strategy {
	return []strategy{
		{"moveresize", func(w platform.WindowID, r platform.Rect) error {
			return p.windows.MoveResize(w, r)
		}},
		{"configure", func(w platform.WindowID, r platform.Rect) error {
			return p.windows.Configure(w, r)
		}},
		{"move+resize", func(w platform.WindowID, r platform.Rect) error {
			if err := p.windows.Move(w, r.X, r.Y); err != nil {
				return err
			}
			if err := p.windows.Resize(w, r.Width, r.Height); err != nil {
				// The move already landed; let verification judge it.
				log.Printf("Placement: resize after move failed for 0x%x: %v", w, err)
			}
			return nil
		}},
	}
}

func exceedsTolerance(before, after platform.Rect, tolerance int) bool {
	return abs(after.X-before.X) > tolerance ||
		abs(after.Y-before.Y) > tolerance ||
		abs(after.Width-before.Width) > tolerance ||
		abs(after.Height-before.Height) > tolerance
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
