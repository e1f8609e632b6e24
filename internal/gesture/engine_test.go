package gesture

import (
	"testing"
	"time"

	"github.com/snapzone/snapzone/internal/platform"
)

// fakeGate scripts the window checks the engine runs on the candidate.
type fakeGate struct {
	windowAt   platform.WindowID
	active     platform.WindowID
	class      string
	valid      bool
	viewable   bool
	minimized  bool
	activeErr  error
	classCalls int
}

func (f *fakeGate) WindowAt(x, y int) (platform.WindowID, bool) {
	return f.windowAt, f.windowAt != 0
}

func (f *fakeGate) ActiveWindow() (platform.WindowID, error) {
	return f.active, f.activeErr
}

func (f *fakeGate) WindowClass(id platform.WindowID) (string, error) {
	f.classCalls++
	return f.class, nil
}

func (f *fakeGate) IsValidWindow(id platform.WindowID) bool { return f.valid }

func (f *fakeGate) IsViewable(id platform.WindowID) (bool, error) { return f.viewable, nil }

func (f *fakeGate) IsMinimized(id platform.WindowID) (bool, error) { return f.minimized, nil }

// recorder captures every callback the engine fires.
type recorder struct {
	zones      []platform.Rect
	shows      int
	hides      int
	highlights []int
	drops      []struct {
		win  platform.WindowID
		zone int
	}
	cancels int
	own     map[platform.WindowID]bool
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		ZoneAt: func(x, y int) (int, bool) {
			for i := len(r.zones) - 1; i >= 0; i-- {
				if r.zones[i].Contains(x, y) {
					return i, true
				}
			}
			return -1, false
		},
		ShowZones: func() { r.shows++ },
		Highlight: func(index int) { r.highlights = append(r.highlights, index) },
		HideZones: func() { r.hides++ },
		Drop: func(win platform.WindowID, zone int) {
			r.drops = append(r.drops, struct {
				win  platform.WindowID
				zone int
			}{win, zone})
		},
		Cancel:      func() { r.cancels++ },
		IsOwnWindow: func(id platform.WindowID) bool { return r.own[id] },
	}
}

func snappableGate() *fakeGate {
	return &fakeGate{
		windowAt: 0x42,
		active:   0x99,
		class:    "firefox",
		valid:    true,
		viewable: true,
	}
}

func testEngine(gate *fakeGate, rec *recorder) *Engine {
	e := New(gate, rec.callbacks(), Options{})
	e.now = func() time.Time { return time.Unix(1000, 0) }
	return e
}

func TestEngine_FullDropSequence(t *testing.T) {
	gate := snappableGate()
	rec := &recorder{zones: []platform.Rect{
		{X: 0, Y: 0, Width: 960, Height: 540},
		{X: 960, Y: 0, Width: 960, Height: 540},
	}}
	e := testEngine(gate, rec)

	if !e.DragBegin(100, 100) {
		t.Fatalf("expected press to arm")
	}
	if e.Phase() != PhaseArmed {
		t.Fatalf("expected armed, got %s", e.Phase())
	}

	e.DragStep(120, 110, true)
	if e.Phase() != PhaseTracking {
		t.Fatalf("expected tracking, got %s", e.Phase())
	}
	if rec.shows != 1 {
		t.Fatalf("expected overlays shown once, got %d", rec.shows)
	}

	// Move across the boundary into the right zone, then release there.
	e.DragStep(1000, 100, true)
	e.DragEnd(1200, 200)

	if e.Phase() != PhaseIdle {
		t.Fatalf("expected idle after release, got %s", e.Phase())
	}
	if rec.hides != 1 {
		t.Fatalf("expected overlays hidden once, got %d", rec.hides)
	}
	if len(rec.drops) != 1 {
		t.Fatalf("expected 1 drop, got %d", len(rec.drops))
	}
	if rec.drops[0].win != 0x42 || rec.drops[0].zone != 1 {
		t.Fatalf("expected drop of 0x42 on zone 1, got %+v", rec.drops[0])
	}
	if rec.cancels != 0 {
		t.Fatalf("unexpected cancel")
	}
}

func TestEngine_TracksAtMostOncePerPress(t *testing.T) {
	gate := snappableGate()
	rec := &recorder{zones: []platform.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}}}
	e := testEngine(gate, rec)

	e.DragBegin(10, 10)
	for i := 0; i < 25; i++ {
		e.DragStep(10+i, 10+i, true)
	}
	if rec.shows != 1 {
		t.Fatalf("expected exactly one tracking transition, got %d", rec.shows)
	}
}

func TestEngine_StepAndEndWithoutPressStayIdle(t *testing.T) {
	gate := snappableGate()
	rec := &recorder{}
	e := testEngine(gate, rec)

	e.DragStep(10, 10, true)
	e.DragEnd(10, 10)

	if e.Phase() != PhaseIdle {
		t.Fatalf("expected idle, got %s", e.Phase())
	}
	if rec.shows != 0 || rec.hides != 0 || len(rec.drops) != 0 {
		t.Fatalf("expected no callbacks, got %+v", rec)
	}
}

func TestEngine_ReleaseWhileArmedCancelsQuietly(t *testing.T) {
	gate := snappableGate()
	rec := &recorder{}
	e := testEngine(gate, rec)

	e.DragBegin(10, 10)
	e.DragEnd(10, 10)

	if e.Phase() != PhaseIdle {
		t.Fatalf("expected idle, got %s", e.Phase())
	}
	if rec.cancels != 1 {
		t.Fatalf("expected cancel, got %d", rec.cancels)
	}
	// Tracking never started, so there is nothing to hide.
	if rec.hides != 0 {
		t.Fatalf("expected no overlay teardown, got %d", rec.hides)
	}
}

func TestEngine_ReleaseOutsideZonesCancels(t *testing.T) {
	gate := snappableGate()
	rec := &recorder{zones: []platform.Rect{{X: 0, Y: 0, Width: 100, Height: 100}}}
	e := testEngine(gate, rec)

	e.DragBegin(10, 10)
	e.DragStep(20, 20, true)
	e.DragEnd(5000, 5000)

	if len(rec.drops) != 0 {
		t.Fatalf("expected no drop, got %+v", rec.drops)
	}
	if rec.cancels != 1 {
		t.Fatalf("expected cancel, got %d", rec.cancels)
	}
	if rec.hides != 1 {
		t.Fatalf("expected overlays hidden, got %d", rec.hides)
	}
}

func TestEngine_CooldownSuppressesReArm(t *testing.T) {
	gate := snappableGate()
	rec := &recorder{zones: []platform.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}}}
	e := testEngine(gate, rec)

	clock := time.Unix(1000, 0)
	e.now = func() time.Time { return clock }

	e.DragBegin(10, 10)
	e.DragStep(20, 20, true)
	e.DragEnd(30, 30)

	// A synthetic click 100ms after release must be ignored.
	clock = clock.Add(100 * time.Millisecond)
	if e.DragBegin(30, 30) {
		t.Fatalf("expected press inside cooldown to be ignored")
	}

	// After the cooldown a real press arms again.
	clock = clock.Add(DefaultCooldown)
	if !e.DragBegin(30, 30) {
		t.Fatalf("expected press after cooldown to arm")
	}
}

func TestEngine_ModifierReleasedWhileArmedCancels(t *testing.T) {
	gate := snappableGate()
	rec := &recorder{zones: []platform.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}}}
	e := testEngine(gate, rec)

	e.DragBegin(10, 10)
	e.DragStep(20, 20, false)

	if e.Phase() != PhaseIdle {
		t.Fatalf("expected cancel when modifier released, got %s", e.Phase())
	}
	if rec.shows != 0 {
		t.Fatalf("overlays must not show for an abandoned gesture")
	}
}

func TestEngine_CandidateFallsBackToActiveWindow(t *testing.T) {
	gate := snappableGate()
	gate.windowAt = 0 // nothing under the cursor
	rec := &recorder{zones: []platform.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}}}
	e := testEngine(gate, rec)

	e.DragBegin(10, 10)
	e.DragStep(20, 20, true)
	e.DragEnd(30, 30)

	if len(rec.drops) != 1 || rec.drops[0].win != 0x99 {
		t.Fatalf("expected drop of active window 0x99, got %+v", rec.drops)
	}
}

func TestEngine_NoCandidateDeclinesPress(t *testing.T) {
	gate := snappableGate()
	gate.windowAt = 0
	gate.active = 0
	rec := &recorder{}
	e := testEngine(gate, rec)

	if e.DragBegin(10, 10) {
		t.Fatalf("expected press without any candidate to be declined")
	}
	if e.Phase() != PhaseIdle {
		t.Fatalf("expected idle, got %s", e.Phase())
	}
}

func TestEngine_DisqualifiedCandidates(t *testing.T) {
	tests := []struct {
		name string
		prep func(gate *fakeGate, rec *recorder)
	}{
		{"window gone", func(g *fakeGate, _ *recorder) { g.valid = false }},
		{"not viewable", func(g *fakeGate, _ *recorder) { g.viewable = false }},
		{"minimized", func(g *fakeGate, _ *recorder) { g.minimized = true }},
		{"denylisted class", func(g *fakeGate, _ *recorder) { g.class = "Plasmashell" }},
		{"overlay window", func(g *fakeGate, r *recorder) {
			r.own = map[platform.WindowID]bool{0x42: true}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := snappableGate()
			rec := &recorder{zones: []platform.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}}}
			tt.prep(gate, rec)
			e := testEngine(gate, rec)

			e.DragBegin(10, 10)
			e.DragStep(20, 20, true)

			if e.Phase() != PhaseIdle {
				t.Fatalf("expected cancel for %s, got %s", tt.name, e.Phase())
			}
			if rec.shows != 0 {
				t.Fatalf("overlays must not show for %s", tt.name)
			}
		})
	}
}

func TestEngine_HighlightFollowsPointer(t *testing.T) {
	gate := snappableGate()
	rec := &recorder{zones: []platform.Rect{
		{X: 0, Y: 0, Width: 500, Height: 500},
		{X: 500, Y: 0, Width: 500, Height: 500},
	}}
	e := testEngine(gate, rec)

	e.DragBegin(10, 10)
	e.DragStep(20, 20, true)   // zone 0
	e.DragStep(30, 30, true)   // still zone 0, no extra callback
	e.DragStep(600, 30, true)  // zone 1
	e.DragStep(2000, 30, true) // outside, clears

	want := []int{0, 1, -1}
	if len(rec.highlights) != len(want) {
		t.Fatalf("expected highlights %v, got %v", want, rec.highlights)
	}
	for i, w := range want {
		if rec.highlights[i] != w {
			t.Fatalf("expected highlights %v, got %v", want, rec.highlights)
		}
	}
}

func TestEngine_NewPressResetsStaleSession(t *testing.T) {
	gate := snappableGate()
	rec := &recorder{zones: []platform.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}}}
	e := testEngine(gate, rec)

	clock := time.Unix(1000, 0)
	e.now = func() time.Time { return clock }

	// A tracking session whose release event was lost.
	e.DragBegin(10, 10)
	e.DragStep(20, 20, true)
	if e.Phase() != PhaseTracking {
		t.Fatalf("setup failed: %s", e.Phase())
	}

	clock = clock.Add(time.Minute)
	if !e.DragBegin(50, 50) {
		t.Fatalf("expected new press to be accepted")
	}
	if e.Phase() != PhaseArmed {
		t.Fatalf("expected fresh armed session, got %s", e.Phase())
	}
	if rec.hides != 1 {
		t.Fatalf("expected stale overlays hidden, got %d", rec.hides)
	}
}
