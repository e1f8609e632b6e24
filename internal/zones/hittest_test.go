package zones

import (
	"testing"

	"github.com/snapzone/snapzone/internal/platform"
)

func TestZoneAt_LastListedWinsOnOverlap(t *testing.T) {
	resolved := []Resolved{
		{ZoneIndex: 0, Rect: platform.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}},
		{ZoneIndex: 1, Rect: platform.Rect{X: 500, Y: 500, Width: 200, Height: 200}},
		{ZoneIndex: 2, Rect: platform.Rect{X: 550, Y: 550, Width: 50, Height: 50}},
	}

	// All three contain (560, 560); the last-listed one is on top.
	i, ok := ZoneAt(resolved, 560, 560)
	if !ok || i != 2 {
		t.Fatalf("expected zone 2, got %d (ok=%v)", i, ok)
	}

	// Outside the innermost, inside the middle.
	i, ok = ZoneAt(resolved, 650, 650)
	if !ok || i != 1 {
		t.Fatalf("expected zone 1, got %d (ok=%v)", i, ok)
	}

	i, ok = ZoneAt(resolved, 100, 100)
	if !ok || i != 0 {
		t.Fatalf("expected zone 0, got %d (ok=%v)", i, ok)
	}
}

func TestZoneAt_EdgesAreHalfOpen(t *testing.T) {
	resolved := []Resolved{
		{ZoneIndex: 0, Rect: platform.Rect{X: 0, Y: 0, Width: 960, Height: 540}},
		{ZoneIndex: 1, Rect: platform.Rect{X: 960, Y: 0, Width: 960, Height: 540}},
	}

	// x=960 is excluded from the left zone and included in the right one,
	// so a shared edge never matches two zones.
	i, ok := ZoneAt(resolved, 960, 100)
	if !ok || i != 1 {
		t.Fatalf("expected boundary point in zone 1, got %d (ok=%v)", i, ok)
	}
	i, ok = ZoneAt(resolved, 959, 100)
	if !ok || i != 0 {
		t.Fatalf("expected point in zone 0, got %d (ok=%v)", i, ok)
	}

	// Bottom edge is exclusive too.
	if _, ok := ZoneAt(resolved, 100, 540); ok {
		t.Fatalf("expected point below both zones to miss")
	}
}

func TestZoneAt_MissAndEmpty(t *testing.T) {
	if i, ok := ZoneAt(nil, 10, 10); ok || i != -1 {
		t.Fatalf("expected miss on empty set, got %d (ok=%v)", i, ok)
	}

	resolved := []Resolved{
		{ZoneIndex: 0, Rect: platform.Rect{X: 0, Y: 0, Width: 100, Height: 100}},
	}
	if _, ok := ZoneAt(resolved, 5000, 5000); ok {
		t.Fatalf("expected miss outside all zones")
	}
}
