package topology

import (
	"testing"

	"github.com/snapzone/snapzone/internal/platform"
)

type fakeDisplaySource struct {
	displays []platform.Display
	err      error
}

func (f *fakeDisplaySource) Displays() ([]platform.Display, error) {
	return f.displays, f.err
}

func TestSnapshot_AssignsOrdinalsLeftToRight(t *testing.T) {
	// Displays arrive unordered; ordinals must follow screen position.
	src := &fakeDisplaySource{
		displays: []platform.Display{
			{
				Name:   "DP-2",
				Bounds: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
				Usable: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
			},
			{
				Name:    "DP-1",
				Primary: true,
				Bounds:  platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
				Usable:  platform.Rect{X: 0, Y: 30, Width: 1920, Height: 1050},
			},
		},
	}

	topo, err := Snapshot(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topo.Monitors) != 2 {
		t.Fatalf("expected 2 monitors, got %d", len(topo.Monitors))
	}
	if topo.Monitors[0].Name != "DP-1" || topo.Monitors[0].Index != 1 {
		t.Fatalf("expected DP-1 as monitor 1, got %q index %d",
			topo.Monitors[0].Name, topo.Monitors[0].Index)
	}
	if topo.Monitors[1].Name != "DP-2" || topo.Monitors[1].Index != 2 {
		t.Fatalf("expected DP-2 as monitor 2, got %q index %d",
			topo.Monitors[1].Name, topo.Monitors[1].Index)
	}
	if topo.Monitors[0].WorkArea.Y != 30 {
		t.Fatalf("expected work area to survive the snapshot, got %+v", topo.Monitors[0].WorkArea)
	}
}

func TestSnapshot_NoDisplaysYieldsEmptyTopology(t *testing.T) {
	// All outputs can vanish for a moment during hotplug; that must not fail.
	topo, err := Snapshot(&fakeDisplaySource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topo.Monitors) != 0 {
		t.Fatalf("expected no monitors, got %d", len(topo.Monitors))
	}
	if topo.Fingerprint != "0:" {
		t.Fatalf("expected fingerprint \"0:\", got %q", topo.Fingerprint)
	}
}

func TestFingerprintOf(t *testing.T) {
	tests := []struct {
		name     string
		monitors []Monitor
		want     string
	}{
		{
			name: "single monitor",
			monitors: []Monitor{
				{Index: 1, Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
			},
			want: "1:1920x1080@0,0",
		},
		{
			name: "dual side by side",
			monitors: []Monitor{
				{Index: 1, Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
				{Index: 2, Bounds: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
			},
			want: "2:1920x1080@0,0;2560x1440@1920,0",
		},
		{
			name: "negative origin",
			monitors: []Monitor{
				{Index: 1, Bounds: platform.Rect{X: -1920, Y: 0, Width: 1920, Height: 1080}},
			},
			want: "1:1920x1080@-1920,0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FingerprintOf(tt.monitors)
			if got != tt.want {
				t.Errorf("FingerprintOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasChanged(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		current string
		want    bool
	}{
		{"first run never changes", "", "1:1920x1080@0,0", false},
		{"identical", "1:1920x1080@0,0", "1:1920x1080@0,0", false},
		{"resolution change", "1:1920x1080@0,0", "1:2560x1440@0,0", true},
		{"monitor added", "1:1920x1080@0,0", "2:1920x1080@0,0;1920x1080@1920,0", true},
		{"monitor moved", "2:1920x1080@0,0;1920x1080@1920,0", "2:1920x1080@0,0;1920x1080@1920,200", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasChanged(tt.stored, tt.current); got != tt.want {
				t.Errorf("HasChanged(%q, %q) = %v, want %v", tt.stored, tt.current, got, tt.want)
			}
		})
	}
}

func TestDescribeChange(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		current string
		want    string
	}{
		{
			name:    "connect",
			stored:  "1:1920x1080@0,0",
			current: "2:1920x1080@0,0;1920x1080@1920,0",
			want:    "monitor connected (1 -> 2)",
		},
		{
			name:    "disconnect",
			stored:  "2:1920x1080@0,0;1920x1080@1920,0",
			current: "1:1920x1080@0,0",
			want:    "monitor disconnected (2 -> 1)",
		},
		{
			name:    "rearranged",
			stored:  "2:1920x1080@0,0;1920x1080@1920,0",
			current: "2:1920x1080@1920,0;1920x1080@0,0",
			want:    "monitor layout rearranged",
		},
		{
			name:    "unparseable stored fingerprint",
			stored:  "garbage",
			current: "1:1920x1080@0,0",
			want:    "monitor layout changed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeChange(tt.stored, tt.current); got != tt.want {
				t.Errorf("DescribeChange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestByIndex(t *testing.T) {
	monitors := []Monitor{
		{Index: 1, Name: "DP-1"},
		{Index: 2, Name: "DP-2"},
	}

	m, ok := ByIndex(monitors, 2)
	if !ok || m.Name != "DP-2" {
		t.Fatalf("ByIndex(2) = %+v, %v, want DP-2", m, ok)
	}
	if _, ok := ByIndex(monitors, 3); ok {
		t.Fatalf("expected ordinal 3 to be absent")
	}
}

func TestMonitorForPoint(t *testing.T) {
	topo := &Topology{
		Monitors: []Monitor{
			{Index: 1, Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
			{Index: 2, Bounds: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}},
		},
	}

	if m, ok := topo.MonitorForPoint(2000, 500); !ok || m.Index != 2 {
		t.Fatalf("point on second monitor resolved to %d (ok=%v)", m.Index, ok)
	}
	// Right/bottom edges are exclusive, so x=1920 already belongs to monitor 2.
	if m, ok := topo.MonitorForPoint(1920, 0); !ok || m.Index != 2 {
		t.Fatalf("boundary point resolved to %d (ok=%v), want 2", m.Index, ok)
	}
	// Off-screen points fall back to the first monitor.
	if m, ok := topo.MonitorForPoint(-5000, -5000); !ok || m.Index != 1 {
		t.Fatalf("off-screen point resolved to %d (ok=%v), want 1", m.Index, ok)
	}

	empty := &Topology{}
	if _, ok := empty.MonitorForPoint(0, 0); ok {
		t.Fatalf("expected no monitor for empty topology")
	}
}
