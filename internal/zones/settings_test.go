package zones

import "testing"

func TestDefaultSettings_ZoneCounts(t *testing.T) {
	tests := []struct {
		monitors int
		want     int
	}{
		{0, 0},
		{1, 6},
		{2, 9},
		{3, 12},
	}

	for _, tt := range tests {
		s := DefaultSettings(tt.monitors)
		if len(s.Zones) != tt.want {
			t.Errorf("DefaultSettings(%d): expected %d zones, got %d",
				tt.monitors, tt.want, len(s.Zones))
		}
		if s.Version != SettingsVersion {
			t.Errorf("DefaultSettings(%d): expected version %d, got %d",
				tt.monitors, SettingsVersion, s.Version)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("DefaultSettings(%d): defaults must validate: %v", tt.monitors, err)
		}
	}
}

func TestDefaultSettings_PrimaryMonitorLayout(t *testing.T) {
	s := DefaultSettings(2)

	// First six zones all live on monitor 1: four quarters, then the two
	// halves that overlap them (listed later, so they win the hit-test).
	names := []string{
		"Top-Left Quarter", "Top-Right Quarter",
		"Bottom-Left Quarter", "Bottom-Right Quarter",
		"Left Half", "Right Half",
	}
	for i, want := range names {
		if s.Zones[i].Name != want {
			t.Fatalf("zone %d: expected %q, got %q", i, want, s.Zones[i].Name)
		}
		if s.Zones[i].Monitor != 1 {
			t.Fatalf("zone %d: expected monitor 1, got %d", i, s.Zones[i].Monitor)
		}
	}
	if s.Zones[4].Width != 50 || s.Zones[4].Height != 100 {
		t.Fatalf("left half has wrong shape: %+v", s.Zones[4])
	}

	// Second monitor: top half, bottom half, full.
	extra := s.Zones[6:]
	if len(extra) != 3 {
		t.Fatalf("expected 3 zones for monitor 2, got %d", len(extra))
	}
	for _, z := range extra {
		if z.Monitor != 2 {
			t.Fatalf("expected monitor 2, got %d (%q)", z.Monitor, z.Name)
		}
	}
	if extra[2].Width != 100 || extra[2].Height != 100 {
		t.Fatalf("expected full-monitor zone last, got %+v", extra[2])
	}
}

func TestSettings_Clone(t *testing.T) {
	orig := DefaultSettings(1)
	orig.MonitorFingerprint = "1:1920x1080@0,0"

	clone := orig.Clone()
	clone.Zones[0].Name = "mutated"
	clone.Zones = append(clone.Zones, Zone{Monitor: 1, Width: 10, Height: 10})

	if orig.Zones[0].Name == "mutated" {
		t.Fatalf("clone shares zone storage with the original")
	}
	if len(orig.Zones) != 6 {
		t.Fatalf("appending to the clone grew the original: %d", len(orig.Zones))
	}
	if clone.MonitorFingerprint != orig.MonitorFingerprint {
		t.Fatalf("fingerprint not copied")
	}

	var nilSettings *Settings
	if nilSettings.Clone() != nil {
		t.Fatalf("expected nil clone of nil settings")
	}
}

func TestZoneValidate(t *testing.T) {
	tests := []struct {
		name    string
		zone    Zone
		wantErr bool
	}{
		{"valid quarter", Zone{Monitor: 1, X: 0, Y: 0, Width: 50, Height: 50}, false},
		{"valid full", Zone{Monitor: 1, X: 0, Y: 0, Width: 100, Height: 100}, false},
		{"fractional thirds", Zone{Monitor: 1, X: 66.6, Y: 0, Width: 33.4, Height: 100}, false},
		{"monitor zero", Zone{Monitor: 0, Width: 50, Height: 50}, true},
		{"negative origin", Zone{Monitor: 1, X: -1, Width: 50, Height: 50}, true},
		{"zero width", Zone{Monitor: 1, Width: 0, Height: 50}, true},
		{"negative height", Zone{Monitor: 1, Width: 50, Height: -5}, true},
		{"extends past monitor", Zone{Monitor: 1, X: 60, Width: 50, Height: 50}, true},
		{"rounding slack tolerated", Zone{Monitor: 1, X: 66.7, Width: 33.4, Height: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.zone.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for %+v", tt.zone)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestZoneLabel(t *testing.T) {
	named := Zone{Name: "Left Half"}
	if got := named.Label(3); got != "Left Half" {
		t.Fatalf("expected explicit name, got %q", got)
	}
	unnamed := Zone{}
	if got := unnamed.Label(3); got != "Zone 3" {
		t.Fatalf("expected fallback label, got %q", got)
	}
}
