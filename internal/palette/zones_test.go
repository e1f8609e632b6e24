package palette

import (
	"errors"
	"testing"
)

type fakeBackend struct {
	results []Item
	i       int
	prompts []string
}

func (f *fakeBackend) Show(prompt string, items []Item, message string) (Item, error) {
	f.prompts = append(f.prompts, prompt)
	if f.i >= len(f.results) {
		return Item{}, ErrCancelled
	}
	res := f.results[f.i]
	f.i++
	return res, nil
}

func (f *fakeBackend) Capabilities() Capabilities {
	return Capabilities{}
}

func TestPicker_ReturnsZoneNumber(t *testing.T) {
	p := NewPicker(&fakeBackend{
		results: []Item{{Label: "3: Right Half", Action: "3"}},
	})

	got, err := p.Pick([]ZoneEntry{
		{Number: 1, Name: "Left Half", Monitor: 1},
		{Number: 2, Name: "Center", Monitor: 1},
		{Number: 3, Name: "Right Half", Monitor: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected zone 3, got %d", got)
	}
}

func TestPicker_IgnoresHeaderSelection(t *testing.T) {
	p := NewPicker(&fakeBackend{
		results: []Item{
			{Label: "Monitor 1", IsHeader: true},
			{Label: "2: Center", Action: "2"},
		},
	})

	got, err := p.Pick([]ZoneEntry{
		{Number: 1, Name: "Left Half", Monitor: 1},
		{Number: 2, Name: "Center", Monitor: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected zone 2, got %d", got)
	}
}

func TestPicker_CancelPropagates(t *testing.T) {
	p := NewPicker(&fakeBackend{})

	_, err := p.Pick([]ZoneEntry{{Number: 1, Monitor: 1}})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestPicker_RejectsEmptyEntries(t *testing.T) {
	p := NewPicker(&fakeBackend{})

	if _, err := p.Pick(nil); err == nil {
		t.Fatal("expected error for empty entry list")
	}
}

func TestBuildZoneItems_HeadersOnMonitorChange(t *testing.T) {
	items := buildZoneItems([]ZoneEntry{
		{Number: 1, Name: "Left Half", Monitor: 1, Geometry: "960x1080+0+0"},
		{Number: 2, Name: "Right Half", Monitor: 1, Geometry: "960x1080+960+0"},
		{Number: 3, Name: "Full", Monitor: 2, Orphaned: true},
	})

	if len(items) != 5 {
		t.Fatalf("expected 5 items (2 headers + 3 zones), got %d", len(items))
	}
	if !items[0].IsHeader || items[0].Label != "Monitor 1" {
		t.Fatalf("expected Monitor 1 header first, got %#v", items[0])
	}
	if !items[3].IsHeader || items[3].Label != "Monitor 2" {
		t.Fatalf("expected Monitor 2 header fourth, got %#v", items[3])
	}
	if items[1].Action != "1" || items[2].Action != "2" || items[4].Action != "3" {
		t.Fatalf("expected actions to carry zone numbers, got %#v", items)
	}
	if !items[4].IsUrgent {
		t.Fatalf("expected orphaned zone to be urgent, got %#v", items[4])
	}
}

func TestZoneLabel(t *testing.T) {
	tests := []struct {
		name  string
		entry ZoneEntry
		want  string
	}{
		{
			name:  "named with geometry",
			entry: ZoneEntry{Number: 1, Name: "Left Half", Monitor: 1, Geometry: "960x1080+0+0"},
			want:  "1: Left Half  960x1080+0+0",
		},
		{
			name:  "unnamed falls back to zone number",
			entry: ZoneEntry{Number: 4, Monitor: 1, Geometry: "480x540+0+0"},
			want:  "4: Zone 4  480x540+0+0",
		},
		{
			name:  "orphaned",
			entry: ZoneEntry{Number: 7, Name: "Full", Monitor: 2, Orphaned: true},
			want:  "7: Full  (monitor disconnected)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := zoneLabel(tt.entry); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
