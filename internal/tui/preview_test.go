package tui

import (
	"strings"
	"testing"

	"github.com/snapzone/snapzone/internal/zones"
)

func TestRenderZonePreview_DrawsOnlyTheMonitorZones(t *testing.T) {
	zoneList := []zones.Zone{
		{Monitor: 1, X: 0, Y: 0, Width: 50, Height: 100},
		{Monitor: 1, X: 50, Y: 0, Width: 50, Height: 100},
		{Monitor: 2, X: 0, Y: 0, Width: 100, Height: 100},
	}

	lines := renderZonePreview(zoneList, 1, 1, 40, 12)

	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12", len(lines))
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "1") || !strings.Contains(joined, "2") {
		t.Errorf("zone numbers missing from preview:\n%s", joined)
	}
	if strings.Contains(joined, "3") {
		t.Errorf("zone from another monitor drawn:\n%s", joined)
	}
}

func TestRenderZonePreview_KeepsMonitorBorder(t *testing.T) {
	zoneList := []zones.Zone{
		{Monitor: 1, X: 0, Y: 0, Width: 100, Height: 100},
	}

	lines := renderZonePreview(zoneList, 1, 0, 30, 10)

	if !strings.HasPrefix(lines[0], "╔") || !strings.HasSuffix(lines[0], "╗") {
		t.Errorf("top border corners missing: %q", lines[0])
	}
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "╚") || !strings.HasSuffix(last, "╝") {
		t.Errorf("bottom border corners missing: %q", last)
	}
}

func TestRenderZonePreview_TinyCanvasStaysBlank(t *testing.T) {
	zoneList := []zones.Zone{
		{Monitor: 1, X: 0, Y: 0, Width: 100, Height: 100},
	}

	lines := renderZonePreview(zoneList, 1, 0, 2, 1)

	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if strings.ContainsAny(lines[0], "╔╗╚╝┌┐└┘1") {
		t.Errorf("tiny canvas should stay blank, got %q", lines[0])
	}
}

func TestSummarizeMonitorZones(t *testing.T) {
	zoneList := []zones.Zone{
		{Monitor: 1, X: 0, Y: 0, Width: 50, Height: 100},
		{Monitor: 1, X: 50, Y: 0, Width: 50, Height: 100},
		{Monitor: 2, X: 0, Y: 0, Width: 100, Height: 100},
	}

	got := summarizeMonitorZones(zoneList, 2, 1920, 1050)
	want := "1 zone • work area 1920×1050 px"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = summarizeMonitorZones(zoneList, 1, 0, 0)
	want = "2 zones"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
