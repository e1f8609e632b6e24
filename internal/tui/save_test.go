package tui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/snapzone/snapzone/internal/config"
	"github.com/snapzone/snapzone/internal/zones"
)

func TestLcsDiff_ClassifiesChanges(t *testing.T) {
	before := []string{"a", "b", "c"}
	after := []string{"a", "x", "c"}

	var added, removed, same int
	for _, l := range lcsDiff(before, after) {
		switch l.kind {
		case diffAdded:
			added++
		case diffRemoved:
			removed++
		case diffSame:
			same++
		}
	}

	if added != 1 || removed != 1 || same != 2 {
		t.Errorf("got %d added, %d removed, %d same; want 1, 1, 2", added, removed, same)
	}
}

func TestLcsDiff_DetectsInsertion(t *testing.T) {
	before := []string{"a", "b"}
	after := []string{"a", "inserted", "b"}

	got := lcsDiff(before, after)
	want := []diffLine{
		{kind: diffSame, text: "a"},
		{kind: diffAdded, text: "inserted"},
		{kind: diffSame, text: "b"},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParallelDiff_HandlesLengthMismatch(t *testing.T) {
	got := parallelDiff([]string{"a"}, []string{"a", "b", "c"})

	want := []diffLine{
		{kind: diffSame, text: "a"},
		{kind: diffAdded, text: "b"},
		{kind: diffAdded, text: "c"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFilterDiffContext_CollapsesUnchangedRuns(t *testing.T) {
	var lines []diffLine
	for i := 0; i < 5; i++ {
		lines = append(lines, diffLine{kind: diffSame, text: "same"})
	}
	lines = append(lines, diffLine{kind: diffRemoved, text: "gone"})
	for i := 0; i < 5; i++ {
		lines = append(lines, diffLine{kind: diffSame, text: "same"})
	}

	got := filterDiffContext(lines, 2)

	wantKinds := []diffKind{diffGap, diffSame, diffSame, diffRemoved, diffSame, diffSame, diffGap}
	if len(got) != len(wantKinds) {
		t.Fatalf("got %d lines, want %d", len(got), len(wantKinds))
	}
	for i, k := range wantKinds {
		if got[i].kind != k {
			t.Errorf("line %d: got kind %d, want %d", i, got[i].kind, k)
		}
	}
}

func TestPerformSave_WritesZonesToDiskWhenDisconnected(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := zones.NewStore(filepath.Join(dir, "zones.json"), logger)

	orig := zones.DefaultSettings(1)
	working := orig.Clone()
	working.Zones[0].Name = "Renamed"

	targets := saveTargets{
		settings:     working,
		origSettings: orig,
		store:        store,
		connected:    false,
	}

	text, err := performSave(targets, true, false)
	if err != nil {
		t.Fatalf("performSave: %v", err)
	}
	if text == "" {
		t.Error("expected a save summary")
	}

	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("zones file not written: %v", err)
	}
	if orig.Zones[0].Name != "Renamed" {
		t.Error("snapshot not advanced after save")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Zones[0].Name != "Renamed" {
		t.Errorf("persisted name %q, want %q", loaded.Zones[0].Name, "Renamed")
	}
}

func TestPerformSave_RejectsInvalidZones(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := zones.NewStore(filepath.Join(dir, "zones.json"), logger)

	orig := zones.DefaultSettings(1)
	working := orig.Clone()
	working.Zones[0].Width = -10

	targets := saveTargets{
		settings:     working,
		origSettings: orig,
		store:        store,
		connected:    false,
	}

	if _, err := performSave(targets, true, false); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("invalid settings must not reach disk")
	}
}

func TestCloneConfig_IsIndependent(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GestureDenylist = []string{"krunner"}

	dup := cloneConfig(cfg)
	dup.GestureModifier = "shift"
	dup.GestureDenylist[0] = "changed"

	if cfg.GestureModifier != "control" {
		t.Errorf("original modifier mutated: %q", cfg.GestureModifier)
	}
	if cfg.GestureDenylist[0] != "krunner" {
		t.Errorf("original denylist mutated: %q", cfg.GestureDenylist[0])
	}
}

func TestSaveOverlay_DiffSectionsOnlyWhenChanged(t *testing.T) {
	cfg := config.DefaultConfig()
	settings := zones.DefaultSettings(1)

	working := settings.Clone()
	working.Zones[0].Name = "Renamed"

	var overlay SaveOverlay
	overlay.Open(saveTargets{
		cfg:          cfg,
		origCfg:      cloneConfig(cfg),
		settings:     working,
		origSettings: settings,
	})

	if !overlay.zonesPending {
		t.Error("zone change not detected")
	}
	if overlay.cfgPending {
		t.Error("config reported dirty with no edits")
	}

	var sections []string
	for _, l := range overlay.diff {
		if l.kind == diffSection {
			sections = append(sections, l.text)
		}
	}
	if len(sections) != 1 || sections[0] != "zones.json" {
		t.Errorf("got sections %v, want [zones.json]", sections)
	}
}
