package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.GestureModifier != "control" {
		t.Fatalf("expected default gesture_modifier control, got %q", cfg.GestureModifier)
	}
	if cfg.SnapHotkeyPrefix != "mod4-control" {
		t.Fatalf("expected default snap_hotkey_prefix mod4-control, got %q", cfg.SnapHotkeyPrefix)
	}
	if !cfg.PlacementRetry {
		t.Fatalf("expected placement_retry to default to true")
	}
	if !cfg.Notifications {
		t.Fatalf("expected notifications to default to true")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFromPath(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GestureCooldownMS != 500 {
		t.Fatalf("expected default gesture_cooldown_ms 500, got %d", cfg.GestureCooldownMS)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("# empty\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TopologyPollSeconds != 10 {
		t.Fatalf("expected default topology_poll_seconds 10, got %d", cfg.TopologyPollSeconds)
	}
}

func TestLoadFromPath_OverridesKeepUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"gesture_modifier: mod4",
		"notifications: false",
		"gesture_denylist:",
		"  - plank",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GestureModifier != "mod4" {
		t.Fatalf("expected gesture_modifier mod4, got %q", cfg.GestureModifier)
	}
	if cfg.Notifications {
		t.Fatalf("expected notifications false")
	}
	if len(cfg.GestureDenylist) != 1 || cfg.GestureDenylist[0] != "plank" {
		t.Fatalf("unexpected gesture_denylist: %#v", cfg.GestureDenylist)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected unset log_level to stay info, got %q", cfg.LogLevel)
	}
	if !cfg.PlacementRetry {
		t.Fatalf("expected unset placement_retry to stay true")
	}
}

func TestLoadFromPath_DisplayAndXAuthority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"display: \":1\"",
		"xauthority: \"/tmp/test-xauth\"",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Display != ":1" {
		t.Fatalf("expected display :1, got %q", cfg.Display)
	}
	if cfg.XAuthority != "/tmp/test-xauth" {
		t.Fatalf("expected xauthority /tmp/test-xauth, got %q", cfg.XAuthority)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("unknown_key: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_InvalidValueHasSourceContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"gesture_modifier: control",
		"log_level: verbose",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "log_level" {
		t.Fatalf("expected path log_level, got %q", verr.Path)
	}
	if verr.Source.File != path || verr.Source.Line != 2 {
		t.Fatalf("expected source %s:2, got %#v", path, verr.Source)
	}
	if !strings.Contains(err.Error(), path+":2:") {
		t.Fatalf("expected error to carry file:line prefix, got %v", err)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"unknown modifier", func(c *Config) { c.GestureModifier = "hyper" }, "gesture_modifier"},
		{"negative cooldown", func(c *Config) { c.GestureCooldownMS = -1 }, "gesture_cooldown_ms"},
		{"blank denylist entry", func(c *Config) { c.GestureDenylist = []string{"plank", "  "} }, "gesture_denylist"},
		{"empty snap prefix", func(c *Config) { c.SnapHotkeyPrefix = "" }, "snap_hotkey_prefix"},
		{"empty toggle hotkey", func(c *Config) { c.ToggleHotkey = " " }, "toggle_hotkey"},
		{"zero poll interval", func(c *Config) { c.TopologyPollSeconds = 0 }, "topology_poll_seconds"},
		{"negative tolerance", func(c *Config) { c.PlacementTolerancePx = -1 }, "placement_tolerance_px"},
		{"unknown palette backend", func(c *Config) { c.PaletteBackend = "slurp" }, "palette_backend"},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if verr.Path != tc.wantPath {
				t.Fatalf("expected path %q, got %q", tc.wantPath, verr.Path)
			}
		})
	}
}

func TestSave_RoundTripsThroughLoader(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.GestureModifier = "mod4"
	cfg.Notifications = false
	cfg.ZonesPath = "/tmp/zones.json"
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if !strings.HasPrefix(path, home) {
		t.Fatalf("expected config under %s, got %s", home, path)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.GestureModifier != "mod4" {
		t.Fatalf("expected gesture_modifier mod4 after reload, got %q", loaded.GestureModifier)
	}
	if loaded.Notifications {
		t.Fatalf("expected notifications false after reload")
	}
	if loaded.ZonesPath != "/tmp/zones.json" {
		t.Fatalf("expected zones_path to survive reload, got %q", loaded.ZonesPath)
	}
}

func TestSave_RejectsInvalidConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := cfg.Save(); err == nil {
		t.Fatalf("expected save to refuse an invalid config")
	}

	path, _ := DefaultConfigPath()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file to be written, stat err %v", err)
	}
}
