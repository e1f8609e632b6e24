package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	GestureModifier   string   `yaml:"gesture_modifier"`
	GestureCooldownMS int      `yaml:"gesture_cooldown_ms"`
	GestureDenylist   []string `yaml:"gesture_denylist,omitempty"`

	SnapHotkeyPrefix string `yaml:"snap_hotkey_prefix"`
	ToggleHotkey     string `yaml:"toggle_hotkey"`

	TopologyPollSeconds int `yaml:"topology_poll_seconds"`

	PlacementTolerancePx int  `yaml:"placement_tolerance_px"`
	PlacementRetry       bool `yaml:"placement_retry"`

	Notifications  bool   `yaml:"notifications"`
	PaletteBackend string `yaml:"palette_backend"`
	LogLevel       string `yaml:"log_level"`

	ZonesPath  string `yaml:"zones_path,omitempty"`
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		GestureModifier:      "control",
		GestureCooldownMS:    500,
		SnapHotkeyPrefix:     "mod4-control", // Super+Ctrl+1..9 snaps the active window
		ToggleHotkey:         "mod4-control-z",
		TopologyPollSeconds:  10,
		PlacementTolerancePx: 5,
		PlacementRetry:       true,
		Notifications:        true,
		PaletteBackend:       "auto",
		LogLevel:             "info",
	}
}

// GestureCooldown returns the press cooldown as a duration.
func (c *Config) GestureCooldown() time.Duration {
	return time.Duration(c.GestureCooldownMS) * time.Millisecond
}

// TopologyPollInterval returns the monitor poll period as a duration.
func (c *Config) TopologyPollInterval() time.Duration {
	return time.Duration(c.TopologyPollSeconds) * time.Second
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.GestureModifier {
	case "control", "ctrl", "shift", "mod1", "alt", "mod4", "super":
	default:
		return &ValidationError{Path: "gesture_modifier", Err: fmt.Errorf("gesture_modifier must be one of: control, ctrl, shift, mod1, alt, mod4, super")}
	}
	if c.GestureCooldownMS < 0 {
		return &ValidationError{Path: "gesture_cooldown_ms", Err: fmt.Errorf("gesture_cooldown_ms must be >= 0")}
	}
	for i, class := range c.GestureDenylist {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "gesture_denylist", Err: fmt.Errorf("gesture_denylist entry %d is empty", i+1)}
		}
	}
	if strings.TrimSpace(c.SnapHotkeyPrefix) == "" {
		return &ValidationError{Path: "snap_hotkey_prefix", Err: fmt.Errorf("snap_hotkey_prefix is required")}
	}
	if strings.TrimSpace(c.ToggleHotkey) == "" {
		return &ValidationError{Path: "toggle_hotkey", Err: fmt.Errorf("toggle_hotkey is required")}
	}
	if c.TopologyPollSeconds < 1 {
		return &ValidationError{Path: "topology_poll_seconds", Err: fmt.Errorf("topology_poll_seconds must be >= 1")}
	}
	if c.PlacementTolerancePx < 0 {
		return &ValidationError{Path: "placement_tolerance_px", Err: fmt.Errorf("placement_tolerance_px must be >= 0")}
	}
	switch c.PaletteBackend {
	case "auto", "rofi", "fuzzel", "dmenu", "wofi":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, dmenu, wofi")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	return nil
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}

	var warnings []string

	if c.GestureCooldownMS > 5000 {
		warnings = append(warnings, fmt.Sprintf("gesture_cooldown_ms %d is unusually long; presses within the cooldown are ignored", c.GestureCooldownMS))
	}
	if c.TopologyPollSeconds > 300 {
		warnings = append(warnings, fmt.Sprintf("topology_poll_seconds %d means monitor changes can go unnoticed for minutes", c.TopologyPollSeconds))
	}

	return warnings
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
