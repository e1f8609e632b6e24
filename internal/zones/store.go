package zones

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrCorruptSettings marks a settings file that exists but cannot be
// parsed. The store copies the broken content to a timestamped backup
// before returning this, so the original bytes survive for inspection.
var ErrCorruptSettings = errors.New("zone settings file is corrupt")

// ErrPersistence marks a failed save. The in-memory settings stay valid;
// only the on-disk copy is stale.
var ErrPersistence = errors.New("failed to persist zone settings")

// minSettingsSize rejects obviously truncated writes. Even an empty
// document serializes larger than this.
const minSettingsSize = 10

// Store loads and saves the zone settings document at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store for the given settings path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// DefaultSettingsPath returns the standard settings location,
// ~/.config/snapzone/zones.json.
func DefaultSettingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "snapzone", "zones.json"), nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted settings. It returns (nil, nil) when no file
// exists yet. A file that exists but fails size or parse checks is backed
// up and reported as ErrCorruptSettings, never as absent.
func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read zone settings: %w", err)
	}

	if len(data) < minSettingsSize {
		s.backupCorrupt(data)
		return nil, fmt.Errorf("%w: file too small (%d bytes)", ErrCorruptSettings, len(data))
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		s.backupCorrupt(data)
		return nil, fmt.Errorf("%w: %v", ErrCorruptSettings, err)
	}
	if settings.Version == 0 {
		settings.Version = SettingsVersion
	}
	return &settings, nil
}

// Save writes the settings document, creating the parent directory when
// needed. Any failure is wrapped in ErrPersistence.
func (s *Store) Save(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", ErrPersistence)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// backupCorrupt copies broken settings aside so a subsequent save does not
// destroy the evidence. Backup failure is logged, not escalated.
func (s *Store) backupCorrupt(data []byte) {
	backup := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backup, data, 0644); err != nil {
		s.logger.Warn("failed to back up corrupt zone settings", "path", backup, "error", err)
		return
	}
	s.logger.Warn("backed up corrupt zone settings", "path", backup)
}
