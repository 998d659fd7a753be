package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// LocalSettings is small mutable state persisted alongside the config file.
// Unlike Config it is written by the tool itself, currently only to record
// terms-of-service acceptance.
type LocalSettings struct {
	TOSAccepted   bool       `yaml:"tos_accepted"`
	TOSAcceptedAt *time.Time `yaml:"tos_accepted_at,omitempty"`
}

const settingsFileName = "settings.yaml"

// SettingsPath returns the location of the local settings file inside the
// data directory.
func SettingsPath(dataDir string) string {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	return filepath.Join(dataDir, settingsFileName)
}

// LoadSettings reads the local settings file. A missing file yields zero
// settings, not an error.
func LoadSettings(path string) (*LocalSettings, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- settings path comes from local config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &LocalSettings{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	settings := &LocalSettings{}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return settings, nil
}

// SaveSettings writes the local settings file, creating the directory when
// needed.
func SaveSettings(path string, settings *LocalSettings) error {
	if settings == nil {
		return errors.New("settings are required")
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// AcceptTOS records terms acceptance at the given time.
func (s *LocalSettings) AcceptTOS(at time.Time) {
	utc := at.UTC()
	s.TOSAccepted = true
	s.TOSAcceptedAt = &utc
}
