package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Settings represents the callinfer.yaml (or callinfer.toml) configuration.
type Settings struct {
	// LogLevel is one of "silent", "error", "warning", "verbose".
	// Defaults to "warning".
	LogLevel string `yaml:"log_level,omitempty" toml:"log_level"`

	// Color controls styled output: "auto" (only on terminals), "always" or "never".
	Color string `yaml:"color,omitempty" toml:"color"`

	// TraceDB is an optional path to a sqlite database receiving completion events.
	TraceDB string `yaml:"trace_db,omitempty" toml:"trace_db"`

	// Mode is the completion mode used when a scenario does not set one:
	// "full" (default) or "partial".
	Mode string `yaml:"mode,omitempty" toml:"mode"`

	// Watch re-runs scenarios whenever their file changes.
	Watch bool `yaml:"watch,omitempty" toml:"watch"`
}

var (
	validLogLevels = []string{"silent", "error", "warning", "verbose"}
	validColors    = []string{"auto", "always", "never"}
	validModes     = []string{"full", "partial"}
)

// DefaultSettings returns the settings used when no file is found.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.setDefaults()
	return s
}

// LoadSettings reads and parses a settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

// ParseSettings parses settings content from bytes. The extension of path
// selects the decoder; path is otherwise used only for error messages.
func ParseSettings(data []byte, path string) (*Settings, error) {
	var s Settings
	if strings.HasSuffix(path, ".toml") {
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	s.setDefaults()
	if err := s.validate(path); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSettings searches for a settings file starting from dir and walking up
// to parent directories. Returns an empty path and nil error if none exists.
func FindSettings(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range SettingsFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (s *Settings) setDefaults() {
	if s.LogLevel == "" {
		s.LogLevel = "warning"
	}
	if s.Color == "" {
		s.Color = "auto"
	}
	if s.Mode == "" {
		s.Mode = "full"
	}
}

func (s *Settings) validate(path string) error {
	if !slices.Contains(validLogLevels, s.LogLevel) {
		return fmt.Errorf("%s: log_level %q must be one of %s", path, s.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validColors, s.Color) {
		return fmt.Errorf("%s: color %q must be one of %s", path, s.Color, strings.Join(validColors, ", "))
	}
	if !slices.Contains(validModes, s.Mode) {
		return fmt.Errorf("%s: mode %q must be one of %s", path, s.Mode, strings.Join(validModes, ", "))
	}
	return nil
}
