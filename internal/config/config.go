// Package config loads presenter settings from YAML and FOLIO_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/metcalfc/folio/internal/nav"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Scale bounds.
const (
	MinScale     = 0.7
	MaxScale     = 1.5
	DefaultScale = 1.0
)

// FileName is the per-deck config file looked up next to the deck.
const FileName = "folio.yaml"

// Config is the top-level presenter configuration.
type Config struct {
	Sections    []string         `yaml:"sections" koanf:"sections"`
	Annotations []nav.Annotation `yaml:"annotations" koanf:"annotations"`
	Theme       string           `yaml:"theme" koanf:"theme"`
	Scale       float64          `yaml:"scale" koanf:"scale"`
	Watch       bool             `yaml:"watch" koanf:"watch"`
	History     int              `yaml:"history" koanf:"history"`
	Log         LogConfig        `yaml:"log" koanf:"log"`
}

// LogConfig controls the log file. An empty File disables logging.
type LogConfig struct {
	File  string `yaml:"file" koanf:"file"`
	Level string `yaml:"level" koanf:"level"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Theme:   ThemeDark,
		Scale:   DefaultScale,
		History: 100,
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (FOLIO_THEME, FOLIO_LOG_LEVEL, ...).
// A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("FOLIO_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "FOLIO_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// YAML renders the configuration in the file format Load reads.
func (c *Config) YAML() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}

// DefaultPath returns folio.yaml next to the deck when it exists, else the
// user config file under XDG_CONFIG_HOME.
func DefaultPath(deckPath string) string {
	if deckPath != "" {
		local := filepath.Join(filepath.Dir(deckPath), FileName)
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "folio", "config.yaml")
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("invalid theme %q: must be one of dark, light", c.Theme)
	}
	if c.Scale < MinScale || c.Scale > MaxScale {
		return fmt.Errorf("scale %.2f out of range [%.1f, %.1f]", c.Scale, MinScale, MaxScale)
	}
	if c.History < 0 {
		return fmt.Errorf("history must be non-negative")
	}
	for i, a := range c.Annotations {
		if a.Slide < 1 {
			return fmt.Errorf("annotation %d: slide must be 1 or greater, got %d", i+1, a.Slide)
		}
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
		}
	}
	return nil
}
