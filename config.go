package trellis

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix of every environment override, e.g.
// TRELLIS_DRAG_DEAD_ZONE.
const envPrefix = "TRELLIS"

// Config holds the tunables of a Scene. Values are layered: DefaultConfig,
// then an optional YAML file, then TRELLIS_* environment variables.
type Config struct {
	// DragDeadZone is the pointer travel, in screen pixels, before a press
	// becomes a drag.
	DragDeadZone float64 `yaml:"drag_dead_zone" envconfig:"DRAG_DEAD_ZONE"`
	// BasePriority is the z-index of nodes without an override in the root section.
	BasePriority int `yaml:"base_priority" envconfig:"BASE_PRIORITY"`
	// ReadOnly refuses every modifying gesture.
	ReadOnly bool `yaml:"read_only" envconfig:"READ_ONLY"`
	// UndoLimit caps the number of committed undo units; 0 keeps all.
	UndoLimit int `yaml:"undo_limit" envconfig:"UNDO_LIMIT"`

	ViewportWidth  float64 `yaml:"viewport_width" envconfig:"VIEWPORT_WIDTH"`
	ViewportHeight float64 `yaml:"viewport_height" envconfig:"VIEWPORT_HEIGHT"`

	Debug     bool   `yaml:"debug" envconfig:"DEBUG"`
	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"` // text, json or prefixed
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DragDeadZone:   0,
		BasePriority:   0,
		ViewportWidth:  640,
		ViewportHeight: 480,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// LoadConfig builds a Config from the defaults, the YAML file at path (skipped
// when path is empty) and the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("trellis: reading config: %w", err)
		}
		if err := ParseConfig(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("trellis: processing environment configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseConfig overlays YAML data onto cfg. Keys absent from data keep their
// current value.
func ParseConfig(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("trellis: parsing config: %w", err)
	}
	return nil
}

// Validate rejects values no scene can run with.
func (c Config) Validate() error {
	if c.DragDeadZone < 0 {
		return fmt.Errorf("trellis: drag_dead_zone must not be negative, got %v", c.DragDeadZone)
	}
	if c.UndoLimit < 0 {
		return fmt.Errorf("trellis: undo_limit must not be negative, got %d", c.UndoLimit)
	}
	if c.ViewportWidth < 0 || c.ViewportHeight < 0 {
		return fmt.Errorf("trellis: viewport size must not be negative, got %vx%v", c.ViewportWidth, c.ViewportHeight)
	}
	switch c.LogFormat {
	case "", "text", "json", "prefixed":
	default:
		return fmt.Errorf("trellis: unknown log_format %q", c.LogFormat)
	}
	return nil
}
