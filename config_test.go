package trellis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0.0, cfg.DragDeadZone)
	assert.Equal(t, 640.0, cfg.ViewportWidth)
	assert.Equal(t, 480.0, cfg.ViewportHeight)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfigOverlays(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseConfig([]byte("drag_dead_zone: 3.5\nbase_priority: -2\nread_only: true\n"), &cfg)
	require.NoError(t, err)

	assert.Equal(t, 3.5, cfg.DragDeadZone)
	assert.Equal(t, -2, cfg.BasePriority)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, 640.0, cfg.ViewportWidth, "absent keys keep their value")
}

func TestParseConfigInvalid(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, ParseConfig([]byte("drag_dead_zone: [1, 2"), &cfg))
}

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trellis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("undo_limit: 10\ndrag_dead_zone: 2\n"), 0o600))
	t.Setenv("TRELLIS_DRAG_DEAD_ZONE", "6")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.UndoLimit)
	assert.Equal(t, 6.0, cfg.DragDeadZone, "environment wins over the file")
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")

	t.Setenv("TRELLIS_UNDO_LIMIT", "many")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "environment")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative dead zone", func(c *Config) { c.DragDeadZone = -1 }, "drag_dead_zone"},
		{"negative undo limit", func(c *Config) { c.UndoLimit = -1 }, "undo_limit"},
		{"negative viewport", func(c *Config) { c.ViewportWidth = -5 }, "viewport size"},
		{"unknown format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	l := newLogger(Config{LogLevel: "warn", LogFormat: "prefixed"})
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.IsType(t, &prefixed.TextFormatter{}, l.Formatter)

	l = newLogger(Config{LogLevel: "bogus"})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)

	l = newLogger(Config{LogLevel: "error", Debug: true})
	assert.Equal(t, logrus.DebugLevel, l.GetLevel(), "debug mode raises verbosity")
}

func TestNodeFields(t *testing.T) {
	n := NewShape("card", 1, 1)
	f := nodeFields(n)
	assert.Equal(t, "card", f["node"])
	assert.Equal(t, n.ID.String(), f["node_id"])
	assert.Equal(t, "<nil>", nodeFields(nil)["node"])
}
