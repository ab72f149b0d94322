package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 320, cfg.Image.DefaultSize)
	assert.Equal(t, 2000, cfg.Image.MaxSize)
	assert.Equal(t, int64(10<<20), cfg.Fetch.MaxBytes)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(89478485), cfg.Image.MaxPixels)
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: "9090"
fetch:
  timeout: 3s
  max_bytes: 2048
image:
  default_size: 400
color:
  header: X-Color
  saturation_ceiling: 0.9
  lightness_min: 0.05
  lightness_max: 0.25
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(2048), cfg.Fetch.MaxBytes)
	assert.Equal(t, 400, cfg.Image.DefaultSize)
	// untouched keys keep defaults
	assert.Equal(t, 2000, cfg.Image.MaxSize)
	assert.Equal(t, "X-Color", cfg.Color.Header)
	assert.Equal(t, 0.9, cfg.Color.SaturationCeiling)
	assert.Equal(t, 0.5, cfg.Color.SaturationScale)
	assert.Equal(t, 0.05, cfg.Color.LightnessMin)
	assert.Equal(t, 0.25, cfg.Color.LightnessMax)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"zero timeout":        func(c *Config) { c.Fetch.Timeout = 0 },
		"zero max bytes":      func(c *Config) { c.Fetch.MaxBytes = 0 },
		"default over max":    func(c *Config) { c.Image.DefaultSize = 2001 },
		"default zero":        func(c *Config) { c.Image.DefaultSize = 0 },
		"zero max pixels":     func(c *Config) { c.Image.MaxPixels = 0 },
		"pad over max":        func(c *Config) { c.Image.DefaultPad = 600 },
		"no header":           func(c *Config) { c.Color.Header = "" },
		"negative scale":      func(c *Config) { c.Color.SaturationScale = -1 },
		"ceiling too high":    func(c *Config) { c.Color.SaturationCeiling = 0.95 },
		"lightness too dark":  func(c *Config) { c.Color.LightnessMin = 0.01 },
		"lightness too light": func(c *Config) { c.Color.LightnessMax = 0.6 },
		"band inverted": func(c *Config) {
			c.Color.LightnessMin = 0.3
			c.Color.LightnessMax = 0.2
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "7070")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}
