package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	imagepkg "github.com/youruser/imgconvert/internal/image"
)

// Config represents the service configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Image  ImageConfig  `yaml:"image"`
	Color  ColorConfig  `yaml:"color"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	UserAgent string        `yaml:"user_agent"`
}

type ImageConfig struct {
	DefaultSize int   `yaml:"default_size"`
	MaxSize     int   `yaml:"max_size"`
	MaxPixels   int64 `yaml:"max_pixels"`
	DefaultPad  int   `yaml:"default_pad"`
	MaxPad      int   `yaml:"max_pad"`
}

type ColorConfig struct {
	Header               string `yaml:"header"`
	imagepkg.ColorPolicy `yaml:",inline"`
}

// Policy bands accepted by Validate.
const (
	maxSaturationCeiling = 0.9
	minLightness         = 0.05
	maxLightness         = 0.4
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Fetch: FetchConfig{
			Timeout:   10 * time.Second,
			MaxBytes:  10 << 20,
			UserAgent: "imgconvert/1.0",
		},
		Image: ImageConfig{
			DefaultSize: 320,
			MaxSize:     2000,
			MaxPixels:   imagepkg.DefaultMaxPixels,
			DefaultPad:  32,
			MaxPad:      512,
		},
		Color: ColorConfig{
			Header:      "X-Background-Color",
			ColorPolicy: imagepkg.DefaultColorPolicy,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// FromEnv loads an optional .env file, then the YAML file named by
// CONFIG_PATH, then applies PORT.
func FromEnv() (*Config, error) {
	// missing .env is fine
	_ = godotenv.Load()

	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return nil, err
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.MaxBytes <= 0 {
		return fmt.Errorf("fetch.max_bytes must be positive")
	}
	if c.Image.MaxSize < 1 {
		return fmt.Errorf("image.max_size must be at least 1")
	}
	if c.Image.MaxPixels < 1 {
		return fmt.Errorf("image.max_pixels must be at least 1")
	}
	if c.Image.DefaultSize < 1 || c.Image.DefaultSize > c.Image.MaxSize {
		return fmt.Errorf("image.default_size must be between 1 and %d", c.Image.MaxSize)
	}
	if c.Image.MaxPad < 0 || c.Image.DefaultPad < 0 || c.Image.DefaultPad > c.Image.MaxPad {
		return fmt.Errorf("image.default_pad must be between 0 and image.max_pad")
	}
	if c.Color.Header == "" {
		return fmt.Errorf("color.header is required")
	}
	p := c.Color.ColorPolicy
	if p.SaturationScale < 0 {
		return fmt.Errorf("color.saturation_scale must not be negative")
	}
	if p.SaturationCeiling < 0 || p.SaturationCeiling > maxSaturationCeiling {
		return fmt.Errorf("color.saturation_ceiling must be between 0 and %v", maxSaturationCeiling)
	}
	if p.LightnessMin < minLightness || p.LightnessMax > maxLightness || p.LightnessMin > p.LightnessMax {
		return fmt.Errorf("color lightness band must lie within [%v, %v]", minLightness, maxLightness)
	}
	return nil
}
