// Package config provides configuration loading and management for the wand
// MCP server. It handles loading configuration from YAML files and provides
// default values for every wand parameter, so tool calls only need to pass
// the settings they want to override.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/particlekit/wand-tools-mcp/internal/wand"
)

// Config represents the server configuration loaded from YAML
type Config struct {
	// Wand holds the default tolerance settings applied to wand_select
	// calls that omit them.
	Wand struct {
		// ValueTolerance is the default grayscale/color tolerance.
		ValueTolerance float64 `yaml:"valueTolerance"`

		// ColorSensitivity blends brightness-only (-1) through Euclidean
		// (0) to hue-only (+1) color matching.
		ColorSensitivity float64 `yaml:"colorSensitivity"`

		// GradientTolerance stops region growth at strong edges; zero
		// disables the gate.
		GradientTolerance float64 `yaml:"gradientTolerance"`

		// Connectivity is "8-connected", "4-connected" or
		// "non-contiguous".
		Connectivity string `yaml:"connectivity"`

		// IncludeHoles fills interior holes in grown regions.
		IncludeHoles bool `yaml:"includeHoles"`
	} `yaml:"wand"`

	// Calibration maps pixels to physical units for gradient scaling and
	// measurements.
	Calibration struct {
		// PixelWidth is the physical width of one pixel.
		PixelWidth float64 `yaml:"pixelWidth"`

		// PixelHeight is the physical height of one pixel.
		PixelHeight float64 `yaml:"pixelHeight"`

		// Unit is the spatial unit name, e.g. "um" or "mm".
		Unit string `yaml:"unit"`
	} `yaml:"calibration"`

	// Render controls default selection overlay colors.
	Render struct {
		// OutlineColor is the boundary color as "#RRGGBB" or "#RRGGBBAA".
		OutlineColor string `yaml:"outlineColor"`

		// FillColor is the translucent fill color; empty disables fill.
		FillColor string `yaml:"fillColor"`
	} `yaml:"render"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Wand.ValueTolerance = 20
	cfg.Wand.ColorSensitivity = 0
	cfg.Wand.GradientTolerance = 0
	cfg.Wand.Connectivity = "8-connected"
	cfg.Wand.IncludeHoles = false

	cfg.Calibration.PixelWidth = 1.0
	cfg.Calibration.PixelHeight = 1.0
	cfg.Calibration.Unit = "pixel"

	cfg.Render.OutlineColor = "#FFFF00"
	cfg.Render.FillColor = "#FFFF0040"

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if _, err := wand.ParseConnectivity(cfg.Wand.Connectivity); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// WandParams converts the configured defaults into a wand.Params value.
func (c *Config) WandParams() (wand.Params, error) {
	conn, err := wand.ParseConnectivity(c.Wand.Connectivity)
	if err != nil {
		return wand.Params{}, err
	}
	return wand.Params{
		ValueTolerance:    c.Wand.ValueTolerance,
		ColorSensitivity:  c.Wand.ColorSensitivity,
		GradientTolerance: c.Wand.GradientTolerance,
		Connectivity:      conn,
		IncludeHoles:      c.Wand.IncludeHoles,
	}, nil
}

// WandCalibration converts the configured calibration into a
// wand.Calibration, or nil when the configuration leaves images
// uncalibrated.
func (c *Config) WandCalibration() *wand.Calibration {
	if c.Calibration.PixelWidth == 1.0 && c.Calibration.PixelHeight == 1.0 &&
		(c.Calibration.Unit == "" || c.Calibration.Unit == "pixel") {
		return nil
	}
	return &wand.Calibration{
		PixelWidth:  c.Calibration.PixelWidth,
		PixelHeight: c.Calibration.PixelHeight,
		Unit:        c.Calibration.Unit,
	}
}
