// Package config handles converter configuration loading and
// management.
package config

// Config holds all converter settings.
type Config struct {
	GridSnap           float64       `yaml:"grid_snap"`
	CoordinateDecimals int           `yaml:"coordinate_decimals"`
	MinEdgeLength      float64       `yaml:"min_edge_length"`
	DefaultTexture     string        `yaml:"default_texture"`
	FixTexturePaths    bool          `yaml:"fix_texture_paths"`
	SkipProblemBrushes bool          `yaml:"skip_problem_brushes"`
	Verbose            bool          `yaml:"verbose"`
	Logging            LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Bounds for the numeric settings. Out-of-range values are clamped,
// not rejected.
const (
	MinGridSnap = 0.125
	MaxGridSnap = 16.0

	MinCoordinateDecimals = 0
	MaxCoordinateDecimals = 6

	MinMinEdgeLength = 0.01
	MaxMinEdgeLength = 1.0
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		GridSnap:           0.25,
		CoordinateDecimals: 3,
		MinEdgeLength:      0.125,
		DefaultTexture:     "base_metal/metal1_1",
		FixTexturePaths:    true,
		SkipProblemBrushes: true,
		Verbose:            false,
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Clamp forces the numeric settings into their documented bounds.
func (c *Config) Clamp() {
	c.GridSnap = clampF(c.GridSnap, MinGridSnap, MaxGridSnap)
	c.CoordinateDecimals = clampI(c.CoordinateDecimals, MinCoordinateDecimals, MaxCoordinateDecimals)
	c.MinEdgeLength = clampF(c.MinEdgeLength, MinMinEdgeLength, MaxMinEdgeLength)
	if c.DefaultTexture == "" {
		c.DefaultTexture = Default().DefaultTexture
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
