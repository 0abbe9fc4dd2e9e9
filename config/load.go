package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// The result is already clamped to the documented bounds.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)
	cfg.Clamp()

	return cfg, nil
}

// findConfigFile looks for a config next to the working directory.
func findConfigFile() string {
	if _, err := os.Stat("./bsp2map.yaml"); err == nil {
		return "./bsp2map.yaml"
	}
	return ""
}

// loadFromFile loads config from a YAML file, merging with existing
// values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
