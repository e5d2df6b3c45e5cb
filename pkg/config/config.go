// Package config provides configuration loading and management for nd2array.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"nd2array/pkg/channels"
	"nd2array/pkg/reader"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Channel naming parameters
	Naming struct {
		// RepeatSuffix is appended to a channel name already used by an earlier plane
		RepeatSuffix string `yaml:"repeatSuffix"`
	} `yaml:"naming"`

	// Reader parameters
	Reader struct {
		// Manifest is the name of the manifest file inside a stack directory
		Manifest string `yaml:"manifest"`
	} `yaml:"reader"`

	// Output parameters
	Output struct {
		// Verbose prints the declared dimensions and the detected pattern
		Verbose bool `yaml:"verbose"`

		// SavePreviews writes one image per assembled frame
		SavePreviews bool `yaml:"savePreviews"`

		// PreviewDir is where previews are written
		PreviewDir string `yaml:"previewDir"`

		// PreviewFormat is png or jpeg
		PreviewFormat string `yaml:"previewFormat"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Naming.RepeatSuffix = channels.DefaultRepeatSuffix

	cfg.Reader.Manifest = reader.DefaultManifest

	cfg.Output.Verbose = false
	cfg.Output.SavePreviews = false
	cfg.Output.PreviewDir = "previews"
	cfg.Output.PreviewFormat = "png"

	return cfg
}

// Validate checks the values that have a closed set of choices
func (c *Config) Validate() error {
	switch c.Output.PreviewFormat {
	case "png", "jpeg", "jpg":
	default:
		return fmt.Errorf("invalid preview format %q (must be png or jpeg)", c.Output.PreviewFormat)
	}
	if c.Naming.RepeatSuffix == "" {
		return fmt.Errorf("repeat suffix must not be empty")
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error in config file %s: %w", configPath, err)
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

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
