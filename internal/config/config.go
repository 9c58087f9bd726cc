// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Categories []string `yaml:"categories"`
		Format     string   `yaml:"format"`
		Verbose    bool     `yaml:"verbose"`
		Debug      bool     `yaml:"debug"`
		NoColor    bool     `yaml:"no_color"`
	} `yaml:"defaults"`

	// Redaction behavior
	Redaction struct {
		PaddingPoints float64 `yaml:"padding_points"`
		FillColor     string  `yaml:"fill_color"`
		ScrubMetadata bool    `yaml:"scrub_metadata"`
		OutputDir     string  `yaml:"output_dir"`
	} `yaml:"redaction"`

	// Furniture stamped onto redacted output
	Furniture struct {
		HeaderText string  `yaml:"header_text"`
		FooterText string  `yaml:"footer_text"`
		LogoPath   string  `yaml:"logo_path"`
		EdgeOffset float64 `yaml:"edge_offset"`
		BandHeight float64 `yaml:"band_height"`
		FontSize   int     `yaml:"font_size"`
	} `yaml:"furniture"`

	// Batch processing
	Batch struct {
		Workers int `yaml:"workers"`
	} `yaml:"batch"`

	// HTTP server
	Server struct {
		Addr            string `yaml:"addr"`
		MaxUploadMB     int64  `yaml:"max_upload_mb"`
		ShutdownSeconds int    `yaml:"shutdown_seconds"`
	} `yaml:"server"`
}

// DefaultConfig returns the built-in defaults: all categories, native
// PDF output, black fills with a point of padding, and the standard
// footer applied by the composer when footer_text stays empty.
func DefaultConfig() *Config {
	c := &Config{}
	c.Defaults.Format = "pdf"
	c.Redaction.PaddingPoints = 1.0
	c.Redaction.FillColor = "#000000"
	c.Redaction.ScrubMetadata = true
	c.Furniture.EdgeOffset = 30
	c.Furniture.BandHeight = 50
	c.Furniture.FontSize = 10
	c.Server.Addr = ":8080"
	c.Server.MaxUploadMB = 25
	c.Server.ShutdownSeconds = 10
	return c
}

// LoadConfig loads configuration from a YAML file over the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Defaults that YAML absence must not zero out
	defaultScrub := config.Redaction.ScrubMetadata

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if !containsField(data, "redaction", "scrub_metadata") {
		config.Redaction.ScrubMetadata = defaultScrub
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	candidates := []string{
		"config.yaml",
		"resume-redact.yaml",
		"resume-redact.yml",
		".resume-redact.yaml",
		".resume-redact.yml",
	}
	for _, name := range candidates {
		if fileExists(name) {
			return name
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		standard := filepath.Join(home, ".resume-redact", "config.yaml")
		if fileExists(standard) {
			return standard
		}
	}
	return ""
}

// LoadConfigOrDefault loads the named file, falls back to discovery,
// and finally to defaults. Load errors from an explicitly named file
// are reported on stderr but never fatal.
func LoadConfigOrDefault(configFile string) *Config {
	if configFile == "" {
		configFile = FindConfigFile()
	}
	if configFile == "" {
		return DefaultConfig()
	}
	config, err := LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		return DefaultConfig()
	}
	return config
}

// ValidateConfig checks values that would otherwise fail deep inside a
// redaction run.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}
	switch config.Defaults.Format {
	case "", "pdf", "docx":
	default:
		return fmt.Errorf("invalid format %q (expected pdf or docx)", config.Defaults.Format)
	}
	if config.Redaction.PaddingPoints < 0 {
		return fmt.Errorf("padding_points must not be negative")
	}
	if config.Redaction.FillColor != "" {
		if _, err := ParseHexColor(config.Redaction.FillColor); err != nil {
			return err
		}
	}
	if config.Batch.Workers < 0 {
		return fmt.Errorf("batch workers must not be negative")
	}
	if config.Server.MaxUploadMB < 0 {
		return fmt.Errorf("max_upload_mb must not be negative")
	}
	return nil
}

// ParseHexColor parses "#RRGGBB" into components in [0,1].
func ParseHexColor(s string) ([3]float64, error) {
	var rgb [3]float64
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return rgb, fmt.Errorf("invalid fill color %q (expected #RRGGBB)", s)
	}
	for i := 0; i < 3; i++ {
		var v int
		if _, err := fmt.Sscanf(h[i*2:i*2+2], "%02x", &v); err != nil {
			return rgb, fmt.Errorf("invalid fill color %q (expected #RRGGBB)", s)
		}
		rgb[i] = float64(v) / 255
	}
	return rgb, nil
}

// containsField checks if a field path exists in the raw YAML data
func containsField(data []byte, path ...string) bool {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false
	}
	current := raw
	for i, field := range path {
		value, exists := current[field]
		if !exists {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
