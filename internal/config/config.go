// Package config provides configuration loading and validation for Windward.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/windwardhq/windward/pkg/pathutil"
)

// ErrInvalidConfig wraps every validation failure so callers can test
// with errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// Output formats accepted in output.formats.
var validFormats = map[string]bool{
	"table":    true,
	"markdown": true,
	"html":     true,
	"json":     true,
}

// Config is the complete analysis configuration. The zero value is
// usable: Validate fills in defaults.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Graph    GraphConfig    `yaml:"graph,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
}

// AnalysisConfig tunes the risk engine.
type AnalysisConfig struct {
	TopN               int    `yaml:"top_n"`
	CarryoverThreshold int    `yaml:"carryover_threshold"`
	ReferenceDate      string `yaml:"reference_date,omitempty"`
	Workers            int    `yaml:"workers"`
}

// GraphConfig tunes dependency graph construction.
type GraphConfig struct {
	ExtraKeywords []string `yaml:"extra_keywords,omitempty"`
}

// OutputConfig controls where and how artifacts are written.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	validPath, err := pathutil.ValidateConfigPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(validPath) //nolint:gosec // Path validated above
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate applies defaults to unset fields and rejects out-of-range
// values. It is safe to call on a zero-value Config.
func (c *Config) Validate() error {
	if c.Analysis.TopN == 0 {
		c.Analysis.TopN = 5
	}
	if c.Analysis.TopN < 1 {
		return fmt.Errorf("%w: analysis.top_n must be at least 1, got %d", ErrInvalidConfig, c.Analysis.TopN)
	}

	if c.Analysis.CarryoverThreshold == 0 {
		c.Analysis.CarryoverThreshold = 3
	}
	if c.Analysis.CarryoverThreshold < 1 {
		return fmt.Errorf("%w: analysis.carryover_threshold must be at least 1, got %d",
			ErrInvalidConfig, c.Analysis.CarryoverThreshold)
	}

	if c.Analysis.Workers == 0 {
		c.Analysis.Workers = 1
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("%w: analysis.workers must be at least 1, got %d", ErrInvalidConfig, c.Analysis.Workers)
	}

	if c.Analysis.ReferenceDate != "" {
		if _, err := time.Parse("2006-01-02", c.Analysis.ReferenceDate); err != nil {
			return fmt.Errorf("%w: analysis.reference_date must be YYYY-MM-DD: %v",
				ErrInvalidConfig, err)
		}
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"table"}
	}
	for _, format := range c.Output.Formats {
		if !validFormats[format] {
			return fmt.Errorf("%w: unknown output format %q (valid: table, markdown, html, json)",
				ErrInvalidConfig, format)
		}
	}

	return nil
}

// ReferenceTime returns the configured reference date, or now when unset.
// Validate has already checked the format.
func (c *Config) ReferenceTime() time.Time {
	if c.Analysis.ReferenceDate == "" {
		return time.Now()
	}
	t, err := time.Parse("2006-01-02", c.Analysis.ReferenceDate)
	if err != nil {
		return time.Now()
	}
	return t
}
