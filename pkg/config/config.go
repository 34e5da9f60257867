// Package config loads run settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chazu/heft/pkg/graph"
	"github.com/chazu/heft/pkg/mass"
)

// Log levels accepted in log_level.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config holds run settings. Zero fields fall back to Default.
type Config struct {
	Precision int    `json:"precision" yaml:"precision"`
	Units     string `json:"units,omitempty" yaml:"units,omitempty"` // overrides the design unit when set
	LogLevel  string `json:"log_level" yaml:"log_level"`
	Variant   string `json:"variant,omitempty" yaml:"variant,omitempty"`

	// EvalTimeout bounds design evaluation; zero keeps the engine default.
	EvalTimeout time.Duration `json:"eval_timeout,omitempty" yaml:"eval_timeout,omitempty"`

	// Materials replaces the preset density table, in order.
	Materials []mass.MaterialDensity `json:"materials,omitempty" yaml:"materials,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Precision: mass.DefaultPrecision,
		LogLevel:  "warn",
	}
}

// Load reads and validates a YAML config file. Missing keys keep their
// defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	c, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// LoadYAML decodes config from a YAML reader over the defaults.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	var problems []string

	if !mass.ValidPrecisions[c.Precision] {
		problems = append(problems, fmt.Sprintf("precision %d must be 4, 6 or 8", c.Precision))
	}
	if c.Units != "" && !graph.ValidUnits[c.Units] {
		problems = append(problems, fmt.Sprintf("unknown units %q", c.Units))
	}
	if c.EvalTimeout < 0 {
		problems = append(problems, fmt.Sprintf("eval_timeout %s must not be negative", c.EvalTimeout))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}
	if len(c.Materials) > 0 {
		if _, err := mass.NewMaterialTable(c.Materials...); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Table returns the configured material table, or the zero table when the
// config does not override it.
func (c *Config) Table() (mass.MaterialTable, error) {
	if len(c.Materials) == 0 {
		return mass.MaterialTable{}, nil
	}
	return mass.NewMaterialTable(c.Materials...)
}
