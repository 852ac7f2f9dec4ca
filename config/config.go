// Package config loads layout settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a layout run.
type Config struct {
	Layout LayoutConfig `yaml:"layout"`
	Link   LinkConfig   `yaml:"link"`
	Charge ChargeConfig `yaml:"charge"`
}

// LayoutConfig controls the simulation loop.
type LayoutConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	MaxIterations int     `yaml:"max_iterations"`
	AlphaMin      float64 `yaml:"alpha_min"`
	VelocityDecay float64 `yaml:"velocity_decay"`
}

// LinkConfig controls the sampled link force.
type LinkConfig struct {
	Distance float64 `yaml:"distance"`
	// Strength overrides the degree-based default when set.
	Strength *float64 `yaml:"strength,omitempty"`
	// UpdateFraction is the share of links processed per tick.
	UpdateFraction   float64 `yaml:"update_fraction"`
	UpdateMultiplier float64 `yaml:"update_multiplier"`
	Iterations       int     `yaml:"iterations"`
	StrictIDs        bool    `yaml:"strict_ids"`
	// JitterSeed makes coincident-node jitter reproducible when set.
	JitterSeed *int64 `yaml:"jitter_seed,omitempty"`
}

// ChargeConfig controls the many-body repulsion.
type ChargeConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Strength    float64 `yaml:"strength"`
	DistanceMax float64 `yaml:"distance_max"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			Width:         800,
			Height:        600,
			MaxIterations: 1000,
			AlphaMin:      0.001,
			VelocityDecay: 0.4,
		},
		Link: LinkConfig{
			Distance:         30,
			UpdateFraction:   0.5,
			UpdateMultiplier: 2,
			Iterations:       1,
		},
		Charge: ChargeConfig{
			Enabled:  true,
			Strength: -30,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the settings describe a runnable layout.
func (c Config) Validate() error {
	var errs []error
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		errs = append(errs, errors.New("layout width and height must be positive"))
	}
	if c.Layout.MaxIterations < 0 {
		errs = append(errs, errors.New("layout max_iterations must not be negative"))
	}
	if c.Layout.VelocityDecay < 0 || c.Layout.VelocityDecay > 1 {
		errs = append(errs, errors.New("layout velocity_decay must be within [0,1]"))
	}
	if c.Link.UpdateFraction < 0 {
		errs = append(errs, errors.New("link update_fraction must not be negative"))
	}
	if c.Link.Iterations < 0 {
		errs = append(errs, errors.New("link iterations must not be negative"))
	}
	return errors.Join(errs...)
}
