// Package config holds the configuration of the spline editor: the initial
// ring of control points, edit parameters, curve parameters and the canvas.
//
// Configuration is read from an optional YAML file. Missing values are
// filled with defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/splinedit"
	"github.com/npillmayer/splinedit/hermite"
	"github.com/npillmayer/splinedit/tangent"
	"gopkg.in/yaml.v3"
)

// ErrInvalid indicates an invalid configuration value.
var ErrInvalid = errors.New("invalid configuration")

// Tangent strategies.
const (
	StrategyCatmullRom = "catmull-rom"
	StrategyNormalized = "normalized"
)

// Config represents splinedit.yaml.
type Config struct {
	Ring   RingConfig   `yaml:"ring"`
	Edit   EditConfig   `yaml:"edit"`
	Curve  CurveConfig  `yaml:"curve"`
	Canvas CanvasConfig `yaml:"canvas"`
}

// RingConfig describes the initial layout of control points on a circle.
type RingConfig struct {
	Points     int     `yaml:"points"`
	Radius     float64 `yaml:"radius"`
	CenterX    float64 `yaml:"center_x"`
	CenterY    float64 `yaml:"center_y"`
	StartAngle float64 `yaml:"start_angle"` // degrees
	Seed       uint64  `yaml:"seed"`        // 0 = seed from clock
}

// EditConfig contains edit parameters.
type EditConfig struct {
	Speed  float64 `yaml:"speed"`
	Jitter float64 `yaml:"jitter"`
}

// CurveConfig contains curve parameters.
type CurveConfig struct {
	Tension          float64 `yaml:"tension"`
	SampleStep       float64 `yaml:"sample_step"`
	Strategy         string  `yaml:"strategy"`
	TangentMagnitude float64 `yaml:"tangent_magnitude"`
}

// CanvasConfig is the size of the drawing area in curve coordinates.
type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Default returns the default configuration: 10 points on a circle of
// radius 150 in the middle of a 500×500 canvas.
func Default() *Config {
	return &Config{
		Ring: RingConfig{
			Points:  10,
			Radius:  150,
			CenterX: 250,
			CenterY: 250,
		},
		Edit: EditConfig{
			Speed:  2,
			Jitter: 10,
		},
		Curve: CurveConfig{
			Tension:          0.5,
			SampleStep:       0.01,
			Strategy:         StrategyCatmullRom,
			TangentMagnitude: 15,
		},
		Canvas: CanvasConfig{
			Width:  500,
			Height: 500,
		},
	}
}

// Load reads a configuration file on top of the defaults. An empty path
// or a missing file results in the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize brings free-form values into canonical form. Strategy names are
// case-insensitive.
func (cfg *Config) Normalize() {
	cfg.Curve.Strategy = strings.ToLower(strings.TrimSpace(cfg.Curve.Strategy))
}

// Validate checks all values for their admissible range.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Ring.Points < 2:
		return fmt.Errorf("%w: ring needs at least 2 points, got %d", ErrInvalid, cfg.Ring.Points)
	case !(cfg.Ring.Radius > 0):
		return fmt.Errorf("%w: radius must be > 0, got %g", ErrInvalid, cfg.Ring.Radius)
	case !(cfg.Edit.Speed > 0):
		return fmt.Errorf("%w: speed must be > 0, got %g", ErrInvalid, cfg.Edit.Speed)
	case cfg.Edit.Jitter < 0:
		return fmt.Errorf("%w: jitter must not be negative, got %g", ErrInvalid, cfg.Edit.Jitter)
	case !(cfg.Curve.Tension >= 0 && cfg.Curve.Tension <= 1):
		return fmt.Errorf("%w: tension must be in [0,1], got %g", ErrInvalid, cfg.Curve.Tension)
	case cfg.Curve.SampleStep > 1:
		return fmt.Errorf("%w: sample step must be in (0,1], got %g", ErrInvalid, cfg.Curve.SampleStep)
	case !(cfg.Canvas.Width > 0 && cfg.Canvas.Height > 0):
		return fmt.Errorf("%w: canvas must not be empty", ErrInvalid)
	}
	if err := hermite.CheckStep(cfg.Curve.SampleStep); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := cfg.TangentStrategy(); err != nil {
		return err
	}
	return nil
}

// Center returns the center of the initial ring.
func (cfg *Config) Center() splinedit.Pair {
	return splinedit.P(cfg.Ring.CenterX, cfg.Ring.CenterY)
}

// StartAngle returns the angle of the first point in radians.
func (cfg *Config) StartAngle() float64 {
	return cfg.Ring.StartAngle * splinedit.Deg2Rad
}

// TangentStrategy returns the configured tangent strategy.
func (cfg *Config) TangentStrategy() (tangent.Strategy, error) {
	switch cfg.Curve.Strategy {
	case "", StrategyCatmullRom:
		return tangent.CatmullRom{}, nil
	case StrategyNormalized:
		if !(cfg.Curve.TangentMagnitude > 0) {
			return nil, fmt.Errorf("%w: tangent magnitude must be > 0, got %g",
				ErrInvalid, cfg.Curve.TangentMagnitude)
		}
		return tangent.Normalized{Magnitude: cfg.Curve.TangentMagnitude}, nil
	}
	return nil, fmt.Errorf("%w: unknown tangent strategy %q", ErrInvalid, cfg.Curve.Strategy)
}
