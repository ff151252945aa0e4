package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	MappingPath        string  `yaml:"mapping"`
	CoordinatesPath    string  `yaml:"coordinates"`
	OutputVideo        string  `yaml:"output"`
	PlanOutput         string  `yaml:"plan"`
	StoryboardOutput   string  `yaml:"storyboard"`
	GradientCategory   string  `yaml:"gradient"`
	TrajectoryCategory string  `yaml:"trajectory"`
	SuppliedN          int     `yaml:"speed"`
	MaxN               int     `yaml:"max_n"`
	Padding            bool    `yaml:"padding"`
	Epsilon            float64 `yaml:"epsilon"`
	Width              int     `yaml:"width"`
	Height             int     `yaml:"height"`
	FPS                int     `yaml:"fps"`
	Workers            int     `yaml:"workers"`
	VideoEncoder       string  `yaml:"encoder"`
	Quality            int     `yaml:"quality"`
	DryRun             bool    `yaml:"dry_run"`
	ShowStats          bool    `yaml:"stats"`
	BuildVersion       string  `yaml:"-"`
}

type FrameParams struct {
	Width, Height int
	FPS           int
	Frames        int
}

// Default returns the configuration used when neither flags nor a config file set a value.
func Default() *Config {
	return &Config{
		SuppliedN: 5,
		MaxN:      0, // uncapped
		Padding:   true,
		Epsilon:   1e-4,
		Width:     1280,
		Height:    720,
		FPS:       30,
		Workers:   1,
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration describes a runnable animation.
func (c *Config) Validate() error {
	var errs []error
	if c.MappingPath == "" {
		errs = append(errs, errors.New("mapping file is required"))
	}
	if c.CoordinatesPath == "" {
		errs = append(errs, errors.New("coordinates file is required"))
	}
	if c.GradientCategory == "" {
		errs = append(errs, errors.New("gradient category is required"))
	}
	if c.TrajectoryCategory == "" {
		errs = append(errs, errors.New("trajectory category is required"))
	}
	if c.SuppliedN < 1 {
		errs = append(errs, fmt.Errorf("speed must be positive, got %d", c.SuppliedN))
	}
	if c.MaxN < 0 {
		errs = append(errs, fmt.Errorf("max-n must not be negative, got %d", c.MaxN))
	}
	if c.Epsilon < 0 {
		errs = append(errs, fmt.Errorf("epsilon must not be negative, got %v", c.Epsilon))
	}
	if !c.DryRun {
		if c.Width <= 0 || c.Height <= 0 || c.Width%2 != 0 || c.Height%2 != 0 {
			errs = append(errs, fmt.Errorf("frame size must be positive and even, got %dx%d", c.Width, c.Height))
		}
		if c.FPS <= 0 {
			errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
		}
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return errors.Join(errs...)
}

// Params returns the frame parameters for an animation of n frames.
func (c *Config) Params(n int) FrameParams {
	return FrameParams{
		Width:  c.Width,
		Height: c.Height,
		FPS:    c.FPS,
		Frames: n,
	}
}
