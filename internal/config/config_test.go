package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Default()
	cfg.MappingPath = "map.txt"
	cfg.CoordinatesPath = "coords.tsv"
	cfg.GradientCategory = "DOB"
	cfg.TrajectoryCategory = "Treatment"
	return cfg
}

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no mapping", func(c *Config) { c.MappingPath = "" }},
		{"no coordinates", func(c *Config) { c.CoordinatesPath = "" }},
		{"no gradient", func(c *Config) { c.GradientCategory = "" }},
		{"no trajectory", func(c *Config) { c.TrajectoryCategory = "" }},
		{"zero speed", func(c *Config) { c.SuppliedN = 0 }},
		{"negative max n", func(c *Config) { c.MaxN = -1 }},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1 }},
		{"odd width", func(c *Config) { c.Width = 1279 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateDryRunSkipsVideoSettings(t *testing.T) {
	cfg := validConfig()
	cfg.DryRun = true
	cfg.FPS = 0
	cfg.Width = 0
	cfg.Workers = 0

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "mapping: data/map.txt\ncoordinates: data/pcoa.tsv\ngradient: DOB\ntrajectory: Treatment\nspeed: 10\nfps: 24\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/map.txt", cfg.MappingPath)
	assert.Equal(t, "data/pcoa.tsv", cfg.CoordinatesPath)
	assert.Equal(t, 10, cfg.SuppliedN)
	assert.Equal(t, 24, cfg.FPS)
	// Unset keys keep their defaults.
	assert.Equal(t, 0, cfg.MaxN)
	assert.Equal(t, 1280, cfg.Width)
	require.NoError(t, cfg.Validate())
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("speed: [1, 2"), 0644))

	_, err := Load(path)
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
