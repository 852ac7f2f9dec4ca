package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30.0, cfg.Link.Distance)
	assert.Equal(t, 0.5, cfg.Link.UpdateFraction)
	assert.Equal(t, 2.0, cfg.Link.UpdateMultiplier)
	assert.Equal(t, 1, cfg.Link.Iterations)
	assert.Nil(t, cfg.Link.Strength)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
layout:
  width: 1200
  max_iterations: 250
link:
  distance: 45
  strength: 0.25
  update_fraction: 0.1
  update_multiplier: 10
  strict_ids: true
  jitter_seed: 7
charge:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, cfg.Layout.Width)
	assert.Equal(t, 600.0, cfg.Layout.Height, "unset fields keep their defaults")
	assert.Equal(t, 250, cfg.Layout.MaxIterations)
	assert.Equal(t, 45.0, cfg.Link.Distance)
	require.NotNil(t, cfg.Link.Strength)
	assert.Equal(t, 0.25, *cfg.Link.Strength)
	assert.Equal(t, 0.1, cfg.Link.UpdateFraction)
	assert.Equal(t, 10.0, cfg.Link.UpdateMultiplier)
	assert.True(t, cfg.Link.StrictIDs)
	require.NotNil(t, cfg.Link.JitterSeed)
	assert.Equal(t, int64(7), *cfg.Link.JitterSeed)
	assert.False(t, cfg.Charge.Enabled)
	assert.Equal(t, -30.0, cfg.Charge.Strength)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeFile(t, `
layout:
  width: -1
  velocity_decay: 2
link:
  iterations: -4
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "width and height")
	assert.Contains(t, err.Error(), "velocity_decay")
	assert.Contains(t, err.Error(), "iterations")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeFile(t, "layout: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
