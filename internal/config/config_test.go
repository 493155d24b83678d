package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Noise.Octaves)
	assert.Equal(t, WorldBase, cfg.Planet.World)
	assert.Equal(t, 2, cfg.Classifier.SlopeRadius)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planet.yaml")
	data := []byte(`
planet:
  subdivisions: 3
  world: ground
  seeds:
    height: 42
noise:
  lanes: 4
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Planet.Subdivisions)
	assert.Equal(t, WorldGround, cfg.Planet.World)
	assert.Equal(t, int64(42), cfg.Planet.Seeds.Height)
	assert.Equal(t, int64(5), cfg.Planet.Seeds.Wetness, "unset seeds keep defaults")
	assert.Equal(t, 4, cfg.Noise.Lanes)
	assert.Equal(t, 6, cfg.Noise.Shards)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planet.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"planet":{"world":"sky","subdivisions":11}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, WorldSky, cfg.Planet.World)
	assert.Equal(t, 11, cfg.Planet.Subdivisions)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planet.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"planet":{"world":"moon"}}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Planet.Subdivisions = -1
	cfg.Planet.World = "moon"
	cfg.Noise.Lanes = 3
	cfg.Classifier.SlopeRadius = -2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)
}

func TestValidateSubdivisionCap(t *testing.T) {
	cfg := Default()
	cfg.Planet.Subdivisions = MaxSubdivisions + 1
	assert.Error(t, cfg.Validate())
}
