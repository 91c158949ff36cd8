package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Vancouver, British Columbia, Canada",
		"City of North Vancouver, British Columbia, Canada",
	}, cfg.Cities)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Boundary.Endpoint)
	assert.Equal(t, "NAME", cfg.Boundary.NameField)
	assert.Equal(t, "https://overpass-api.de/api/interpreter", cfg.Fetch.Endpoint)
	assert.Equal(t, 180, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, "data", cfg.Export.DataDir)
	assert.Equal(t, "wkt", cfg.Export.CSVGeometry)
	assert.False(t, cfg.Export.XLSX)
	assert.Equal(t, "maps", cfg.Render.MapsDir)
	assert.Equal(t, 1200, cfg.Render.Width)
	assert.Equal(t, "landuse", cfg.Intensity.Layer)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
cities:
  - "São Paulo, Brasil"
boundary:
  shapefile: boundaries/munis.shp
  name_field: CITY
export:
  data_dir: out
  csv_geometry: none
  xlsx: true
intensity:
  sources:
    "São Paulo, Brasil": https://example.com/landuse__sao_paulo.gpkg
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"São Paulo, Brasil"}, cfg.Cities)
	assert.Equal(t, "boundaries/munis.shp", cfg.Boundary.Shapefile)
	assert.Equal(t, "CITY", cfg.Boundary.NameField)
	assert.Equal(t, "out", cfg.Export.DataDir)
	assert.Equal(t, "none", cfg.Export.CSVGeometry)
	assert.True(t, cfg.Export.XLSX)
	assert.Equal(t, "https://example.com/landuse__sao_paulo.gpkg",
		cfg.Intensity.Sources["São Paulo, Brasil"])
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset keys keep their defaults.
	assert.Equal(t, "https://overpass-api.de/api/interpreter", cfg.Fetch.Endpoint)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
