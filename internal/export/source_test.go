package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGPKGFromPath(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "landuse.gpkg")
	require.NoError(t, WriteGPKG(ctx, testCollection(t), path, "landuse"))

	got, err := LoadGPKG(ctx, nil, path, "landuse")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestLoadGPKGFromURL(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "landuse.gpkg")
	require.NoError(t, WriteGPKG(ctx, testCollection(t), path, "landuse"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}))
	defer srv.Close()

	got, err := LoadGPKG(ctx, srv.Client(), srv.URL+"/landuse.gpkg", "landuse")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestLoadGPKGDownloadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := LoadGPKG(context.Background(), srv.Client(), srv.URL+"/missing.gpkg", "landuse")
	assert.Error(t, err)
}

func TestWriterPaths(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Options{DataDir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "landuse__vancouver.gpkg"), w.GPKGPath("landuse__vancouver"))
	assert.Equal(t, filepath.Join(dir, "landuse__vancouver.csv"), w.CSVPath("landuse__vancouver"))
	assert.Equal(t, filepath.Join(dir, "landuse__vancouver.xlsx"), w.XLSXPath("landuse__vancouver"))
}

func TestWriteDataset(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Options{DataDir: dir, CSVGeometry: GeometryWKT, XLSX: true})
	require.NoError(t, err)

	require.NoError(t, w.WriteDataset(context.Background(), testCollection(t), "landuse__vancouver", "landuse"))

	for _, name := range []string{"landuse__vancouver.gpkg", "landuse__vancouver.csv", "landuse__vancouver.xlsx"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}
