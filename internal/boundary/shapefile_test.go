package boundary

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// writeBoundaryShapefile creates a shapefile with one named square polygon
// per entry.
func writeBoundaryShapefile(t *testing.T, path string, names []string) {
	t.Helper()

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("NAME", 60)}))

	for i, name := range names {
		off := float64(i * 20)
		ring := []shp.Point{
			{X: off, Y: 0},
			{X: off, Y: 10},
			{X: off + 10, Y: 10},
			{X: off + 10, Y: 0},
			{X: off, Y: 0},
		}
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
		n := w.Write(&poly)
		require.NoError(t, w.WriteAttribute(int(n), 0, name))
	}
	w.Close()
}

func TestShapefileProviderResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boundaries.shp")
	writeBoundaryShapefile(t, path, []string{"Burnaby", "Vancouver"})

	p := NewShapefileProvider(path, "NAME")
	g, err := p.Resolve(context.Background(), "Vancouver, British Columbia, Canada")
	require.NoError(t, err)

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok)
	require.Equal(t, 1, mp.NumPolygons())

	// The Vancouver square sits at x offset 20.
	b := mp.Bounds()
	assert.InDelta(t, 20, b.Min(0), 0.001)
	assert.InDelta(t, 30, b.Max(0), 0.001)
}

func TestShapefileProviderCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boundaries.shp")
	writeBoundaryShapefile(t, path, []string{"VANCOUVER"})

	p := NewShapefileProvider(path, "name")
	_, err := p.Resolve(context.Background(), "vancouver")
	assert.NoError(t, err)
}

func TestShapefileProviderNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boundaries.shp")
	writeBoundaryShapefile(t, path, []string{"Burnaby"})

	p := NewShapefileProvider(path, "NAME")
	_, err := p.Resolve(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestShapefileProviderMissingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boundaries.shp")
	writeBoundaryShapefile(t, path, []string{"Burnaby"})

	p := NewShapefileProvider(path, "CITYNAME")
	_, err := p.Resolve(context.Background(), "Burnaby")
	assert.Error(t, err)
}
