package nominatim

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestSearchBoundary_Polygon(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{
			"place_id": 12345,
			"osm_type": "relation",
			"osm_id": 1852574,
			"display_name": "Vancouver, Metro Vancouver Regional District, British Columbia, Canada",
			"category": "boundary",
			"type": "administrative",
			"geojson": {
				"type": "Polygon",
				"coordinates": [[[-123.2, 49.2], [-123.2, 49.3], [-123.0, 49.3], [-123.0, 49.2], [-123.2, 49.2]]]
			}
		}]`)
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithUserAgent("landuse-test/1.0"),
	)

	g, err := c.SearchBoundary(context.Background(), "Vancouver, British Columbia, Canada")
	require.NoError(t, err)

	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "landuse-test/1.0", gotAgent)

	poly, ok := g.(*geom.Polygon)
	require.True(t, ok)
	b := poly.Bounds()
	assert.InDelta(t, -123.2, b.Min(0), 0.0001)
	assert.InDelta(t, 49.3, b.Max(1), 0.0001)
}

func TestSearchBoundary_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := c.SearchBoundary(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestSearchBoundary_PointResultRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{
			"place_id": 1,
			"geojson": {"type": "Point", "coordinates": [-123.1, 49.25]}
		}]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := c.SearchBoundary(context.Background(), "Some Cafe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an area")
}

func TestSearchBoundary_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := c.SearchBoundary(context.Background(), "Vancouver")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
