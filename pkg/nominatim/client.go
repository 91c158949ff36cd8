// Package nominatim resolves free-text place names to boundary polygons via
// the OSM Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// searchResult is one entry of the Nominatim /search JSON response.
type searchResult struct {
	PlaceID     int64           `json:"place_id"`
	OSMType     string          `json:"osm_type"`
	OSMID       int64           `json:"osm_id"`
	DisplayName string          `json:"display_name"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	GeoJSON     json.RawMessage `json:"geojson"`
}

// Client queries Nominatim for place boundaries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the Nominatim endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithUserAgent sets the User-Agent header. Nominatim's usage policy
// requires an identifying agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a Nominatim client. Requests are limited to one per
// second per the public instance's usage policy.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  "landuse-intensity/1.0",
		limiter:    rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchBoundary resolves a place name to its boundary geometry in
// EPSG:4326. Only polygon and multipolygon results qualify; a place that
// resolves to a point or line is treated as not found.
func (c *Client) SearchBoundary(ctx context.Context, place string) (geom.T, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limit")
	}

	params := url.Values{
		"q":               {place},
		"format":          {"jsonv2"},
		"polygon_geojson": {"1"},
		"limit":           {"1"},
	}

	reqURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nominatim: search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read body")
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "nominatim: parse response")
	}
	if len(results) == 0 || len(results[0].GeoJSON) == 0 {
		return nil, eris.Errorf("nominatim: no boundary found for %q", place)
	}

	var g geom.T
	if err := geojson.Unmarshal(results[0].GeoJSON, &g); err != nil {
		return nil, eris.Wrapf(err, "nominatim: decode geometry for %q", place)
	}

	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return g, nil
	default:
		return nil, eris.Errorf("nominatim: %q resolved to %T, not an area", place, g)
	}
}
