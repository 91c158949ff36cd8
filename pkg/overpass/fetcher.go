// Package overpass fetches OSM features within a boundary via the Overpass
// API, converting closed tagged ways into polygon features.
package overpass

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"github.com/serjvanilla/go-overpass"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/helioavila/landuse-intensity/internal/boundary"
	"github.com/helioavila/landuse-intensity/internal/feature"
)

const defaultEndpoint = "https://overpass-api.de/api/interpreter"

// Fetcher retrieves features from an Overpass endpoint.
type Fetcher struct {
	client overpass.Client
}

// NewFetcher creates a Fetcher against the given endpoint. An empty endpoint
// uses the public Overpass instance.
func NewFetcher(endpoint string, timeout time.Duration) *Fetcher {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	httpClient := &http.Client{Timeout: timeout}
	return &Fetcher{
		client: overpass.NewWithSettings(endpoint, 1, httpClient),
	}
}

// FetchWithin returns polygon features inside the boundary that carry the
// given tag key. Ways are queried over the boundary's bounding box, then
// filtered to those whose representative point falls inside the boundary.
// Multipolygon relations are not assembled; closed ways cover the vast
// majority of landuse and building polygons.
func (f *Fetcher) FetchWithin(ctx context.Context, bound geom.T, tagKey string) (*feature.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "overpass: fetch")
	}

	b := bound.Bounds()
	// Overpass bbox order is south,west,north,east.
	bbox := fmt.Sprintf("%f,%f,%f,%f", b.Min(1), b.Min(0), b.Max(1), b.Max(0))

	query := fmt.Sprintf(`
		[out:json];
		(
			way[%q](%s);
		);
		out body;
		>;
		out skel qt;
	`, tagKey, bbox)

	log := zap.L().With(zap.String("component", "overpass.fetcher"))
	log.Info("fetching features", zap.String("tag", tagKey), zap.String("bbox", bbox))

	result, err := f.client.Query(query)
	if err != nil {
		return nil, eris.Wrapf(err, "overpass: query %s ways", tagKey)
	}

	out := feature.NewCollection()
	var skipped int
	for _, way := range result.Ways {
		if way == nil || way.Tags[tagKey] == "" {
			continue
		}
		poly, rep := wayPolygon(way)
		if poly == nil {
			skipped++
			continue
		}
		if !boundary.Contains(bound, rep) {
			continue
		}

		ft := feature.New(poly)
		for _, key := range sortedKeys(way.Tags) {
			ft.Set(key, feature.String(way.Tags[key]))
		}
		out.Append(ft)
	}

	log.Info("features fetched",
		zap.String("tag", tagKey),
		zap.Int("kept", out.Len()),
		zap.Int("open_ways_skipped", skipped),
	)
	return out, nil
}

// wayPolygon converts a closed way to a polygon and its representative
// point (the vertex mean). Open or degenerate ways yield nil.
func wayPolygon(way *overpass.Way) (geom.T, geom.Coord) {
	n := len(way.Nodes)
	if n < 4 {
		return nil, nil
	}
	first, last := way.Nodes[0], way.Nodes[n-1]
	if first == nil || last == nil || first.Lon != last.Lon || first.Lat != last.Lat {
		return nil, nil
	}

	flat := make([]float64, 0, n*2)
	var sumLon, sumLat float64
	for i, node := range way.Nodes {
		if node == nil {
			return nil, nil
		}
		flat = append(flat, node.Lon, node.Lat)
		if i < n-1 { // closing vertex repeats the first
			sumLon += node.Lon
			sumLat += node.Lat
		}
	}

	ring := geom.NewLinearRingFlat(geom.XY, flat)
	poly := geom.NewPolygon(geom.XY).SetSRID(4326)
	if err := poly.Push(ring); err != nil {
		return nil, nil
	}

	count := float64(n - 1)
	return poly, geom.Coord{sumLon / count, sumLat / count}
}

func sortedKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
