// Package pipeline orchestrates the per-municipality fetch, classification,
// export and render passes, and the final cross-municipality merge.
package pipeline

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/helioavila/landuse-intensity/internal/boundary"
	"github.com/helioavila/landuse-intensity/internal/classify"
	"github.com/helioavila/landuse-intensity/internal/export"
	"github.com/helioavila/landuse-intensity/internal/feature"
	"github.com/helioavila/landuse-intensity/internal/render"
)

// Layer names inside GeoPackage containers.
const (
	LayerLanduse   = "landuse"
	LayerBuildings = "buildings"
)

// Fetcher retrieves features within a boundary that carry a tag key.
type Fetcher interface {
	FetchWithin(ctx context.Context, bound geom.T, tagKey string) (*feature.Collection, error)
}

// Options configures a Pipeline.
type Options struct {
	MapsDir    string
	MapWidth   int
	MapHeight  int
	HTTPClient *http.Client // for remote GeoPackage sources; nil uses the default
}

// Pipeline runs municipalities strictly in sequence. A municipality whose
// boundary or fetch fails is logged and skipped; the merge step covers only
// municipalities that produced results.
type Pipeline struct {
	resolver boundary.Resolver
	fetcher  Fetcher
	writer   *export.Writer
	opts     Options
	log      *zap.Logger
}

// New creates a Pipeline.
func New(resolver boundary.Resolver, fetcher Fetcher, writer *export.Writer, opts Options) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		fetcher:  fetcher,
		writer:   writer,
		opts:     opts,
		log:      zap.L().With(zap.String("component", "pipeline")),
	}
}

// Export fetches and exports raw landuse and building footprints for each
// city, then merged artifacts across the cities that succeeded.
func (p *Pipeline) Export(ctx context.Context, cities []string) error {
	var landuse, buildings []*feature.Collection
	var slugs []string

	for _, city := range cities {
		lu, bld, err := p.fetchCity(ctx, city)
		if err != nil {
			p.log.Error("skipping municipality", zap.String("city", city), zap.Error(err))
			continue
		}

		base := Slug(city)
		if err := p.writer.WriteDataset(ctx, lu, "landuse__"+base, LayerLanduse); err != nil {
			return err
		}
		if err := p.writer.WriteDataset(ctx, bld, "buildings__"+base, LayerBuildings); err != nil {
			return err
		}

		if !lu.Empty() {
			landuse = append(landuse, lu)
		}
		if !bld.Empty() {
			buildings = append(buildings, bld)
		}
		if !lu.Empty() || !bld.Empty() {
			slugs = append(slugs, base)
		}
	}

	if len(slugs) == 0 {
		return eris.New("pipeline: no municipality produced results")
	}

	merged := strings.Join(slugs, "__")
	if err := p.writer.WriteDataset(ctx, feature.Merge(landuse...), "landuse__"+merged, LayerLanduse); err != nil {
		return err
	}
	if err := p.writer.WriteDataset(ctx, feature.Merge(buildings...), "buildings__"+merged, LayerBuildings); err != nil {
		return err
	}

	p.log.Info("export complete", zap.Strings("cities", slugs))
	return nil
}

// Run executes the full pipeline: fetch, classify landuse, export enriched
// layers and raw buildings, and render intensity maps per city and merged.
func (p *Pipeline) Run(ctx context.Context, cities []string) error {
	var landuse, buildings []*feature.Collection
	var slugs, processed []string

	for _, city := range cities {
		lu, bld, err := p.fetchCity(ctx, city)
		if err != nil {
			p.log.Error("skipping municipality", zap.String("city", city), zap.Error(err))
			continue
		}

		classify.Enrich(lu)

		base := Slug(city)
		if err := p.exportAndRender(ctx, lu, "landuse__"+base, city); err != nil {
			return err
		}
		if err := p.writer.WriteDataset(ctx, bld, "buildings__"+base, LayerBuildings); err != nil {
			return err
		}

		if !lu.Empty() {
			landuse = append(landuse, lu)
		}
		if !bld.Empty() {
			buildings = append(buildings, bld)
		}
		if !lu.Empty() || !bld.Empty() {
			slugs = append(slugs, base)
			processed = append(processed, city)
		}
	}

	if len(slugs) == 0 {
		return eris.New("pipeline: no municipality produced results")
	}

	merged := strings.Join(slugs, "__")
	all := feature.Merge(landuse...)
	if err := p.exportAndRender(ctx, all, "landuse__"+merged, strings.Join(processed, " + ")); err != nil {
		return err
	}
	if err := p.writer.WriteDataset(ctx, feature.Merge(buildings...), "buildings__"+merged, LayerBuildings); err != nil {
		return err
	}

	p.log.Info("pipeline complete", zap.Strings("cities", slugs))
	return nil
}

// Intensity classifies landuse loaded from GeoPackage sources rather than a
// live fetch: per-city sources may be local paths or URLs, defaulting to the
// artifacts of a prior export run.
func (p *Pipeline) Intensity(ctx context.Context, cities []string, sources map[string]string, layer string) error {
	if layer == "" {
		layer = LayerLanduse
	}

	var collections []*feature.Collection
	var slugs, processed []string

	for _, city := range cities {
		base := Slug(city)
		source, ok := sources[city]
		if !ok {
			source = p.writer.GPKGPath("landuse__" + base)
		}

		p.log.Info("loading landuse", zap.String("city", city), zap.String("source", source))
		lu, err := export.LoadGPKG(ctx, p.opts.HTTPClient, source, layer)
		if err != nil {
			p.log.Error("skipping municipality", zap.String("city", city), zap.Error(err))
			continue
		}
		// Reduce to the raw land-use columns before classifying: the default
		// source is a prior run's output, and enrichment columns fed back
		// into keyword matching would skew a rerun.
		lu = feature.Project(areaFeatures(lu), feature.LanduseColumns)
		lu.SetCity(city)

		classify.Enrich(lu)
		if err := p.exportAndRender(ctx, lu, "landuse__"+base, city); err != nil {
			return err
		}

		if !lu.Empty() {
			collections = append(collections, lu)
			slugs = append(slugs, base)
			processed = append(processed, city)
		}
	}

	if len(slugs) == 0 {
		return eris.New("pipeline: no municipality produced results")
	}

	merged := strings.Join(slugs, "__")
	all := feature.Merge(collections...)
	if err := p.exportAndRender(ctx, all, "landuse__"+merged, strings.Join(processed, " + ")); err != nil {
		return err
	}

	p.log.Info("intensity pass complete", zap.Strings("cities", slugs))
	return nil
}

// fetchCity resolves the boundary and fetches projected landuse and
// building collections for one municipality.
func (p *Pipeline) fetchCity(ctx context.Context, city string) (*feature.Collection, *feature.Collection, error) {
	p.log.Info("resolving boundary", zap.String("city", city))
	bound, err := p.resolver.Resolve(ctx, city)
	if err != nil {
		return nil, nil, err
	}

	p.log.Info("fetching landuse", zap.String("city", city))
	lu, err := p.fetcher.FetchWithin(ctx, bound, "landuse")
	if err != nil {
		return nil, nil, err
	}
	lu = feature.Project(lu, feature.LanduseColumns)
	lu.SetCity(city)

	p.log.Info("fetching buildings", zap.String("city", city))
	bld, err := p.fetcher.FetchWithin(ctx, bound, "building")
	if err != nil {
		return nil, nil, err
	}
	bld = feature.Project(bld, feature.BuildingColumns)
	bld.SetCity(city)

	return lu, bld, nil
}

// exportAndRender writes a classified landuse dataset and its map image.
func (p *Pipeline) exportAndRender(ctx context.Context, c *feature.Collection, base, title string) error {
	if err := p.writer.WriteDataset(ctx, c, base, LayerLanduse); err != nil {
		return err
	}
	return render.Map(c, filepath.Join(p.opts.MapsDir, base+".png"), render.Options{
		Width:  p.opts.MapWidth,
		Height: p.opts.MapHeight,
		Title:  mapTitle(title),
	})
}

// mapTitle builds the rendered map heading. The separator is an en dash.
func mapTitle(city string) string {
	return "Industrial & Service Land Use Intensity – " + city
}

// areaFeatures keeps polygon and multipolygon features. Layers reloaded from
// external containers can carry stray geometry types.
func areaFeatures(c *feature.Collection) *feature.Collection {
	out := feature.NewCollection()
	for _, f := range c.Features {
		switch f.Geom.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
			out.Append(f)
		}
	}
	return out
}
