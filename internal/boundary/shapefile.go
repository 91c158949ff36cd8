package boundary

import (
	"context"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// ShapefileProvider resolves boundaries from a local shapefile of municipal
// polygons, matched by a name attribute. Use as an offline alternative to
// the geocoding service.
type ShapefileProvider struct {
	path      string
	nameField string
}

// NewShapefileProvider creates a provider reading the shapefile at path,
// matching places against the given name field (e.g. "NAME").
func NewShapefileProvider(path, nameField string) *ShapefileProvider {
	return &ShapefileProvider{path: path, nameField: nameField}
}

// Name implements Provider.
func (p *ShapefileProvider) Name() string { return "shapefile" }

// Resolve implements Provider. The place's leading segment (before the first
// comma) is compared case-insensitively against the name field.
func (p *ShapefileProvider) Resolve(_ context.Context, place string) (geom.T, error) {
	reader, err := shp.Open(p.path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", p.path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, p.nameField)
	if nameIdx < 0 {
		return nil, eris.Errorf("boundary: field %q not found in %s", p.nameField, p.path)
	}

	want := strings.ToLower(strings.TrimSpace(placeName(place)))

	for reader.Next() {
		_, shape := reader.Shape()
		name := strings.TrimSpace(reader.Attribute(nameIdx))
		if !strings.EqualFold(name, want) && !strings.EqualFold(name, strings.TrimSpace(place)) {
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			zap.L().Debug("boundary: matched record is not a polygon",
				zap.String("place", place),
				zap.String("name", name),
			)
			continue
		}
		g := polygonToMultiPolygon(poly)
		if g == nil {
			continue
		}
		return g, nil
	}

	return nil, eris.Errorf("boundary: %q not found in %s", place, p.path)
}

// placeName returns the leading segment of a "City, Region, Country" string.
func placeName(place string) string {
	if i := strings.Index(place, ","); i >= 0 {
		return place[:i]
	}
	return place
}

// fieldIndex returns the index of a named field in the shapefile, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon
// with SRID 4326.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("boundary: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
