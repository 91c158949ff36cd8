// Package render draws choropleth-style maps of classified feature
// collections as static PNG images.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/helioavila/landuse-intensity/internal/classify"
	"github.com/helioavila/landuse-intensity/internal/feature"
)

// Options configures map rendering.
type Options struct {
	Width   int
	Height  int
	Title   string
	Padding int
}

// edge stroke, in pixels. A thin light outline keeps dense areas readable.
const outlineWidth = 0.6

var (
	background = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	outline    = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	titleInk   = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
)

// Map renders each feature's polygon filled with its fill attribute color
// and writes a PNG to path. An empty collection renders nothing and returns
// nil.
func Map(c *feature.Collection, path string, opts Options) error {
	if c.Empty() {
		zap.L().Info("skipping empty map render", zap.String("path", path))
		return nil
	}
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 1200
	}
	if opts.Padding <= 0 {
		opts.Padding = 40
	}

	proj, ok := fitProjection(c, opts)
	if !ok {
		zap.L().Warn("no drawable geometry, skipping render", zap.String("path", path))
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, f := range c.Features {
		if f.Geom == nil {
			continue
		}
		fill := parseHex(f.Get("fill").Flat())
		for _, poly := range polygons(f.Geom) {
			fillPolygon(img, poly, proj, fill)
			strokePolygon(img, poly, proj)
		}
	}

	if opts.Title != "" {
		drawTitle(img, opts.Title)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "render: create %s", filepath.Dir(path))
	}
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", path)
	}
	defer out.Close() //nolint:errcheck

	if err := png.Encode(out, img); err != nil {
		return eris.Wrap(err, "render: encode PNG")
	}

	zap.L().Info("map rendered", zap.String("path", path), zap.Int("features", c.Len()))
	return nil
}

// projection maps lon/lat to pixel coordinates: equirectangular with the
// x axis scaled by the cosine of the mid latitude, fitted to the canvas.
type projection struct {
	minLon, minLat float64
	cosMid         float64
	scale          float64
	offX, offY     float64
	height         float64
}

func (p projection) apply(lon, lat float64) (float32, float32) {
	x := p.offX + (lon-p.minLon)*p.cosMid*p.scale
	y := p.height - (p.offY + (lat-p.minLat)*p.scale)
	return float32(x), float32(y)
}

func fitProjection(c *feature.Collection, opts Options) (projection, bool) {
	minLon, minLat := math.Inf(1), math.Inf(1)
	maxLon, maxLat := math.Inf(-1), math.Inf(-1)
	var found bool
	for _, f := range c.Features {
		if f.Geom == nil {
			continue
		}
		b := f.Geom.Bounds()
		minLon = math.Min(minLon, b.Min(0))
		minLat = math.Min(minLat, b.Min(1))
		maxLon = math.Max(maxLon, b.Max(0))
		maxLat = math.Max(maxLat, b.Max(1))
		found = true
	}
	if !found {
		return projection{}, false
	}

	cosMid := math.Cos((minLat + maxLat) / 2 * math.Pi / 180)
	spanX := (maxLon - minLon) * cosMid
	spanY := maxLat - minLat
	if spanX <= 0 {
		spanX = 1e-9
	}
	if spanY <= 0 {
		spanY = 1e-9
	}

	availW := float64(opts.Width - 2*opts.Padding)
	availH := float64(opts.Height - 2*opts.Padding)
	scale := math.Min(availW/spanX, availH/spanY)

	// Center the fitted extent.
	offX := (float64(opts.Width) - spanX*scale) / 2
	offY := (float64(opts.Height) - spanY*scale) / 2

	return projection{
		minLon: minLon,
		minLat: minLat,
		cosMid: cosMid,
		scale:  scale,
		offX:   offX,
		offY:   offY,
		height: float64(opts.Height),
	}, true
}

// polygons flattens a geometry to its component polygons.
func polygons(g geom.T) []*geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{t}
	case *geom.MultiPolygon:
		out := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			out = append(out, t.Polygon(i))
		}
		return out
	default:
		return nil
	}
}

func fillPolygon(img *image.RGBA, poly *geom.Polygon, proj projection, fill color.NRGBA) {
	r := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())
	var drawn bool
	for ri := 0; ri < poly.NumLinearRings(); ri++ {
		flat := poly.LinearRing(ri).FlatCoords()
		if len(flat) < 6 {
			continue
		}
		x, y := proj.apply(flat[0], flat[1])
		r.MoveTo(x, y)
		for i := 2; i < len(flat); i += 2 {
			x, y = proj.apply(flat[i], flat[i+1])
			r.LineTo(x, y)
		}
		r.ClosePath()
		drawn = true
	}
	if !drawn {
		return
	}
	r.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{})
}

func strokePolygon(img *image.RGBA, poly *geom.Polygon, proj projection) {
	r := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())
	var drawn bool
	for ri := 0; ri < poly.NumLinearRings(); ri++ {
		flat := poly.LinearRing(ri).FlatCoords()
		for i := 0; i+3 < len(flat); i += 2 {
			x1, y1 := proj.apply(flat[i], flat[i+1])
			x2, y2 := proj.apply(flat[i+2], flat[i+3])
			if strokeSegment(r, x1, y1, x2, y2) {
				drawn = true
			}
		}
	}
	if !drawn {
		return
	}
	r.Draw(img, img.Bounds(), image.NewUniform(outline), image.Point{})
}

// strokeSegment adds a thin quad covering the segment to the rasterizer.
func strokeSegment(r *vector.Rasterizer, x1, y1, x2, y2 float32) bool {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return false
	}
	nx := float32(-dy / length * outlineWidth / 2)
	ny := float32(dx / length * outlineWidth / 2)

	r.MoveTo(x1+nx, y1+ny)
	r.LineTo(x2+nx, y2+ny)
	r.LineTo(x2-nx, y2-ny)
	r.LineTo(x1-nx, y1-ny)
	r.ClosePath()
	return true
}

func drawTitle(img *image.RGBA, title string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(titleInk),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(16, 20),
	}
	d.DrawString(title)
}

// parseHex parses a #RRGGBB color, falling back to the neutral fill.
func parseHex(s string) color.NRGBA {
	if len(s) != 7 || s[0] != '#' {
		return mustHex(classify.NeutralFill)
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[1+2*i])
		lo, ok2 := hexNibble(s[2+2*i])
		if !ok1 || !ok2 {
			return mustHex(classify.NeutralFill)
		}
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: 0xFF}
}

func mustHex(s string) color.NRGBA {
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, _ := hexNibble(s[1+2*i])
		lo, _ := hexNibble(s[2+2*i])
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: 0xFF}
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
