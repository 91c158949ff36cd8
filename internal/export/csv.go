package export

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/wkt"
	"go.uber.org/zap"

	"github.com/helioavila/landuse-intensity/internal/feature"
)

// CSV geometry modes.
const (
	GeometryWKT  = "wkt"  // geometry column serialized as well-known text
	GeometryNone = "none" // geometry column omitted entirely
)

// WriteCSV writes a collection as a tabular CSV: one row per feature, one
// column per attribute key plus city, with geometry as WKT or absent per
// mode. An empty collection writes nothing and returns nil.
func WriteCSV(c *feature.Collection, path, mode string) error {
	if c.Empty() {
		zap.L().Info("skipping empty CSV export", zap.String("path", path))
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)

	cols := append(c.Columns(), "city")
	header := cols
	if mode == GeometryWKT {
		header = append(append([]string{}, cols...), "geometry")
	}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}

	for _, ft := range c.Features {
		row := make([]string, 0, len(header))
		for _, col := range cols {
			if col == "city" {
				row = append(row, ft.City)
				continue
			}
			row = append(row, ft.Get(col).Flat())
		}
		if mode == GeometryWKT {
			text := ""
			if ft.Geom != nil {
				text, err = wkt.Marshal(ft.Geom)
				if err != nil {
					return eris.Wrap(err, "csv: encode WKT")
				}
			}
			row = append(row, text)
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "csv: flush")
	}

	zap.L().Info("CSV written", zap.String("path", path), zap.Int("rows", c.Len()))
	return nil
}
