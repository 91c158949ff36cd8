package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/helioavila/landuse-intensity/internal/feature"
)

// Options configures a Writer.
type Options struct {
	DataDir     string // destination for gpkg/csv/xlsx artifacts
	CSVGeometry string // GeometryWKT or GeometryNone
	XLSX        bool   // also write an XLSX workbook per dataset
}

// Writer exports datasets under deterministic paths derived from base names.
type Writer struct {
	opts Options
}

// NewWriter creates a Writer, ensuring the data directory exists.
func NewWriter(opts Options) (*Writer, error) {
	if opts.CSVGeometry == "" {
		opts.CSVGeometry = GeometryWKT
	}
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create %s", opts.DataDir)
	}
	return &Writer{opts: opts}, nil
}

// GPKGPath returns the GeoPackage path for a base name.
func (w *Writer) GPKGPath(base string) string {
	return filepath.Join(w.opts.DataDir, base+".gpkg")
}

// CSVPath returns the CSV path for a base name.
func (w *Writer) CSVPath(base string) string {
	return filepath.Join(w.opts.DataDir, base+".csv")
}

// XLSXPath returns the XLSX path for a base name.
func (w *Writer) XLSXPath(base string) string {
	return filepath.Join(w.opts.DataDir, base+".xlsx")
}

// WriteDataset exports one collection under the base name: GeoPackage with
// the named layer, CSV, and optionally XLSX. Empty collections produce no
// files but are not an error.
func (w *Writer) WriteDataset(ctx context.Context, c *feature.Collection, base, layer string) error {
	if err := WriteGPKG(ctx, c, w.GPKGPath(base), layer); err != nil {
		return err
	}
	if err := WriteCSV(c, w.CSVPath(base), w.opts.CSVGeometry); err != nil {
		return err
	}
	if w.opts.XLSX {
		if err := WriteXLSX(c, w.XLSXPath(base), layer); err != nil {
			return err
		}
	}
	return nil
}
