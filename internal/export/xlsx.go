package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/helioavila/landuse-intensity/internal/feature"
)

// WriteXLSX writes the collection's tabular form (no geometry) as a
// single-sheet workbook. An empty collection writes nothing and returns nil.
func WriteXLSX(c *feature.Collection, path, sheet string) error {
	if c.Empty() {
		zap.L().Info("skipping empty XLSX export", zap.String("path", path))
		return nil
	}

	file := xlsx.NewFile()
	sh, err := file.AddSheet(sheet)
	if err != nil {
		return eris.Wrapf(err, "xlsx: add sheet %s", sheet)
	}

	cols := append(c.Columns(), "city")
	header := sh.AddRow()
	for _, col := range cols {
		header.AddCell().Value = col
	}

	for _, ft := range c.Features {
		row := sh.AddRow()
		for _, col := range cols {
			if col == "city" {
				row.AddCell().Value = ft.City
				continue
			}
			row.AddCell().Value = ft.Get(col).Flat()
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}

	zap.L().Info("XLSX written", zap.String("path", path), zap.Int("rows", c.Len()))
	return nil
}
