// Package export writes feature collections to tabular (CSV, XLSX) and
// GeoPackage formats, and reads GeoPackage layers back.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/helioavila/landuse-intensity/internal/feature"
)

// GeoPackage identification pragmas.
const (
	gpkgApplicationID = 0x47504B47 // "GPKG"
	gpkgUserVersion   = 10300      // GeoPackage 1.3
)

// WriteGPKG writes a collection to a GeoPackage file under the named layer.
// An existing file at path is replaced. An empty collection writes nothing
// and returns nil.
func WriteGPKG(ctx context.Context, c *feature.Collection, path, layer string) error {
	if c.Empty() {
		zap.L().Info("skipping empty GeoPackage export", zap.String("path", path))
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return eris.Wrapf(err, "gpkg: remove stale %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return eris.Wrap(err, "gpkg: open")
	}
	defer db.Close() //nolint:errcheck

	for _, pragma := range []string{
		fmt.Sprintf("PRAGMA application_id = %d", gpkgApplicationID),
		fmt.Sprintf("PRAGMA user_version = %d", gpkgUserVersion),
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return eris.Wrapf(err, "gpkg: exec %s", pragma)
		}
	}

	if err := createMetaTables(ctx, db); err != nil {
		return err
	}

	cols := append(c.Columns(), "city")
	if err := createLayer(ctx, db, layer, cols); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "gpkg: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	insert := insertStatement(layer, cols)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, f := range c.Features {
		blob, err := encodeGeometry(f.Geom)
		if err != nil {
			return err
		}
		if f.Geom != nil {
			b := f.Geom.Bounds()
			minX = math.Min(minX, b.Min(0))
			minY = math.Min(minY, b.Min(1))
			maxX = math.Max(maxX, b.Max(0))
			maxY = math.Max(maxY, b.Max(1))
		}

		args := make([]any, 0, len(cols)+1)
		args = append(args, blob)
		for _, col := range cols {
			if col == "city" {
				args = append(args, f.City)
				continue
			}
			if v := f.Get(col); !v.IsAbsent() {
				args = append(args, v.Flat())
			} else {
				args = append(args, nil)
			}
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return eris.Wrapf(err, "gpkg: insert into %s", layer)
		}
	}

	if err := registerLayer(ctx, tx, layer, minX, minY, maxX, maxY); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "gpkg: commit")
	}

	zap.L().Info("GeoPackage written",
		zap.String("path", path),
		zap.String("layer", layer),
		zap.Int("features", c.Len()),
	)
	return nil
}

// ReadGPKG loads a GeoPackage layer into a collection. A "city" column maps
// back onto the feature's city label; all other columns become attributes.
func ReadGPKG(ctx context.Context, path, layer string) (*feature.Collection, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "gpkg: open %s", path)
	}
	defer db.Close() //nolint:errcheck

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s`, quoteIdent(layer)))
	if err != nil {
		return nil, eris.Wrapf(err, "gpkg: query layer %s", layer)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "gpkg: columns")
	}

	out := feature.NewCollection()
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "gpkg: scan row")
		}

		var g geom.T
		f := feature.New(nil)
		for i, col := range cols {
			switch col {
			case "fid":
				// surrogate key, not an attribute
			case "geom":
				blob, ok := vals[i].([]byte)
				if !ok || len(blob) == 0 {
					continue
				}
				g, err = decodeGeometry(blob)
				if err != nil {
					return nil, err
				}
			case "city":
				f.City = stringValue(vals[i])
			default:
				if vals[i] == nil {
					continue
				}
				f.Set(col, feature.String(stringValue(vals[i])))
			}
		}
		f.Geom = g
		out.Append(f)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "gpkg: iterate rows")
	}
	return out, nil
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func createMetaTables(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS gpkg_spatial_ref_sys (
	srs_name TEXT NOT NULL,
	srs_id INTEGER PRIMARY KEY,
	organization TEXT NOT NULL,
	organization_coordsys_id INTEGER NOT NULL,
	definition TEXT NOT NULL,
	description TEXT
);

CREATE TABLE IF NOT EXISTS gpkg_contents (
	table_name TEXT PRIMARY KEY,
	data_type TEXT NOT NULL,
	identifier TEXT UNIQUE,
	description TEXT DEFAULT '',
	last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	min_x DOUBLE,
	min_y DOUBLE,
	max_x DOUBLE,
	max_y DOUBLE,
	srs_id INTEGER,
	CONSTRAINT fk_gc_r_srs_id FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys(srs_id)
);

CREATE TABLE IF NOT EXISTS gpkg_geometry_columns (
	table_name TEXT NOT NULL,
	column_name TEXT NOT NULL,
	geometry_type_name TEXT NOT NULL,
	srs_id INTEGER NOT NULL,
	z TINYINT NOT NULL,
	m TINYINT NOT NULL,
	CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name)
);`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return eris.Wrap(err, "gpkg: create metadata tables")
	}

	srs := []struct {
		name  string
		id    int
		org   string
		orgID int
		def   string
	}{
		{"Undefined Cartesian SRS", -1, "NONE", -1, "undefined"},
		{"Undefined Geographic SRS", 0, "NONE", 0, "undefined"},
		{"WGS 84 geodetic", 4326, "EPSG", 4326,
			`GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`},
	}
	for _, s := range srs {
		_, err := db.ExecContext(ctx, `
			INSERT OR IGNORE INTO gpkg_spatial_ref_sys
				(srs_name, srs_id, organization, organization_coordsys_id, definition)
			VALUES (?, ?, ?, ?, ?)`,
			s.name, s.id, s.org, s.orgID, s.def)
		if err != nil {
			return eris.Wrap(err, "gpkg: seed spatial_ref_sys")
		}
	}
	return nil
}

func createLayer(ctx context.Context, db *sql.DB, layer string, cols []string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (fid INTEGER PRIMARY KEY AUTOINCREMENT, geom BLOB", quoteIdent(layer))
	for _, col := range cols {
		fmt.Fprintf(&sb, ", %s TEXT", quoteIdent(col))
	}
	sb.WriteString(")")

	if _, err := db.ExecContext(ctx, sb.String()); err != nil {
		return eris.Wrapf(err, "gpkg: create layer %s", layer)
	}
	return nil
}

func registerLayer(ctx context.Context, tx *sql.Tx, layer string, minX, minY, maxX, maxY float64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO gpkg_contents (table_name, data_type, identifier, min_x, min_y, max_x, max_y, srs_id)
		VALUES (?, 'features', ?, ?, ?, ?, ?, 4326)`,
		layer, layer, minX, minY, maxX, maxY)
	if err != nil {
		return eris.Wrap(err, "gpkg: register contents")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO gpkg_geometry_columns (table_name, column_name, geometry_type_name, srs_id, z, m)
		VALUES (?, 'geom', 'GEOMETRY', 4326, 0, 0)`,
		layer)
	if err != nil {
		return eris.Wrap(err, "gpkg: register geometry column")
	}
	return nil
}

func insertStatement(layer string, cols []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (geom", quoteIdent(layer))
	for _, col := range cols {
		fmt.Fprintf(&sb, ", %s", quoteIdent(col))
	}
	sb.WriteString(") VALUES (?")
	for range cols {
		sb.WriteString(", ?")
	}
	sb.WriteString(")")
	return sb.String()
}

// quoteIdent quotes an SQL identifier; attribute keys like addr:street are
// not bare-word safe.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
