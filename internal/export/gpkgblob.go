package export

import (
	"bytes"
	"encoding/binary"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// GeoPackage geometry blob header (spec §2.1.3): "GP" magic, version,
// flags, srs_id, optional envelope, then standard WKB.
const (
	gpkgMagic1 = 0x47 // 'G'
	gpkgMagic2 = 0x50 // 'P'

	// little-endian header with an XY envelope
	gpkgFlagsXYEnvelope = 0x03
)

// encodeGeometry encodes a geometry as a GeoPackage binary blob with SRID
// 4326 and an XY envelope. Nil geometry yields a nil blob.
func encodeGeometry(g geom.T) ([]byte, error) {
	if g == nil {
		return nil, nil
	}

	data, err := wkb.Marshal(g, wkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "gpkg: encode WKB")
	}

	b := g.Bounds()
	var buf bytes.Buffer
	buf.WriteByte(gpkgMagic1)
	buf.WriteByte(gpkgMagic2)
	buf.WriteByte(0) // version 1
	buf.WriteByte(gpkgFlagsXYEnvelope)

	if err := binary.Write(&buf, binary.LittleEndian, int32(4326)); err != nil {
		return nil, eris.Wrap(err, "gpkg: encode srs_id")
	}
	for _, v := range []float64{b.Min(0), b.Max(0), b.Min(1), b.Max(1)} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, eris.Wrap(err, "gpkg: encode envelope")
		}
	}

	buf.Write(data)
	return buf.Bytes(), nil
}

// envelope sizes in float64 count, indexed by envelope indicator code.
var envelopeSizes = [...]int{0, 4, 6, 6, 8}

// decodeGeometry decodes a GeoPackage binary blob back to a geometry.
func decodeGeometry(blob []byte) (geom.T, error) {
	if len(blob) < 8 {
		return nil, eris.New("gpkg: geometry blob too short")
	}
	if blob[0] != gpkgMagic1 || blob[1] != gpkgMagic2 {
		return nil, eris.New("gpkg: bad geometry magic")
	}

	flags := blob[3]
	if flags&(1<<5) != 0 {
		return nil, eris.New("gpkg: extended geometry blobs not supported")
	}
	envCode := int(flags>>1) & 0x7
	if envCode >= len(envelopeSizes) {
		return nil, eris.Errorf("gpkg: invalid envelope indicator %d", envCode)
	}

	offset := 8 + envelopeSizes[envCode]*8
	if len(blob) < offset {
		return nil, eris.New("gpkg: truncated geometry envelope")
	}

	g, err := wkb.Unmarshal(blob[offset:])
	if err != nil {
		return nil, eris.Wrap(err, "gpkg: decode WKB")
	}
	return g, nil
}
