package shapefile

import (
	"encoding/binary"
	"math"

	"github.com/rotisserie/eris"
)

// SHP layout constants. The 100-byte header mixes big-endian lengths with
// little-endian shape type and bounding box; record headers are big-endian,
// record contents little-endian.
const (
	shpHeaderLen    = 100
	shpRecHeaderLen = 8

	shapeTypeNull     = 0
	shapeTypePoint    = 1
	shapeTypePolygon  = 5
	shapeTypePolygonZ = 15

	// Minimum content bytes for a record we can approximate: the shape type
	// word plus a 4×float64 bounding box.
	shpBoxContentMin = 4 + 32
	// Content bytes for a point record: the shape type word plus x and y.
	shpPointContentMin = 4 + 16
)

// ShapeHeader is the decoded 100-byte SHP file header.
type ShapeHeader struct {
	FileLength int
	ShapeType  int
	Bounds     [4]float64 // minX, minY, maxX, maxY
}

// DecodeSHP parses an SHP buffer into its header and an ordered geometry
// sequence. When an SHX index buffer is supplied, its offsets drive
// random-access record reads; otherwise records are scanned sequentially.
// A record header that would read past the buffer ends decoding without
// error, returning everything parsed so far.
func DecodeSHP(shp, shx []byte) (*ShapeHeader, []Geometry, error) {
	if len(shp) < shpHeaderLen {
		return nil, nil, eris.Wrapf(ErrMalformedHeader, "shp: buffer is %d bytes, header needs %d", len(shp), shpHeaderLen)
	}

	header := &ShapeHeader{
		FileLength: int(binary.BigEndian.Uint32(shp[24:28])) * 2,
		ShapeType:  int(binary.LittleEndian.Uint32(shp[32:36])),
	}
	for i := 0; i < 4; i++ {
		header.Bounds[i] = readFloat64LE(shp, 36+8*i)
	}

	var geoms []Geometry
	if offsets := decodeSHXOffsets(shx); offsets != nil {
		for _, off := range offsets {
			g, _, ok := decodeRecord(shp, off)
			if !ok {
				break
			}
			geoms = append(geoms, g)
		}
	} else {
		for pos := shpHeaderLen; ; {
			g, next, ok := decodeRecord(shp, pos)
			if !ok {
				break
			}
			geoms = append(geoms, g)
			pos = next
		}
	}

	return header, geoms, nil
}

// decodeRecord parses one record at the given byte offset. It returns the
// geometry, the offset of the following record, and false when the record
// header or content would read past the buffer.
func decodeRecord(shp []byte, pos int) (Geometry, int, bool) {
	if pos < shpHeaderLen || pos+shpRecHeaderLen > len(shp) {
		return nil, 0, false
	}

	contentLen := int(binary.BigEndian.Uint32(shp[pos+4:pos+8])) * 2
	start := pos + shpRecHeaderLen
	if contentLen < 4 || start+contentLen > len(shp) {
		return nil, 0, false
	}
	next := start + contentLen

	switch shapeType := int(binary.LittleEndian.Uint32(shp[start : start+4])); shapeType {
	case shapeTypeNull:
		return NullShape{}, next, true

	case shapeTypePoint:
		if contentLen < shpPointContentMin {
			return nil, 0, false
		}
		return PointShape{
			X: readFloat64LE(shp, start+4),
			Y: readFloat64LE(shp, start+12),
		}, next, true

	default:
		// Polygon, PolygonZ, and anything unrecognized: approximate with the
		// record's own bounding box when present.
		if contentLen < shpBoxContentMin {
			return NullShape{}, next, true
		}
		return BoxShape{
			MinX: readFloat64LE(shp, start+4),
			MinY: readFloat64LE(shp, start+12),
			MaxX: readFloat64LE(shp, start+20),
			MaxY: readFloat64LE(shp, start+28),
		}, next, true
	}
}

// decodeSHXOffsets reads per-record byte offsets from an SHX index buffer.
// Returns nil when the index is absent or too short to hold its header.
func decodeSHXOffsets(shx []byte) []int {
	if len(shx) < shpHeaderLen {
		return nil
	}
	var offsets []int
	for pos := shpHeaderLen; pos+8 <= len(shx); pos += 8 {
		offsets = append(offsets, int(binary.BigEndian.Uint32(shx[pos:pos+4]))*2)
	}
	return offsets
}

func readFloat64LE(buf []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))
}
