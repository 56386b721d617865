package raster

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Baseline TIFF tags plus the GeoTIFF georeferencing tags the pipeline needs.
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagPlanarConfig    = 284
	tagSampleFormat    = 339
	tagModelPixelScale = 33550
	tagModelTiepoint   = 33922
	tagGDALNoData      = 42113
)

// TIFF field types.
const (
	typeByte     = 1
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
	typeSByte    = 6
	typeSShort   = 8
	typeSLong    = 9
	typeFloat    = 11
	typeDouble   = 12
)

// Sample format values (tag 339).
const (
	formatUnsigned = 1
	formatSigned   = 2
	formatFloat    = 3
)

type tiffEntry struct {
	typ   uint16
	count uint32
	raw   []byte
}

// Read decodes a baseline strip-organized GeoTIFF buffer into a Sample.
// Supported layouts: II/MM byte order, uncompressed, chunky planar config,
// 8/16/32-bit integers (signed or unsigned) and 32/64-bit floats. The nodata
// sentinel comes from the GDAL_NODATA tag; geographic bounds from the model
// pixel scale and tiepoint tags when present.
func Read(buf []byte) (*Sample, error) {
	bo, ifdOff, err := readTIFFHeader(buf)
	if err != nil {
		return nil, err
	}

	entries, err := readIFD(buf, bo, ifdOff)
	if err != nil {
		return nil, err
	}

	width := int(firstUint(entries, tagImageWidth, bo, 0))
	height := int(firstUint(entries, tagImageLength, bo, 0))
	if width <= 0 || height <= 0 {
		return nil, eris.Wrap(ErrMalformedRaster, "tiff: missing image dimensions")
	}

	if c := firstUint(entries, tagCompression, bo, 1); c != 1 {
		return nil, eris.Wrapf(ErrUnsupportedRaster, "tiff: compression %d", c)
	}
	if pc := firstUint(entries, tagPlanarConfig, bo, 1); pc != 1 {
		return nil, eris.Wrapf(ErrUnsupportedRaster, "tiff: planar configuration %d", pc)
	}

	bands := int(firstUint(entries, tagSamplesPerPixel, bo, 1))
	if bands < 1 {
		bands = 1
	}
	bits := int(firstUint(entries, tagBitsPerSample, bo, 8))
	format := int(firstUint(entries, tagSampleFormat, bo, formatUnsigned))

	decode, sampleSize, err := sampleDecoder(bo, bits, format)
	if err != nil {
		return nil, err
	}

	offsets := uintValues(entries, tagStripOffsets, bo)
	counts := uintValues(entries, tagStripByteCounts, bo)
	if len(offsets) == 0 || len(offsets) != len(counts) {
		return nil, eris.Wrap(ErrMalformedRaster, "tiff: inconsistent strip layout")
	}

	values, err := readStrips(buf, offsets, counts, width*height, bands, sampleSize, decode)
	if err != nil {
		return nil, err
	}

	s := &Sample{
		Width:  width,
		Height: height,
		Bands:  bands,
		Values: values,
	}
	s.NoData = readNoData(entries)
	s.Bounds = readBounds(entries, bo, width, height)

	return s, nil
}

func readTIFFHeader(buf []byte) (binary.ByteOrder, int, error) {
	if len(buf) < 8 {
		return nil, 0, eris.Wrap(ErrMalformedRaster, "tiff: buffer shorter than header")
	}

	var bo binary.ByteOrder
	switch {
	case buf[0] == 'I' && buf[1] == 'I':
		bo = binary.LittleEndian
	case buf[0] == 'M' && buf[1] == 'M':
		bo = binary.BigEndian
	default:
		return nil, 0, eris.Wrap(ErrMalformedRaster, "tiff: bad byte-order mark")
	}
	if bo.Uint16(buf[2:4]) != 42 {
		return nil, 0, eris.Wrap(ErrMalformedRaster, "tiff: bad magic")
	}

	return bo, int(bo.Uint32(buf[4:8])), nil
}

// readIFD parses the first image file directory into a tag → entry map, with
// out-of-line values resolved into each entry's raw bytes.
func readIFD(buf []byte, bo binary.ByteOrder, off int) (map[uint16]tiffEntry, error) {
	if off < 8 || off+2 > len(buf) {
		return nil, eris.Wrap(ErrMalformedRaster, "tiff: IFD offset out of range")
	}

	n := int(bo.Uint16(buf[off : off+2]))
	entries := make(map[uint16]tiffEntry, n)

	for i := 0; i < n; i++ {
		pos := off + 2 + i*12
		if pos+12 > len(buf) {
			return nil, eris.Wrap(ErrMalformedRaster, "tiff: truncated IFD")
		}

		tag := bo.Uint16(buf[pos : pos+2])
		typ := bo.Uint16(buf[pos+2 : pos+4])
		count := bo.Uint32(buf[pos+4 : pos+8])

		size := typeSize(typ) * int(count)
		if size == 0 {
			continue
		}

		var raw []byte
		if size <= 4 {
			raw = buf[pos+8 : pos+8+size]
		} else {
			valOff := int(bo.Uint32(buf[pos+8 : pos+12]))
			if valOff < 0 || valOff+size > len(buf) {
				return nil, eris.Wrapf(ErrMalformedRaster, "tiff: tag %d value out of range", tag)
			}
			raw = buf[valOff : valOff+size]
		}

		entries[tag] = tiffEntry{typ: typ, count: count, raw: raw}
	}

	return entries, nil
}

func typeSize(typ uint16) int {
	switch typ {
	case typeByte, typeASCII, typeSByte:
		return 1
	case typeShort, typeSShort:
		return 2
	case typeLong, typeSLong, typeFloat:
		return 4
	case typeRational, typeDouble:
		return 8
	}
	return 0
}

// uintValues reads an entry's values as unsigned integers (SHORT or LONG).
func uintValues(entries map[uint16]tiffEntry, tag uint16, bo binary.ByteOrder) []uint64 {
	e, ok := entries[tag]
	if !ok {
		return nil
	}
	out := make([]uint64, 0, e.count)
	switch e.typ {
	case typeShort:
		for i := 0; i+2 <= len(e.raw); i += 2 {
			out = append(out, uint64(bo.Uint16(e.raw[i:i+2])))
		}
	case typeLong:
		for i := 0; i+4 <= len(e.raw); i += 4 {
			out = append(out, uint64(bo.Uint32(e.raw[i:i+4])))
		}
	}
	return out
}

func firstUint(entries map[uint16]tiffEntry, tag uint16, bo binary.ByteOrder, def uint64) uint64 {
	vals := uintValues(entries, tag, bo)
	if len(vals) == 0 {
		return def
	}
	return vals[0]
}

func doubleValues(entries map[uint16]tiffEntry, tag uint16, bo binary.ByteOrder) []float64 {
	e, ok := entries[tag]
	if !ok || e.typ != typeDouble {
		return nil
	}
	out := make([]float64, 0, e.count)
	for i := 0; i+8 <= len(e.raw); i += 8 {
		out = append(out, math.Float64frombits(bo.Uint64(e.raw[i:i+8])))
	}
	return out
}

func asciiValue(entries map[uint16]tiffEntry, tag uint16) string {
	e, ok := entries[tag]
	if !ok || e.typ != typeASCII {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(string(e.raw), "\x00"))
}

// sampleDecoder returns a function converting one raw sample to float64 and
// the sample's byte width.
func sampleDecoder(bo binary.ByteOrder, bits, format int) (func([]byte) float64, int, error) {
	switch {
	case format == formatUnsigned && bits == 8:
		return func(b []byte) float64 { return float64(b[0]) }, 1, nil
	case format == formatUnsigned && bits == 16:
		return func(b []byte) float64 { return float64(bo.Uint16(b)) }, 2, nil
	case format == formatUnsigned && bits == 32:
		return func(b []byte) float64 { return float64(bo.Uint32(b)) }, 4, nil
	case format == formatSigned && bits == 8:
		return func(b []byte) float64 { return float64(int8(b[0])) }, 1, nil
	case format == formatSigned && bits == 16:
		return func(b []byte) float64 { return float64(int16(bo.Uint16(b))) }, 2, nil
	case format == formatSigned && bits == 32:
		return func(b []byte) float64 { return float64(int32(bo.Uint32(b))) }, 4, nil
	case format == formatFloat && bits == 32:
		return func(b []byte) float64 { return float64(math.Float32frombits(bo.Uint32(b))) }, 4, nil
	case format == formatFloat && bits == 64:
		return func(b []byte) float64 { return math.Float64frombits(bo.Uint64(b)) }, 8, nil
	}
	return nil, 0, eris.Wrapf(ErrUnsupportedRaster, "tiff: sample format %d with %d bits", format, bits)
}

// readStrips decodes the first band's samples across all strips. Partial strip
// data is a hard failure; raster analysis is all-or-nothing.
func readStrips(buf []byte, offsets, counts []uint64, pixels, bands, sampleSize int, decode func([]byte) float64) ([]float64, error) {
	values := make([]float64, 0, pixels)
	stride := sampleSize * bands

	for i := range offsets {
		off, cnt := int(offsets[i]), int(counts[i])
		if off < 0 || cnt < 0 || off+cnt > len(buf) {
			return nil, eris.Wrapf(ErrMalformedRaster, "tiff: strip %d out of range", i)
		}
		strip := buf[off : off+cnt]
		for pos := 0; pos+sampleSize <= len(strip) && len(values) < pixels; pos += stride {
			values = append(values, decode(strip[pos:pos+sampleSize]))
		}
	}

	if len(values) < pixels {
		return nil, eris.Wrapf(ErrMalformedRaster, "tiff: %d samples decoded, %d expected", len(values), pixels)
	}
	return values, nil
}

func readNoData(entries map[uint16]tiffEntry) *float64 {
	text := asciiValue(entries, tagGDALNoData)
	if text == "" {
		return nil
	}
	if strings.EqualFold(text, "nan") {
		v := math.NaN()
		return &v
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &v
}

// readBounds derives the geographic bounding box from the model pixel scale
// and tiepoint tags. Both must be present; otherwise bounds stay zero.
func readBounds(entries map[uint16]tiffEntry, bo binary.ByteOrder, width, height int) [4]float64 {
	scale := doubleValues(entries, tagModelPixelScale, bo)
	tie := doubleValues(entries, tagModelTiepoint, bo)
	if len(scale) < 2 || len(tie) < 6 {
		return [4]float64{}
	}

	// Tiepoint maps raster (i, j) to model (x, y); origin is the top-left.
	originX := tie[3] - tie[0]*scale[0]
	originY := tie[4] + tie[1]*scale[1]

	return [4]float64{
		originX,
		originY - float64(height)*scale[1],
		originX + float64(width)*scale[0],
		originY,
	}
}
