// Package raster decodes single-band GeoTIFF uploads and computes
// nodata-aware band statistics. Climate layers are single band; for
// multi-band files only the first band is sampled.
package raster

import "github.com/rotisserie/eris"

var (
	// ErrUnsupportedRaster covers rasters the baseline reader cannot decode
	// (compressed, tiled, or exotic sample layouts).
	ErrUnsupportedRaster = eris.New("raster: unsupported raster layout")

	// ErrMalformedRaster covers buffers whose declared structure does not fit.
	ErrMalformedRaster = eris.New("raster: malformed raster")

	// ErrNoValidSamples is returned when every pixel is excluded by the
	// nodata, finiteness, and magnitude filters.
	ErrNoValidSamples = eris.New("raster: no valid samples")
)

// Sample is one decoded raster band with its spatial context. It lives for
// the duration of a single upload analysis and is never persisted.
type Sample struct {
	Width  int
	Height int
	Bands  int
	NoData *float64
	Bounds [4]float64 // minX, minY, maxX, maxY; zero when the file has no geotags
	Values []float64  // first band, row-major
}
