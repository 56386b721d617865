// Package shapefile decodes zipped ESRI Shapefile uploads into GeoJSON feature
// collections without a server-side GIS toolkit.
//
// Polygon and polyline records are approximated by the rectangle of the
// record's own bounding box rather than reconstructed from their parts and
// points arrays. The map UI consumes overlay extents, so the extent rectangle
// is the rendered signal; full ring reconstruction is a deliberate non-goal.
package shapefile

import "github.com/rotisserie/eris"

// Decode failures fall into two families: a required component file missing
// from the uploaded archive, or a component whose declared header does not fit
// its buffer. Truncated geometry streams are not errors; decoding stops and
// returns what was parsed.
var (
	ErrMissingComponent = eris.New("shapefile: required component missing")
	ErrMalformedHeader  = eris.New("shapefile: malformed header")
)

// ShapeKind identifies a decoded geometry variant.
type ShapeKind int

const (
	KindNull ShapeKind = iota
	KindPoint
	KindBox
)

// Geometry is the closed set of shapes the decoder produces. Consumers switch
// over the concrete types; there are exactly three.
type Geometry interface {
	Kind() ShapeKind
}

// NullShape is an explicit null geometry record (shape type 0).
type NullShape struct{}

// Kind implements Geometry.
func (NullShape) Kind() ShapeKind { return KindNull }

// PointShape is a single coordinate pair (shape type 1).
type PointShape struct {
	X, Y float64
}

// Kind implements Geometry.
func (PointShape) Kind() ShapeKind { return KindPoint }

// BoxShape is the bounding-box rectangle standing in for polygon, polyline,
// and unrecognized record types. See the package doc.
type BoxShape struct {
	MinX, MinY, MaxX, MaxY float64
}

// Kind implements Geometry.
func (BoxShape) Kind() ShapeKind { return KindBox }
