package shapefile

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Feature pairs one decoded geometry with its attribute record.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   json.RawMessage   `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

// FeatureCollection is the GeoJSON document handed to the UI and storage
// collaborators.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Metadata is the side-channel summary accompanying a FeatureCollection.
type Metadata struct {
	FeatureCount int        `json:"featureCount"`
	Bounds       [4]float64 `json:"bounds"` // minX, minY, maxX, maxY
	Projection   string     `json:"projection"`
}

// nullGeometry is the GeoJSON encoding of a null geometry record.
var nullGeometry = json.RawMessage("null")

// Assemble zips decoded geometries with attribute records positionally into a
// feature collection. Bounds come from the SHP header when sane, otherwise
// they are recomputed from the geometries themselves. Assembly is
// all-or-nothing: any encoding failure returns no collection at all.
func Assemble(header *ShapeHeader, geoms []Geometry, table *AttributeTable, projection string) (*FeatureCollection, *Metadata, error) {
	if table == nil {
		return nil, nil, eris.New("shapefile: assemble called without attribute table")
	}

	n := len(geoms)
	if len(table.Records) < n {
		n = len(table.Records)
	}
	if len(geoms) != len(table.Records) {
		zap.L().Debug("shapefile: geometry and attribute counts differ",
			zap.Int("geometries", len(geoms)),
			zap.Int("records", len(table.Records)),
		)
	}

	fc := &FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, n)}
	for i := 0; i < n; i++ {
		raw, err := encodeGeometry(geoms[i])
		if err != nil {
			return nil, nil, eris.Wrapf(err, "shapefile: encode feature %d", i)
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   raw,
			Properties: table.Records[i],
		})
	}

	meta := &Metadata{
		FeatureCount: n,
		Bounds:       collectionBounds(header, geoms[:n]),
		Projection:   projection,
	}

	return fc, meta, nil
}

// encodeGeometry converts a decoded shape to raw GeoJSON. Each union variant
// is handled; an unknown variant is a programming error.
func encodeGeometry(g Geometry) (json.RawMessage, error) {
	var gt geom.T
	switch s := g.(type) {
	case NullShape:
		return nullGeometry, nil
	case PointShape:
		gt = geom.NewPointFlat(geom.XY, []float64{s.X, s.Y})
	case BoxShape:
		gt = geom.NewPolygonFlat(geom.XY, []float64{
			s.MinX, s.MinY,
			s.MaxX, s.MinY,
			s.MaxX, s.MaxY,
			s.MinX, s.MaxY,
			s.MinX, s.MinY,
		}, []int{10})
	default:
		return nil, eris.Errorf("shapefile: unhandled geometry kind %d", g.Kind())
	}

	raw, err := geojson.Marshal(gt)
	if err != nil {
		return nil, eris.Wrap(err, "shapefile: marshal geometry")
	}
	return raw, nil
}

// collectionBounds prefers the SHP header bounding box and falls back to
// accumulating per-geometry extents when the header box is degenerate.
func collectionBounds(header *ShapeHeader, geoms []Geometry) [4]float64 {
	if header != nil && header.Bounds[0] <= header.Bounds[2] && header.Bounds[1] <= header.Bounds[3] &&
		header.Bounds != ([4]float64{}) {
		return header.Bounds
	}

	var b [4]float64
	have := false
	extend := func(minX, minY, maxX, maxY float64) {
		if !have {
			b = [4]float64{minX, minY, maxX, maxY}
			have = true
			return
		}
		if minX < b[0] {
			b[0] = minX
		}
		if minY < b[1] {
			b[1] = minY
		}
		if maxX > b[2] {
			b[2] = maxX
		}
		if maxY > b[3] {
			b[3] = maxY
		}
	}

	for _, g := range geoms {
		switch s := g.(type) {
		case PointShape:
			extend(s.X, s.Y, s.X, s.Y)
		case BoxShape:
			extend(s.MinX, s.MinY, s.MaxX, s.MaxY)
		case NullShape:
		}
	}

	return b
}
