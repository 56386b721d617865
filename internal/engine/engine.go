// Package engine orchestrates per-upload decoding: the shapefile pipeline
// (extract, decode, assemble) and the raster pipeline (read, statistics,
// classification). Every call is a pure transformation over the upload bytes;
// nothing is cached or persisted here.
package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/atlas-cli/internal/classify"
	"github.com/sells-group/atlas-cli/internal/config"
	"github.com/sells-group/atlas-cli/internal/raster"
	"github.com/sells-group/atlas-cli/internal/shapefile"
)

// Engine runs upload decoding end to end. It holds no per-upload state, so a
// single Engine serves concurrent uploads without locking.
type Engine struct {
	cfg *config.Config
}

// New returns an Engine using the given configuration.
func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// VectorResult is the output contract for one shapefile upload.
type VectorResult struct {
	Collection *shapefile.FeatureCollection `json:"collection"`
	Metadata   *shapefile.Metadata          `json:"metadata"`
}

// RasterResult is the output contract for one raster upload.
type RasterResult struct {
	Statistics *raster.Statistics `json:"statistics"`
	Classes    []classify.Class   `json:"classes"`
}

// ProcessShapefile decodes a zipped shapefile upload into a feature
// collection plus metadata. The result is all-or-nothing: any stage failure
// aborts the whole attempt.
func (e *Engine) ProcessShapefile(ctx context.Context, data []byte) (*VectorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "engine: shapefile upload cancelled")
	}

	log := zap.L().With(
		zap.String("attempt", uuid.NewString()),
		zap.String("kind", "shapefile"),
	)

	bundle, err := shapefile.OpenBundle(data)
	if err != nil {
		return nil, err
	}

	table, err := shapefile.DecodeDBF(bundle.DBF)
	if err != nil {
		return nil, err
	}

	header, geoms, err := shapefile.DecodeSHP(bundle.SHP, bundle.SHX)
	if err != nil {
		return nil, err
	}

	projection := shapefile.ResolveProjection(bundle.PRJ)

	fc, meta, err := shapefile.Assemble(header, geoms, table, projection)
	if err != nil {
		return nil, err
	}

	log.Info("shapefile decoded",
		zap.Int("feature_count", meta.FeatureCount),
		zap.Int("field_count", len(table.Fields)),
		zap.String("projection", meta.Projection),
		zap.Float64s("bounds", meta.Bounds[:]),
	)

	return &VectorResult{Collection: fc, Metadata: meta}, nil
}

// ProcessRaster decodes a raster upload into statistics and a validated
// five-class equal-interval scheme.
func (e *Engine) ProcessRaster(ctx context.Context, data []byte) (*RasterResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "engine: raster upload cancelled")
	}

	log := zap.L().With(
		zap.String("attempt", uuid.NewString()),
		zap.String("kind", "raster"),
	)

	sample, err := raster.Read(data)
	if err != nil {
		return nil, err
	}

	stats, err := raster.ComputeStatistics(sample.Values, sample.NoData, e.cfg.Engine.Decimals)
	if err != nil {
		return nil, err
	}

	classes, err := classify.Build(stats.Min, stats.Max, classify.Options{
		Decimals: e.cfg.Engine.Decimals,
		Colors:   e.cfg.Classify.Colors,
		Labels:   e.cfg.Classify.Labels,
	})
	if err != nil {
		return nil, err
	}
	if err := classify.Validate(classes, stats.Min, stats.Max); err != nil {
		return nil, err
	}

	log.Info("raster decoded",
		zap.Int("width", sample.Width),
		zap.Int("height", sample.Height),
		zap.Int("valid_samples", stats.Count),
		zap.Float64("min", stats.Min),
		zap.Float64("max", stats.Max),
	)

	return &RasterResult{Statistics: stats, Classes: classes}, nil
}
