package engine

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UploadKind tells the batch runner which pipeline handles an input.
type UploadKind int

const (
	UploadUnknown UploadKind = iota
	UploadShapefile
	UploadRaster
)

// DetectKind maps a filename to its upload kind by extension.
func DetectKind(name string) UploadKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip":
		return UploadShapefile
	case ".tif", ".tiff":
		return UploadRaster
	}
	return UploadUnknown
}

// BatchInput is one upload in a batch run.
type BatchInput struct {
	Name string
	Kind UploadKind
	Data []byte
}

// BatchResult is the outcome for one batch input. Exactly one of Vector,
// Raster, or Err is set; uploads fail independently of each other.
type BatchResult struct {
	Name   string
	Vector *VectorResult
	Raster *RasterResult
	Err    error
}

// ProcessBatch runs independent uploads concurrently with the configured
// bound. A failed upload records its error and never aborts its siblings;
// only caller cancellation stops the batch early.
func (e *Engine) ProcessBatch(ctx context.Context, inputs []BatchInput) []BatchResult {
	results := make([]BatchResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	limit := e.cfg.Batch.MaxConcurrentUploads
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			res := BatchResult{Name: in.Name}
			switch in.Kind {
			case UploadShapefile:
				res.Vector, res.Err = e.ProcessShapefile(ctx, in.Data)
			case UploadRaster:
				res.Raster, res.Err = e.ProcessRaster(ctx, in.Data)
			default:
				res.Err = errUnknownKind(in.Name)
			}
			if res.Err != nil {
				zap.L().Warn("batch upload failed",
					zap.String("name", in.Name),
					zap.Error(res.Err),
				)
			}
			results[i] = res
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func errUnknownKind(name string) error {
	return eris.Errorf("engine: cannot tell upload kind of %s (want .zip, .tif, or .tiff)", name)
}
