package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	assert.Equal(t, UploadShapefile, DetectKind("counties.zip"))
	assert.Equal(t, UploadShapefile, DetectKind("COUNTIES.ZIP"))
	assert.Equal(t, UploadRaster, DetectKind("flood_depth.tif"))
	assert.Equal(t, UploadRaster, DetectKind("flood_depth.tiff"))
	assert.Equal(t, UploadUnknown, DetectKind("readme.txt"))
	assert.Equal(t, UploadUnknown, DetectKind("noext"))
}

func TestProcessBatch_MixedResults(t *testing.T) {
	eng := New(testConfig())

	inputs := []BatchInput{
		{Name: "plants.zip", Kind: UploadShapefile, Data: shapefileUpload(t)},
		{Name: "depth.tif", Kind: UploadRaster, Data: tiffFixture(2, 2, []float32{1, 2, 3, 4}, "")},
		{Name: "broken.zip", Kind: UploadShapefile, Data: []byte("not an archive")},
		{Name: "notes.txt", Kind: UploadUnknown},
	}

	results := eng.ProcessBatch(context.Background(), inputs)
	require.Len(t, results, len(inputs))

	// Results stay aligned with their inputs.
	for i, res := range results {
		assert.Equal(t, inputs[i].Name, res.Name)
	}

	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Vector)
	assert.Equal(t, 3, results[0].Vector.Metadata.FeatureCount)

	require.NoError(t, results[1].Err)
	require.NotNil(t, results[1].Raster)
	assert.Equal(t, 4, results[1].Raster.Statistics.Count)

	// A broken upload fails alone without taking the batch down.
	require.Error(t, results[2].Err)
	assert.Nil(t, results[2].Vector)

	require.Error(t, results[3].Err)
	assert.Contains(t, results[3].Err.Error(), "upload kind")
}

func TestProcessBatch_SerialLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Batch.MaxConcurrentUploads = 0 // clamped to 1
	eng := New(cfg)

	inputs := []BatchInput{
		{Name: "a.tif", Kind: UploadRaster, Data: tiffFixture(1, 1, []float32{7}, "")},
		{Name: "b.tif", Kind: UploadRaster, Data: tiffFixture(1, 1, []float32{9}, "")},
	}

	results := eng.ProcessBatch(context.Background(), inputs)
	require.Len(t, results, 2)
	for _, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, 1, res.Raster.Statistics.Count)
	}
}

func TestProcessBatch_Empty(t *testing.T) {
	eng := New(testConfig())
	assert.Empty(t, eng.ProcessBatch(context.Background(), nil))
}
