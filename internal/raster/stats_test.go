package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatistics_Basic(t *testing.T) {
	stats, err := ComputeStatistics([]float64{1, 2, 3, 4}, nil, 2)
	require.NoError(t, err)

	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 4.0, stats.Max)
	assert.Equal(t, 2.5, stats.Mean)
	assert.Equal(t, 1.12, stats.StdDev) // sqrt(1.25) rounded
	assert.Equal(t, 4, stats.Count)
	assert.LessOrEqual(t, stats.Min, stats.Mean)
	assert.LessOrEqual(t, stats.Mean, stats.Max)
}

func TestComputeStatistics_ExcludesNoData(t *testing.T) {
	nodata := -9999.0
	values := []float64{-9999, 5, -9999, 10, 15, -9999}

	stats, err := ComputeStatistics(values, &nodata, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 5.0, stats.Min)
	assert.Equal(t, 15.0, stats.Max)
	assert.NotEqual(t, nodata, stats.Min)
	assert.NotEqual(t, nodata, stats.Max)
}

func TestComputeStatistics_NoDataTolerance(t *testing.T) {
	nodata := -9999.0
	values := []float64{-9999.0000000001, 3}

	stats, err := ComputeStatistics(values, &nodata, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
}

func TestComputeStatistics_ExcludesNonFinite(t *testing.T) {
	values := []float64{math.NaN(), math.Inf(1), math.Inf(-1), 2, 4}

	stats, err := ComputeStatistics(values, nil, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 3.0, stats.Mean)
}

func TestComputeStatistics_ExcludesUndeclaredSentinels(t *testing.T) {
	values := []float64{-3.4e38, 1, 2, 3}

	stats, err := ComputeStatistics(values, nil, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 1.0, stats.Min)
}

func TestComputeStatistics_AllNoData(t *testing.T) {
	nodata := -9999.0
	values := []float64{-9999, -9999, -9999}

	_, err := ComputeStatistics(values, &nodata, 2)
	require.ErrorIs(t, err, ErrNoValidSamples)
}

func TestComputeStatistics_EmptyBand(t *testing.T) {
	_, err := ComputeStatistics(nil, nil, 2)
	require.ErrorIs(t, err, ErrNoValidSamples)
}

func TestComputeStatistics_NaNSentinel(t *testing.T) {
	nodata := math.NaN()
	values := []float64{math.NaN(), 2, 6}

	stats, err := ComputeStatistics(values, &nodata, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 4.0, stats.Mean)
}
