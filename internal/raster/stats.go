package raster

import (
	"math"

	"github.com/rotisserie/eris"
)

// Statistics summarizes the valid samples of one raster band. Values are
// rounded to the display precision so repeated uploads of the same file show
// stable numbers.
type Statistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Count  int     `json:"count"`
}

const (
	// nodataTolerance absorbs float drift between the declared sentinel and
	// the stored pixel value.
	nodataTolerance = 1e-9

	// outlierMagnitude guards against nodata sentinels that were never
	// declared in the file (-3.4e38 and friends).
	outlierMagnitude = 1e10
)

// ComputeStatistics runs the two-pass min/max/mean/stddev computation over a
// band, excluding nodata, non-finite, and absurd-magnitude samples. Fails
// with ErrNoValidSamples when nothing survives the filters.
func ComputeStatistics(values []float64, nodata *float64, decimals int) (*Statistics, error) {
	var (
		count    int
		sum      float64
		min, max float64
	)

	for _, v := range values {
		if !validSample(v, nodata) {
			continue
		}
		if count == 0 {
			min, max = v, v
		} else {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		count++
		sum += v
	}

	if count == 0 {
		return nil, eris.Wrap(ErrNoValidSamples, "statistics: every sample excluded")
	}

	mean := sum / float64(count)

	var sumSq float64
	for _, v := range values {
		if !validSample(v, nodata) {
			continue
		}
		d := v - mean
		sumSq += d * d
	}

	return &Statistics{
		Min:    roundTo(min, decimals),
		Max:    roundTo(max, decimals),
		Mean:   roundTo(mean, decimals),
		StdDev: roundTo(math.Sqrt(sumSq/float64(count)), decimals),
		Count:  count,
	}, nil
}

func validSample(v float64, nodata *float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if math.Abs(v) > outlierMagnitude {
		return false
	}
	if nodata != nil {
		if math.IsNaN(*nodata) {
			return true // NaN sentinel already excluded by the finite check
		}
		if math.Abs(v-*nodata) <= nodataTolerance {
			return false
		}
	}
	return true
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
