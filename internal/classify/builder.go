// Package classify builds and validates the five-class equal-interval
// schemes used to render climate rasters.
package classify

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ClassCount is fixed by the product: every scheme has exactly five classes.
const ClassCount = 5

// Class is one value range in a classification scheme.
type Class struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// Default rendering for freshly built schemes; operators can override both
// through configuration or the Excel importer.
var (
	DefaultColors = []string{"#2C7BB6", "#ABD9E9", "#FFFFBF", "#FDAE61", "#D7191C"}
	DefaultLabels = []string{"Very Low", "Low", "Medium", "High", "Very High"}
)

// Options configures scheme construction.
type Options struct {
	Decimals int
	Colors   []string
	Labels   []string
}

// Build derives an equal-interval scheme covering [min, max]. The first
// class's min and the last class's max are the exact global bounds; interior
// boundaries are rounded to the display precision.
func Build(min, max float64, opts Options) ([]Class, error) {
	if max < min {
		return nil, eris.Errorf("classify: max %g below min %g", max, min)
	}

	colors := opts.Colors
	if len(colors) < ClassCount {
		colors = DefaultColors
	}
	labels := opts.Labels
	if len(labels) < ClassCount {
		labels = DefaultLabels
	}

	width := (max - min) / ClassCount
	classes := make([]Class, ClassCount)
	for i := range classes {
		lo := roundTo(min+width*float64(i), opts.Decimals)
		hi := roundTo(min+width*float64(i+1), opts.Decimals)
		if i == 0 {
			lo = min
		}
		if i == ClassCount-1 {
			hi = max
		}
		classes[i] = Class{Min: lo, Max: hi, Color: colors[i], Label: labels[i]}
	}

	return classes, nil
}

// ApplyMaxEdit sets a class's max and propagates the next class's min to the
// edited value plus its smallest representable increment, keeping the
// partition contiguous without the operator typing both boundaries. The last
// class's max is fixed to the global max and cannot be edited.
func ApplyMaxEdit(classes []Class, idx int, newMax float64) error {
	if idx < 0 || idx >= len(classes) {
		return eris.Errorf("classify: class index %d out of range", idx)
	}
	if idx == len(classes)-1 {
		return eris.New("classify: last class max is fixed to the global max")
	}

	classes[idx].Max = newMax
	classes[idx+1].Min = NextBoundary(newMax)
	return nil
}

// NextBoundary returns v plus 10^(-d) where d is the number of decimal digits
// in v's shortest representation: editing a max to 5.41 yields 5.42 exactly.
func NextBoundary(v float64) float64 {
	d := decimalDigits(v)
	scale := math.Pow(10, float64(d))
	return math.Round(v*scale+1) / scale
}

// boundaryStep is the smallest representable increment at v's precision,
// i.e. the largest gap a propagated boundary may introduce.
func boundaryStep(v float64) float64 {
	return math.Pow(10, -float64(decimalDigits(v)))
}

func decimalDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	d := len(s) - i - 1
	// Precision beyond float64's decimal fidelity would make the increment
	// vanish into rounding noise.
	if d > 12 {
		d = 12
	}
	return d
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
