package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheme(bounds ...[2]float64) []Class {
	classes := make([]Class, len(bounds))
	for i, b := range bounds {
		classes[i] = Class{Min: b[0], Max: b[1], Color: "#000000", Label: "class"}
	}
	return classes
}

func TestValidate_AcceptsContiguousScheme(t *testing.T) {
	classes := scheme([2]float64{-10, 5}, [2]float64{5, 20}, [2]float64{20, 30}, [2]float64{30, 40}, [2]float64{40, 45})

	require.NoError(t, Validate(classes, -10, 45))
}

func TestValidate_AcceptsPropagatedBoundaries(t *testing.T) {
	classes := scheme([2]float64{0, 5.41}, [2]float64{5.42, 20}, [2]float64{20, 30}, [2]float64{30, 40}, [2]float64{40, 100})

	require.NoError(t, Validate(classes, 0, 100))
}

func TestValidate_RejectsGap(t *testing.T) {
	classes := scheme([2]float64{-10, 5}, [2]float64{5, 19}, [2]float64{21, 30}, [2]float64{30, 40}, [2]float64{40, 45})

	err := Validate(classes, -10, 45)
	require.ErrorIs(t, err, ErrInvalidClassification)
	assert.Contains(t, err.Error(), "gap")
}

func TestValidate_RejectsOverlap(t *testing.T) {
	classes := scheme([2]float64{-10, 5}, [2]float64{5, 25}, [2]float64{20, 30}, [2]float64{30, 40}, [2]float64{40, 45})

	err := Validate(classes, -10, 45)
	require.ErrorIs(t, err, ErrInvalidClassification)
	assert.Contains(t, err.Error(), "overlap")
}

func TestValidate_RejectsFirstMinMismatch(t *testing.T) {
	classes := scheme([2]float64{-9, 5}, [2]float64{5, 20}, [2]float64{20, 30}, [2]float64{30, 40}, [2]float64{40, 45})

	err := Validate(classes, -10, 45)
	require.ErrorIs(t, err, ErrInvalidClassification)
	assert.Contains(t, err.Error(), "first class min")
}

func TestValidate_RejectsLastMaxMismatch(t *testing.T) {
	classes := scheme([2]float64{-10, 5}, [2]float64{5, 20}, [2]float64{20, 30}, [2]float64{30, 40}, [2]float64{40, 44})

	err := Validate(classes, -10, 45)
	require.ErrorIs(t, err, ErrInvalidClassification)
	assert.Contains(t, err.Error(), "last class max")
}

func TestValidate_RejectsOutOfRangeBoundary(t *testing.T) {
	classes := scheme([2]float64{-10, 50}, [2]float64{5, 20}, [2]float64{20, 30}, [2]float64{30, 40}, [2]float64{40, 45})

	err := Validate(classes, -10, 45)
	require.ErrorIs(t, err, ErrInvalidClassification)
}

func TestValidate_RejectsWrongClassCount(t *testing.T) {
	classes := scheme([2]float64{0, 50}, [2]float64{50, 100})

	require.ErrorIs(t, Validate(classes, 0, 100), ErrInvalidClassification)
}

func TestValidate_ToleratesDisplayRounding(t *testing.T) {
	classes := scheme(
		[2]float64{-10.0000004, 5}, [2]float64{5, 20}, [2]float64{20, 30}, [2]float64{30, 40}, [2]float64{40, 45.0000004},
	)

	require.NoError(t, Validate(classes, -10, 45))
}

func TestBuildThenValidate(t *testing.T) {
	classes, err := Build(-10, 45, Options{Decimals: 2})
	require.NoError(t, err)
	require.NoError(t, Validate(classes, -10, 45))
}
