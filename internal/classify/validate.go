package classify

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrInvalidClassification is the root of every validation failure. A scheme
// failing any rule is rejected whole; no class is applied.
var ErrInvalidClassification = eris.New("classify: invalid classification")

// boundaryTolerance absorbs display-precision rounding when comparing class
// boundaries against the raster's global range.
const boundaryTolerance = 1e-6

// Validate checks scheme invariants in order and returns the first violation:
// the first class anchors the global min, the last class anchors the global
// max, adjacent classes neither overlap nor gap beyond the propagation
// increment, and every boundary lies inside the global range.
func Validate(classes []Class, min, max float64) error {
	if len(classes) != ClassCount {
		return eris.Wrapf(ErrInvalidClassification, "scheme has %d classes, want %d", len(classes), ClassCount)
	}

	if math.Abs(classes[0].Min-min) > boundaryTolerance {
		return eris.Wrapf(ErrInvalidClassification, "first class min %g does not match global min %g", classes[0].Min, min)
	}

	last := classes[len(classes)-1]
	if math.Abs(last.Max-max) > boundaryTolerance {
		return eris.Wrapf(ErrInvalidClassification, "last class max %g does not match global max %g", last.Max, max)
	}

	for i := 0; i < len(classes)-1; i++ {
		diff := classes[i+1].Min - classes[i].Max
		if diff < -boundaryTolerance {
			return eris.Wrapf(ErrInvalidClassification, "classes %d and %d overlap (%g > %g)", i, i+1, classes[i].Max, classes[i+1].Min)
		}
		if diff > boundaryStep(classes[i].Max)+boundaryTolerance {
			return eris.Wrapf(ErrInvalidClassification, "gap between classes %d and %d (%g to %g)", i, i+1, classes[i].Max, classes[i+1].Min)
		}
	}

	for i, c := range classes {
		if c.Min < min-boundaryTolerance || c.Min > max+boundaryTolerance ||
			c.Max < min-boundaryTolerance || c.Max > max+boundaryTolerance {
			return eris.Wrapf(ErrInvalidClassification, "class %d range [%g, %g] outside global range [%g, %g]", i, c.Min, c.Max, min, max)
		}
	}

	return nil
}
