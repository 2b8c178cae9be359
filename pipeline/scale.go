package pipeline

import (
	"math"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"
)

// Scaling selects how the pipeline normalizes a transform, matching
// spec.md §4.6. The factor is applied once, as a single linear pass
// over the final output, regardless of direction.
type Scaling int

const (
	// ScaleNone applies no normalization; a forward transform run
	// with ScaleNone followed by a backward run with ScaleFull
	// reproduces the original signal.
	ScaleNone Scaling = iota
	// ScaleFull applies 1/(N0*N1*N2).
	ScaleFull
	// ScaleSymmetric applies 1/sqrt(N0*N1*N2), so a forward/backward
	// pair each run with ScaleSymmetric also reproduces the original
	// signal.
	ScaleSymmetric
)

func (s Scaling) String() string {
	switch s {
	case ScaleFull:
		return "full"
	case ScaleSymmetric:
		return "symmetric"
	default:
		return "none"
	}
}

// Factor turns a plan's base scale (1/(N0*N1*N2)) into the factor
// actually applied for s.
func Factor(base float64, s Scaling) float64 {
	switch s {
	case ScaleFull:
		return base
	case ScaleSymmetric:
		return math.Sqrt(base)
	default:
		return 1
	}
}

func applyScale(data []complex128, factor float64) {
	if factor == 1 {
		return
	}
	cmplxs.Scale(complex(factor, 0), data)
}

func applyScaleReal(data []float64, factor float64) {
	if factor == 1 {
		return
	}
	floats.Scale(factor, data)
}
