package executor

import "github.com/EMinsight/heffte/internal/native1d"

// nativeEngine wraps the in-tree dependency-free FFT for a fixed
// length n.
type nativeEngine struct{ n int }

func newNativeEngine(n int) *nativeEngine {
	native1d.Prepare(n)
	return &nativeEngine{n: n}
}

func (e *nativeEngine) forwardC2C(x []complex128) []complex128 {
	native1d.Forward(x)
	return x
}

func (e *nativeEngine) backwardC2C(x []complex128) []complex128 {
	// native1d.Backward applies the 1/N scale itself; undo it here so
	// every vectorEngine implementation presents the same unscaled
	// contract (scaling is the pipeline's responsibility, §4.4/§4.5).
	native1d.Backward(x)
	scale := complex(float64(e.n), 0)
	for i := range x {
		x[i] *= scale
	}
	return x
}
