package pipeline

import (
	"github.com/EMinsight/heffte/box"
	"github.com/EMinsight/heffte/executor"
)

// Every stage helper here assumes b already has axis fastest in
// memory (Order[0] == axis), which the driver guarantees by relayout
// (for L0/L3) or by construction (planner.Construct reorders L1/L2
// this way when Options.Reorder is set). That lets a single Stride=1,
// Dist=N batching scheme address every line along axis.

func lineParams(b box.Box, axis int) executor.Params {
	n := b.Extent(axis)
	batch := 0
	if n > 0 {
		batch = b.Count() / n
	}
	return executor.Params{N: n, Batch: batch, Stride: 1, Dist: n, Precision: executor.Double}
}

func runForward(backend executor.Backend, b box.Box, axis int, data []complex128) error {
	if b.Count() == 0 {
		return nil
	}
	p := lineParams(b, axis)
	eng, err := executor.NewC2C(backend, p)
	if err != nil {
		return err
	}
	scratch := make([]complex128, eng.ScratchSize())
	return eng.Forward(data, scratch)
}

func runBackward(backend executor.Backend, b box.Box, axis int, data []complex128) error {
	if b.Count() == 0 {
		return nil
	}
	p := lineParams(b, axis)
	eng, err := executor.NewC2C(backend, p)
	if err != nil {
		return err
	}
	scratch := make([]complex128, eng.ScratchSize())
	return eng.Backward(data, scratch)
}

// runForwardR2C runs the real-to-complex transform along axis over
// the full (pre-shrink) box b, returning a densely packed Hermitian
// half (Stride=1, Dist=halfLen), the layout the next reshape stage
// expects. executor.R2C addresses its complex output with the same
// Dist as its real input (Dist=N, the full line length), so the
// engine's own output buffer has (N-halfLen) unused elements between
// batches; this repacks into a dense buffer before handing off.
func runForwardR2C(backend executor.Backend, b box.Box, axis, halfLen int, real []float64) ([]complex128, error) {
	if b.Count() == 0 {
		return nil, nil
	}
	p := lineParams(b, axis)
	eng, err := executor.NewR2C(backend, p)
	if err != nil {
		return nil, err
	}
	padded := make([]complex128, (p.Batch-1)*p.N+halfLen)
	scratch := make([]complex128, eng.ScratchSize())
	if err := eng.Forward(real, padded, scratch); err != nil {
		return nil, err
	}
	dense := make([]complex128, p.Batch*halfLen)
	for i := 0; i < p.Batch; i++ {
		copy(dense[i*halfLen:(i+1)*halfLen], padded[i*p.N:i*p.N+halfLen])
	}
	return dense, nil
}

// runBackwardR2C is runForwardR2C's inverse: half is a dense Hermitian
// half (Stride=1, Dist=halfLen) over the full box b, and the result is
// a dense real line-batch (Stride=1, Dist=N), which is already the
// natural packing executor.R2C.Backward produces for the real side.
func runBackwardR2C(backend executor.Backend, b box.Box, axis, halfLen int, half []complex128) ([]float64, error) {
	if b.Count() == 0 {
		return nil, nil
	}
	p := lineParams(b, axis)
	eng, err := executor.NewR2C(backend, p)
	if err != nil {
		return nil, err
	}
	padded := make([]complex128, (p.Batch-1)*p.N+halfLen)
	for i := 0; i < p.Batch; i++ {
		copy(padded[i*p.N:i*p.N+halfLen], half[i*halfLen:(i+1)*halfLen])
	}
	out := make([]float64, b.Count())
	scratch := make([]complex128, eng.ScratchSize())
	if err := eng.Backward(padded, out, scratch); err != nil {
		return nil, err
	}
	return out, nil
}
