package executor

import (
	"sync"

	"github.com/EMinsight/heffte/internal/herrors"
)

// realEngine is implemented only by backends with a native real-input
// transform (currently gonum). Backends without one fall back to
// padding the real input into a complex vector and running the C2C
// engine, then keeping only the non-redundant half.
type realEngine interface {
	forwardR2C(in []float64) []complex128
	backwardR2C(cf []complex128) []float64
}

// R2C is a real-to-complex 1D executor over Params.Batch independent
// transforms, producing/consuming the Hermitian half of length
// N/2+1. Applies no scaling (spec.md §4.4).
type R2C struct {
	p      Params
	engine vectorEngine
	real   realEngine // non-nil only for backends with a native real transform
	mu     sync.Mutex
}

// NewR2C constructs an R2C executor. R2C is Double-precision only.
func NewR2C(backend Backend, p Params) (*R2C, error) {
	if p.Precision != Double {
		return nil, &herrors.UnsupportedBackend{Name: backend.String() + " (R2C single precision)"}
	}
	eng, err := newVectorEngine(backend, p.N)
	if err != nil {
		return nil, err
	}
	r := &R2C{p: p, engine: eng}
	if re, ok := eng.(realEngine); ok {
		r.real = re
	}
	return r, nil
}

// HalfLen returns floor(N/2)+1, the length of the Hermitian half this
// executor produces/consumes.
func (p Params) HalfLen() int { return p.N/2 + 1 }

// ScratchSize reports the per-call scratch requirement in complex
// elements.
func (e *R2C) ScratchSize() int { return e.p.N }

// Forward consumes Params.Batch real vectors of length N (strided by
// Params.Stride/Params.Dist over realIn) and produces Params.Batch
// complex vectors of length HalfLen() (similarly strided over
// complexOut). scratch is accepted for symmetry with C2C's contract
// but unused: each batch's goroutine keeps its own local vector since
// batches run concurrently against one caller-supplied buffer.
func (e *R2C) Forward(realIn []float64, complexOut []complex128, scratch []complex128) error {
	half := e.p.HalfLen()
	neededIn := (e.p.Batch-1)*e.p.Dist + (e.p.N-1)*e.p.Stride + 1
	neededOut := (e.p.Batch-1)*e.p.Dist + (half-1)*e.p.Stride + 1
	if len(realIn) < neededIn {
		return &herrors.SizeMismatch{Buffer: "real input", Want: neededIn, Got: len(realIn)}
	}
	if len(complexOut) < neededOut {
		return &herrors.SizeMismatch{Buffer: "complex output", Want: neededOut, Got: len(complexOut)}
	}
	var wg sync.WaitGroup
	wg.Add(e.p.Batch)
	for b := 0; b < e.p.Batch; b++ {
		b := b
		go func() {
			defer wg.Done()
			inBase := b * e.p.Dist
			vec := make([]float64, e.p.N)
			for i := 0; i < e.p.N; i++ {
				vec[i] = realIn[inBase+i*e.p.Stride]
			}
			half := e.forwardOne(vec)
			outBase := b * e.p.Dist
			for i := 0; i < len(half); i++ {
				complexOut[outBase+i*e.p.Stride] = half[i]
			}
		}()
	}
	wg.Wait()
	return nil
}

// Backward consumes Params.Batch complex half-spectra and produces
// Params.Batch real vectors of length N (unscaled). scratch is unused,
// for the same reason noted on Forward.
func (e *R2C) Backward(complexIn []complex128, realOut []float64, scratch []complex128) error {
	half := e.p.HalfLen()
	neededIn := (e.p.Batch-1)*e.p.Dist + (half-1)*e.p.Stride + 1
	neededOut := (e.p.Batch-1)*e.p.Dist + (e.p.N-1)*e.p.Stride + 1
	if len(complexIn) < neededIn {
		return &herrors.SizeMismatch{Buffer: "complex input", Want: neededIn, Got: len(complexIn)}
	}
	if len(realOut) < neededOut {
		return &herrors.SizeMismatch{Buffer: "real output", Want: neededOut, Got: len(realOut)}
	}
	var wg sync.WaitGroup
	wg.Add(e.p.Batch)
	for b := 0; b < e.p.Batch; b++ {
		b := b
		go func() {
			defer wg.Done()
			inBase := b * e.p.Dist
			vec := make([]complex128, half)
			for i := 0; i < half; i++ {
				vec[i] = complexIn[inBase+i*e.p.Stride]
			}
			out := e.backwardOne(vec)
			outBase := b * e.p.Dist
			for i := 0; i < e.p.N; i++ {
				realOut[outBase+i*e.p.Stride] = out[i]
			}
		}()
	}
	wg.Wait()
	return nil
}

func (e *R2C) forwardOne(in []float64) []complex128 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.real != nil {
		return e.real.forwardR2C(in)
	}
	padded := make([]complex128, e.p.N)
	for i, v := range in {
		padded[i] = complex(v, 0)
	}
	full := e.engine.forwardC2C(padded)
	return append([]complex128(nil), full[:e.p.HalfLen()]...)
}

func (e *R2C) backwardOne(half []complex128) []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.real != nil {
		return e.real.backwardR2C(half)
	}
	full := mirrorHermitian(half, e.p.N)
	out := e.engine.backwardC2C(full)
	result := make([]float64, e.p.N)
	for i, v := range out {
		result[i] = real(v)
	}
	return result
}

// mirrorHermitian reconstructs the full length-n complex spectrum
// from its non-redundant half by conjugate-mirroring, the standard
// Hermitian-symmetry relation a real signal's DFT satisfies
// (spec.md §8 property 4).
func mirrorHermitian(half []complex128, n int) []complex128 {
	full := make([]complex128, n)
	copy(full, half)
	for k := len(half); k < n; k++ {
		src := n - k
		v := full[src]
		full[k] = complex(real(v), -imag(v))
	}
	return full
}
