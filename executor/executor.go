// Package executor adapts external 1D FFT engines behind the uniform
// interface the pipeline driver needs: a C2C (complex-to-complex)
// executor and an R2C (real-to-complex) executor, each constructed
// from (length, batch count, stride, distance) and applying no
// scaling of its own (scaling is the pipeline's job, §4.5/§4.6 of the
// design). Backend selection is a closed-world tagged Backend value,
// not an open plugin interface, matching spec.md §9's "static dispatch
// over backends" note: a real build would pick one compile-time, but
// here all five registered backends are always linked in and selected
// at construction time.
package executor

import (
	"github.com/EMinsight/heffte/internal/herrors"
)

// Backend names a concrete 1D FFT engine. The set is closed: there is
// no registration mechanism for out-of-tree engines.
type Backend int

const (
	// BackendNative is the in-tree engine with no external
	// dependency, adapted from the teacher's own butterfly FFT
	// (internal/native1d). Always available.
	BackendNative Backend = iota
	// BackendGonum wraps gonum.org/v1/gonum/dsp/fourier. The only
	// backend with a native real-input (R2C) transform; every other
	// backend's R2C support goes through the padded-C2C fallback in
	// r2c.go.
	BackendGonum
	// BackendDSP wraps github.com/mjibson/go-dsp/fft.
	BackendDSP
	// BackendKtye wraps github.com/ktye/fft, a minimal power-of-two
	// engine.
	BackendKtye
	// BackendScientific wraps scientificgo.org/fft.
	BackendScientific
)

func (b Backend) String() string {
	switch b {
	case BackendNative:
		return "native"
	case BackendGonum:
		return "gonum"
	case BackendDSP:
		return "go-dsp"
	case BackendKtye:
		return "ktye"
	case BackendScientific:
		return "scientific"
	default:
		return "unknown"
	}
}

// Precision names the floating-point width elements are carried in.
// Backends other than native currently only support Double; see
// Params.Precision and the per-backend constructors.
type Precision int

const (
	Double Precision = iota
	Single
)

// Params describes a 1D transform: N is the transform length along
// the FFT axis, Batch is the number of independent transforms packed
// into one buffer (the pencil's two cross dimensions, flattened),
// Stride is the element distance between consecutive samples of one
// transform, and Dist is the element distance between the first
// samples of consecutive transforms in the batch.
type Params struct {
	N, Batch, Stride, Dist int
	Precision              Precision
}

// vectorEngine is the minimal single-vector capability every backend
// must provide; C2C and R2C executors are built by wrapping one of
// these with the batching logic in batch.go (C2C) and r2c.go (R2C) so
// each backend need only
// implement a single transform of length N.
type vectorEngine interface {
	// forward performs an in-place or copying forward complex DFT of
	// length N (no scaling).
	forwardC2C(x []complex128) []complex128
	// backward performs the complex inverse DFT (no scaling).
	backwardC2C(x []complex128) []complex128
}

func newVectorEngine(backend Backend, n int) (vectorEngine, error) {
	switch backend {
	case BackendNative:
		return newNativeEngine(n), nil
	case BackendGonum:
		return newGonumEngine(n), nil
	case BackendDSP:
		return newDSPEngine(n), nil
	case BackendKtye:
		return newKtyeEngine(n)
	case BackendScientific:
		return newScientificEngine(n), nil
	default:
		return nil, &herrors.UnsupportedBackend{Name: backend.String()}
	}
}
