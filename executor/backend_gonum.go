package executor

import "gonum.org/v1/gonum/dsp/fourier"

// gonumEngine wraps gonum.org/v1/gonum/dsp/fourier. It is the only
// backend with a genuinely native real-input transform, so it backs
// both the C2C vectorEngine and the native R2C path (see r2c.go).
type gonumEngine struct {
	n     int
	cmplx *fourier.CmplxFFT
	real  *fourier.FFT
}

func newGonumEngine(n int) *gonumEngine {
	return &gonumEngine{n: n, cmplx: fourier.NewCmplxFFT(n), real: fourier.NewFFT(n)}
}

func (e *gonumEngine) forwardC2C(x []complex128) []complex128 {
	out := e.cmplx.Coefficients(nil, x)
	copy(x, out)
	return x
}

func (e *gonumEngine) backwardC2C(x []complex128) []complex128 {
	// gonum's Sequence is already unnormalized (Sequence(Coefficients(x))
	// == N*x), exactly the unscaled inverse vectorEngine wants; no
	// further scaling here.
	out := e.cmplx.Sequence(nil, x)
	copy(x, out)
	return x
}

// forwardR2C produces the Hermitian half (n/2+1 coefficients) of the
// real-input DFT of in, using gonum's native real transform.
func (e *gonumEngine) forwardR2C(in []float64) []complex128 {
	return e.real.Coefficients(nil, in)
}

// backwardR2C reconstructs the real n-length sequence from its
// Hermitian half. Like the complex Sequence, gonum's real Sequence is
// already unnormalized, matching the unscaled realEngine contract.
func (e *gonumEngine) backwardR2C(cf []complex128) []float64 {
	return e.real.Sequence(nil, cf)
}
