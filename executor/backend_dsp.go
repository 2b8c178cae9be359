package executor

import dspfft "github.com/mjibson/go-dsp/fft"

// dspEngine wraps github.com/mjibson/go-dsp/fft, used directly as a
// second C2C backend. It implements no real-input transform, so R2C
// for this backend goes through the padded-C2C fallback in r2c.go.
type dspEngine struct{ n int }

func newDSPEngine(n int) *dspEngine { return &dspEngine{n: n} }

func (e *dspEngine) forwardC2C(x []complex128) []complex128 {
	out := dspfft.FFT(x)
	copy(x, out)
	return x
}

func (e *dspEngine) backwardC2C(x []complex128) []complex128 {
	out := dspfft.IFFT(x)
	// go-dsp's IFFT already divides by N; undo it for the uniform
	// unscaled vectorEngine contract.
	scale := complex(float64(e.n), 0)
	for i := range out {
		out[i] *= scale
	}
	copy(x, out)
	return x
}
