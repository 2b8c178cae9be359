package executor

import ktyefft "github.com/ktye/fft"

// ktyeEngine wraps github.com/ktye/fft, the smallest and most
// specialized of the four backends (power-of-two lengths). FFT is a
// struct built once via New and reused in place via Transform/Inverse
// (fft_test.go's BenchmarkKtyeFFT), not a free function over a slice.
type ktyeEngine struct {
	n int
	f *ktyefft.FFT
}

func newKtyeEngine(n int) (*ktyeEngine, error) {
	f, err := ktyefft.New(n)
	if err != nil {
		return nil, err
	}
	return &ktyeEngine{n: n, f: f}, nil
}

func (e *ktyeEngine) forwardC2C(x []complex128) []complex128 {
	e.f.Transform(x)
	return x
}

func (e *ktyeEngine) backwardC2C(x []complex128) []complex128 {
	e.f.Inverse(x)
	return x
}
