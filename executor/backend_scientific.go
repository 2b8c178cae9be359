package executor

import scientificfft "scientificgo.org/fft"

// scientificEngine wraps scientificgo.org/fft. Fft takes an explicit
// inverse flag and performs the inverse natively (fft_test.go:218:
// scientificfft.Fft(x, false)), so both directions are one call each.
type scientificEngine struct{ n int }

func newScientificEngine(n int) *scientificEngine { return &scientificEngine{n: n} }

func (e *scientificEngine) forwardC2C(x []complex128) []complex128 {
	out := scientificfft.Fft(x, false)
	copy(x, out)
	return x
}

func (e *scientificEngine) backwardC2C(x []complex128) []complex128 {
	out := scientificfft.Fft(x, true)
	copy(x, out)
	return x
}
