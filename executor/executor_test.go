package executor

import (
	"math/cmplx"
	"math/rand"
	"testing"
)

func complexRand(n int) []complex128 {
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(rand.NormFloat64(), rand.NormFloat64())
	}
	return x
}

func floatRand(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = rand.NormFloat64()
	}
	return x
}

func TestC2CRoundTrip(t *testing.T) {
	for _, backend := range []Backend{BackendNative, BackendGonum} {
		for _, n := range []int{2, 4, 8, 16} {
			e, err := NewC2C(backend, Params{N: n, Batch: 1, Stride: 1, Dist: n, Precision: Double})
			if err != nil {
				t.Fatalf("backend=%v NewC2C: %v", backend, err)
			}
			x := complexRand(n)
			data := append([]complex128(nil), x...)
			scratch := make([]complex128, n)
			if err := e.Forward(data, scratch); err != nil {
				t.Fatalf("backend=%v Forward: %v", backend, err)
			}
			if err := e.Backward(data, scratch); err != nil {
				t.Fatalf("backend=%v Backward: %v", backend, err)
			}
			invN := complex(1/float64(n), 0)
			for i := range data {
				got := data[i] * invN
				if d := cmplx.Abs(got - x[i]); d > 1e-9 {
					t.Errorf("backend=%v n=%d i=%d: round trip diff %v (want %v got %v)", backend, n, i, d, x[i], got)
				}
			}
		}
	}
}

func TestC2CBatchedStrided(t *testing.T) {
	// Two interleaved length-4 vectors, stride 2 (column-major pencil).
	n, batch := 4, 2
	e, err := NewC2C(BackendNative, Params{N: n, Batch: batch, Stride: batch, Dist: 1, Precision: Double})
	if err != nil {
		t.Fatalf("NewC2C: %v", err)
	}
	x0 := complexRand(n)
	x1 := complexRand(n)
	data := make([]complex128, n*batch)
	for i := 0; i < n; i++ {
		data[i*batch+0] = x0[i]
		data[i*batch+1] = x1[i]
	}
	scratch := make([]complex128, n)
	if err := e.Forward(data, scratch); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	single, _ := NewC2C(BackendNative, Params{N: n, Batch: 1, Stride: 1, Dist: n, Precision: Double})
	want0 := append([]complex128(nil), x0...)
	single.Forward(want0, scratch)
	want1 := append([]complex128(nil), x1...)
	single.Forward(want1, scratch)

	for i := 0; i < n; i++ {
		if d := cmplx.Abs(data[i*batch+0] - want0[i]); d > 1e-9 {
			t.Errorf("batch 0, i=%d: got %v want %v diff %v", i, data[i*batch+0], want0[i], d)
		}
		if d := cmplx.Abs(data[i*batch+1] - want1[i]); d > 1e-9 {
			t.Errorf("batch 1, i=%d: got %v want %v diff %v", i, data[i*batch+1], want1[i], d)
		}
	}
}

func TestR2CHalfLenAndRoundTrip(t *testing.T) {
	for _, backend := range []Backend{BackendNative, BackendGonum} {
		for _, n := range []int{4, 8, 16} {
			e, err := NewR2C(backend, Params{N: n, Batch: 1, Stride: 1, Dist: n, Precision: Double})
			if err != nil {
				t.Fatalf("backend=%v NewR2C: %v", backend, err)
			}
			half := Params{N: n}.HalfLen()
			if half != n/2+1 {
				t.Fatalf("HalfLen, got %d, want %d", half, n/2+1)
			}
			x := floatRand(n)
			out := make([]complex128, half)
			scratch := make([]complex128, n)
			if err := e.Forward(x, out, scratch); err != nil {
				t.Fatalf("backend=%v Forward: %v", backend, err)
			}
			back := make([]float64, n)
			if err := e.Backward(out, back, scratch); err != nil {
				t.Fatalf("backend=%v Backward: %v", backend, err)
			}
			for i := range x {
				got := back[i] / float64(n)
				if d := got - x[i]; d > 1e-9 || d < -1e-9 {
					t.Errorf("backend=%v n=%d i=%d: round trip diff %v (want %v got %v)", backend, n, i, d, x[i], got)
				}
			}
		}
	}
}

func TestR2CDeltaHasUnitMagnitude(t *testing.T) {
	n := 8
	e, err := NewR2C(BackendNative, Params{N: n, Batch: 1, Stride: 1, Dist: n, Precision: Double})
	if err != nil {
		t.Fatalf("NewR2C: %v", err)
	}
	x := make([]float64, n)
	x[0] = 1
	out := make([]complex128, Params{N: n}.HalfLen())
	scratch := make([]complex128, n)
	if err := e.Forward(x, out, scratch); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	for i, v := range out {
		if d := cmplx.Abs(v) - 1; d > 1e-9 || d < -1e-9 {
			t.Errorf("delta transform magnitude at %d: got %v, want 1", i, cmplx.Abs(v))
		}
	}
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := NewC2C(Backend(99), Params{N: 4, Batch: 1, Stride: 1, Dist: 4})
	if err == nil {
		t.Fatalf("NewC2C with invalid backend, got nil error")
	}
}
