package reshape

import (
	"encoding/binary"
	"math"
)

// encode serializes x to bytes (8 bytes/element for complex64, 16 for
// complex128) for the transport, which only moves byte payloads.
func encode[E Complex](x []E) []byte {
	var zero E
	switch any(zero).(type) {
	case complex64:
		buf := make([]byte, len(x)*8)
		for i, v := range x {
			c := any(v).(complex64)
			binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(real(c)))
			binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(imag(c)))
		}
		return buf
	default:
		buf := make([]byte, len(x)*16)
		for i, v := range x {
			c := any(v).(complex128)
			binary.LittleEndian.PutUint64(buf[i*16:], math.Float64bits(real(c)))
			binary.LittleEndian.PutUint64(buf[i*16+8:], math.Float64bits(imag(c)))
		}
		return buf
	}
}

// decode is encode's inverse, reconstructing count elements of E.
func decode[E Complex](buf []byte, count int) []E {
	out := make([]E, count)
	var zero E
	switch any(zero).(type) {
	case complex64:
		for i := 0; i < count; i++ {
			r := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*8:]))
			im := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*8+4:]))
			out[i] = E(complex(r, im))
		}
	default:
		for i := 0; i < count; i++ {
			r := math.Float64frombits(binary.LittleEndian.Uint64(buf[i*16:]))
			im := math.Float64frombits(binary.LittleEndian.Uint64(buf[i*16+8:]))
			out[i] = E(complex(r, im))
		}
	}
	return out
}
