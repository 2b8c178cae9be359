package pipeline

import "github.com/EMinsight/heffte/box"

type scalar interface {
	~complex64 | ~complex128 | ~float32 | ~float64
}

// relayout copies data laid out as src into a freshly allocated buffer
// laid out as dst. src and dst must cover the same lattice region
// (identical Lo/Hi) but may carry different axis orders; this is a
// pure local transpose with no communication, used to move between a
// caller-chosen box ordering (L0/L3) and the fastest-axis ordering a
// 1D transform stage requires.
func relayout[E scalar](src, dst box.Box, data []E) []E {
	out := make([]E, dst.Count())
	var p [3]int
	for p[2] = src.Lo[2]; p[2] <= src.Hi[2]; p[2]++ {
		for p[1] = src.Lo[1]; p[1] <= src.Hi[1]; p[1]++ {
			for p[0] = src.Lo[0]; p[0] <= src.Hi[0]; p[0]++ {
				out[dst.Index(p)] = data[src.Index(p)]
			}
		}
	}
	return out
}
