package reshape

import "github.com/EMinsight/heffte/box"

// Complex is the element type constraint the reshape operator works
// over: complex64 (single precision) or complex128 (double).
type Complex interface {
	~complex64 | ~complex128
}

// forEachPoint visits every lattice point of b in a fixed canonical
// order (axis 2 outermost, axis 0 innermost), independent of b's own
// axis order. Pack and Unpack both drive this same order, so the N-th
// point packed is the N-th point unpacked regardless of how the
// source and destination boxes lay their axes out in memory; the
// per-box Index call is what actually applies each side's own
// strides, which is what gives Unpack its transposition.
func forEachPoint(b box.Box, visit func(p [3]int)) {
	if b.Empty() {
		return
	}
	var p [3]int
	for p[2] = b.Lo[2]; p[2] <= b.Hi[2]; p[2]++ {
		for p[1] = b.Lo[1]; p[1] <= b.Hi[1]; p[1]++ {
			for p[0] = b.Lo[0]; p[0] <= b.Hi[0]; p[0]++ {
				visit(p)
			}
		}
	}
}

// Pack copies the subregion of buf (laid out as localBox) covered by
// tile into a freshly allocated contiguous slice, in forEachPoint
// order. localBox must be the box whose linear layout buf follows
// (the rank's local source box).
func Pack[E Complex](buf []E, localBox box.Box, tile box.Box) []E {
	out := make([]E, tile.Count())
	i := 0
	forEachPoint(tile, func(p [3]int) {
		out[i] = buf[localBox.Index(p)]
		i++
	})
	return out
}

// Unpack copies data (packed in forEachPoint order over tile) into
// buf, laid out as localBox — performing the axis transposition
// implied by localBox's own Order, since each destination offset is
// computed from localBox's strides independently of how data was
// produced.
func Unpack[E Complex](buf []E, localBox box.Box, tile box.Box, data []E) {
	i := 0
	forEachPoint(tile, func(p [3]int) {
		buf[localBox.Index(p)] = data[i]
		i++
	})
}
