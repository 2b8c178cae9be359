// Package box implements the geometric primitives the planner and
// reshape operator build on: axis-aligned integer boxes, partitions
// (per-rank tilings of a global box), and the collective Gather that
// lets every rank learn every peer's box.
package box

import "fmt"

// Box is a closed, axis-aligned rectangular region of the integer
// lattice described by an inclusive lower and upper corner, plus the
// axis order that says which lattice axis varies fastest in memory.
// Order is a permutation of (0,1,2); Order[0] is the fastest-varying
// axis. An empty box (Lo[i] > Hi[i] for some i, or the zero value
// Box{}, which Intersect and Shrink return when nothing overlaps) has
// Count() == 0.
type Box struct {
	Lo    [3]int
	Hi    [3]int
	Order [3]int
}

// NewBox constructs a box with the identity axis order (0 fastest).
func NewBox(lo, hi [3]int) Box {
	return Box{Lo: lo, Hi: hi, Order: [3]int{0, 1, 2}}
}

// Empty reports whether the box contains no lattice points.
func (b Box) Empty() bool {
	if b == (Box{}) {
		return true
	}
	for i := 0; i < 3; i++ {
		if b.Hi[i] < b.Lo[i] {
			return true
		}
	}
	return false
}

// Extent returns the number of lattice points spanned along axis i.
func (b Box) Extent(axis int) int {
	if b.Hi[axis] < b.Lo[axis] {
		return 0
	}
	return b.Hi[axis] - b.Lo[axis] + 1
}

// Count returns the total number of lattice points in the box, 0 if
// the box is empty.
func (b Box) Count() int {
	if b.Empty() {
		return 0
	}
	n := 1
	for i := 0; i < 3; i++ {
		n *= b.Extent(i)
	}
	return n
}

// Reorder returns a copy of b stamped with a new axis order. It does
// not move the box's corners; two boxes with identical corners but
// different orders describe the same lattice points in a different
// in-memory layout.
func (b Box) Reorder(order [3]int) Box {
	b.Order = order
	return b
}

// Intersect returns the box containing the lattice points common to a
// and b. The result carries a's axis order. If the boxes do not
// overlap on some axis the result is empty (zero Count).
func Intersect(a, b Box) Box {
	var r Box
	r.Order = a.Order
	for i := 0; i < 3; i++ {
		lo := a.Lo[i]
		if b.Lo[i] > lo {
			lo = b.Lo[i]
		}
		hi := a.Hi[i]
		if b.Hi[i] < hi {
			hi = b.Hi[i]
		}
		r.Lo[i] = lo
		r.Hi[i] = hi
	}
	if r.Empty() {
		return Box{}
	}
	return r
}

// IsPencil reports whether b spans the full extent of global along
// axis, i.e. b owns every lattice index of global on that axis.
func IsPencil(b Box, axis int, global Box) bool {
	if b.Empty() {
		return false
	}
	return b.Lo[axis] == global.Lo[axis] && b.Hi[axis] == global.Hi[axis]
}

// Shrink returns a copy of b with axis clipped to [lo, hi]. Used by
// the planner to cut a box down to the R2C Hermitian-half extent; the
// result may become empty if b did not overlap [lo, hi] on axis.
func (b Box) Shrink(axis, lo, hi int) Box {
	if b.Lo[axis] > hi || b.Hi[axis] < lo {
		return Box{}
	}
	if b.Lo[axis] < lo {
		b.Lo[axis] = lo
	}
	if b.Hi[axis] > hi {
		b.Hi[axis] = hi
	}
	return b
}

func (b Box) String() string {
	return fmt.Sprintf("Box{lo:%v hi:%v order:%v count:%d}", b.Lo, b.Hi, b.Order, b.Count())
}

// Strides returns the linear-memory stride for each lattice axis,
// consistent with b's axis order (Order[0] fastest).
func (b Box) Strides() [3]int {
	var s [3]int
	stride := 1
	for _, axis := range b.Order {
		s[axis] = stride
		stride *= b.Extent(axis)
	}
	return s
}

// Index returns the linear offset of global coordinate p within b's
// local memory layout. p must lie within b.
func (b Box) Index(p [3]int) int {
	s := b.Strides()
	off := 0
	for i := 0; i < 3; i++ {
		off += (p[i] - b.Lo[i]) * s[i]
	}
	return off
}
