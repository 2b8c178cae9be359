package box

import "github.com/EMinsight/heffte/internal/herrors"

// Partition is an ordered sequence of boxes, one per rank, whose union
// equals a stated global box and whose interiors are pairwise
// disjoint. It is the canonical description of "who owns what".
type Partition struct {
	Global Box
	Boxes  []Box
}

// Validate checks the partition invariant: every rank's box must lie
// within Global, and boxes must be pairwise non-overlapping, and their
// union must equal Global exactly (checked by volume: since boxes are
// disjoint subsets of Global, equal total volume implies equal union).
func (p Partition) Validate() error {
	total := 0
	for i, b := range p.Boxes {
		if b.Empty() {
			continue
		}
		if !boxWithin(b, p.Global) {
			return &herrors.InvalidPartition{Reason: "rank box extends outside the global box"}
		}
		for j := i + 1; j < len(p.Boxes); j++ {
			if !p.Boxes[j].Empty() && Intersect(b, p.Boxes[j]).Count() > 0 {
				return &herrors.InvalidPartition{Reason: "rank boxes overlap"}
			}
		}
		total += b.Count()
	}
	if total != p.Global.Count() {
		return &herrors.InvalidPartition{Reason: "union of rank boxes does not cover the global box"}
	}
	return nil
}

func boxWithin(b, g Box) bool {
	for i := 0; i < 3; i++ {
		if b.Lo[i] < g.Lo[i] || b.Hi[i] > g.Hi[i] {
			return false
		}
	}
	return true
}

// Shrink returns a new partition with every box (and the global box)
// clipped to [lo, hi] on axis. Ranks may end up with an empty box;
// that is valid per the R2C geometry contract.
func (p Partition) Shrink(axis, lo, hi int) Partition {
	out := Partition{
		Global: p.Global.Shrink(axis, lo, hi),
		Boxes:  make([]Box, len(p.Boxes)),
	}
	for i, b := range p.Boxes {
		out.Boxes[i] = b.Shrink(axis, lo, hi)
	}
	return out
}

// Reorder stamps every box in the partition with the given axis
// order, without moving any corners.
func (p Partition) Reorder(order [3]int) Partition {
	out := Partition{Global: p.Global.Reorder(order), Boxes: make([]Box, len(p.Boxes))}
	for i, b := range p.Boxes {
		out.Boxes[i] = b.Reorder(order)
	}
	return out
}

// AllPencils reports whether every non-empty box in the partition is
// a pencil along axis.
func (p Partition) AllPencils(axis int) bool {
	for _, b := range p.Boxes {
		if b.Empty() {
			continue
		}
		if !IsPencil(b, axis, p.Global) {
			return false
		}
	}
	return true
}
