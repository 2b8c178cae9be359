// Package planner implements the logic planner (spec.md §4.2): a pure
// function from the global input/output boxes, the per-rank
// input/output partitions, an optional R2C axis and construction
// options, to a Plan — the four-layout sequence plus FFT axis order
// the reshape and pipeline packages execute.
package planner

import (
	"github.com/EMinsight/heffte/box"
	"github.com/EMinsight/heffte/internal/herrors"
)

// Plan is the logic plan of spec.md §3: four partitions L0..L3 (L0
// equals the input partition, L3 equals the output partition exactly)
// and the three FFT axes applied between them.
type Plan struct {
	Layouts   [4]box.Partition
	Axes      [3]int
	R2CAxis   int // -1 if this is a C2C plan
	HalfLen   int // only meaningful when R2CAxis >= 0
	ScaleBase float64
	// FullAxis0 is L1 before the R2C shrink: a pencil along Axes[0]
	// spanning the full (unshortened) extent there. The pipeline
	// driver needs it to run the R2C transform itself, since Layouts[1]
	// as stored already carries the shrunk Hermitian-half extent.
	// Equal to Layouts[1] when R2CAxis is -1.
	FullAxis0 box.Partition
}

// Construct builds a Plan for the given global boxes and per-rank
// partitions. r2cAxis is -1 for a plain C2C transform, or one of
// {0,1,2} to request the real-to-complex variant shortened on that
// axis.
func Construct(globalIn, globalOut box.Box, pIn, pOut box.Partition, r2cAxis int, opts Options) (*Plan, error) {
	if r2cAxis < -1 || r2cAxis > 2 {
		return nil, &herrors.InvalidR2CAxis{Axis: r2cAxis}
	}
	if !opts.set {
		opts = DefaultOptions()
	}
	pIn.Global = globalIn
	pOut.Global = globalOut
	if err := pIn.Validate(); err != nil {
		return nil, err
	}
	if err := pOut.Validate(); err != nil {
		return nil, err
	}

	n := len(pIn.Boxes)
	axes := chooseAxes(pIn, r2cAxis)

	l1 := buildPencilLayout(globalIn, n, axes[0])
	l2 := buildPencilLayout(globalIn, n, axes[1])

	if opts.Reorder {
		l1 = l1.Reorder(fastestFirst(axes[0]))
		l2 = l2.Reorder(fastestFirst(axes[1]))
	}
	fullAxis0 := l1

	halfLen := 0
	if r2cAxis >= 0 {
		fullN := globalIn.Extent(r2cAxis)
		halfLen = fullN/2 + 1
		l1 = l1.Shrink(r2cAxis, 0, halfLen-1)
		l2 = l2.Shrink(r2cAxis, 0, halfLen-1)
	}

	p := &Plan{
		Layouts:   [4]box.Partition{pIn, l1, l2, pOut},
		Axes:      axes,
		R2CAxis:   r2cAxis,
		HalfLen:   halfLen,
		FullAxis0: fullAxis0,
	}
	p.ScaleBase = 1.0
	for _, a := range axes {
		p.ScaleBase /= float64(globalIn.Extent(a))
	}
	return p, nil
}

// buildPencilLayout constructs a partition of global with n ranks
// where every rank's box is a pencil along axis: the global box's
// other two axes are split across a p x q grid of ranks (spec.md
// §4.2 step 2), balancing volumes and matching the rank count's
// factorization.
func buildPencilLayout(global box.Box, n, axis int) box.Partition {
	rest := remainingAxes(axis)
	p, q := gridFactors(n)
	rowChunks := splitExtent(global.Lo[rest[0]], global.Hi[rest[0]], p)
	colChunks := splitExtent(global.Lo[rest[1]], global.Hi[rest[1]], q)

	boxes := make([]box.Box, n)
	for rank := 0; rank < n; rank++ {
		row := rank / q
		col := rank % q
		b := global
		b.Lo[rest[0]], b.Hi[rest[0]] = rowChunks[row][0], rowChunks[row][1]
		b.Lo[rest[1]], b.Hi[rest[1]] = colChunks[col][0], colChunks[col][1]
		// axis itself keeps the global's full extent: that is what
		// makes this a pencil.
		boxes[rank] = b
	}
	return box.Partition{Global: global, Boxes: boxes}
}

// fastestFirst returns the axis order with axis fastest in memory and
// the remaining two ascending, so the FFT along axis sees contiguous
// data (spec.md §4.2 step 3).
func fastestFirst(axis int) [3]int {
	rest := remainingAxes(axis)
	return [3]int{axis, rest[0], rest[1]}
}
