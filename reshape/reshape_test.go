package reshape

import (
	"context"
	"testing"

	"github.com/EMinsight/heffte/box"
	"github.com/EMinsight/heffte/comm"
)

// slabPartition splits axis into n contiguous chunks, one per rank,
// leaving the other two axes whole.
func slabPartition(global box.Box, axis, n int) box.Partition {
	ext := global.Extent(axis)
	base := ext / n
	rem := ext % n
	boxes := make([]box.Box, n)
	cursor := global.Lo[axis]
	for r := 0; r < n; r++ {
		size := base
		if r < rem {
			size++
		}
		b := global
		if size <= 0 {
			b.Lo[axis] = cursor
			b.Hi[axis] = cursor - 1
		} else {
			b.Lo[axis] = cursor
			b.Hi[axis] = cursor + size - 1
			cursor += size
		}
		boxes[r] = b
	}
	return box.Partition{Global: global, Boxes: boxes}
}

// fill stamps a deterministic value at every global lattice point in
// localBox into buf (laid out as localBox), keyed by linear global
// index, so the test can check identity after a round trip through two
// different layouts.
func fill(global, local box.Box, buf []complex128, tag func(p [3]int) complex128) {
	forEachPoint(local, func(p [3]int) {
		buf[local.Index(p)] = tag(p)
	})
}

func tagOf(global box.Box) func(p [3]int) complex128 {
	ny := global.Extent(1)
	nz := global.Extent(2)
	return func(p [3]int) complex128 {
		idx := p[0]*ny*nz + p[1]*nz + p[2]
		return complex(float64(idx), 0)
	}
}

func TestExecuteRedistributesAcrossRanks(t *testing.T) {
	global := box.NewBox([3]int{0, 0, 0}, [3]int{3, 3, 3})
	n := 4
	src := slabPartition(global, 0, n) // slabs along x
	dst := slabPartition(global, 1, n) // slabs along y

	groups := comm.NewInProcessGroup(n)
	tag := tagOf(global)

	localSrc := make([][]complex128, n)
	localDst := make([][]complex128, n)
	for r := 0; r < n; r++ {
		localSrc[r] = make([]complex128, src.Boxes[r].Count())
		fill(global, src.Boxes[r], localSrc[r], tag)
		localDst[r] = make([]complex128, dst.Boxes[r].Count())
	}

	err := comm.RunSPMD(context.Background(), groups, func(ctx context.Context, g comm.Group) error {
		r := g.Rank()
		desc := Build(r, src, dst)
		return Execute[complex128](ctx, g, desc, localSrc[r], localDst[r], StrategyAllToAll)
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for r := 0; r < n; r++ {
		local := dst.Boxes[r]
		forEachPoint(local, func(p [3]int) {
			want := tag(p)
			have := localDst[r][local.Index(p)]
			if have != want {
				t.Fatalf("rank %d point %v: got %v, want %v", r, p, have, want)
			}
		})
	}
}

func TestExecuteIdentityReshapeIsLocalCopy(t *testing.T) {
	global := box.NewBox([3]int{0, 0, 0}, [3]int{2, 2, 2})
	n := 2
	part := slabPartition(global, 0, n)

	groups := comm.NewInProcessGroup(n)
	tag := tagOf(global)

	localSrc := make([][]complex128, n)
	localDst := make([][]complex128, n)
	for r := 0; r < n; r++ {
		localSrc[r] = make([]complex128, part.Boxes[r].Count())
		fill(global, part.Boxes[r], localSrc[r], tag)
		localDst[r] = make([]complex128, part.Boxes[r].Count())
	}

	err := comm.RunSPMD(context.Background(), groups, func(ctx context.Context, g comm.Group) error {
		r := g.Rank()
		desc := Build(r, part, part)
		if !desc.IsIdentity() {
			t.Errorf("rank %d: expected identity reshape", r)
		}
		return Execute[complex128](ctx, g, desc, localSrc[r], localDst[r], StrategyAllToAll)
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for r := 0; r < n; r++ {
		local := part.Boxes[r]
		forEachPoint(local, func(p [3]int) {
			want := tag(p)
			have := localDst[r][local.Index(p)]
			if have != want {
				t.Fatalf("rank %d point %v: got %v, want %v", r, p, have, want)
			}
		})
	}
}

func TestExecuteTransposesAxisOrder(t *testing.T) {
	global := box.NewBox([3]int{0, 0, 0}, [3]int{1, 1, 1})
	src := box.Partition{Global: global, Boxes: []box.Box{global.Reorder([3]int{0, 1, 2})}}
	dst := box.Partition{Global: global, Boxes: []box.Box{global.Reorder([3]int{2, 1, 0})}}

	groups := comm.NewInProcessGroup(1)
	tag := tagOf(global)

	in := make([]complex128, global.Count())
	fill(global, src.Boxes[0], in, tag)
	out := make([]complex128, global.Count())

	err := comm.RunSPMD(context.Background(), groups, func(ctx context.Context, g comm.Group) error {
		desc := Build(0, src, dst)
		return Execute[complex128](ctx, g, desc, in, out, StrategyAllToAll)
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	forEachPoint(dst.Boxes[0], func(p [3]int) {
		want := tag(p)
		have := out[dst.Boxes[0].Index(p)]
		if have != want {
			t.Fatalf("point %v: got %v, want %v", p, have, want)
		}
	})
}
