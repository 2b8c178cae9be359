package planner

import (
	"testing"

	"github.com/EMinsight/heffte/box"
)

func singleRankPartition(b box.Box) box.Partition {
	return box.Partition{Global: b, Boxes: []box.Box{b}}
}

func TestConstructSingleRankC2C(t *testing.T) {
	g := box.NewBox([3]int{0, 0, 0}, [3]int{3, 3, 3})
	pIn := singleRankPartition(g)
	pOut := singleRankPartition(g)
	p, err := Construct(g, g, pIn, pOut, -1, DefaultOptions())
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if p.Layouts[0].Boxes[0].Count() != g.Count() {
		t.Errorf("L0 box count, got %d, want %d", p.Layouts[0].Boxes[0].Count(), g.Count())
	}
	if p.Layouts[3].Boxes[0] != pOut.Boxes[0] {
		t.Errorf("L3 must equal P_out exactly, got %v want %v", p.Layouts[3].Boxes[0], pOut.Boxes[0])
	}
	wantScale := 1.0 / (4 * 4 * 4)
	if d := p.ScaleBase - wantScale; d > 1e-12 || d < -1e-12 {
		t.Errorf("ScaleBase, got %v, want %v", p.ScaleBase, wantScale)
	}
}

func TestConstructGridSplitCoversGlobal(t *testing.T) {
	g := box.NewBox([3]int{0, 0, 0}, [3]int{7, 7, 7})
	boxes := []box.Box{
		box.NewBox([3]int{0, 0, 0}, [3]int{3, 3, 7}),
		box.NewBox([3]int{4, 0, 0}, [3]int{7, 3, 7}),
		box.NewBox([3]int{0, 4, 0}, [3]int{3, 7, 7}),
		box.NewBox([3]int{4, 4, 0}, [3]int{7, 7, 7}),
	}
	pIn := box.Partition{Global: g, Boxes: boxes}
	pOut := box.Partition{Global: g, Boxes: boxes}
	p, err := Construct(g, g, pIn, pOut, -1, DefaultOptions())
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	for k := 1; k <= 2; k++ {
		if err := p.Layouts[k].Validate(); err != nil {
			t.Errorf("L%d invalid: %v", k, err)
		}
		if !p.Layouts[k].AllPencils(p.Axes[k-1]) {
			t.Errorf("L%d not all pencils along axis %d", k, p.Axes[k-1])
		}
	}
}

func TestConstructR2CShrinksIntermediateLayouts(t *testing.T) {
	g := box.NewBox([3]int{0, 0, 0}, [3]int{7, 7, 7})
	pIn := singleRankPartition(g)
	shortG := g.Shrink(0, 0, 4) // axis 0: 8 -> 5 = floor(8/2)+1
	pOut := singleRankPartition(shortG)
	p, err := Construct(g, shortG, pIn, pOut, 0, DefaultOptions())
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if p.HalfLen != 5 {
		t.Errorf("HalfLen, got %d, want 5", p.HalfLen)
	}
	if ext := p.Layouts[1].Global.Extent(0); ext != 5 {
		t.Errorf("L1 extent on R2C axis, got %d, want 5", ext)
	}
	if ext := p.Layouts[2].Global.Extent(0); ext != 5 {
		t.Errorf("L2 extent on R2C axis, got %d, want 5", ext)
	}
	if p.Axes[0] != 0 {
		t.Errorf("Axes[0] (R2C axis) must lead, got %d", p.Axes[0])
	}
	// Scale factor must use the full (unshortened) axis length.
	wantScale := 1.0 / (8 * 8 * 8)
	if d := p.ScaleBase - wantScale; d > 1e-12 || d < -1e-12 {
		t.Errorf("ScaleBase, got %v, want %v", p.ScaleBase, wantScale)
	}
}

func TestConstructInvalidR2CAxis(t *testing.T) {
	g := box.NewBox([3]int{0, 0, 0}, [3]int{3, 3, 3})
	pIn := singleRankPartition(g)
	_, err := Construct(g, g, pIn, pIn, 5, DefaultOptions())
	if err == nil {
		t.Fatalf("Construct with r2cAxis=5, got nil error")
	}
}

func TestConstructInvalidPartitionRejected(t *testing.T) {
	g := box.NewBox([3]int{0, 0, 0}, [3]int{3, 3, 3})
	bad := box.Partition{Global: g, Boxes: []box.Box{
		box.NewBox([3]int{0, 0, 0}, [3]int{1, 3, 3}), // covers half, leaves a gap
	}}
	_, err := Construct(g, g, bad, bad, -1, DefaultOptions())
	if err == nil {
		t.Fatalf("Construct with invalid partition, got nil error")
	}
}

func TestGridFactors(t *testing.T) {
	cases := map[int][2]int{1: {1, 1}, 4: {2, 2}, 6: {2, 3}, 8: {2, 4}, 9: {3, 3}, 12: {3, 4}}
	for n, want := range cases {
		p, q := gridFactors(n)
		if [2]int{p, q} != want {
			t.Errorf("gridFactors(%d), got (%d,%d), want %v", n, p, q, want)
		}
	}
}

func TestSplitExtentBalances(t *testing.T) {
	chunks := splitExtent(0, 9, 4) // 10 points across 4 chunks: 3,3,2,2
	total := 0
	for _, c := range chunks {
		if c[1] >= c[0] {
			total += c[1] - c[0] + 1
		}
	}
	if total != 10 {
		t.Errorf("splitExtent total coverage, got %d, want 10", total)
	}
	if chunks[0][1]-chunks[0][0]+1 < chunks[3][1]-chunks[3][0]+1 {
		t.Errorf("splitExtent should front-load larger chunks, got %v", chunks)
	}
}
