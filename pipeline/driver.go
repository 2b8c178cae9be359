// Package pipeline implements the forward/backward execution driver
// of spec.md §4.5: given a planner.Plan, it alternates the reshape
// operator's redistribution with the three 1D FFT axis stages, each
// transform running at the layout planner.Construct built as a pencil
// along that axis (Layouts[1] is pencil along Axes[0], Layouts[2]
// along Axes[1]); the final axis transforms directly at the caller's
// output partition, which the caller must supply as a valid pencil
// along Axes[2] (the planner does not reshape into a fourth internal
// layout). Driver assumes the plan was built with Options.Reorder set
// (the default), so every layout it transforms at already has its FFT
// axis fastest in memory. It substitutes the real/complex transform
// at the R2C axis stage and applies the requested scaling once, as a
// single linear pass over the final result.
package pipeline

import (
	"context"

	"github.com/EMinsight/heffte/box"
	"github.com/EMinsight/heffte/comm"
	"github.com/EMinsight/heffte/executor"
	"github.com/EMinsight/heffte/internal/herrors"
	"github.com/EMinsight/heffte/planner"
	"github.com/EMinsight/heffte/reshape"
)

// Driver runs one plan's transform in either direction for a single
// rank, given that rank's communication group handle.
type Driver struct {
	Plan     *planner.Plan
	Backend  executor.Backend
	Strategy reshape.Strategy
}

// New builds a Driver for plan, executing 1D stages on backend and
// moving data between layouts via strategy.
func New(plan *planner.Plan, backend executor.Backend, strategy reshape.Strategy) *Driver {
	return &Driver{Plan: plan, Backend: backend, Strategy: strategy}
}

// reshapeStage redistributes data (laid out as src.Boxes[rank]) into
// dst.Boxes[rank]'s layout via the group-communication transport.
func (d *Driver) reshapeStage(ctx context.Context, g comm.Group, rank int, src, dst box.Partition, data []complex128) ([]complex128, error) {
	desc := reshape.Build(rank, src, dst)
	out := make([]complex128, dst.Boxes[rank].Count())
	if err := reshape.Execute[complex128](ctx, g, desc, data, out, d.Strategy); err != nil {
		return nil, err
	}
	return out, nil
}

func toComplex(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v, 0)
	}
	return out
}

func realPart(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = real(v)
	}
	return out
}

// ForwardC2C runs the forward complex-to-complex transform: local is
// this rank's data laid out as Plan.Layouts[0] (the caller's input
// partition), and the result is laid out as Plan.Layouts[3] (the
// caller's output partition).
func (d *Driver) ForwardC2C(ctx context.Context, g comm.Group, local []complex128, scaling Scaling) ([]complex128, error) {
	p := d.Plan
	if p.R2CAxis != -1 {
		return nil, &herrors.InvalidR2CAxis{Axis: p.R2CAxis}
	}
	rank := g.Rank()

	cur, err := d.reshapeStage(ctx, g, rank, p.Layouts[0], p.Layouts[1], local)
	if err != nil {
		return nil, err
	}
	if err := runForward(d.Backend, p.Layouts[1].Boxes[rank], p.Axes[0], cur); err != nil {
		return nil, err
	}

	cur, err = d.reshapeStage(ctx, g, rank, p.Layouts[1], p.Layouts[2], cur)
	if err != nil {
		return nil, err
	}
	if err := runForward(d.Backend, p.Layouts[2].Boxes[rank], p.Axes[1], cur); err != nil {
		return nil, err
	}

	l3Fast := p.Layouts[3].Reorder(fastestFirst(p.Axes[2]))
	cur, err = d.reshapeStage(ctx, g, rank, p.Layouts[2], l3Fast, cur)
	if err != nil {
		return nil, err
	}
	if err := runForward(d.Backend, l3Fast.Boxes[rank], p.Axes[2], cur); err != nil {
		return nil, err
	}

	out := relayout(l3Fast.Boxes[rank], p.Layouts[3].Boxes[rank], cur)
	applyScale(out, Factor(p.ScaleBase, scaling))
	return out, nil
}

// BackwardC2C runs the inverse of ForwardC2C: local is laid out as
// Plan.Layouts[3], the result as Plan.Layouts[0].
func (d *Driver) BackwardC2C(ctx context.Context, g comm.Group, local []complex128, scaling Scaling) ([]complex128, error) {
	p := d.Plan
	if p.R2CAxis != -1 {
		return nil, &herrors.InvalidR2CAxis{Axis: p.R2CAxis}
	}
	rank := g.Rank()

	l3Fast := p.Layouts[3].Reorder(fastestFirst(p.Axes[2]))
	cur := relayout(p.Layouts[3].Boxes[rank], l3Fast.Boxes[rank], local)
	if err := runBackward(d.Backend, l3Fast.Boxes[rank], p.Axes[2], cur); err != nil {
		return nil, err
	}

	cur, err := d.reshapeStage(ctx, g, rank, l3Fast, p.Layouts[2], cur)
	if err != nil {
		return nil, err
	}
	if err := runBackward(d.Backend, p.Layouts[2].Boxes[rank], p.Axes[1], cur); err != nil {
		return nil, err
	}

	cur, err = d.reshapeStage(ctx, g, rank, p.Layouts[2], p.Layouts[1], cur)
	if err != nil {
		return nil, err
	}
	if err := runBackward(d.Backend, p.Layouts[1].Boxes[rank], p.Axes[0], cur); err != nil {
		return nil, err
	}

	out, err := d.reshapeStage(ctx, g, rank, p.Layouts[1], p.Layouts[0], cur)
	if err != nil {
		return nil, err
	}
	applyScale(out, Factor(p.ScaleBase, scaling))
	return out, nil
}

// ForwardR2C runs the forward real-to-complex transform: local is
// this rank's real data laid out as Plan.Layouts[0], and the result
// is the Hermitian-half complex spectrum laid out as Plan.Layouts[3].
// The real data is reshaped into Plan.FullAxis0 (L1 at its full,
// pre-shrink extent) before the R2C transform runs there; every stage
// after that is ordinary complex-to-complex, since the transform's
// output already has the shrunk half-length extent Layouts[1] stores.
func (d *Driver) ForwardR2C(ctx context.Context, g comm.Group, local []float64, scaling Scaling) ([]complex128, error) {
	p := d.Plan
	if p.R2CAxis < 0 {
		return nil, &herrors.InvalidR2CAxis{Axis: p.R2CAxis}
	}
	rank := g.Rank()
	axis0 := p.Axes[0]

	realCur, err := d.reshapeStage(ctx, g, rank, p.Layouts[0], p.FullAxis0, toComplex(local))
	if err != nil {
		return nil, err
	}
	cur, err := runForwardR2C(d.Backend, p.FullAxis0.Boxes[rank], axis0, p.HalfLen, realPart(realCur))
	if err != nil {
		return nil, err
	}

	cur, err = d.reshapeStage(ctx, g, rank, p.Layouts[1], p.Layouts[2], cur)
	if err != nil {
		return nil, err
	}
	if err := runForward(d.Backend, p.Layouts[2].Boxes[rank], p.Axes[1], cur); err != nil {
		return nil, err
	}

	l3Fast := p.Layouts[3].Reorder(fastestFirst(p.Axes[2]))
	cur, err = d.reshapeStage(ctx, g, rank, p.Layouts[2], l3Fast, cur)
	if err != nil {
		return nil, err
	}
	if err := runForward(d.Backend, l3Fast.Boxes[rank], p.Axes[2], cur); err != nil {
		return nil, err
	}

	out := relayout(l3Fast.Boxes[rank], p.Layouts[3].Boxes[rank], cur)
	applyScale(out, Factor(p.ScaleBase, scaling))
	return out, nil
}

// BackwardR2C runs the inverse of ForwardR2C: local is the
// Hermitian-half complex spectrum laid out as Plan.Layouts[3], and the
// result is real data laid out as Plan.Layouts[0].
func (d *Driver) BackwardR2C(ctx context.Context, g comm.Group, local []complex128, scaling Scaling) ([]float64, error) {
	p := d.Plan
	if p.R2CAxis < 0 {
		return nil, &herrors.InvalidR2CAxis{Axis: p.R2CAxis}
	}
	rank := g.Rank()
	axis0 := p.Axes[0]

	l3Fast := p.Layouts[3].Reorder(fastestFirst(p.Axes[2]))
	cur := relayout(p.Layouts[3].Boxes[rank], l3Fast.Boxes[rank], local)
	if err := runBackward(d.Backend, l3Fast.Boxes[rank], p.Axes[2], cur); err != nil {
		return nil, err
	}

	cur, err := d.reshapeStage(ctx, g, rank, l3Fast, p.Layouts[2], cur)
	if err != nil {
		return nil, err
	}
	if err := runBackward(d.Backend, p.Layouts[2].Boxes[rank], p.Axes[1], cur); err != nil {
		return nil, err
	}

	half, err := d.reshapeStage(ctx, g, rank, p.Layouts[2], p.Layouts[1], cur)
	if err != nil {
		return nil, err
	}

	realFull, err := runBackwardR2C(d.Backend, p.FullAxis0.Boxes[rank], axis0, p.HalfLen, half)
	if err != nil {
		return nil, err
	}
	realCur := toComplex(realFull)
	out, err := d.reshapeStage(ctx, g, rank, p.FullAxis0, p.Layouts[0], realCur)
	if err != nil {
		return nil, err
	}
	result := realPart(out)
	applyScaleReal(result, Factor(p.ScaleBase, scaling))
	return result, nil
}
