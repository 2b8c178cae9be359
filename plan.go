// Package heffte ties the box, planner, reshape, executor and pipeline
// packages together into the single handle spec.md §3 describes: a
// Plan, constructed collectively by every rank in a comm.Group, that
// runs the forward and backward distributed 3D FFT and reports the
// buffer sizes a caller needs to drive it.
package heffte

import (
	"context"
	"sync"

	"github.com/EMinsight/heffte/box"
	"github.com/EMinsight/heffte/comm"
	"github.com/EMinsight/heffte/executor"
	"github.com/EMinsight/heffte/internal/herrors"
	"github.com/EMinsight/heffte/internal/hlog"
	"github.com/EMinsight/heffte/pipeline"
	"github.com/EMinsight/heffte/planner"
	"github.com/EMinsight/heffte/reshape"
	"github.com/pkg/errors"
)

// Scaling re-exports pipeline's normalization selector so callers never
// need to import pipeline directly.
type Scaling = pipeline.Scaling

const (
	ScaleNone      = pipeline.ScaleNone
	ScaleFull      = pipeline.ScaleFull
	ScaleSymmetric = pipeline.ScaleSymmetric
)

// errPlanDestroyed is returned by any operation on a Plan after Destroy
// has been called.
var errPlanDestroyed = errors.New("heffte: plan already destroyed")

// Config describes the boxes, R2C axis and options a rank calls New
// with. GlobalIn/GlobalOut are the same on every rank; LocalIn/LocalOut
// are this rank's own slice of them. R2CAxis is -1 for a plain
// complex-to-complex plan, or one of {0,1,2} for real-to-complex.
type Config struct {
	GlobalIn, GlobalOut box.Box
	LocalIn, LocalOut   box.Box
	R2CAxis             int
	Backend             executor.Backend
	Strategy            reshape.Strategy
	Options             planner.Options
}

// Plan is the constructed/destroyed handle of spec.md §3: every rank
// holds its own Plan, built from the same Config (modulo LocalIn/
// LocalOut), and drives Forward/Backward independently using its own
// comm.Group handle.
type Plan struct {
	plan   *planner.Plan
	driver *pipeline.Driver
	group  comm.Group
	rank   int

	mu        sync.Mutex
	destroyed bool
}

// New constructs a Plan collectively: every rank in g calls New with
// its own Config.LocalIn/LocalOut (and identical GlobalIn/GlobalOut/
// R2CAxis/Options), and the call internally gathers every peer's boxes
// via box.Gather before building the logic plan, matching the way the
// library's C API gathers per-rank boxes at plan-create time rather
// than asking the caller to assemble the full partition by hand.
func New(ctx context.Context, g comm.Group, cfg Config) (*Plan, error) {
	ins, outs, err := box.Gather(ctx, g, cfg.LocalIn, cfg.LocalOut)
	if err != nil {
		return nil, err
	}
	pIn := box.Partition{Global: cfg.GlobalIn, Boxes: ins}
	pOut := box.Partition{Global: cfg.GlobalOut, Boxes: outs}

	p, err := planner.Construct(cfg.GlobalIn, cfg.GlobalOut, pIn, pOut, cfg.R2CAxis, cfg.Options)
	if err != nil {
		return nil, err
	}
	driver := pipeline.New(p, cfg.Backend, cfg.Strategy)
	hlog.Tracef("plan constructed: rank=%d r2c_axis=%d backend=%s", g.Rank(), cfg.R2CAxis, cfg.Backend)
	return &Plan{plan: p, driver: driver, group: g, rank: g.Rank()}, nil
}

func (pl *Plan) checkAlive() error {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.destroyed {
		return errPlanDestroyed
	}
	return nil
}

// Destroy releases the plan; any later Forward/Backward call returns
// an error. Destroy itself is idempotent.
func (pl *Plan) Destroy() {
	pl.mu.Lock()
	pl.destroyed = true
	pl.mu.Unlock()
}

// IsR2C reports whether this plan runs the real-to-complex variant.
func (pl *Plan) IsR2C() bool { return pl.plan.R2CAxis >= 0 }

// InBox returns this rank's input box.
func (pl *Plan) InBox() box.Box { return pl.plan.Layouts[0].Boxes[pl.rank] }

// OutBox returns this rank's output box.
func (pl *Plan) OutBox() box.Box { return pl.plan.Layouts[3].Boxes[pl.rank] }

// SizeInbox returns the number of elements InBox holds.
func (pl *Plan) SizeInbox() int { return pl.InBox().Count() }

// SizeOutbox returns the number of elements OutBox holds.
func (pl *Plan) SizeOutbox() int { return pl.OutBox().Count() }

// SizeWorkspace returns the largest per-rank element count across any
// intermediate layout the pipeline driver visits, i.e. the scratch
// capacity a caller reusing one buffer across stages would need.
func (pl *Plan) SizeWorkspace() int {
	max := 0
	for _, l := range pl.plan.Layouts {
		if c := l.Boxes[pl.rank].Count(); c > max {
			max = c
		}
	}
	if c := pl.plan.FullAxis0.Boxes[pl.rank].Count(); c > max {
		max = c
	}
	return max
}

// ScaleFactor returns the concrete multiplier Forward/Backward apply
// for the given Scaling, given this plan's basis 1/(N0*N1*N2).
func (pl *Plan) ScaleFactor(s Scaling) float64 {
	return pipeline.Factor(pl.plan.ScaleBase, s)
}

// Forward runs the complex-to-complex forward transform. in must be
// sized at least SizeInbox elements, out at least SizeOutbox. Returns
// herrors.PrecisionMismatch if this plan was built for R2C.
func (pl *Plan) Forward(ctx context.Context, in, out []complex128, scaling Scaling) error {
	if err := pl.checkAlive(); err != nil {
		return err
	}
	if pl.plan.R2CAxis != -1 {
		return &herrors.PrecisionMismatch{Want: "real input (R2C plan)", Got: "complex128 (C2C call)"}
	}
	if len(in) < pl.SizeInbox() {
		return &herrors.SizeMismatch{Buffer: "input", Want: pl.SizeInbox(), Got: len(in)}
	}
	result, err := pl.driver.ForwardC2C(ctx, pl.group, in[:pl.SizeInbox()], scaling)
	if err != nil {
		return err
	}
	if len(out) < len(result) {
		return &herrors.SizeMismatch{Buffer: "output", Want: len(result), Got: len(out)}
	}
	copy(out, result)
	return nil
}

// Backward runs the complex-to-complex inverse transform. in must be
// sized at least SizeOutbox elements, out at least SizeInbox.
func (pl *Plan) Backward(ctx context.Context, in, out []complex128, scaling Scaling) error {
	if err := pl.checkAlive(); err != nil {
		return err
	}
	if pl.plan.R2CAxis != -1 {
		return &herrors.PrecisionMismatch{Want: "real output (R2C plan)", Got: "complex128 (C2C call)"}
	}
	if len(in) < pl.SizeOutbox() {
		return &herrors.SizeMismatch{Buffer: "input", Want: pl.SizeOutbox(), Got: len(in)}
	}
	result, err := pl.driver.BackwardC2C(ctx, pl.group, in[:pl.SizeOutbox()], scaling)
	if err != nil {
		return err
	}
	if len(out) < len(result) {
		return &herrors.SizeMismatch{Buffer: "output", Want: len(result), Got: len(out)}
	}
	copy(out, result)
	return nil
}

// ForwardReal runs the real-to-complex forward transform. in must be
// sized at least SizeInbox real elements, out at least SizeOutbox
// complex elements (the Hermitian-half spectrum).
func (pl *Plan) ForwardReal(ctx context.Context, in []float64, out []complex128, scaling Scaling) error {
	if err := pl.checkAlive(); err != nil {
		return err
	}
	if pl.plan.R2CAxis < 0 {
		return &herrors.PrecisionMismatch{Want: "complex input (C2C plan)", Got: "real float64 (R2C call)"}
	}
	if len(in) < pl.SizeInbox() {
		return &herrors.SizeMismatch{Buffer: "input", Want: pl.SizeInbox(), Got: len(in)}
	}
	result, err := pl.driver.ForwardR2C(ctx, pl.group, in[:pl.SizeInbox()], scaling)
	if err != nil {
		return err
	}
	if len(out) < len(result) {
		return &herrors.SizeMismatch{Buffer: "output", Want: len(result), Got: len(out)}
	}
	copy(out, result)
	return nil
}

// BackwardReal runs the complex-to-real inverse transform. in must be
// sized at least SizeOutbox complex elements, out at least SizeInbox
// real elements.
func (pl *Plan) BackwardReal(ctx context.Context, in []complex128, out []float64, scaling Scaling) error {
	if err := pl.checkAlive(); err != nil {
		return err
	}
	if pl.plan.R2CAxis < 0 {
		return &herrors.PrecisionMismatch{Want: "complex output (C2C plan)", Got: "real float64 (R2C call)"}
	}
	if len(in) < pl.SizeOutbox() {
		return &herrors.SizeMismatch{Buffer: "input", Want: pl.SizeOutbox(), Got: len(in)}
	}
	result, err := pl.driver.BackwardR2C(ctx, pl.group, in[:pl.SizeOutbox()], scaling)
	if err != nil {
		return err
	}
	if len(out) < len(result) {
		return &herrors.SizeMismatch{Buffer: "output", Want: len(result), Got: len(out)}
	}
	copy(out, result)
	return nil
}
