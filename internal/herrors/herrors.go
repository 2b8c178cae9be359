// Package herrors defines the error taxonomy shared across the planner,
// reshape, executor and pipeline packages. Each kind is a distinct type so
// callers can discriminate with errors.As instead of string matching;
// wrapping (with a file/rank/stage cause chain) goes through
// github.com/pkg/errors.
package herrors

import "fmt"

// InvalidPartition reports that a rank's per-rank boxes do not tile the
// stated global box: either their union misses lattice points or two of
// them overlap.
type InvalidPartition struct {
	Reason string
}

func (e *InvalidPartition) Error() string {
	return fmt.Sprintf("invalid partition: %s", e.Reason)
}

// InvalidR2CAxis reports an R2C axis outside {0,1,2}.
type InvalidR2CAxis struct {
	Axis int
}

func (e *InvalidR2CAxis) Error() string {
	return fmt.Sprintf("invalid r2c axis: %d, must be 0, 1 or 2", e.Axis)
}

// UnsupportedBackend reports that the requested 1D executor engine was
// disabled at build time or is not registered.
type UnsupportedBackend struct {
	Name string
}

func (e *UnsupportedBackend) Error() string {
	return fmt.Sprintf("unsupported 1d executor backend: %q", e.Name)
}

// PrecisionMismatch reports that a call-site buffer's element type is
// incompatible with the plan's declared precision/complexity.
type PrecisionMismatch struct {
	Want, Got string
}

func (e *PrecisionMismatch) Error() string {
	return fmt.Sprintf("precision mismatch: plan expects %s, call site provided %s", e.Want, e.Got)
}

// SizeMismatch reports that an input/output/workspace buffer is smaller
// than the size the plan advertises.
type SizeMismatch struct {
	Buffer       string
	Want, Got int
}

func (e *SizeMismatch) Error() string {
	return fmt.Sprintf("size mismatch on %s buffer: want at least %d elements, got %d", e.Buffer, e.Want, e.Got)
}

// CommFailure wraps an error surfaced by the group-communication
// transport during a reshape exchange.
type CommFailure struct {
	Stage string
	Err   error
}

func (e *CommFailure) Error() string {
	return fmt.Sprintf("communication failure during %s: %v", e.Stage, e.Err)
}

func (e *CommFailure) Unwrap() error { return e.Err }

// ExecutorFailure wraps an error reported by a 1D FFT engine.
type ExecutorFailure struct {
	Backend string
	Err     error
}

func (e *ExecutorFailure) Error() string {
	return fmt.Sprintf("1d executor failure (%s): %v", e.Backend, e.Err)
}

func (e *ExecutorFailure) Unwrap() error { return e.Err }
