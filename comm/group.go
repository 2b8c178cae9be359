// Package comm provides the opaque group-communication capability that
// spec.md treats as an external collaborator (the MPI transport). It
// models a fixed SPMD group of peer processes as one goroutine per
// rank communicating over channels, and exposes the collective
// primitives the box, reshape and pipeline packages need: Allgather,
// Alltoallv and point-to-point Sendrecv. A production build would swap
// this package's implementation for a real MPI (or NCCL, or GPU-aware
// transport) binding without changing any caller.
package comm

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Group is the capability surface every other package programs
// against. It is intentionally narrow: callers never see transport
// internals, only collective operations over byte payloads (packing
// and typing is the caller's job).
type Group interface {
	// Rank returns this handle's absolute rank, stable across any
	// subgroup carved from the parent group via Sub.
	Rank() int
	// Size returns the number of ranks in the group.
	Size() int
	// Members returns the absolute rank of every participant, in the
	// position order Allgather/Alltoallv results are returned in.
	Members() []int
	// Allgather exchanges one []byte per rank and returns all of them
	// in rank order, including the caller's own.
	Allgather(ctx context.Context, payload []byte) ([][]byte, error)
	// Alltoallv exchanges a distinct []byte with every peer (send[r]
	// goes to rank r; may be nil/empty for peers with nothing to
	// send) and returns what every peer sent back, in rank order.
	Alltoallv(ctx context.Context, send [][]byte) ([][]byte, error)
	// Sendrecv exchanges a payload with exactly one peer, pairwise.
	// Used by the "pairwise" reshape transport strategy.
	Sendrecv(ctx context.Context, peer int, send []byte) ([]byte, error)
	// Sub restricts communication to the given subset of ranks
	// (ranks not in members are excluded from the returned Group but
	// remain members of the parent). members must be sorted and
	// must include this handle's own rank, else Sub returns an
	// error. Used to implement use_subcomm.
	Sub(members []int) (Group, error)
}

// inprocGroup is an in-process simulation of a communicator: every
// rank is a logical participant sharing the same Go process, and
// collectives are implemented by a barrier-style rendezvous guarded by
// channels rather than real network I/O. It exists so the planner,
// reshape and pipeline packages can be exercised and tested without an
// actual MPI runtime, and so a single-process caller can still run a
// multi-rank transform for validation (spec.md's S1-S6 scenarios).
type inprocGroup struct {
	rank    int
	size    int
	members []int // rank indices in the parent process group, in order
	bus     *rendezvousBus
}

// NewInProcessGroup builds size independent Group handles, one per
// logical rank, all sharing one rendezvous bus. Callers typically run
// one goroutine per handle (see RunSPMD).
func NewInProcessGroup(size int) []Group {
	bus := newRendezvousBus(size)
	members := make([]int, size)
	for i := range members {
		members[i] = i
	}
	groups := make([]Group, size)
	for r := 0; r < size; r++ {
		groups[r] = &inprocGroup{rank: r, size: size, members: members, bus: bus}
	}
	return groups
}

// RunSPMD runs fn once per rank, concurrently, collectively: the
// spec.md contract requires every rank to call collectives in the
// same order, so fn is expected to drive the same sequence of calls
// on every handle. The first non-nil error from any rank is returned
// after all goroutines finish.
func RunSPMD(ctx context.Context, groups []Group, fn func(ctx context.Context, g Group) error) error {
	grp, ctx := errgroup.WithContext(ctx)
	for _, g := range groups {
		g := g
		grp.Go(func() error { return fn(ctx, g) })
	}
	return grp.Wait()
}

// Rank returns this handle's absolute rank, stable across any
// subgroup carved from the same parent via Sub.
func (g *inprocGroup) Rank() int { return g.rank }
func (g *inprocGroup) Size() int { return len(g.members) }

// Members returns the absolute rank of every participant, in the
// position order Alltoallv/Allgather use.
func (g *inprocGroup) Members() []int { return g.members }

func (g *inprocGroup) Allgather(ctx context.Context, payload []byte) ([][]byte, error) {
	results, err := g.bus.allgather(ctx, g.rank, g.members, payload)
	if err != nil {
		return nil, errors.Wrap(err, "allgather")
	}
	return results, nil
}

func (g *inprocGroup) Alltoallv(ctx context.Context, send [][]byte) ([][]byte, error) {
	if len(send) != len(g.members) {
		return nil, errors.Errorf("alltoallv: send slice has %d entries, group has %d members", len(send), len(g.members))
	}
	recv, err := g.bus.alltoallv(ctx, g.rank, g.members, send)
	if err != nil {
		return nil, errors.Wrap(err, "alltoallv")
	}
	return recv, nil
}

func (g *inprocGroup) Sendrecv(ctx context.Context, peer int, send []byte) ([]byte, error) {
	if peer == g.rank {
		return send, nil
	}
	recv, err := g.bus.sendrecv(ctx, g.rank, peer, send)
	if err != nil {
		return nil, errors.Wrapf(err, "sendrecv with peer %d", peer)
	}
	return recv, nil
}

func (g *inprocGroup) Sub(members []int) (Group, error) {
	present := false
	for _, m := range members {
		if m == g.rank {
			present = true
			break
		}
	}
	if !present {
		return nil, errors.Errorf("sub: rank %d not in requested subgroup", g.rank)
	}
	if !sort.IntsAreSorted(members) {
		return nil, errors.Errorf("sub: members %v are not sorted", members)
	}
	return &inprocGroup{rank: g.rank, size: len(members), members: members, bus: g.bus}, nil
}
