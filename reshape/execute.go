package reshape

import (
	"context"

	"github.com/EMinsight/heffte/comm"
	"github.com/EMinsight/heffte/internal/herrors"
)

// Execute runs one reshape: pack every send tile out of src (laid out
// as desc.Source), exchange with peers per strategy, and unpack every
// receive tile into dst (laid out as desc.Dest), transposing as
// dictated by desc.Dest's axis order. Self-tiles (Peer == desc.Rank)
// never go through the transport, per spec.md §4.3.
func Execute[E Complex](ctx context.Context, g comm.Group, desc *Descriptor, src, dst []E, strategy Strategy) error {
	members := g.Members()
	pos := make(map[int]int, len(members))
	for i, m := range members {
		pos[m] = i
	}

	send := make([][]byte, len(members))
	for _, tile := range desc.SendTiles {
		if tile.Peer == desc.Rank {
			continue
		}
		p, ok := pos[tile.Peer]
		if !ok {
			return &herrors.CommFailure{Stage: "pack", Err: errPeerNotInGroup(tile.Peer)}
		}
		packed := Pack(src, desc.Source, tile.Region)
		send[p] = encode(packed)
	}

	recv, err := exchange(ctx, g, send, strategy)
	if err != nil {
		return err
	}

	for _, tile := range desc.RecvTiles {
		if tile.Peer == desc.Rank {
			// Self-reshape: direct memory copy with transposition,
			// never through the transport.
			packed := Pack(src, desc.Source, tile.Region)
			Unpack(dst, desc.Dest, tile.Region, packed)
			continue
		}
		p, ok := pos[tile.Peer]
		if !ok {
			return &herrors.CommFailure{Stage: "unpack", Err: errPeerNotInGroup(tile.Peer)}
		}
		data := decode[E](recv[p], tile.Region.Count())
		Unpack(dst, desc.Dest, tile.Region, data)
	}
	return nil
}

type errPeerNotInGroup int

func (e errPeerNotInGroup) Error() string {
	return "reshape: peer not present in communication group"
}
