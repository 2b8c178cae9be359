// Package reshape implements the redistribution ("reshape") operator
// of spec.md §4.3: given a source and destination partition of the
// same global box, it builds the per-rank send/receive tile lists and
// executes the pack -> exchange -> unpack pipeline that moves data
// from the source layout to the destination layout, including local
// packing, transport exchange, and unpacking with transposition.
package reshape

import (
	"github.com/EMinsight/heffte/box"
)

// Tile is one non-empty intersection between a local box and a peer's
// box in the other partition, tagged with both sides' axis orders so
// Unpack can transpose into the destination layout.
type Tile struct {
	Peer            int
	Region          box.Box // the overlapping region, in global coordinates
	SourceOrder     [3]int
	DestinationOrder [3]int
}

// Descriptor is one rank's view of a reshape: its send tiles (pieces
// of its local source box overlapping each peer's destination box)
// and receive tiles (pieces of each peer's source box overlapping its
// local destination box).
type Descriptor struct {
	Rank      int
	Source    box.Box
	Dest      box.Box
	SendTiles []Tile
	RecvTiles []Tile
}

// Build constructs the reshape descriptor for rank within a redistribution
// from partition src to partition dst (both must tile the same global
// box; callers typically validate this via Partition.Validate before
// calling Build). Zero-size tiles are dropped, per spec.md §4.3.
func Build(rank int, src, dst box.Partition) *Descriptor {
	d := &Descriptor{
		Rank:   rank,
		Source: src.Boxes[rank],
		Dest:   dst.Boxes[rank],
	}
	for peer, peerDst := range dst.Boxes {
		tile := box.Intersect(d.Source, peerDst)
		if tile.Count() == 0 {
			continue
		}
		d.SendTiles = append(d.SendTiles, Tile{
			Peer:             peer,
			Region:           tile,
			SourceOrder:      src.Boxes[rank].Order,
			DestinationOrder: peerDst.Order,
		})
	}
	for peer, peerSrc := range src.Boxes {
		tile := box.Intersect(peerSrc, d.Dest)
		if tile.Count() == 0 {
			continue
		}
		d.RecvTiles = append(d.RecvTiles, Tile{
			Peer:             peer,
			Region:           tile,
			SourceOrder:      peerSrc.Order,
			DestinationOrder: dst.Boxes[rank].Order,
		})
	}
	return d
}

// IsIdentity reports whether this reshape moves no data at all beyond
// a same-rank, same-layout copy: source and destination box and axis
// order coincide for every tile. The pipeline driver does not call
// it; every stage there runs Execute.
func (d *Descriptor) IsIdentity() bool {
	if d.Source.Lo != d.Dest.Lo || d.Source.Hi != d.Dest.Hi || d.Source.Order != d.Dest.Order {
		return false
	}
	for _, t := range d.SendTiles {
		if t.Peer != d.Rank {
			return false
		}
	}
	return true
}
