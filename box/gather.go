package box

import (
	"context"
	"encoding/binary"

	"github.com/EMinsight/heffte/comm"
	"github.com/pkg/errors"
)

// Gather is the collective primitive that lets every rank learn every
// peer's input and output box: an Allgather of the caller's own
// (input, output) box pair over group, returning both partitions in
// rank order.
func Gather(ctx context.Context, g comm.Group, localIn, localOut Box) ([]Box, []Box, error) {
	payload := encodeBoxPair(localIn, localOut)
	all, err := g.Allgather(ctx, payload)
	if err != nil {
		return nil, nil, errors.Wrap(err, "box gather")
	}
	ins := make([]Box, len(all))
	outs := make([]Box, len(all))
	for i, buf := range all {
		in, out, err := decodeBoxPair(buf)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "box gather: decoding rank %d", i)
		}
		ins[i] = in
		outs[i] = out
	}
	return ins, outs, nil
}

// encoded layout: 2 boxes * (3 lo + 3 hi + 3 order) int64 each = 18 int64s
const boxPairWords = 18

func encodeBoxPair(a, b Box) []byte {
	buf := make([]byte, boxPairWords*8)
	w := 0
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[w*8:], uint64(int64(v)))
		w++
	}
	for _, bx := range []Box{a, b} {
		for i := 0; i < 3; i++ {
			put(bx.Lo[i])
		}
		for i := 0; i < 3; i++ {
			put(bx.Hi[i])
		}
		for i := 0; i < 3; i++ {
			put(bx.Order[i])
		}
	}
	return buf
}

func decodeBoxPair(buf []byte) (Box, Box, error) {
	if len(buf) != boxPairWords*8 {
		return Box{}, Box{}, errors.Errorf("malformed box payload: %d bytes, want %d", len(buf), boxPairWords*8)
	}
	w := 0
	get := func() int {
		v := int64(binary.LittleEndian.Uint64(buf[w*8:]))
		w++
		return int(v)
	}
	var boxes [2]Box
	for k := 0; k < 2; k++ {
		for i := 0; i < 3; i++ {
			boxes[k].Lo[i] = get()
		}
		for i := 0; i < 3; i++ {
			boxes[k].Hi[i] = get()
		}
		for i := 0; i < 3; i++ {
			boxes[k].Order[i] = get()
		}
	}
	return boxes[0], boxes[1], nil
}
