package comm

import (
	"context"
	"fmt"
	"testing"
)

func TestAllgatherReturnsEveryRankInOrder(t *testing.T) {
	groups := NewInProcessGroup(4)
	err := RunSPMD(context.Background(), groups, func(ctx context.Context, g Group) error {
		payload := []byte(fmt.Sprintf("rank%d", g.Rank()))
		all, err := g.Allgather(ctx, payload)
		if err != nil {
			return err
		}
		if len(all) != 4 {
			return fmt.Errorf("rank %d: got %d entries, want 4", g.Rank(), len(all))
		}
		for i, buf := range all {
			want := fmt.Sprintf("rank%d", i)
			if string(buf) != want {
				return fmt.Errorf("rank %d: entry %d = %q, want %q", g.Rank(), i, buf, want)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunSPMD: %v", err)
	}
}

func TestAlltoallvDeliversToCorrectPeer(t *testing.T) {
	n := 3
	groups := NewInProcessGroup(n)
	err := RunSPMD(context.Background(), groups, func(ctx context.Context, g Group) error {
		send := make([][]byte, n)
		for d := 0; d < n; d++ {
			send[d] = []byte(fmt.Sprintf("%d->%d", g.Rank(), d))
		}
		recv, err := g.Alltoallv(ctx, send)
		if err != nil {
			return err
		}
		for s := 0; s < n; s++ {
			want := fmt.Sprintf("%d->%d", s, g.Rank())
			if string(recv[s]) != want {
				return fmt.Errorf("rank %d: recv[%d] = %q, want %q", g.Rank(), s, recv[s], want)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunSPMD: %v", err)
	}
}

func TestSendrecvExchangesPairwise(t *testing.T) {
	groups := NewInProcessGroup(2)
	err := RunSPMD(context.Background(), groups, func(ctx context.Context, g Group) error {
		peer := 1 - g.Rank()
		send := []byte(fmt.Sprintf("hello from %d", g.Rank()))
		recv, err := g.Sendrecv(ctx, peer, send)
		if err != nil {
			return err
		}
		want := fmt.Sprintf("hello from %d", peer)
		if string(recv) != want {
			return fmt.Errorf("rank %d: got %q, want %q", g.Rank(), recv, want)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunSPMD: %v", err)
	}
}

func TestSubExcludesNonMembers(t *testing.T) {
	groups := NewInProcessGroup(4)
	err := RunSPMD(context.Background(), groups, func(ctx context.Context, g Group) error {
		if g.Rank()%2 != 0 {
			return nil // only even ranks join the subgroup in this test
		}
		sub, err := g.Sub([]int{0, 2})
		if err != nil {
			return err
		}
		if sub.Size() != 2 {
			return fmt.Errorf("rank %d: subgroup size %d, want 2", g.Rank(), sub.Size())
		}
		all, err := sub.Allgather(ctx, []byte{byte(g.Rank())})
		if err != nil {
			return err
		}
		if len(all) != 2 {
			return fmt.Errorf("rank %d: subgroup allgather got %d entries, want 2", g.Rank(), len(all))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunSPMD: %v", err)
	}
}
