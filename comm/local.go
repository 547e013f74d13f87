package comm

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/mschimek/KaGen/core"
)

// groupState is the shared side of an in-process group: per-rank deposit
// slots plus a reusable channel barrier in which rank 0 collects arrivals
// and releases the other ranks.
type groupState struct {
	size int

	arrive  chan struct{}
	release []chan struct{}

	u64Slots  []uint64
	edgeSlots [][][]core.Edge
}

// LocalComm is one rank's endpoint of an in-process group.
type LocalComm struct {
	rank int
	g    *groupState
}

// NewLocalGroup builds an in-process group of p communicators sharing one
// state. Each returned communicator must be driven by its own goroutine.
func NewLocalGroup(p int) ([]*LocalComm, error) {
	if p < 1 {
		return nil, fmt.Errorf("NewLocalGroup: p=%d: %w", p, ErrGroupSize)
	}
	g := &groupState{
		size:      p,
		arrive:    make(chan struct{}, p),
		release:   make([]chan struct{}, p),
		u64Slots:  make([]uint64, p),
		edgeSlots: make([][][]core.Edge, p),
	}
	for i := range g.release {
		g.release[i] = make(chan struct{}, 1)
	}
	comms := make([]*LocalComm, p)
	for r := 0; r < p; r++ {
		comms[r] = &LocalComm{rank: r, g: g}
	}
	return comms, nil
}

// RunGroup creates a local group of p ranks and runs fn once per rank, each
// on its own goroutine, returning the first error.
func RunGroup(p int, fn func(c *LocalComm) error) error {
	comms, err := NewLocalGroup(p)
	if err != nil {
		return err
	}
	var eg errgroup.Group
	for _, c := range comms {
		c := c
		eg.Go(func() error { return fn(c) })
	}
	return eg.Wait()
}

// Rank implements Communicator.
func (c *LocalComm) Rank() int { return c.rank }

// Size implements Communicator.
func (c *LocalComm) Size() int { return c.g.size }

// barrier blocks until all ranks arrive, then releases everyone.
// Rank 0 acts as the collector.
func (c *LocalComm) barrier() {
	g := c.g
	if g.size == 1 {
		return
	}
	if c.rank == 0 {
		for i := 0; i < g.size-1; i++ {
			<-g.arrive
		}
		for r := 1; r < g.size; r++ {
			g.release[r] <- struct{}{}
		}
		return
	}
	g.arrive <- struct{}{}
	<-g.release[c.rank]
}

// Barrier implements Communicator.
func (c *LocalComm) Barrier() { c.barrier() }

// gatherU64 deposits v and returns a private copy of all deposits.
// Two barriers bracket the slot access so back-to-back collectives never
// overlap on the shared slots.
func (c *LocalComm) gatherU64(v uint64) []uint64 {
	g := c.g
	g.u64Slots[c.rank] = v
	c.barrier()
	out := append([]uint64(nil), g.u64Slots...)
	c.barrier()
	return out
}

// AllreduceSum implements Communicator.
func (c *LocalComm) AllreduceSum(v uint64) uint64 {
	var sum uint64
	for _, x := range c.gatherU64(v) {
		sum += x
	}
	return sum
}

// AllreduceSumFloat implements Communicator. Values travel as bit
// patterns through the shared slots and are summed in rank order, so the
// accumulation order — and thus the float result — is identical on every
// rank.
func (c *LocalComm) AllreduceSumFloat(v float64) float64 {
	var sum float64
	for _, x := range c.gatherU64(math.Float64bits(v)) {
		sum += math.Float64frombits(x)
	}
	return sum
}

// AllreduceMin implements Communicator.
func (c *LocalComm) AllreduceMin(v uint64) uint64 {
	vals := c.gatherU64(v)
	min := vals[0]
	for _, x := range vals[1:] {
		if x < min {
			min = x
		}
	}
	return min
}

// AllreduceMax implements Communicator.
func (c *LocalComm) AllreduceMax(v uint64) uint64 {
	vals := c.gatherU64(v)
	max := vals[0]
	for _, x := range vals[1:] {
		if x > max {
			max = x
		}
	}
	return max
}

// Allgather implements Communicator.
func (c *LocalComm) Allgather(v uint64) []uint64 {
	return c.gatherU64(v)
}

// Bcast implements Communicator.
func (c *LocalComm) Bcast(v uint64, root int) (uint64, error) {
	if root < 0 || root >= c.g.size {
		return 0, fmt.Errorf("Bcast: root=%d size=%d: %w", root, c.g.size, ErrBadRoot)
	}
	return c.gatherU64(v)[root], nil
}

// ExchangeEdges implements Communicator.
func (c *LocalComm) ExchangeEdges(perRank [][]core.Edge) ([]core.Edge, error) {
	g := c.g
	if len(perRank) != g.size {
		return nil, fmt.Errorf("ExchangeEdges: %d buckets for %d ranks: %w",
			len(perRank), g.size, ErrBadExchange)
	}
	g.edgeSlots[c.rank] = perRank
	c.barrier()
	var in []core.Edge
	for s := 0; s < g.size; s++ {
		in = append(in, g.edgeSlots[s][c.rank]...)
	}
	c.barrier()
	return in, nil
}

// GatherEdgesRoot implements Communicator. It is one exchange where every
// rank addresses only root, so the root inbox arrives in sender order.
func (c *LocalComm) GatherEdgesRoot(edges []core.Edge, root int) ([]core.Edge, error) {
	if root < 0 || root >= c.g.size {
		return nil, fmt.Errorf("GatherEdgesRoot: root=%d size=%d: %w", root, c.g.size, ErrBadRoot)
	}
	out := make([][]core.Edge, c.g.size)
	out[root] = edges
	in, err := c.ExchangeEdges(out)
	if err != nil {
		return nil, err
	}
	if c.rank != root {
		return nil, nil
	}
	return in, nil
}

var _ Communicator = (*LocalComm)(nil)
