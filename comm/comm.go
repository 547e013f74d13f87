package comm

import (
	"errors"

	"github.com/mschimek/KaGen/core"
)

// Sentinel errors for group construction and collective misuse.
var (
	// ErrGroupSize indicates a group size < 1.
	ErrGroupSize = errors.New("comm: invalid group size")

	// ErrBadRoot indicates a root rank outside [0, size).
	ErrBadRoot = errors.New("comm: root rank out of range")

	// ErrBadExchange indicates an exchange buffer whose bucket count does
	// not match the group size.
	ErrBadExchange = errors.New("comm: exchange bucket count != group size")
)

// Communicator is one rank's handle on an SPMD process group.
//
// Every method except Rank and Size is collective: all ranks must call it
// together with compatible arguments.
type Communicator interface {
	// Rank returns this process's zero-based rank.
	Rank() int

	// Size returns the number of ranks in the group.
	Size() int

	// Barrier blocks until every rank has entered it.
	Barrier()

	// AllreduceSum returns the sum of v over all ranks, on all ranks.
	AllreduceSum(v uint64) uint64

	// AllreduceSumFloat returns the sum of v over all ranks, on all
	// ranks, accumulated in rank order so every rank sees the identical
	// floating-point result.
	AllreduceSumFloat(v float64) float64

	// AllreduceMin returns the minimum of v over all ranks.
	AllreduceMin(v uint64) uint64

	// AllreduceMax returns the maximum of v over all ranks.
	AllreduceMax(v uint64) uint64

	// Allgather returns the per-rank values of v, indexed by rank.
	Allgather(v uint64) []uint64

	// Bcast returns root's value of v on every rank.
	Bcast(v uint64, root int) (uint64, error)

	// ExchangeEdges routes perRank[r] to rank r and returns everything
	// addressed to the caller, grouped by sender rank order.
	ExchangeEdges(perRank [][]core.Edge) ([]core.Edge, error)

	// GatherEdgesRoot collects every rank's edges on root, in sender
	// rank order; the other ranks receive nil.
	GatherEdgesRoot(edges []core.Edge, root int) ([]core.Edge, error)
}
