package generator

import (
	"fmt"

	"github.com/mschimek/KaGen/chunk"
	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/rng"
)

// Graph500 initiator fractions used by the Kronecker wrapper.
const (
	kroneckerA = 0.57
	kroneckerB = 0.19
	kroneckerC = 0.19
)

// RMAT places each of m edges by a recursive quadrant walk over the
// adjacency matrix with probabilities (a, b, c, 1−a−b−c), one hash
// coordinate per (edge, level). Edge indices are partitioned across the
// ranks; after sampling, every edge is routed to the rank owning its
// source (both endpoints for undirected graphs). Duplicate edges drawn by
// independent walks are kept — the output is a multigraph with exactly m
// sampled edges; callers wanting simple graphs deduplicate the sorted
// per-rank lists.
//
// The vertex count is rounded up to the next power of two, matching the
// recursion depth log₂(n).
func (g *Generator) RMAT(n, m uint64, a, b, c float64, directed, selfLoops bool) (core.Result, error) {
	const method = "RMAT"
	if n < 1 {
		return core.Result{}, fmt.Errorf("%s: n=%d: %w", method, n, ErrTooFewVertices)
	}
	if a < 0 || b < 0 || c < 0 || a+b+c > 1 {
		return core.Result{}, fmt.Errorf("%s: a=%v b=%v c=%v: %w", method, a, b, c, ErrBadFractions)
	}

	levels := uint(0)
	for uint64(1)<<levels < n {
		levels++
	}
	nPow := uint64(1) << levels
	if !selfLoops && m > 0 && nPow < 2 {
		return core.Result{}, fmt.Errorf("%s: n=%d without self-loops: %w", method, n, ErrTooManyEdges)
	}

	t, err := g.newTask(nPow)
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}

	// Edge indices are block-distributed over the ranks, independent of
	// the chunk count, so the drawn edge set is chunk-invariant.
	edgePart, err := chunk.New(m, uint64(g.comm.Size()), uint64(g.comm.Size()))
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}
	eFirst, eLast := edgePart.Range(g.comm.Rank())

	rmatSeed := g.subseed(tagRMAT)
	drawEdge := func(e, attempt uint64) (u, v core.VId) {
		for level := uint(0); level < levels; level++ {
			h := rng.Hash(rmatSeed, e, attempt, uint64(level))
			x := rng.Float01(h)
			var ub, vb core.VId
			switch {
			case x < a: // top-left
			case x < a+b: // top-right
				vb = 1
			case x < a+b+c: // bottom-left
				ub = 1
			default: // bottom-right
				ub, vb = 1, 1
			}
			u = u<<1 | ub
			v = v<<1 | vb
		}
		return u, v
	}

	for e := eFirst; e < eLast; e++ {
		var u, v core.VId
		for attempt := uint64(0); ; attempt++ {
			u, v = drawEdge(e, attempt)
			if selfLoops || u != v {
				break
			}
		}
		t.route(u, v)
		if !directed && u != v && t.owner(v) != t.owner(u) {
			t.route(v, u)
		}
	}

	if err := t.flush(); err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}
	return t.result(!directed)
}

// Kronecker generates a stochastic Kronecker graph with the Graph500
// initiator matrix. See RMAT for the duplicate and rounding policy.
func (g *Generator) Kronecker(n, m uint64, directed, selfLoops bool) (core.Result, error) {
	return g.RMAT(n, m, kroneckerA, kroneckerB, kroneckerC, directed, selfLoops)
}
