package generator

import (
	"fmt"
	"math/bits"

	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/rng"
	"github.com/mschimek/KaGen/sampling"
)

// gnmBlockRows is the fixed row granularity of the G(n,m) recursion tree.
// The tree shape depends only on n, never on the chunk or rank count, so
// the sampled edge set is invariant under both.
const gnmBlockRows = 64

// gnmUniverse describes the row-aligned edge universe of one G(n,m)
// variant. Row u holds the admissible targets of source u; all range
// sizes have closed forms.
type gnmUniverse struct {
	n         uint64
	directed  bool
	selfLoops bool
}

// rowWidth is the target count per row for the directed variants.
func (uv gnmUniverse) rowWidth() uint64 {
	if uv.selfLoops {
		return uv.n
	}
	return uv.n - 1
}

// size returns the universe size of the row range [lo, hi).
func (uv gnmUniverse) size(lo, hi uint64) uint64 {
	if hi <= lo {
		return 0
	}
	rows := hi - lo
	if uv.directed {
		return rows * uv.rowWidth()
	}
	// Undirected row u holds n−u (with loops) or n−1−u targets.
	sumRows := (lo + hi - 1) * rows / 2
	if uv.selfLoops {
		return rows*uv.n - sumRows
	}
	return rows*(uv.n-1) - sumRows
}

// total returns the full universe size, guarding 64-bit overflow.
func (uv gnmUniverse) total() (uint64, error) {
	if uv.directed {
		hi, lo := bits.Mul64(uv.n, uv.rowWidth())
		if hi != 0 {
			return 0, ErrUniverseOverflow
		}
		return lo, nil
	}
	if uv.n > 1<<31 {
		return 0, ErrUniverseOverflow
	}
	return uv.size(0, uv.n), nil
}

// decode maps a leaf-universe index (relative to row rLo) to its edge.
func (uv gnmUniverse) decode(rLo, rHi, idx uint64) (u, v core.VId) {
	if uv.directed {
		w := uv.rowWidth()
		u = rLo + idx/w
		j := idx % w
		if !uv.selfLoops && j >= u {
			j++
		}
		return u, j
	}
	// Largest row u in [rLo, rHi) whose prefix does not exceed idx.
	lo, hi := rLo, rHi
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if uv.size(rLo, mid) <= idx {
			lo = mid
		} else {
			hi = mid
		}
	}
	u = lo
	j := idx - uv.size(rLo, u)
	if uv.selfLoops {
		return u, u + j
	}
	return u, u + 1 + j
}

// GNMDirected samples exactly m distinct directed edges uniformly from
// the n-vertex edge universe. Each rank emits the edges whose source it
// owns; no communication is required.
func (g *Generator) GNMDirected(n, m uint64, selfLoops bool) (core.Result, error) {
	return g.gnm(n, m, gnmUniverse{n: n, directed: true, selfLoops: selfLoops})
}

// GNMUndirected samples exactly m distinct undirected edges uniformly.
// Canonical pairs are drawn on the rank owning the smaller endpoint;
// mirror copies of boundary pairs are routed to the other owner by one
// edge exchange after sampling.
func (g *Generator) GNMUndirected(n, m uint64, selfLoops bool) (core.Result, error) {
	return g.gnm(n, m, gnmUniverse{n: n, directed: false, selfLoops: selfLoops})
}

func (g *Generator) gnm(n, m uint64, uv gnmUniverse) (core.Result, error) {
	const method = "GNM"
	if n < 1 {
		return core.Result{}, fmt.Errorf("%s: n=%d: %w", method, n, ErrTooFewVertices)
	}
	total, err := uv.total()
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: n=%d: %w", method, n, err)
	}
	if m > total {
		return core.Result{}, fmt.Errorf("%s: m=%d > universe=%d: %w", method, m, total, ErrTooManyEdges)
	}

	t, err := g.newTask(n)
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}

	numBlocks := (n + gnmBlockRows - 1) / gnmBlockRows
	rowOf := func(b uint64) uint64 {
		if r := b * gnmBlockRows; r < n {
			return r
		}
		return n
	}

	treeSeed := g.subseed(tagGNMTree)
	leafSeed := g.subseed(tagGNMLeaf)

	sp := sampling.Splitter{
		Seed: treeSeed,
		Size: func(lo, hi uint64) uint64 { return uv.size(rowOf(lo), rowOf(hi)) },
		Leaf: func(b, mb uint64) {
			rLo, rHi := rowOf(b), rowOf(b+1)
			h := rng.Hash(leafSeed, b)
			sampling.SampleWithoutReplacement(h, 0, uv.size(rLo, rHi), mb, func(idx uint64) {
				u, v := uv.decode(rLo, rHi, idx)
				if !t.local(u) {
					return // a shared leaf; the owning rank emits this edge
				}
				t.emit(u, v)
				if !uv.directed && u != v && !t.local(v) {
					t.route(v, u)
				}
			})
		},
	}

	if t.vr.Size() > 0 {
		winLo := t.vr.First / gnmBlockRows
		winHi := (t.vr.Last + gnmBlockRows - 1) / gnmBlockRows
		sp.Split(0, numBlocks, m, winLo, winHi)
	}

	if !uv.directed {
		if err := t.flush(); err != nil {
			return core.Result{}, fmt.Errorf("%s: %w", method, err)
		}
	}
	return t.result(!uv.directed)
}
