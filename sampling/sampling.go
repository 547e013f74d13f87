// Package sampling provides the divide-and-conquer counting primitives the
// samplers are built on: splitting a global count over a chunk range
// without visiting other ranges, and replacement-free draws at the leaves.
//
// Every split lives on a virtual binary tree over the chunk index range.
// Nodes are identified by their path (root 1, children 2i and 2i+1) and
// each draw is keyed by (seed, node id), so any rank that descends to a
// node computes the identical value; subtrees outside the caller's window
// are priced by a single draw and never expanded. The left half of every
// split is the low index range.
package sampling

import (
	"github.com/mschimek/KaGen/rng"
)

// rootNode is the tree path id of the root split.
const rootNode = 1

// Splitter distributes a fixed total over a contiguous chunk range by
// recursive hypergeometric halving. Size must return the universe size of
// any chunk range [lo, hi) in closed form.
type Splitter struct {
	Seed uint64
	Size func(lo, hi uint64) uint64
	Leaf func(c uint64, m uint64)
}

// Split distributes m over chunks [lo, hi) and invokes Leaf for every
// chunk inside the window [winLo, winHi) that received a positive count.
// Complexity: O(window · log K) hypergeometric draws.
func (s Splitter) Split(lo, hi, m, winLo, winHi uint64) {
	s.split(lo, hi, m, rootNode, winLo, winHi)
}

func (s Splitter) split(lo, hi, m, node, winLo, winHi uint64) {
	if m == 0 {
		return
	}
	if lo+1 == hi {
		s.Leaf(lo, m)
		return
	}
	mid := lo + (hi-lo)/2
	total := s.Size(lo, hi)
	left := s.Size(lo, mid)

	h := rng.Hash(s.Seed, node)
	mLeft := rng.Hypergeometric(h, left, total, m)

	if winLo < mid && lo < winHi {
		s.split(lo, mid, mLeft, 2*node, winLo, winHi)
	}
	if winLo < hi && mid < winHi {
		s.split(mid, hi, m-mLeft, 2*node+1, winLo, winHi)
	}
}

// Occupancy distributes n indistinguishable points over Cells equal-volume
// cells by recursive binomial halving (a multinomial realized as a tree of
// binomials). The same draws back both per-cell counts and prefix offsets,
// so vertex ids derived from offsets are globally consistent.
type Occupancy struct {
	Seed  uint64
	Cells uint64
	N     uint64
}

// Count returns the number of points in cell c and the number of points in
// all cells before it (the id offset of c's first point).
// Complexity: O(log Cells) binomial draws.
func (o Occupancy) Count(c uint64) (count, offset uint64) {
	lo, hi := uint64(0), o.Cells
	n := o.N
	node := uint64(rootNode)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		h := rng.Hash(o.Seed, node)
		nLeft := rng.Binomial(h, n, float64(mid-lo)/float64(hi-lo))
		if c < mid {
			hi = mid
			n = nLeft
			node = 2 * node
		} else {
			offset += nLeft
			lo = mid
			n -= nLeft
			node = 2*node + 1
		}
	}
	return n, offset
}

// Offset returns the number of points in all cells before c; Offset(Cells)
// equals N, so cell point ids form a monotone zero-based sequence.
func (o Occupancy) Offset(c uint64) uint64 {
	if c >= o.Cells {
		return o.N
	}
	_, offset := o.Count(c)
	return offset
}

// SampleWithoutReplacement draws m distinct values from [lo, hi) using
// Floyd's algorithm on a stream seeded solely by h, emitting them in draw
// order. m must not exceed hi−lo.
func SampleWithoutReplacement(h, lo, hi, m uint64, emit func(v uint64)) {
	if m == 0 {
		return
	}
	n := hi - lo
	if m > n {
		m = n
	}
	r := rng.Stream(h)
	seen := make(map[uint64]struct{}, m)
	for j := n - m + 1; j <= n; j++ {
		v := lo + r.Uint64n(j)
		if _, dup := seen[v]; dup {
			v = lo + j - 1
		}
		seen[v] = struct{}{}
		emit(v)
	}
}
