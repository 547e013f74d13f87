// Package stats computes distributed statistics over per-rank edge lists
// and verifies the symmetry of undirected outputs.
//
// Every function is collective: all ranks of the group must call it
// together with their own local result. Reductions use allreduce-style
// collectives, so the returned reports are valid on every rank.
package stats

import (
	"math"
	"math/bits"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mschimek/KaGen/comm"
	"github.com/mschimek/KaGen/core"
)

// Summary is a min/mean/max/standard-deviation digest of one per-rank
// quantity. The deviation is the population form over the ranks.
type Summary struct {
	Min  uint64
	Mean float64
	Max  uint64
	SD   float64
}

// DegreeSummary digests the global degree distribution.
type DegreeSummary struct {
	Min  uint64
	Mean float64
	Max  uint64
}

// Report is the output of the statistics passes.
type Report struct {
	GlobalVertices uint64
	GlobalEdges    uint64

	VertexCounts Summary
	EdgeCounts   Summary
	// EdgeImbalance is the max/mean ratio of per-rank edge counts.
	EdgeImbalance float64

	Degrees DegreeSummary

	// Advanced-only fields.
	// DegreeBins[0] counts degree-0 vertices; bin b ≥ 1 counts degrees in
	// [2^(b−1), 2^b).
	DegreeBins []uint64
	// EdgeLocality is the global fraction of edges with a remote endpoint.
	EdgeLocality float64
	// GhostVertices sums the per-rank counts of distinct remote endpoints.
	GhostVertices uint64
}

// Basic computes the vertex/edge count digests and degree statistics.
// Collective; res.Edges is sorted in place when unsorted.
func Basic(res core.Result, c comm.Communicator) (Report, error) {
	return build(res, c, false)
}

// Advanced computes everything Basic does plus the power-of-two degree
// histogram, edge locality, and the ghost-vertex count. Collective.
func Advanced(res core.Result, c comm.Communicator) (Report, error) {
	return build(res, c, true)
}

func build(res core.Result, c comm.Communicator, advanced bool) (Report, error) {
	if !core.EdgesSorted(res.Edges) {
		core.SortEdges(res.Edges)
	}

	var rep Report

	// The first invalid vertex id on the last rank is the global count.
	n, err := c.Bcast(res.VertexRange.Last, c.Size()-1)
	if err != nil {
		return Report{}, err
	}
	rep.GlobalVertices = n
	rep.GlobalEdges = c.AllreduceSum(uint64(len(res.Edges)))

	rep.VertexCounts = summarize(c.Allgather(res.VertexRange.Size()))
	rep.EdgeCounts = summarize(c.Allgather(uint64(len(res.Edges))))
	if rep.EdgeCounts.Mean > 0 {
		rep.EdgeImbalance = float64(rep.EdgeCounts.Max) / rep.EdgeCounts.Mean
	}

	localMin, localMax, localSum := degreeScan(res.Edges, res.VertexRange)
	rep.Degrees.Min = c.AllreduceMin(localMin)
	rep.Degrees.Max = c.AllreduceMax(localMax)
	if n > 0 {
		rep.Degrees.Mean = c.AllreduceSumFloat(float64(localSum)) / float64(n)
	}

	if !advanced {
		return rep, nil
	}

	bins := degreeBins(res.Edges, res.VertexRange)
	rep.DegreeBins = make([]uint64, len(bins))
	for b := range bins {
		rep.DegreeBins[b] = c.AllreduceSum(bins[b])
	}

	var cut uint64
	ghosts := make(map[core.VId]struct{})
	for _, e := range res.Edges {
		if !res.VertexRange.Contains(e.To) {
			cut++
			ghosts[e.To] = struct{}{}
		}
	}
	globalCut := c.AllreduceSum(cut)
	if rep.GlobalEdges > 0 {
		rep.EdgeLocality = float64(globalCut) / float64(rep.GlobalEdges)
	}
	rep.GhostVertices = c.AllreduceSum(uint64(len(ghosts)))

	return rep, nil
}

// summarize digests one gathered per-rank series.
func summarize(values []uint64) Summary {
	s := Summary{Min: math.MaxUint64}
	x := make([]float64, len(values))
	for i, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		x[i] = float64(v)
	}
	s.Mean = stat.Mean(x, nil)
	s.SD = math.Sqrt(stat.MomentAbout(2, x, s.Mean, nil))
	return s
}

// degreeScan walks the sorted local edges once, yielding the local degree
// minimum, maximum, and sum. Local vertices without any edge count as
// degree 0.
func degreeScan(edges []core.Edge, vr core.VertexRange) (min, max, sum uint64) {
	if len(edges) == 0 {
		if vr.Size() > 0 {
			return 0, 0, 0
		}
		return math.MaxUint64, 0, 0
	}

	min = math.MaxUint64
	var sources uint64
	cur := edges[0].From
	var deg uint64
	flush := func() {
		if deg < min {
			min = deg
		}
		if deg > max {
			max = deg
		}
		sum += deg
		sources++
	}
	for _, e := range edges {
		if e.From == cur {
			deg++
			continue
		}
		flush()
		cur = e.From
		deg = 1
	}
	flush()

	if sources < vr.Size() {
		min = 0 // some local vertex has no edges at all
	}
	return min, max, sum
}

// degreeBins histograms local degrees into power-of-two bins: bin 0 holds
// degree 0, bin b ≥ 1 holds degrees in [2^(b−1), 2^b).
func degreeBins(edges []core.Edge, vr core.VertexRange) []uint64 {
	bins := make([]uint64, 65)
	yield := func(deg uint64) {
		bin := 0
		if deg > 0 {
			bin = 64 - bits.LeadingZeros64(deg) // ⌊log2⌋ + 1
		}
		bins[bin]++
	}

	var sources uint64
	if len(edges) > 0 {
		cur := edges[0].From
		var deg uint64
		for _, e := range edges {
			if e.From == cur {
				deg++
				continue
			}
			yield(deg)
			sources++
			cur = e.From
			deg = 1
		}
		yield(deg)
		sources++
	}
	bins[0] += vr.Size() - sources
	return bins
}

// SymmetryReport is the outcome of the undirected verification pass.
type SymmetryReport struct {
	// Checked counts the boundary edges routed for verification.
	Checked uint64
	// Missing lists received boundary edges (u, v) whose mirror (v, u)
	// was absent from the local list. Reported, never corrected.
	Missing []core.Edge
}

// Ok reports whether every checked mirror was present.
func (r SymmetryReport) Ok() bool { return len(r.Missing) == 0 }

// VerifyUndirected routes every boundary edge (u, v) with a remote v to
// the rank owning v and verifies the mirror (v, u) exists there.
// Collective.
func VerifyUndirected(res core.Result, c comm.Communicator) (SymmetryReport, error) {
	ends := c.Allgather(res.VertexRange.Last)
	ownerOf := func(v core.VId) int {
		return sort.Search(len(ends), func(i int) bool { return ends[i] > v })
	}

	out := make([][]core.Edge, c.Size())
	var checked uint64
	for _, e := range res.Edges {
		if res.VertexRange.Contains(e.To) {
			continue
		}
		checked++
		out[ownerOf(e.To)] = append(out[ownerOf(e.To)], e)
	}

	in, err := c.ExchangeEdges(out)
	if err != nil {
		return SymmetryReport{}, err
	}

	have := make(map[core.Edge]struct{}, len(res.Edges))
	for _, e := range res.Edges {
		have[e] = struct{}{}
	}

	rep := SymmetryReport{Checked: c.AllreduceSum(checked)}
	for _, e := range in {
		if _, ok := have[core.Edge{From: e.To, To: e.From}]; !ok {
			rep.Missing = append(rep.Missing, e)
		}
	}
	return rep, nil
}
