package stats_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschimek/KaGen/comm"
	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/stats"
)

// twoRankFixture is a 4-vertex undirected path 0–1–2–3 split over two
// ranks, with boundary mirrors on both sides.
func twoRankFixture(rank int) core.Result {
	if rank == 0 {
		return core.Result{
			Edges:       []core.Edge{{From: 0, To: 1}, {From: 1, To: 0}, {From: 1, To: 2}},
			VertexRange: core.VertexRange{First: 0, Last: 2},
		}
	}
	return core.Result{
		Edges:       []core.Edge{{From: 2, To: 1}, {From: 2, To: 3}, {From: 3, To: 2}},
		VertexRange: core.VertexRange{First: 2, Last: 4},
	}
}

func TestAdvanced_TwoRanks(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	reports := make(map[int]stats.Report)

	err := comm.RunGroup(2, func(c *comm.LocalComm) error {
		rep, err := stats.Advanced(twoRankFixture(c.Rank()), c)
		if err != nil {
			return err
		}
		mu.Lock()
		reports[c.Rank()] = rep
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	for rank, rep := range reports {
		assert.Equal(t, uint64(4), rep.GlobalVertices, "rank %d", rank)
		assert.Equal(t, uint64(6), rep.GlobalEdges)

		assert.Equal(t, uint64(2), rep.VertexCounts.Min)
		assert.Equal(t, uint64(2), rep.VertexCounts.Max)
		assert.Equal(t, 2.0, rep.VertexCounts.Mean)
		assert.Equal(t, 0.0, rep.VertexCounts.SD)

		assert.Equal(t, uint64(3), rep.EdgeCounts.Min)
		assert.Equal(t, uint64(3), rep.EdgeCounts.Max)
		assert.InDelta(t, 1.0, rep.EdgeImbalance, 1e-12)

		// Degrees 1,2,2,1.
		assert.Equal(t, uint64(1), rep.Degrees.Min)
		assert.Equal(t, uint64(2), rep.Degrees.Max)
		assert.InDelta(t, 1.5, rep.Degrees.Mean, 1e-12)

		assert.Equal(t, uint64(0), rep.DegreeBins[0])
		assert.Equal(t, uint64(2), rep.DegreeBins[1]) // degree 1
		assert.Equal(t, uint64(2), rep.DegreeBins[2]) // degree 2

		// One cut edge per rank out of six edges; one ghost per rank.
		assert.InDelta(t, 2.0/6.0, rep.EdgeLocality, 1e-12)
		assert.Equal(t, uint64(2), rep.GhostVertices)
	}
}

func TestBasic_SingleRankWithIsolatedVertex(t *testing.T) {
	t.Parallel()

	err := comm.RunGroup(1, func(c *comm.LocalComm) error {
		res := core.Result{
			Edges:       []core.Edge{{From: 0, To: 1}, {From: 1, To: 0}},
			VertexRange: core.VertexRange{First: 0, Last: 3},
		}
		rep, err := stats.Basic(res, c)
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(3), rep.GlobalVertices)
		assert.Equal(t, uint64(2), rep.GlobalEdges)
		// Vertex 2 has no edges: the degree minimum is zero.
		assert.Equal(t, uint64(0), rep.Degrees.Min)
		assert.Equal(t, uint64(1), rep.Degrees.Max)
		return nil
	})
	require.NoError(t, err)
}

func TestVerifyUndirected_Ok(t *testing.T) {
	t.Parallel()

	err := comm.RunGroup(2, func(c *comm.LocalComm) error {
		rep, err := stats.VerifyUndirected(twoRankFixture(c.Rank()), c)
		if err != nil {
			return err
		}
		assert.True(t, rep.Ok(), "rank %d: missing %v", c.Rank(), rep.Missing)
		assert.Equal(t, uint64(2), rep.Checked)
		return nil
	})
	require.NoError(t, err)
}

func TestVerifyUndirected_ReportsMissingMirror(t *testing.T) {
	t.Parallel()

	err := comm.RunGroup(2, func(c *comm.LocalComm) error {
		res := twoRankFixture(c.Rank())
		if c.Rank() == 1 {
			// Drop the mirror of (1, 2).
			res.Edges = []core.Edge{{From: 2, To: 3}, {From: 3, To: 2}}
		}
		rep, err := stats.VerifyUndirected(res, c)
		if err != nil {
			return err
		}
		if c.Rank() == 1 {
			require.Len(t, rep.Missing, 1)
			assert.Equal(t, core.Edge{From: 1, To: 2}, rep.Missing[0])
		} else {
			assert.True(t, rep.Ok())
		}
		return nil
	})
	require.NoError(t, err)
}
