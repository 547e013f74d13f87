package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschimek/KaGen/core"
)

func TestBuildCSR_Basic(t *testing.T) {
	t.Parallel()

	edges := []core.Edge{
		{From: 2, To: 7},
		{From: 0, To: 3},
		{From: 2, To: 1},
		{From: 0, To: 5},
	}
	csr, err := core.BuildCSR(edges, core.VertexRange{First: 0, Last: 4})
	require.NoError(t, err)

	// 4 local vertices → 5 xadj entries; vertices 1 and 3 are empty rows.
	assert.Equal(t, []uint64{0, 2, 2, 4, 4}, csr.Xadj)
	assert.Equal(t, []uint64{3, 5, 1, 7}, csr.Adjncy)
}

func TestBuildCSR_NonZeroRangeStart(t *testing.T) {
	t.Parallel()

	edges := []core.Edge{
		{From: 11, To: 2},
		{From: 10, To: 9},
	}
	csr, err := core.BuildCSR(edges, core.VertexRange{First: 10, Last: 13})
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 1, 2, 2}, csr.Xadj)
	assert.Equal(t, []uint64{9, 2}, csr.Adjncy)
}

func TestBuildCSR_SourceOutsideRange(t *testing.T) {
	t.Parallel()

	edges := []core.Edge{{From: 42, To: 0}}
	_, err := core.BuildCSR(edges, core.VertexRange{First: 0, Last: 4})
	assert.ErrorIs(t, err, core.ErrEdgeOutOfRange)
}

func TestBuildCSR_EmptyEdges(t *testing.T) {
	t.Parallel()

	csr, err := core.BuildCSR(nil, core.VertexRange{First: 0, Last: 3})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 0, 0, 0}, csr.Xadj)
	assert.Empty(t, csr.Adjncy)
}

func TestSortAndDedupEdges(t *testing.T) {
	t.Parallel()

	edges := []core.Edge{{From: 3, To: 1}, {From: 1, To: 2}, {From: 3, To: 1}, {From: 1, To: 0}}
	core.SortEdges(edges)
	require.True(t, core.EdgesSorted(edges))

	edges = core.DedupEdges(edges)
	assert.Equal(t, []core.Edge{{From: 1, To: 0}, {From: 1, To: 2}, {From: 3, To: 1}}, edges)
}

func TestBufferSink_Cap(t *testing.T) {
	t.Parallel()

	sink := &core.BufferSink{Cap: 2}
	sink.Emit(0, 1)
	sink.Emit(1, 2)
	sink.Emit(2, 3)

	assert.Len(t, sink.Edges, 2)
	assert.ErrorIs(t, sink.Err, core.ErrEdgeBufferLimit)
}

func TestVertexRange(t *testing.T) {
	t.Parallel()

	r := core.VertexRange{First: 4, Last: 9}
	assert.Equal(t, uint64(5), r.Size())
	assert.True(t, r.Contains(4))
	assert.True(t, r.Contains(8))
	assert.False(t, r.Contains(9))
}
