package chunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschimek/KaGen/chunk"
)

func TestPartition_Validation(t *testing.T) {
	t.Parallel()

	_, err := chunk.New(10, 0, 1)
	assert.ErrorIs(t, err, chunk.ErrBadChunkCount)

	_, err = chunk.New(10, 4, 0)
	assert.ErrorIs(t, err, chunk.ErrBadRankCount)
}

func TestPartition_OffsetsCoverN(t *testing.T) {
	t.Parallel()

	cases := []struct{ n, k, p uint64 }{
		{n: 100, k: 7, p: 3},
		{n: 10, k: 10, p: 4},
		{n: 13, k: 5, p: 5},
		{n: 1, k: 1, p: 1},
		{n: 64, k: 16, p: 16},
	}
	for _, tc := range cases {
		pt, err := chunk.New(tc.n, tc.k, tc.p)
		require.NoError(t, err)

		assert.Equal(t, uint64(0), pt.Offset(0))
		assert.Equal(t, tc.n, pt.Offset(tc.k))

		var sum uint64
		for c := uint64(0); c < tc.k; c++ {
			assert.Equal(t, pt.Offset(c)+pt.Size(c), pt.Offset(c+1), "n=%d k=%d c=%d", tc.n, tc.k, c)
			sum += pt.Size(c)
		}
		assert.Equal(t, tc.n, sum)
	}
}

func TestPartition_RankChunksCoverK(t *testing.T) {
	t.Parallel()

	pt, err := chunk.New(100, 11, 4)
	require.NoError(t, err)

	var next uint64
	var total uint64
	for r := 0; r < 4; r++ {
		first, count := pt.RankChunks(r)
		assert.Equal(t, next, first)
		next = first + count
		total += count

		for c := first; c < first+count; c++ {
			assert.Equal(t, r, pt.Owner(c))
		}
	}
	assert.Equal(t, uint64(11), total)
}

func TestPartition_RangesPartitionVertices(t *testing.T) {
	t.Parallel()

	pt, err := chunk.New(103, 8, 3)
	require.NoError(t, err)

	var next uint64
	for r := 0; r < 3; r++ {
		first, last := pt.Range(r)
		assert.Equal(t, next, first)
		next = last
	}
	assert.Equal(t, uint64(103), next)

	for i := uint64(0); i < 103; i++ {
		r := pt.ElementOwner(i)
		first, last := pt.Range(r)
		assert.True(t, i >= first && i < last, "element %d owner %d", i, r)
	}
}

func TestAxes(t *testing.T) {
	t.Parallel()

	cx, cy, err := chunk.Axes2D(16)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), cx)
	assert.Equal(t, uint64(4), cy)

	_, _, err = chunk.Axes2D(12)
	assert.ErrorIs(t, err, chunk.ErrChunkDecomposition)

	cx, cy, cz, err := chunk.Axes3D(27)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cx)
	assert.Equal(t, uint64(3), cy)
	assert.Equal(t, uint64(3), cz)

	_, _, _, err = chunk.Axes3D(9)
	assert.ErrorIs(t, err, chunk.ErrChunkDecomposition)
}

func TestAxis_BlockDistribution(t *testing.T) {
	t.Parallel()

	a := chunk.Axis{Total: 10, Chunks: 3}
	// Sizes 4,3,3 with remainder on the first slot.
	assert.Equal(t, uint64(4), a.ChunkSize(0))
	assert.Equal(t, uint64(3), a.ChunkSize(1))
	assert.Equal(t, uint64(3), a.ChunkSize(2))
	assert.Equal(t, uint64(0), a.ChunkStart(0))
	assert.Equal(t, uint64(4), a.ChunkStart(1))
	assert.Equal(t, uint64(7), a.ChunkStart(2))
	assert.Equal(t, uint64(10), a.ChunkStart(3))

	for x := uint64(0); x < 10; x++ {
		s := a.SlotOf(x)
		assert.True(t, x >= a.ChunkStart(s) && x < a.ChunkStart(s)+a.ChunkSize(s))
	}
}
