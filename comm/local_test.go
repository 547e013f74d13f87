package comm_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschimek/KaGen/comm"
	"github.com/mschimek/KaGen/core"
)

func TestNewLocalGroup_Validation(t *testing.T) {
	t.Parallel()

	_, err := comm.NewLocalGroup(0)
	assert.ErrorIs(t, err, comm.ErrGroupSize)
}

func TestLocalGroup_Reductions(t *testing.T) {
	t.Parallel()

	const p = 4
	var mu sync.Mutex
	sums := make([]uint64, 0, p)

	err := comm.RunGroup(p, func(c *comm.LocalComm) error {
		v := uint64(c.Rank() + 1) // 1,2,3,4
		sum := c.AllreduceSum(v)
		min := c.AllreduceMin(v)
		max := c.AllreduceMax(v)
		all := c.Allgather(v)
		b, err := c.Bcast(v, 2)
		if err != nil {
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		sums = append(sums, sum)
		assert.Equal(t, uint64(1), min)
		assert.Equal(t, uint64(4), max)
		assert.Equal(t, []uint64{1, 2, 3, 4}, all)
		assert.Equal(t, uint64(3), b)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, sums, p)
	for _, s := range sums {
		assert.Equal(t, uint64(10), s)
	}
}

func TestLocalGroup_AllreduceSumFloat(t *testing.T) {
	t.Parallel()

	err := comm.RunGroup(4, func(c *comm.LocalComm) error {
		v := 0.25 * float64(c.Rank()+1) // 0.25, 0.5, 0.75, 1.0
		sum := c.AllreduceSumFloat(v)
		assert.Equal(t, 2.5, sum, "rank %d", c.Rank())
		return nil
	})
	require.NoError(t, err)
}

func TestLocalGroup_GatherEdgesRoot(t *testing.T) {
	t.Parallel()

	const p, root = 3, 1
	var mu sync.Mutex
	got := make(map[int][]core.Edge)

	err := comm.RunGroup(p, func(c *comm.LocalComm) error {
		local := []core.Edge{{From: core.VId(c.Rank()), To: core.VId(c.Rank() + 10)}}
		in, err := c.GatherEdgesRoot(local, root)
		if err != nil {
			return err
		}
		mu.Lock()
		got[c.Rank()] = in
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	// Only the root receives anything, in sender rank order.
	want := []core.Edge{{From: 0, To: 10}, {From: 1, To: 11}, {From: 2, To: 12}}
	assert.Equal(t, want, got[root])
	assert.Nil(t, got[0])
	assert.Nil(t, got[2])
}

func TestLocalGroup_GatherEdgesRootBadRoot(t *testing.T) {
	t.Parallel()

	err := comm.RunGroup(1, func(c *comm.LocalComm) error {
		_, err := c.GatherEdgesRoot(nil, 7)
		assert.ErrorIs(t, err, comm.ErrBadRoot)
		return nil
	})
	require.NoError(t, err)
}

func TestLocalGroup_BcastBadRoot(t *testing.T) {
	t.Parallel()

	err := comm.RunGroup(1, func(c *comm.LocalComm) error {
		_, err := c.Bcast(1, 5)
		assert.ErrorIs(t, err, comm.ErrBadRoot)
		return nil
	})
	require.NoError(t, err)
}

func TestLocalGroup_ExchangeEdges(t *testing.T) {
	t.Parallel()

	const p = 3
	var mu sync.Mutex
	got := make(map[int][]core.Edge)

	err := comm.RunGroup(p, func(c *comm.LocalComm) error {
		// Rank r sends edge (r, dst) to every rank dst.
		out := make([][]core.Edge, p)
		for dst := 0; dst < p; dst++ {
			out[dst] = []core.Edge{{From: core.VId(c.Rank()), To: core.VId(dst)}}
		}
		in, err := c.ExchangeEdges(out)
		if err != nil {
			return err
		}
		mu.Lock()
		got[c.Rank()] = in
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	for dst := 0; dst < p; dst++ {
		want := []core.Edge{}
		for src := 0; src < p; src++ {
			want = append(want, core.Edge{From: core.VId(src), To: core.VId(dst)})
		}
		assert.Equal(t, want, got[dst], "rank %d inbox", dst)
	}
}

func TestLocalGroup_ExchangeBadBuckets(t *testing.T) {
	t.Parallel()

	err := comm.RunGroup(1, func(c *comm.LocalComm) error {
		_, err := c.ExchangeEdges(make([][]core.Edge, 2))
		assert.ErrorIs(t, err, comm.ErrBadExchange)
		return nil
	})
	require.NoError(t, err)
}

func TestLocalGroup_RepeatedCollectives(t *testing.T) {
	t.Parallel()

	// Back-to-back collectives must not interfere through the shared slots.
	err := comm.RunGroup(4, func(c *comm.LocalComm) error {
		for i := 0; i < 50; i++ {
			v := uint64(c.Rank()*100 + i)
			all := c.Allgather(v)
			for r := 0; r < 4; r++ {
				if all[r] != uint64(r*100+i) {
					t.Errorf("round %d rank %d: slot %d = %d", i, c.Rank(), r, all[r])
				}
			}
		}
		return nil
	})
	require.NoError(t, err)
}
