package generator

import (
	"fmt"
	"math"

	"github.com/mschimek/KaGen/chunk"
	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/rng"
	"github.com/mschimek/KaGen/sampling"
)

// cellPoint is one materialized vertex of a geometric cell.
type cellPoint struct {
	id  core.VId
	pos [3]float64
}

// cellGrid subdivides the unit square/cube into cells of side ≥ r. Cell
// occupancy comes from the shared multinomial tree and in-cell positions
// from a per-cell hash stream, so any rank materializes any cell — owned
// or ghost — identically, with memory proportional to the local slab.
type cellGrid struct {
	dims     int
	perAxis  uint64
	occ      sampling.Occupancy
	posSeed  uint64
	periodic bool

	cache map[uint64][]cellPoint
}

func newCellGrid(dims int, n uint64, r float64, occSeed, posSeed uint64, periodic bool) *cellGrid {
	per := uint64(1)
	if inv := math.Floor(1 / r); inv > 1 {
		per = uint64(inv)
	}
	total := per
	for d := 1; d < dims; d++ {
		total *= per
	}
	return &cellGrid{
		dims:     dims,
		perAxis:  per,
		occ:      sampling.Occupancy{Seed: occSeed, Cells: total, N: n},
		posSeed:  posSeed,
		periodic: periodic,
		cache:    make(map[uint64][]cellPoint),
	}
}

func (cg *cellGrid) totalCells() uint64 { return cg.occ.Cells }

// cellIndex folds per-axis cell coordinates row-major.
func (cg *cellGrid) cellIndex(c [3]uint64) uint64 {
	idx := c[0]
	stride := cg.perAxis
	for d := 1; d < cg.dims; d++ {
		idx += c[d] * stride
		stride *= cg.perAxis
	}
	return idx
}

func (cg *cellGrid) cellCoords(idx uint64) [3]uint64 {
	var c [3]uint64
	for d := 0; d < cg.dims; d++ {
		c[d] = idx % cg.perAxis
		idx /= cg.perAxis
	}
	return c
}

// points materializes (and caches) the vertices of one cell.
func (cg *cellGrid) points(idx uint64) []cellPoint {
	if pts, ok := cg.cache[idx]; ok {
		return pts
	}
	count, offset := cg.occ.Count(idx)
	cc := cg.cellCoords(idx)
	side := 1.0 / float64(cg.perAxis)
	stream := rng.Stream(rng.Hash(cg.posSeed, idx))
	pts := make([]cellPoint, count)
	for j := uint64(0); j < count; j++ {
		var pos [3]float64
		for d := 0; d < cg.dims; d++ {
			pos[d] = (float64(cc[d]) + stream.Float64()) * side
		}
		pts[j] = cellPoint{id: offset + j, pos: pos}
	}
	cg.cache[idx] = pts
	return pts
}

// neighborhood returns the distinct cell indices of idx's one-layer
// neighborhood, idx included. Periodic mode wraps the axes.
func (cg *cellGrid) neighborhood(idx uint64) []uint64 {
	cc := cg.cellCoords(idx)
	out := make([]uint64, 0, 27)
	var walk func(d int, cur [3]uint64)
	walk = func(d int, cur [3]uint64) {
		if d == cg.dims {
			nidx := cg.cellIndex(cur)
			for _, o := range out {
				if o == nidx {
					return
				}
			}
			out = append(out, nidx)
			return
		}
		for _, delta := range [3]int64{-1, 0, 1} {
			np := int64(cc[d]) + delta
			if np < 0 || np >= int64(cg.perAxis) {
				if !cg.periodic {
					continue
				}
				np = (np + int64(cg.perAxis)) % int64(cg.perAxis)
			}
			cur[d] = uint64(np)
			walk(d+1, cur)
		}
	}
	walk(0, [3]uint64{})
	return out
}

// dist2 is the squared endpoint distance, min-image on the torus when
// periodic. The high-precision path accumulates with fused multiply-add.
func (cg *cellGrid) dist2(a, b [3]float64, hp bool) float64 {
	var sum float64
	for d := 0; d < cg.dims; d++ {
		diff := math.Abs(a[d] - b[d])
		if cg.periodic && diff > 0.5 {
			diff = 1 - diff
		}
		if hp {
			sum = math.FMA(diff, diff, sum)
		} else {
			sum += diff * diff
		}
	}
	return sum
}

// RGG2D generates a random geometric graph on n vertices of the unit
// square, connecting pairs within Euclidean distance r.
func (g *Generator) RGG2D(n uint64, r float64) (core.Result, error) {
	return g.rgg(2, n, r, false)
}

// RGG2DNM generates a 2D RGG whose radius is calibrated so the expected
// edge count is m.
func (g *Generator) RGG2DNM(n, m uint64) (core.Result, error) {
	return g.rgg(2, n, rggRadius(2, n, m), false)
}

// RGG2DMR generates a 2D RGG with radius r and a vertex count calibrated
// so the expected edge count is m.
func (g *Generator) RGG2DMR(m uint64, r float64) (core.Result, error) {
	return g.rgg(2, rggVertices(2, m, r), r, false)
}

// RGG2DCoordinates is RGG2D with the owned vertices' positions attached.
func (g *Generator) RGG2DCoordinates(n uint64, r float64) (core.Result, error) {
	return g.rgg(2, n, r, true)
}

// RGG3D generates a random geometric graph on n vertices of the unit cube.
func (g *Generator) RGG3D(n uint64, r float64) (core.Result, error) {
	return g.rgg(3, n, r, false)
}

// RGG3DNM generates a 3D RGG whose radius targets m expected edges.
func (g *Generator) RGG3DNM(n, m uint64) (core.Result, error) {
	return g.rgg(3, n, rggRadius(3, n, m), false)
}

// RGG3DMR generates a 3D RGG with radius r and a vertex count targeting m
// expected edges.
func (g *Generator) RGG3DMR(m uint64, r float64) (core.Result, error) {
	return g.rgg(3, rggVertices(3, m, r), r, false)
}

// RGG3DCoordinates is RGG3D with the owned vertices' positions attached.
func (g *Generator) RGG3DCoordinates(n uint64, r float64) (core.Result, error) {
	return g.rgg(3, n, r, true)
}

func (g *Generator) rgg(dims int, n uint64, r float64, coords bool) (core.Result, error) {
	const method = "RGG"
	if n < 1 {
		return core.Result{}, fmt.Errorf("%s: n=%d: %w", method, n, ErrTooFewVertices)
	}
	if r <= 0 || r > 1 || math.IsNaN(r) {
		return core.Result{}, fmt.Errorf("%s: r=%v: %w", method, r, ErrBadRadius)
	}

	cg := newCellGrid(dims, n, r, g.subseed(tagCellSplit), g.subseed(tagCellPos), g.cfg.periodic)

	// Ranks own slabs of cells; the vertex range follows from the cell
	// occupancy prefix, so ranges stay contiguous and cover [0, n).
	cellPart, err := chunk.New(cg.totalCells(), minU64(g.chunkCount(), cg.totalCells()), uint64(g.comm.Size()))
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}
	firstCell, endCell := cellPart.Range(g.comm.Rank())
	t := &task{
		g:    g,
		n:    n,
		part: cellPart,
		vr:   core.VertexRange{First: cg.occ.Offset(firstCell), Last: cg.occ.Offset(endCell)},
		sink: &core.BufferSink{Cap: g.cfg.bufferCap},
	}

	r2 := r * r
	for c := firstCell; c < endCell; c++ {
		own := cg.points(c)
		for _, nc := range cg.neighborhood(c) {
			other := cg.points(nc)
			for _, pu := range own {
				for _, pv := range other {
					if pv.id == pu.id {
						continue
					}
					d2 := cg.dist2(pu.pos, pv.pos, g.cfg.hpFloats)
					if d2 > r2 {
						continue
					}
					t.dist2 = d2
					t.emitDiscovered(pu.id, pv.id)
				}
			}
		}
	}

	res, err := t.result(true)
	if err != nil {
		return res, err
	}
	if coords {
		res = attachCellCoordinates(res, cg, firstCell, endCell, dims)
	}
	return res, nil
}

// attachCellCoordinates copies the owned cells' positions into the result
// in vertex id order.
func attachCellCoordinates(res core.Result, cg *cellGrid, firstCell, endCell uint64, dims int) core.Result {
	size := res.VertexRange.Size()
	if dims == 3 {
		res.Coordinates3D = make([][3]float64, size)
	} else {
		res.Coordinates2D = make([][2]float64, size)
	}
	for c := firstCell; c < endCell; c++ {
		for _, p := range cg.points(c) {
			local := p.id - res.VertexRange.First
			if dims == 3 {
				res.Coordinates3D[local] = p.pos
			} else {
				res.Coordinates2D[local] = [2]float64{p.pos[0], p.pos[1]}
			}
		}
	}
	return res
}

// rggRadius inverts the expected edge count of an RGG for the connection
// radius: E[m] = C(n,2)·π r² in 2D, C(n,2)·(4/3)π r³ in 3D.
func rggRadius(dims int, n, m uint64) float64 {
	if n < 2 {
		return 1
	}
	pairs := float64(n) * float64(n-1) / 2
	if dims == 3 {
		return math.Min(1, math.Cbrt(float64(m)/(pairs*4*math.Pi/3)))
	}
	return math.Min(1, math.Sqrt(float64(m)/(pairs*math.Pi)))
}

// rggVertices inverts the same expectation for the vertex count at a
// fixed radius.
func rggVertices(dims int, m uint64, r float64) uint64 {
	if r <= 0 || r > 1 {
		return 0 // rejected downstream by the radius check
	}
	vol := math.Pi * r * r
	if dims == 3 {
		vol = 4 * math.Pi * r * r * r / 3
	}
	q := 2 * float64(m) / vol // n(n−1)
	n := (1 + math.Sqrt(1+4*q)) / 2
	if n < 1 {
		return 1
	}
	return uint64(math.Round(n))
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
