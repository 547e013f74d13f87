package generator

import (
	"fmt"

	"github.com/mschimek/KaGen/chunk"
	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/rng"
)

// lattice is a 2D or 3D vertex grid with Bernoulli edges on the 4- or
// 6-neighborhood. Ids are row-major over (x, y[, z]); every potential
// edge is keyed by its canonical endpoint pair, so both sides of a
// boundary agree on its existence without communication.
type lattice struct {
	x, y, z  uint64 // z == 1 for 2D
	p        float64
	periodic bool
	threeD   bool
}

func (l lattice) n() uint64 { return l.x * l.y * l.z }

// coords splits a row-major id into axis positions.
func (l lattice) coords(id uint64) (cx, cy, cz uint64) {
	return id % l.x, (id / l.x) % l.y, id / (l.x * l.y)
}

// id combines axis positions into the row-major id.
func (l lattice) id(cx, cy, cz uint64) uint64 {
	return cx + cy*l.x + cz*l.x*l.y
}

// neighbors appends the distinct lattice neighbors of id to buf.
// Periodic mode wraps each axis; a length-1 axis contributes no neighbor,
// and a periodic length-2 axis, where both directions meet, contributes one.
func (l lattice) neighbors(id uint64, buf []uint64) []uint64 {
	cx, cy, cz := l.coords(id)
	dims := []struct {
		pos, size uint64
	}{{cx, l.x}, {cy, l.y}, {cz, l.z}}
	ndirs := 2
	if l.threeD {
		ndirs = 3
	}
	for d := 0; d < ndirs; d++ {
		pos, size := dims[d].pos, dims[d].size
		for _, delta := range [2]int64{-1, 1} {
			np := int64(pos) + delta
			if np < 0 || np >= int64(size) {
				if !l.periodic || size < 2 {
					continue
				}
				np = (np + int64(size)) % int64(size)
			}
			nc := [3]uint64{cx, cy, cz}
			nc[d] = uint64(np)
			nid := l.id(nc[0], nc[1], nc[2])
			if nid == id {
				continue
			}
			dup := false
			for _, b := range buf {
				if b == nid {
					dup = true
					break
				}
			}
			if !dup {
				buf = append(buf, nid)
			}
		}
	}
	return buf
}

// Grid2D generates an x·y lattice with 4-neighborhood Bernoulli(p) edges.
func (g *Generator) Grid2D(x, y uint64, p float64, periodic bool) (core.Result, error) {
	return g.grid(lattice{x: x, y: y, z: 1, p: p, periodic: periodic}, false)
}

// Grid2DN generates a near-square 2D lattice with at least n vertices.
func (g *Generator) Grid2DN(n uint64, p float64, periodic bool) (core.Result, error) {
	side := ceilSqrt(n)
	return g.Grid2D(side, side, p, periodic)
}

// Grid2DCoordinates is Grid2D with per-vertex lattice positions.
func (g *Generator) Grid2DCoordinates(x, y uint64, p float64, periodic bool) (core.Result, error) {
	res, err := g.grid(lattice{x: x, y: y, z: 1, p: p, periodic: periodic}, true)
	return res, err
}

// Grid3D generates an x·y·z lattice with 6-neighborhood Bernoulli(p) edges.
func (g *Generator) Grid3D(x, y, z uint64, p float64, periodic bool) (core.Result, error) {
	return g.grid(lattice{x: x, y: y, z: z, p: p, periodic: periodic, threeD: true}, false)
}

// Grid3DN generates a near-cubic 3D lattice with at least n vertices.
func (g *Generator) Grid3DN(n uint64, p float64, periodic bool) (core.Result, error) {
	side := ceilCbrt(n)
	return g.Grid3D(side, side, side, p, periodic)
}

// Grid3DCoordinates is Grid3D with per-vertex lattice positions.
func (g *Generator) Grid3DCoordinates(x, y, z uint64, p float64, periodic bool) (core.Result, error) {
	return g.grid(lattice{x: x, y: y, z: z, p: p, periodic: periodic, threeD: true}, true)
}

func (g *Generator) grid(l lattice, coords bool) (core.Result, error) {
	const method = "Grid"
	if l.x < 1 || l.y < 1 || l.z < 1 {
		return core.Result{}, fmt.Errorf("%s: axes (%d,%d,%d): %w", method, l.x, l.y, l.z, ErrTooFewVertices)
	}
	if l.p < 0 || l.p > 1 {
		return core.Result{}, fmt.Errorf("%s: p=%v: %w", method, l.p, ErrInvalidProbability)
	}
	if g.cfg.chunks != 0 {
		// Spatial models require a reshapeable explicit chunk count.
		var err error
		if l.threeD {
			_, _, _, err = chunk.Axes3D(g.cfg.chunks)
		} else {
			_, _, err = chunk.Axes2D(g.cfg.chunks)
		}
		if err != nil {
			return core.Result{}, fmt.Errorf("%s: %w", method, err)
		}
	}

	t, err := g.newTask(l.n())
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}

	latticeSeed := g.subseed(tagLattice)
	var nbuf []uint64
	for u := t.vr.First; u < t.vr.Last; u++ {
		nbuf = l.neighbors(u, nbuf[:0])
		for _, v := range nbuf {
			lo, hi := u, v
			if lo > hi {
				lo, hi = hi, lo
			}
			if !rng.Bernoulli(rng.Hash(latticeSeed, lo, hi), l.p) {
				continue
			}
			t.emitDiscovered(u, v)
		}
	}

	res, err := t.result(true)
	if err != nil {
		return res, err
	}
	if coords {
		if l.threeD {
			res.Coordinates3D = make([][3]float64, t.vr.Size())
			for u := t.vr.First; u < t.vr.Last; u++ {
				cx, cy, cz := l.coords(u)
				res.Coordinates3D[u-t.vr.First] = [3]float64{float64(cx), float64(cy), float64(cz)}
			}
		} else {
			res.Coordinates2D = make([][2]float64, t.vr.Size())
			for u := t.vr.First; u < t.vr.Last; u++ {
				cx, cy, _ := l.coords(u)
				res.Coordinates2D[u-t.vr.First] = [2]float64{float64(cx), float64(cy)}
			}
		}
	}
	return res, nil
}

func ceilSqrt(v uint64) uint64 {
	r := uint64(0)
	for r*r < v {
		r++
	}
	if r == 0 {
		r = 1
	}
	return r
}

func ceilCbrt(v uint64) uint64 {
	r := uint64(0)
	for r*r*r < v {
		r++
	}
	if r == 0 {
		r = 1
	}
	return r
}
