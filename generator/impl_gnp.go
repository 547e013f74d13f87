package generator

import (
	"fmt"
	"math"

	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/rng"
	"github.com/mschimek/KaGen/sampling"
)

// gnpTileVertices is the fixed vertex granularity of the undirected
// G(n,p) tiling. Tiles never depend on the chunk or rank count.
const gnpTileVertices = 64

// GNPDirected includes every directed edge independently with probability
// p. Each local source row is skip-sampled with geometric jumps keyed by
// (row, attempt), so a row's draws are identical no matter which rank
// evaluates it.
func (g *Generator) GNPDirected(n uint64, p float64, selfLoops bool) (core.Result, error) {
	const method = "GNPDirected"
	if n < 1 {
		return core.Result{}, fmt.Errorf("%s: n=%d: %w", method, n, ErrTooFewVertices)
	}
	if p < 0 || p > 1 {
		return core.Result{}, fmt.Errorf("%s: p=%v: %w", method, p, ErrInvalidProbability)
	}

	t, err := g.newTask(n)
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}

	width := n
	if !selfLoops {
		width = n - 1
	}
	decodeCol := func(u core.VId, j uint64) core.VId {
		if !selfLoops && j >= u {
			return j + 1
		}
		return j
	}

	rowSeed := g.subseed(tagGNPRow)
	switch {
	case p == 0 || width == 0:
		// No admissible targets.
	case p == 1:
		for u := t.vr.First; u < t.vr.Last; u++ {
			for j := uint64(0); j < width; j++ {
				t.emit(u, decodeCol(u, j))
			}
		}
	default:
		lq := math.Log1p(-p)
		for u := t.vr.First; u < t.vr.Last; u++ {
			var cur, attempt uint64
			for {
				h := rng.Hash(rowSeed, u, attempt)
				skip := uint64(math.Log1p(-rng.Float01(h)) / lq)
				cur += skip
				if cur >= width {
					break
				}
				t.emit(u, decodeCol(u, cur))
				cur++
				attempt++
			}
		}
	}
	return t.result(false)
}

// GNPUndirected includes every unordered pair independently with
// probability p. Pairs are sampled per tile pair of a fixed vertex
// tiling, keyed by the tile coordinates, so both owning ranks draw the
// identical pair set and each emits the copy incident to its own
// endpoint — no communication needed.
func (g *Generator) GNPUndirected(n uint64, p float64, selfLoops bool) (core.Result, error) {
	const method = "GNPUndirected"
	if n < 1 {
		return core.Result{}, fmt.Errorf("%s: n=%d: %w", method, n, ErrTooFewVertices)
	}
	if p < 0 || p > 1 {
		return core.Result{}, fmt.Errorf("%s: p=%v: %w", method, p, ErrInvalidProbability)
	}

	t, err := g.newTask(n)
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}
	if t.vr.Size() == 0 {
		return t.result(true)
	}

	numTiles := (n + gnpTileVertices - 1) / gnpTileVertices
	tileLo := t.vr.First / gnpTileVertices
	tileHi := (t.vr.Last + gnpTileVertices - 1) / gnpTileVertices
	tileStart := func(ti uint64) uint64 {
		if s := ti * gnpTileVertices; s < n {
			return s
		}
		return n
	}

	countSeed := g.subseed(tagGNPTile)
	drawSeed := rng.Hash(countSeed, 1)

	// sampleTile draws the edge set of one tile pair (a ≤ b) and applies
	// the undirected placement rule to every pair.
	sampleTile := func(a, b uint64) {
		aLo, aHi := tileStart(a), tileStart(a+1)
		bLo, bHi := tileStart(b), tileStart(b+1)
		aSize, bSize := aHi-aLo, bHi-bLo

		var universe uint64
		var decode func(idx uint64) (core.VId, core.VId)
		if a == b {
			tri := gnmUniverse{n: aSize, directed: false, selfLoops: selfLoops}
			universe = tri.size(0, aSize)
			decode = func(idx uint64) (core.VId, core.VId) {
				iu, iv := tri.decode(0, aSize, idx)
				return aLo + iu, aLo + iv
			}
		} else {
			universe = aSize * bSize
			decode = func(idx uint64) (core.VId, core.VId) {
				return aLo + idx/bSize, bLo + idx%bSize
			}
		}
		if universe == 0 {
			return
		}

		count := rng.Binomial(rng.Hash(countSeed, a, b), universe, p)
		h := rng.Hash(drawSeed, a, b)
		sampling.SampleWithoutReplacement(h, 0, universe, count, func(idx uint64) {
			u, v := decode(idx)
			t.emitUndirected(u, v)
		})
	}

	for ti := tileLo; ti < tileHi; ti++ {
		for tj := uint64(0); tj < numTiles; tj++ {
			if tj >= tileLo && tj < tileHi && tj < ti {
				continue // the roles swap when tj drives its own row
			}
			if tj < ti {
				sampleTile(tj, ti)
			} else {
				sampleTile(ti, tj)
			}
		}
	}
	return t.result(true)
}
