package generator

import (
	"fmt"

	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/rng"
)

// BA generates a Barabási–Albert preferential attachment graph: every
// vertex v ∈ [d, n) attaches to d vertices drawn from the
// Batagelj–Brandes implicit degree array: earlier vertices, or v itself
// when selfLoops is set. The recurrence only looks
// backward, so each rank resolves its own vertices' parents without
// communication. Parallel edges can occur, as in the underlying model.
func (g *Generator) BA(n, d uint64, directed, selfLoops bool) (core.Result, error) {
	const method = "BA"
	if n < 1 {
		return core.Result{}, fmt.Errorf("%s: n=%d: %w", method, n, ErrTooFewVertices)
	}
	if d < 1 || d >= n {
		return core.Result{}, fmt.Errorf("%s: d=%d n=%d: %w", method, d, n, ErrBadDegree)
	}

	t, err := g.newTask(n)
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}

	baSeed := g.subseed(tagBA)
	cache := make(map[uint64]core.VId)

	// resolve maps the degree-array position drawn for edge e at the
	// given attempt: an even position names a source slot, an odd one the
	// target of an earlier edge.
	var targetOf func(e uint64) core.VId
	resolve := func(e, attempt uint64) core.VId {
		j := rng.UniformInt(rng.Hash(baSeed, e, attempt), 0, 2*e)
		if j%2 == 1 {
			return targetOf(j / 2)
		}
		return j / 2 / d
	}
	targetOf = func(e uint64) core.VId {
		if w, ok := cache[e]; ok {
			return w
		}
		src := e / d
		w := resolve(e, 0)
		if !selfLoops && src >= d {
			// Emitted edges suppress self-attachment; earlier virtual
			// slots (src < d) keep the raw resolution so every rank
			// agrees on the chain values.
			for attempt := uint64(1); w == src; attempt++ {
				w = resolve(e, attempt)
			}
		}
		cache[e] = w
		return w
	}

	first := t.vr.First
	if first < d {
		first = d
	}
	for v := first; v < t.vr.Last; v++ {
		for i := uint64(0); i < d; i++ {
			w := targetOf(v*d + i)
			t.emit(v, w)
			if directed {
				continue
			}
			if !t.local(w) {
				t.route(w, v)
			}
		}
	}

	if !directed {
		if err := t.flush(); err != nil {
			return core.Result{}, fmt.Errorf("%s: %w", method, err)
		}
	}
	return t.result(!directed)
}

// BANM generates a BA graph targeting m edges on n vertices by choosing
// the attachment degree d ≈ m/n.
func (g *Generator) BANM(n, m uint64, directed, selfLoops bool) (core.Result, error) {
	if n < 1 {
		return core.Result{}, fmt.Errorf("BANM: n=%d: %w", n, ErrTooFewVertices)
	}
	d := m / n
	if d < 1 {
		d = 1
	}
	return g.BA(n, d, directed, selfLoops)
}

// BAMD generates a BA graph targeting m edges at attachment degree d by
// choosing the vertex count n ≈ m/d.
func (g *Generator) BAMD(m, d uint64, directed, selfLoops bool) (core.Result, error) {
	if d < 1 {
		return core.Result{}, fmt.Errorf("BAMD: d=%d: %w", d, ErrBadDegree)
	}
	n := m / d
	if n <= d {
		n = d + 1
	}
	return g.BA(n, d, directed, selfLoops)
}
