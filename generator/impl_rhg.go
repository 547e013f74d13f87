package generator

import (
	"fmt"
	"math"
	"sort"

	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/rng"
)

// hypPoint is one vertex of the hyperbolic disk with its trigonometric
// terms precomputed for the distance kernel.
type hypPoint struct {
	id     core.VId
	r      float64
	theta  float64
	coshR  float64
	sinhR  float64
}

// hypDisk holds the annular decomposition of the disk: ⌈log₂ n⌉ radial
// bands, each keeping its vertices sorted by angle. Positions are pure
// hash functions of the vertex id, so every rank rebuilds the identical
// decomposition without communication.
type hypDisk struct {
	radius float64 // disk radius R; also the connection threshold
	alpha  float64
	bands  []hypBand
}

type hypBand struct {
	rLo, rHi float64
	pts      []hypPoint // sorted by (theta, id)
}

// rhgPosition derives vertex v's polar coordinates from the seed alone:
// the angle is uniform, the radius follows density ∝ sinh(α·r) on [0, R].
func rhgPosition(posSeed uint64, v core.VId, alpha, radius float64) (r, theta float64) {
	theta = 2 * math.Pi * rng.Float01(rng.Hash(posSeed, v, 0))
	u := rng.Float01(rng.Hash(posSeed, v, 1))
	r = math.Acosh(1+(math.Cosh(alpha*radius)-1)*u) / alpha
	return r, theta
}

func buildHypDisk(posSeed uint64, n uint64, alpha, radius float64) *hypDisk {
	numBands := 1
	for uint64(1)<<numBands < n {
		numBands++
	}
	d := &hypDisk{radius: radius, alpha: alpha, bands: make([]hypBand, numBands)}
	for i := range d.bands {
		d.bands[i].rLo = radius * float64(i) / float64(numBands)
		d.bands[i].rHi = radius * float64(i+1) / float64(numBands)
	}
	for v := uint64(0); v < n; v++ {
		r, theta := rhgPosition(posSeed, v, alpha, radius)
		b := int(r / radius * float64(numBands))
		if b >= numBands {
			b = numBands - 1
		}
		d.bands[b].pts = append(d.bands[b].pts, hypPoint{
			id: v, r: r, theta: theta, coshR: math.Cosh(r), sinhR: math.Sinh(r),
		})
	}
	for i := range d.bands {
		pts := d.bands[i].pts
		sort.Slice(pts, func(a, b int) bool {
			if pts[a].theta != pts[b].theta {
				return pts[a].theta < pts[b].theta
			}
			return pts[a].id < pts[b].id
		})
	}
	return d
}

// neighbors yields every vertex within hyperbolic distance R of u.
// Per band, reachability is decided at the band's closest radial point
// and the angular search window is evaluated at the band's inner radius.
func (d *hypDisk) neighbors(u hypPoint, yield func(v hypPoint)) {
	coshRadius := math.Cosh(d.radius)
	for bi := range d.bands {
		band := &d.bands[bi]
		if len(band.pts) == 0 {
			continue
		}
		// Reachability is decided at the band's radially closest point;
		// the angular window is widest at the inner boundary (the
		// threshold angle shrinks monotonically with the radius), so
		// evaluating it there bounds every vertex of the band.
		rc := math.Min(math.Max(u.r, band.rLo), band.rHi)
		scanAll := true
		window := 0.0
		if rc > 1e-12 && u.r > 1e-12 {
			c := (u.coshR*math.Cosh(rc) - coshRadius) / (u.sinhR * math.Sinh(rc))
			if c >= 1 {
				continue // band entirely out of reach
			}
		}
		if band.rLo > 1e-12 && u.r > 1e-12 {
			c := (u.coshR*math.Cosh(band.rLo) - coshRadius) / (u.sinhR * math.Sinh(band.rLo))
			if c > -1 {
				scanAll = false
				window = math.Acos(c)
			}
		}
		if scanAll {
			for _, v := range band.pts {
				d.check(u, v, coshRadius, yield)
			}
			continue
		}
		d.scanArc(band.pts, u.theta-window, u.theta+window, func(v hypPoint) {
			d.check(u, v, coshRadius, yield)
		})
	}
}

// check applies the exact distance test.
func (d *hypDisk) check(u, v hypPoint, coshRadius float64, yield func(hypPoint)) {
	if v.id == u.id {
		return
	}
	coshDist := u.coshR*v.coshR - u.sinhR*v.sinhR*math.Cos(u.theta-v.theta)
	if coshDist <= coshRadius {
		yield(v)
	}
}

// scanArc visits the points whose angle lies in [lo, hi], wrapping around
// the 2π boundary.
func (d *hypDisk) scanArc(pts []hypPoint, lo, hi float64, visit func(hypPoint)) {
	span := hi - lo
	if span >= 2*math.Pi {
		for _, v := range pts {
			visit(v)
		}
		return
	}
	emit := func(from, to float64) {
		i := sort.Search(len(pts), func(i int) bool { return pts[i].theta >= from })
		for ; i < len(pts) && pts[i].theta <= to; i++ {
			visit(pts[i])
		}
	}
	lo = math.Mod(lo+4*math.Pi, 2*math.Pi)
	hi = lo + span
	if hi <= 2*math.Pi {
		emit(lo, hi)
		return
	}
	emit(lo, 2*math.Pi)
	emit(0, hi-2*math.Pi)
}

// RHG generates a threshold random hyperbolic graph with power-law
// exponent gamma and target average degree dbar: vertices lie on a
// hyperbolic disk whose radius is set from (gamma, n, dbar), and two
// vertices connect iff their hyperbolic distance is at most that radius.
func (g *Generator) RHG(gamma float64, n uint64, dbar float64) (core.Result, error) {
	return g.rhg(gamma, n, dbar, false)
}

// RHGNM targets m edges by setting the average degree to 2m/n.
func (g *Generator) RHGNM(gamma float64, n, m uint64) (core.Result, error) {
	return g.rhg(gamma, n, 2*float64(m)/float64(n), false)
}

// RHGMD targets m edges at average degree dbar by setting n = 2m/dbar.
func (g *Generator) RHGMD(gamma float64, m uint64, dbar float64) (core.Result, error) {
	if dbar <= 0 {
		return core.Result{}, fmt.Errorf("RHGMD: dbar=%v: %w", dbar, ErrBadDegree)
	}
	n := uint64(math.Round(2 * float64(m) / dbar))
	if n < 1 {
		n = 1
	}
	return g.rhg(gamma, n, dbar, false)
}

// RHGCoordinates is RHG with the owned vertices' polar coordinates
// (radius, angle) attached.
func (g *Generator) RHGCoordinates(gamma float64, n uint64, dbar float64) (core.Result, error) {
	return g.rhg(gamma, n, dbar, true)
}

// RHGCoordinatesNM is RHGNM with polar coordinates attached.
func (g *Generator) RHGCoordinatesNM(gamma float64, n, m uint64) (core.Result, error) {
	return g.rhg(gamma, n, 2*float64(m)/float64(n), true)
}

// RHGCoordinatesMD is RHGMD with polar coordinates attached.
func (g *Generator) RHGCoordinatesMD(gamma float64, m uint64, dbar float64) (core.Result, error) {
	if dbar <= 0 {
		return core.Result{}, fmt.Errorf("RHGCoordinatesMD: dbar=%v: %w", dbar, ErrBadDegree)
	}
	n := uint64(math.Round(2 * float64(m) / dbar))
	if n < 1 {
		n = 1
	}
	return g.rhg(gamma, n, dbar, true)
}

func (g *Generator) rhg(gamma float64, n uint64, dbar float64, coords bool) (core.Result, error) {
	const method = "RHG"
	if n < 1 {
		return core.Result{}, fmt.Errorf("%s: n=%d: %w", method, n, ErrTooFewVertices)
	}
	if gamma <= 2 || math.IsNaN(gamma) {
		return core.Result{}, fmt.Errorf("%s: gamma=%v: %w", method, gamma, ErrBadGamma)
	}
	if dbar <= 0 || dbar >= float64(n) {
		return core.Result{}, fmt.Errorf("%s: dbar=%v n=%d: %w", method, dbar, n, ErrBadDegree)
	}

	alpha := (gamma - 1) / 2
	xi := alpha / (alpha - 0.5)
	radius := 2 * math.Log(2*xi*xi*float64(n)/(math.Pi*dbar))
	if radius <= 0 || math.IsInf(radius, 0) {
		return core.Result{}, fmt.Errorf("%s: dbar=%v too dense for n=%d: %w", method, dbar, n, ErrBadDegree)
	}

	t, err := g.newTask(n)
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: %w", method, err)
	}

	posSeed := g.subseed(tagRHGPos)
	disk := buildHypDisk(posSeed, n, alpha, radius)

	for u := t.vr.First; u < t.vr.Last; u++ {
		r, theta := rhgPosition(posSeed, u, alpha, radius)
		pu := hypPoint{id: u, r: r, theta: theta, coshR: math.Cosh(r), sinhR: math.Sinh(r)}
		disk.neighbors(pu, func(pv hypPoint) {
			if g.cfg.weightFn != nil {
				d := math.Acosh(pu.coshR*pv.coshR - pu.sinhR*pv.sinhR*math.Cos(pu.theta-pv.theta))
				t.dist2 = d * d
			}
			t.emitDiscovered(pu.id, pv.id)
		})
	}

	res, err := t.result(true)
	if err != nil {
		return res, err
	}
	if coords {
		res.Coordinates2D = make([][2]float64, t.vr.Size())
		for u := t.vr.First; u < t.vr.Last; u++ {
			r, theta := rhgPosition(posSeed, u, alpha, radius)
			res.Coordinates2D[u-t.vr.First] = [2]float64{r, theta}
		}
	}
	return res, nil
}
