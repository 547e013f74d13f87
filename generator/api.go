package generator

import (
	"fmt"

	"github.com/mschimek/KaGen/chunk"
	"github.com/mschimek/KaGen/comm"
	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/rng"
	"github.com/mschimek/KaGen/stats"
)

// Coordinate namespaces: every subsystem hashes under its own subseed so
// draws from different models and stages never collide.
const (
	tagGNMTree = 1 + iota
	tagGNMLeaf
	tagGNPRow
	tagGNPTile
	tagCellSplit
	tagCellPos
	tagRHGPos
	tagBA
	tagLattice
	tagRMAT
)

// Generator produces per-rank shares of random graphs over a process
// group. It is safe to reuse for any number of model calls; no state
// survives a call except the optional post-pass reports.
type Generator struct {
	comm comm.Communicator
	cfg  config

	// LastStats and LastSymmetry hold the reports of the most recent
	// model call when the corresponding passes are enabled; both are set
	// on every rank.
	LastStats    *stats.Report
	LastSymmetry *stats.SymmetryReport
}

// New binds a Generator to a process group and resolves its options.
func New(c comm.Communicator, opts ...Option) *Generator {
	return &Generator{comm: c, cfg: newConfig(opts...)}
}

// Seed returns the configured seed.
func (g *Generator) Seed() uint64 { return g.cfg.seed }

// subseed derives the hash namespace for one coordinate kind.
func (g *Generator) subseed(tag uint64) uint64 {
	return rng.Hash(g.cfg.seed, tag)
}

// chunkCount resolves the effective chunk count: the configured value or
// one chunk per rank.
func (g *Generator) chunkCount() uint64 {
	if g.cfg.chunks != 0 {
		return g.cfg.chunks
	}
	return uint64(g.comm.Size())
}

// task carries the per-call state every sampler shares: the vertex
// partition, the owned range, and the edge sink.
type task struct {
	g    *Generator
	n    uint64
	part chunk.Partition
	vr   core.VertexRange
	sink *core.BufferSink

	// outbox collects edges that must land on another rank (undirected
	// mirrors, Kronecker/R-MAT ownership); flushed by one exchange.
	outbox [][]core.Edge

	// weights parallels the sink buffer when a weight function is set;
	// dist2 carries the geometric context of the pair being emitted.
	weights []float64
	dist2   float64
}

// newTask partitions n vertices over the group and prepares the sink.
func (g *Generator) newTask(n uint64) (*task, error) {
	pt, err := chunk.New(n, g.chunkCount(), uint64(g.comm.Size()))
	if err != nil {
		return nil, err
	}
	first, last := pt.Range(g.comm.Rank())
	return &task{
		g:    g,
		n:    n,
		part: pt,
		vr:   core.VertexRange{First: first, Last: last},
		sink: &core.BufferSink{Cap: g.cfg.bufferCap},
	}, nil
}

// local reports whether v is owned by the calling rank.
func (t *task) local(v core.VId) bool { return t.vr.Contains(v) }

// owner returns the rank owning vertex v.
func (t *task) owner(v core.VId) int { return t.part.ElementOwner(v) }

// emit writes one directed edge with a local source.
func (t *task) emit(u, v core.VId) {
	before := len(t.sink.Edges)
	t.sink.Emit(u, v)
	if t.g.cfg.weightFn != nil && len(t.sink.Edges) > before {
		t.weights = append(t.weights, t.g.cfg.weightFn(u, v, t.dist2))
	}
}

// emitUndirected applies the undirected placement rule to a sampled pair:
// the copy incident to each owned endpoint is kept, and a pair owned
// entirely by this rank appears exactly once, as (u, v).
func (t *task) emitUndirected(u, v core.VId) {
	uLocal, vLocal := t.local(u), t.local(v)
	if uLocal {
		t.emit(u, v)
	}
	if vLocal && !uLocal {
		t.emit(v, u)
	}
}

// emitDiscovered places a pair found from its local endpoint u. Models
// that rediscover every pair from both sides (lattice, geometric) call it
// once per side: a fully local pair is kept only on its smaller endpoint,
// a boundary pair is kept on each side.
func (t *task) emitDiscovered(u, v core.VId) {
	if u < v || !t.local(v) {
		t.emit(u, v)
	}
}

// route queues a directed edge for the rank owning its source.
func (t *task) route(u, v core.VId) {
	if t.outbox == nil {
		t.outbox = make([][]core.Edge, t.g.comm.Size())
	}
	t.outbox[t.owner(u)] = append(t.outbox[t.owner(u)], core.Edge{From: u, To: v})
}

// flush performs the edge exchange for routed edges, if any, delivering
// everything addressed to this rank into the sink. Collective whenever any
// model routes; callers on all ranks reach it together.
func (t *task) flush() error {
	if t.outbox == nil && t.g.comm.Size() == 1 {
		return nil
	}
	if t.outbox == nil {
		t.outbox = make([][]core.Edge, t.g.comm.Size())
	}
	in, err := t.g.comm.ExchangeEdges(t.outbox)
	if err != nil {
		return err
	}
	for _, e := range in {
		t.emit(e.From, e.To)
	}
	t.outbox = nil
	return nil
}

// result seals the task into a Result and runs the enabled post passes.
func (t *task) result(undirected bool) (core.Result, error) {
	if t.sink.Err != nil {
		return core.Result{}, t.sink.Err
	}
	res := core.Result{Edges: t.sink.Edges, VertexRange: t.vr}
	if res.Edges == nil {
		res.Edges = []core.Edge{}
	}
	if t.weights != nil {
		// Weighted output keeps emission order so Weights stays aligned;
		// the post passes work on their own sorted copy.
		res.Weights = t.weights
		sorted := res
		sorted.Edges = append([]core.Edge(nil), res.Edges...)
		core.SortEdges(sorted.Edges)
		return res, t.g.finish(sorted, undirected)
	}
	core.SortEdges(res.Edges)
	return res, t.g.finish(res, undirected)
}

// finish runs the statistics and verification passes enabled by options.
func (g *Generator) finish(res core.Result, undirected bool) error {
	if g.cfg.verifyUndir && undirected {
		rep, err := stats.VerifyUndirected(res, g.comm)
		if err != nil {
			return err
		}
		g.LastSymmetry = &rep
	}
	if g.cfg.advancedStats {
		rep, err := stats.Advanced(res, g.comm)
		if err != nil {
			return err
		}
		g.LastStats = &rep
	} else if g.cfg.basicStats {
		rep, err := stats.Basic(res, g.comm)
		if err != nil {
			return err
		}
		g.LastStats = &rep
	}
	return nil
}

// VertexDistribution gathers every rank's range end into the standard
// p+1 entry distribution array (entry 0 is zero).
func (g *Generator) VertexDistribution(res core.Result) []core.VId {
	ends := g.comm.Allgather(res.VertexRange.Last)
	dist := make([]core.VId, g.comm.Size()+1)
	copy(dist[1:], ends)
	return dist
}

// =============================================================================
// Delaunay variants — declared for facade completeness; they require an
// external triangulation collaborator that is not wired.
// =============================================================================

// RDG2D generates a 2D random Delaunay graph. Not wired: ErrUnsupported.
func (g *Generator) RDG2D(n uint64, periodic bool) (core.Result, error) {
	return core.Result{}, fmt.Errorf("RDG2D: %w", ErrUnsupported)
}

// RDG2DM generates a 2D random Delaunay graph with a target edge count.
// Not wired: ErrUnsupported.
func (g *Generator) RDG2DM(m uint64, periodic bool) (core.Result, error) {
	return core.Result{}, fmt.Errorf("RDG2DM: %w", ErrUnsupported)
}

// RDG3D generates a 3D random Delaunay graph. Not wired: ErrUnsupported.
func (g *Generator) RDG3D(n uint64) (core.Result, error) {
	return core.Result{}, fmt.Errorf("RDG3D: %w", ErrUnsupported)
}

// RDG3DM generates a 3D random Delaunay graph with a target edge count.
// Not wired: ErrUnsupported.
func (g *Generator) RDG3DM(m uint64) (core.Result, error) {
	return core.Result{}, fmt.Errorf("RDG3DM: %w", ErrUnsupported)
}
