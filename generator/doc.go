// Package generator implements the per-model graph samplers behind one
// facade.
//
// A Generator is bound to a process group; each model call enumerates the
// chunks owned by the calling rank and emits that rank's share of a
// globally well-defined random graph through an edge sink. Sampling is
// communication-free: every random decision is keyed by a hash coordinate
// that uniquely names it, so all ranks agree on every draw without
// exchanging data. The group is consulted only after sampling — to route
// undirected mirror copies or Kronecker/R-MAT edges to their owning rank,
// and for the optional statistics and verification passes.
//
// Determinism contract: for fixed (seed, model, parameters) the union of
// the per-rank edge sets equals the single-rank output, for every rank
// count and — for the models whose id spaces do not depend on the chunk
// grid — every chunk count.
//
// Models: G(n,m) and G(n,p) (directed/undirected), random geometric graphs
// in 2D and 3D, random hyperbolic graphs, Barabási–Albert, 2D/3D lattices
// with Bernoulli edges, Kronecker, and R-MAT.
package generator
