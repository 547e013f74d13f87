// Package kagen is a distributed generator of massive random graphs.
//
// Given a model and its parameters, every rank of an SPMD process group
// deterministically produces exactly its own share of the edges and the
// vertex range it owns — without ever materializing the global graph and
// without exchanging data during sampling. The union of the per-rank
// outputs equals what a single-rank run would produce for the same seed,
// no matter how many ranks participate or how the work is chunked.
//
// Everything is organized under focused subpackages:
//
//	core/      — vertex/edge/result types, CSR construction
//	rng/       — keyed hashing and deterministic variates
//	chunk/     — chunk partitioning of the vertex and edge spaces
//	sampling/  — divide-and-conquer counting and replacement-free draws
//	comm/      — the process-group abstraction and an in-process group
//	generator/ — the per-model samplers behind one facade
//	stats/     — distributed statistics and symmetry verification
//	graphio/   — text and binary edge-list readers and writers
//
// Supported models: G(n,m) and G(n,p) (directed/undirected), random
// geometric graphs in 2D/3D, random hyperbolic graphs, Barabási–Albert
// preferential attachment, 2D/3D lattices with Bernoulli edges, and
// Kronecker/R-MAT.
//
// The linchpin is the hash-indexed random stream: every random decision is
// derived from a keyed hash of a coordinate that uniquely names that
// decision, so any rank can reproduce any other rank's draws on demand.
package kagen
