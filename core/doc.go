// Package core defines the central vertex, edge, and result types shared by
// every generator, plus CSR construction over per-rank edge lists.
//
// The global vertex set is {0, …, n−1}; each rank owns one contiguous,
// half-open VertexRange. Edges are ordered pairs of vertex ids. A Result
// bundles the locally emitted edges, the owned range, and — for geometric
// models — the per-vertex coordinates of the owned range.
//
// Errors:
//
//	ErrEmptyRange       - vertex range with Last ≤ First where non-empty is required.
//	ErrEdgeOutOfRange   - CSR source vertex outside the local range.
//	ErrEdgeBufferLimit  - a sink refused further edges (caller-set cap).
package core
