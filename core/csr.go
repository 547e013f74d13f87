package core

import "fmt"

// CSR is a compressed sparse row view of a local edge list, indexed by
// local vertex id. Xadj has Size()+1 entries; Adjncy holds global target
// ids grouped per source.
type CSR struct {
	Xadj   []uint64
	Adjncy []uint64
}

// BuildCSR converts a per-rank edge list into CSR form. The edges are
// sorted in place if unsorted. Vertices without edges contribute empty
// rows. Sources outside the vertex range yield ErrEdgeOutOfRange.
// Complexity: O(E log E) when a sort is needed, O(V+E) otherwise.
func BuildCSR(edges []Edge, vertexRange VertexRange) (CSR, error) {
	if !EdgesSorted(edges) {
		SortEdges(edges)
	}

	numLocal := vertexRange.Size()
	csr := CSR{
		Xadj:   make([]uint64, numLocal+1),
		Adjncy: make([]uint64, 0, len(edges)),
	}

	var curVertex uint64
	for _, e := range edges {
		if !vertexRange.Contains(e.From) {
			return CSR{}, fmt.Errorf("BuildCSR: source %d outside [%d,%d): %w",
				e.From, vertexRange.First, vertexRange.Last, ErrEdgeOutOfRange)
		}
		local := e.From - vertexRange.First
		for curVertex < local {
			curVertex++
			csr.Xadj[curVertex] = uint64(len(csr.Adjncy))
		}
		csr.Adjncy = append(csr.Adjncy, e.To)
	}
	for curVertex < numLocal {
		curVertex++
		csr.Xadj[curVertex] = uint64(len(csr.Adjncy))
	}

	return csr, nil
}
