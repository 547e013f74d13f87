package generator

import (
	"fmt"
	"io"

	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/graphio"
)

// Output writes the edge list to w in the configured format. Per-rank
// mode writes the caller's local edges; single-file mode gathers every
// rank's edges on rank 0, which alone writes, while the other ranks leave
// w untouched. The call is collective whenever the header or single-file
// mode is enabled — every rank must enter it.
func (g *Generator) Output(res core.Result, w io.Writer) error {
	var n, m uint64
	if g.cfg.outputHeader {
		var err error
		n, err = g.comm.Bcast(res.VertexRange.Last, g.comm.Size()-1)
		if err != nil {
			return fmt.Errorf("Output: %w", err)
		}
		m = g.comm.AllreduceSum(uint64(len(res.Edges)))
	}

	edges := res.Edges
	if g.cfg.singleFile {
		gathered, err := g.comm.GatherEdgesRoot(res.Edges, 0)
		if err != nil {
			return fmt.Errorf("Output: %w", err)
		}
		if g.comm.Rank() != 0 {
			return nil
		}
		edges = gathered
	}

	if g.cfg.outputFormat == graphio.FormatBinaryEdgeList {
		return graphio.WriteBinary(w, edges, n, m, g.cfg.outputHeader)
	}
	return graphio.WriteText(w, edges, n, m, g.cfg.outputHeader)
}

// OutputFilename resolves the output name for this rank under the
// configured single-file policy.
func (g *Generator) OutputFilename(base string) string {
	return graphio.Filename(base, g.comm.Rank(), g.cfg.singleFile)
}
