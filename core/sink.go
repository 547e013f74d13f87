package core

// Sink consumes edges as a sampler produces them. The default sink appends
// to an in-memory buffer; custom sinks can stream, filter, or count.
type Sink interface {
	// Emit records one edge. Implementations must be cheap: samplers call
	// Emit once per generated edge on the hot path.
	Emit(u, v VId)
}

// WeightFunc derives an edge weight from the endpoints and model-specific
// locality context (dist2 carries the squared distance for geometric models
// and zero elsewhere).
type WeightFunc func(u, v VId, dist2 float64) float64

// BufferSink appends emitted edges to Edges.
type BufferSink struct {
	Edges []Edge

	// Cap, when non-zero, bounds len(Edges); the first refused emission
	// records ErrEdgeBufferLimit in Err and further edges are dropped.
	Cap int
	Err error
}

// Emit implements Sink.
func (s *BufferSink) Emit(u, v VId) {
	if s.Cap > 0 && len(s.Edges) >= s.Cap {
		s.Err = ErrEdgeBufferLimit
		return
	}
	s.Edges = append(s.Edges, Edge{From: u, To: v})
}

// WeightedSink forwards edges to a caller-supplied function together with
// the weight computed by Weight. Dist2 is set by geometric samplers before
// each Emit and read back here.
type WeightedSink struct {
	Weight WeightFunc
	Dist2  float64
	Yield  func(u, v VId, w float64)
}

// Emit implements Sink.
func (s *WeightedSink) Emit(u, v VId) {
	s.Yield(u, v, s.Weight(u, v, s.Dist2))
}
