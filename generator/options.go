package generator

import (
	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/graphio"
)

// Option customizes a Generator before any model runs. Option constructors
// validate their inputs and panic on programmer error (nil function); the
// samplers themselves never panic.
type Option func(*config)

// config aggregates every generator knob. It is resolved once per
// Generator and read-only during generation.
type config struct {
	seed      uint64
	chunks    uint64 // 0 → one chunk per rank
	periodic  bool
	hpFloats  bool
	bufferCap int
	weightFn  core.WeightFunc

	basicStats    bool
	advancedStats bool
	verifyUndir   bool

	outputFormat graphio.Format
	outputHeader bool
	singleFile   bool
}

// Deterministic defaults.
const (
	defaultSeed = 1
)

func newConfig(opts ...Option) config {
	cfg := config{seed: defaultSeed}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSeed fixes the global seed every hash coordinate is keyed under.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed }
}

// WithChunks overrides the chunk count (default: one chunk per rank).
// Lattice models additionally require k to be a perfect square (2D) or
// cube (3D) when set explicitly.
func WithChunks(k uint64) Option {
	if k == 0 {
		panic("generator: WithChunks(0)")
	}
	return func(c *config) { c.chunks = k }
}

// WithPeriodic wraps geometric and lattice neighborhoods around the
// domain boundary.
func WithPeriodic(periodic bool) Option {
	return func(c *config) { c.periodic = periodic }
}

// WithHPFloats selects fused multiply-add accumulation in the RGG
// distance kernel. The hyperbolic generator does not read the flag.
func WithHPFloats(state bool) Option {
	return func(c *config) { c.hpFloats = state }
}

// WithEdgeBufferCap bounds the local edge buffer; generation reports
// core.ErrEdgeBufferLimit once the cap is exceeded.
func WithEdgeBufferCap(limit int) Option {
	if limit < 0 {
		panic("generator: WithEdgeBufferCap(limit<0)")
	}
	return func(c *config) { c.bufferCap = limit }
}

// WithWeightFn threads a weight function through the sink; geometric
// models pass the squared endpoint distance as context.
func WithWeightFn(fn core.WeightFunc) Option {
	if fn == nil {
		panic("generator: WithWeightFn(nil)")
	}
	return func(c *config) { c.weightFn = fn }
}

// WithBasicStatistics runs the basic statistics pass after each model call.
func WithBasicStatistics() Option {
	return func(c *config) { c.basicStats = true }
}

// WithAdvancedStatistics runs the advanced statistics pass (implies basic).
func WithAdvancedStatistics() Option {
	return func(c *config) { c.basicStats, c.advancedStats = true, true }
}

// WithUndirectedVerification routes boundary edges to their remote owner
// after each undirected model call and records missing mirrors.
func WithUndirectedVerification() Option {
	return func(c *config) { c.verifyUndir = true }
}

// WithOutputFormat selects the edge-list encoding used by Output.
func WithOutputFormat(f graphio.Format) Option {
	return func(c *config) { c.outputFormat = f }
}

// WithOutputHeader prepends the global vertex/edge counts to Output;
// computing them makes Output collective.
func WithOutputHeader(header bool) Option {
	return func(c *config) { c.outputHeader = header }
}

// WithOutputSingleFile writes all ranks to one shared name instead of
// per-rank files; see OutputFilename.
func WithOutputSingleFile(single bool) Option {
	return func(c *config) { c.singleFile = single }
}
