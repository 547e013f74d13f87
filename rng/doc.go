// Package rng provides the keyed hash and the deterministic variates every
// sampler draws from.
//
// Every random decision in the library is derived from Hash applied to a
// coordinate that uniquely names the decision — an edge pair, a chunk/tree
// node, a (vertex, attempt) pair. Any rank can therefore reproduce any
// other rank's draws by hashing the same coordinate; no state is shared and
// none survives a call.
//
// Stability contract: for identical (seed, coordinate, parameters) each
// variate is bit-identical across ranks, runs, and platforms. All variate
// paths are pure Go with fixed evaluation order.
package rng
