package generator

import "errors"

// Sentinel errors for model parameter validation. Callers branch with
// errors.Is; call sites wrap these with method context via %w.
var (
	// ErrTooFewVertices indicates n (or a grid axis) below the model minimum.
	ErrTooFewVertices = errors.New("generator: vertex count too small")

	// ErrInvalidProbability indicates a probability outside [0, 1].
	ErrInvalidProbability = errors.New("generator: probability out of range")

	// ErrTooManyEdges indicates m exceeding the edge universe.
	ErrTooManyEdges = errors.New("generator: edge count exceeds universe")

	// ErrUniverseOverflow indicates an edge universe beyond 64-bit arithmetic.
	ErrUniverseOverflow = errors.New("generator: edge universe overflows")

	// ErrBadRadius indicates a geometric radius outside (0, axis length].
	ErrBadRadius = errors.New("generator: radius out of range")

	// ErrBadGamma indicates a power-law exponent γ ≤ 2.
	ErrBadGamma = errors.New("generator: power-law exponent must exceed 2")

	// ErrBadDegree indicates a degree parameter below the model minimum.
	ErrBadDegree = errors.New("generator: degree out of range")

	// ErrBadFractions indicates R-MAT quadrant fractions that are negative
	// or sum beyond 1.
	ErrBadFractions = errors.New("generator: invalid quadrant fractions")

	// ErrUnsupported indicates a declared model without a wired backend
	// (Delaunay variants need an external triangulator).
	ErrUnsupported = errors.New("generator: model not supported")
)
