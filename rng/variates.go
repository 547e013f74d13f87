package rng

import (
	"math"
	"math/bits"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// float53 maps a hash value onto [0,1) with 53 uniform bits.
const float53 = 1.0 / (1 << 53)

// Float01 maps h onto the unit interval [0,1).
func Float01(h uint64) float64 {
	return float64(h>>11) * float53
}

// UniformInt returns an integer uniform on the inclusive range [lo, hi].
// The reduction is the fixed-point multiply-shift, so the mapping is a pure
// function of h.
func UniformInt(h, lo, hi uint64) uint64 {
	span := hi - lo + 1
	if span == 0 { // full 64-bit range
		return h
	}
	hi64, _ := bits.Mul64(h, span)
	return lo + hi64
}

// Bernoulli reports success with probability p.
func Bernoulli(h uint64, p float64) bool {
	return Float01(h) < p
}

// Stream returns a PCG stream seeded solely by h, for call sites that need
// several draws under one coordinate (leaf sampling, in-cell positions).
func Stream(h uint64) *rand.Rand {
	return rand.New(rand.NewSource(h))
}

// Binomial draws B(n, p) seeded solely by h.
func Binomial(h, n uint64, p float64) uint64 {
	if n == 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	b := distuv.Binomial{N: float64(n), P: p, Src: rand.NewSource(h)}
	v := b.Rand()
	if v <= 0 {
		return 0
	}
	if u := uint64(v); u < n {
		return u
	}
	return n
}

// Hypergeometric draws the number of successes when sampling n elements
// without replacement from a population of N containing K successes.
//
// The variate is obtained by inverse transform over probabilities expanded
// outward from the mode; terms below relative weight 1e-18 are cut on both
// tails. All arithmetic is pure Go float64 with a fixed expansion order, so
// the draw is a deterministic function of (h, K, N, n).
func Hypergeometric(h, K, N, n uint64) uint64 {
	if N == 0 || n == 0 || K == 0 {
		return 0
	}
	if n >= N {
		return K
	}
	if K >= N {
		return n
	}

	kMin := int64(0)
	if s := int64(n) + int64(K) - int64(N); s > 0 {
		kMin = s
	}
	kMax := int64(n)
	if int64(K) < kMax {
		kMax = int64(K)
	}
	if kMin == kMax {
		return uint64(kMin)
	}

	mode := int64((float64(n+1) * float64(K+1)) / float64(N+2))
	if mode < kMin {
		mode = kMin
	}
	if mode > kMax {
		mode = kMax
	}

	logPmf := func(k int64) float64 {
		return lchoose(int64(K), k) + lchoose(int64(N)-int64(K), int64(n)-k) - lchoose(int64(N), int64(n))
	}
	lpMode := logPmf(mode)

	// First pass: accumulate the (near-1) total mass in a fixed outward
	// order so the second pass can invert the same partial sums.
	const tailCut = 1e-18
	total := 1.0 // weight of the mode relative to itself
	lo, hi := mode-1, mode+1
	doneLo, doneHi := lo < kMin, hi > kMax
	for !doneLo || !doneHi {
		if !doneLo {
			w := math.Exp(logPmf(lo) - lpMode)
			if w > tailCut {
				total += w
				lo--
				doneLo = lo < kMin
			} else {
				doneLo = true
			}
		}
		if !doneHi {
			w := math.Exp(logPmf(hi) - lpMode)
			if w > tailCut {
				total += w
				hi++
				doneHi = hi > kMax
			} else {
				doneHi = true
			}
		}
	}
	loBound, hiBound := lo, hi

	// Second pass: walk the identical order until the target mass is hit.
	target := Float01(h) * total
	acc := 1.0
	if acc >= target {
		return uint64(mode)
	}
	lo, hi = mode-1, mode+1
	for lo > loBound || hi < hiBound {
		if lo > loBound {
			acc += math.Exp(logPmf(lo) - lpMode)
			if acc >= target {
				return uint64(lo)
			}
			lo--
		}
		if hi < hiBound {
			acc += math.Exp(logPmf(hi) - lpMode)
			if acc >= target {
				return uint64(hi)
			}
			hi++
		}
	}
	// Rounding shortfall lands on the nearest explored bound.
	if hiBound-mode >= mode-loBound {
		return uint64(hiBound - 1)
	}
	return uint64(loBound + 1)
}

// lchoose returns log C(n, k) via log-gamma.
func lchoose(n, k int64) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	if k == 0 || k == n {
		return 0
	}
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))
	return a - b - c
}
