package rng

import (
	"encoding/binary"

	spooky "github.com/dgryski/go-spooky"
)

// Hash derives a 64-bit value from a seed and a decision coordinate.
// The keys are packed little-endian and hashed with SpookyHash seeded by
// seed. Hash is the sole entropy source of the library.
func Hash(seed uint64, keys ...uint64) uint64 {
	var buf [8 * 8]byte
	n := len(keys)
	if n > 8 {
		// Coordinates are short tuples; longer ones fall back to chaining.
		h := Hash(seed, keys[:8]...)
		return Hash(h, keys[8:]...)
	}
	for i, k := range keys {
		binary.LittleEndian.PutUint64(buf[i*8:], k)
	}
	return spooky.Hash64Seed(buf[:n*8], seed)
}

// Combine folds an additional key into an existing hash value.
func Combine(h uint64, key uint64) uint64 {
	return Hash(h, key)
}
