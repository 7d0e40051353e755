package search

import (
	"math/rand/v2"
)

// newRand returns a deterministic generator for a non-zero seed and a
// randomly seeded one otherwise.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
