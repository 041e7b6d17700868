package potions

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// NewRand returns a deterministic generator for the given seed. Two generators
// built from the same seed produce the same sequence.
func NewRand(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for reproducible simulations.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// randOrDefault returns r, or a time-seeded generator when r is nil.
func randOrDefault(r *rand.Rand) *rand.Rand {
	if r != nil {
		return r
	}
	return NewRand(time.Now().UnixNano())
}

// deriveRand builds an independent generator seeded from parent, so children
// stay reproducible when the parent is.
func deriveRand(parent *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(parent.Uint64(), parent.Uint64()))
}
