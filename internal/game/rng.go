package game

import "math/rand"

// RNG is the source of randomness for sampling and pairing. *rand.Rand
// satisfies it.
type RNG interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRNG returns a seeded generator. A zero seed maps to 1 so that an
// unset seed is still reproducible.
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}
