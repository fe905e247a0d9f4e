package game

import (
	"math/rand"
	"time"
)

// Randomizer wraps a seeded random number generator so that sessions can be
// made deterministic in tests.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer creates a randomizer from the given seed. A seed of 0 means
// a time-based seed is used.
func NewRandomizer(seed int64) *Randomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Randomizer{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float returns a uniform random value in [0, 1).
func (r *Randomizer) Float() float64 {
	return r.rng.Float64()
}

// Intn returns a uniform random value in [0, n).
func (r *Randomizer) Intn(n int) int {
	return r.rng.Intn(n)
}

// Shuffle returns a uniform random permutation of ids using the
// Fisher-Yates algorithm. The input slice is not modified.
func (r *Randomizer) Shuffle(ids []string) []string {
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
