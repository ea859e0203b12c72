package core

import (
	"math/rand"
	"time"
)

// RandomSource is the subset of *rand.Rand the simulation needs.
// Tests substitute a seeded or scripted source to make food and color choices deterministic.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

// NewRandomSource returns a seeded source. A zero seed means seed from the current time.
func NewRandomSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
