package util

import "math/rand/v2"

// RNG wraps a seeded PRNG so each worker goroutine owns an independent,
// reproducible stream instead of sharing a global source.
type RNG struct {
	r *rand.Rand
}

// NewRNG returns an RNG seeded deterministically from seed.
func NewRNG(seed int64) *RNG {
	s := uint64(seed)
	return &RNG{r: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// IntN returns a pseudo-random int in [0, n).
func (g *RNG) IntN(n int) int {
	return g.r.IntN(n)
}

// Float64 returns a pseudo-random float64 in [0, 1).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// Bool returns a pseudo-random boolean.
func (g *RNG) Bool() bool {
	return g.r.IntN(2) == 0
}

// Shuffle permutes the n elements of a collection in place using swap(i, j).
func (g *RNG) Shuffle(n int, swap func(i, j int)) {
	g.r.Shuffle(n, swap)
}

// Child derives an independent RNG stream for a worker, so parallel workers
// never contend on a shared generator.
func (g *RNG) Child(workerIndex int) *RNG {
	return NewRNG(int64(g.r.Uint64()) ^ int64(workerIndex)*0x2545F4914F6CDD1D)
}
