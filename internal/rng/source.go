// Package rng provides the randomness source used for hit, critical, and
// mistake rolls. A Source is injected everywhere chance is resolved so that
// tests can substitute deterministic values.
package rng

// Source produces uniform random values.
//
// Invariant: Intn(n) returns a value in [0, n); Float64 returns a value in [0.0, 1.0).
type Source interface {
	// Intn returns a uniform random int in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Float64 returns a uniform random float64 in [0.0, 1.0).
	Float64() float64
}
