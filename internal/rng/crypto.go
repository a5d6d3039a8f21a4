package rng

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"math/big"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are cryptographically secure and uniformly
// distributed over their documented ranges.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n); every value
// returned by Float64 is in [0.0, 1.0).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
// Panics with "rng: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a cryptographically secure random float64 in [0.0, 1.0).
//
// Panics with "rng: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	// 53 bits of mantissa, same construction as math/rand.Float64.
	v := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(v) / math.Exp2(53)
}
