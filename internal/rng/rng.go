// Package rng provides the random sources injected into the game and
// simulation cores.
package rng

import (
	"crypto/hmac"
	cryptorand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
)

// Source yields uniform integers in [0, n). Implementations are not
// required to be safe for concurrent use.
type Source interface {
	IntN(n int) int
}

// NewSeeded returns a deterministic stream for the given seed.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// New returns a stream seeded from the OS entropy pool.
func New() Source {
	var seed [32]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		// crypto/rand.Read never fails on supported platforms
		panic(err)
	}
	return rand.New(rand.NewChaCha8(seed))
}

// Derive returns a stable child seed for base and label.
func Derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	sum := m.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}
