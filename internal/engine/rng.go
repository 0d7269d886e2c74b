package engine

import (
	"crypto/rand"
	"math/big"
)

// Source supplies the randomness for shuffles and wheel spins. It is
// injected rather than hardcoded so callers can seed rounds in tests.
type Source interface {
	// Intn returns a uniformly distributed int in [0, n). n must be > 0.
	Intn(n int) int
}

// CryptoSource draws from crypto/rand. This is the production source:
// table randomness must not be predictable from previous observations.
type CryptoSource struct{}

func (CryptoSource) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy device is broken;
		// a gambling engine must not degrade to a weaker source.
		panic("engine: crypto rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}
