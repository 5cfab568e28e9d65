package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// NewSeededRand returns a deterministic PCG generator. The same seed always
// yields the same sequence, which keeps simulations and tests reproducible.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRand returns a PCG generator seeded from crypto/rand.
// Not suitable for regulated gaming, which needs a certified RNG.
func NewRand() *rand.Rand {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // fallback seed only
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(buf[:8]), binary.LittleEndian.Uint64(buf[8:])))
}

// DeriveSeed mixes a base seed with a stream index (splitmix64) so parallel
// workers get uncorrelated generators
func DeriveSeed(base uint64, stream int) uint64 {
	z := base + uint64(stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
