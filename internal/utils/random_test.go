package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewSeededRand_Deterministic(t *testing.T) {
	a, b := NewSeededRand(7), NewSeededRand(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestDeriveSeed_DistinctStreams(t *testing.T) {
	seen := map[uint64]bool{}
	for i := 0; i < 64; i++ {
		s := DeriveSeed(42, i)
		assert.False(t, seen[s], "stream %d collided", i)
		seen[s] = true
	}
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 0.25, Ratio(decimal.NewFromInt(1), decimal.NewFromInt(4)), 1e-12)
	assert.Equal(t, 0.0, Ratio(decimal.NewFromInt(1), decimal.Zero))
	assert.True(t, SumPayouts(decimal.NewFromInt(1), decimal.NewFromFloat(0.5)).Equal(decimal.NewFromFloat(1.5)))
}
