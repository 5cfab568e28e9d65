// Package fixtures provides small game configurations and deterministic
// random sources for tests.
package fixtures

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/SlotForge_Go/internal/domain"
)

// Pays builds a paytable from count/multiplier pairs
func Pays(pairs ...float64) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out[int(pairs[i])] = decimal.NewFromFloat(pairs[i+1])
	}
	return out
}

// Uniform returns n weights of 1
func Uniform(n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// Wild is the substituting symbol used by every fixture
func Wild() domain.Symbol {
	return domain.Symbol{
		ID:                       "WILD",
		Type:                     domain.SymbolTypeWild,
		SubstitutesAll:           true,
		ExcludedFromSubstitution: []domain.SymbolType{domain.SymbolTypeScatter},
	}
}

var lineStrip = []string{"H1", "L1", "H2", "L2", "WILD", "L1", "SCAT", "L2", "H2", "L1", "H1", "L2"}

// LineGame is a 5x3 payline game with three horizontal lines, a scatter
// paying on the total bet and a retriggering free spin bonus.
func LineGame() *domain.GameConfig {
	base := domain.StripSet{}
	weights := domain.WeightSet{}
	bonus := domain.StripSet{}
	bonusWeights := domain.WeightSet{}
	for r := 0; r < 5; r++ {
		base[r] = append([]string(nil), lineStrip...)
		weights[r] = Uniform(len(lineStrip))
		bonus[r] = append(append([]string(nil), lineStrip...), "WILD", "WILD")
		bonusWeights[r] = Uniform(len(lineStrip) + 2)
	}

	return &domain.GameConfig{
		ID:          "classic-lines",
		Name:        "Classic Lines",
		Layout:      domain.Layout{Reels: 5, Rows: 3},
		PaymentType: domain.PaymentPayline,
		Symbols: []domain.Symbol{
			Wild(),
			{ID: "SCAT", Type: domain.SymbolTypeScatter, Paytable: Pays(3, 2, 4, 10, 5, 50)},
			{ID: "H1", Type: domain.SymbolTypeHigh, Paytable: Pays(3, 5, 4, 25, 5, 100)},
			{ID: "H2", Type: domain.SymbolTypeHigh, Paytable: Pays(3, 4, 4, 15, 5, 60)},
			{ID: "L1", Type: domain.SymbolTypeLow, Paytable: Pays(3, 1, 4, 5, 5, 20)},
			{ID: "L2", Type: domain.SymbolTypeLow, Paytable: Pays(3, 1, 4, 4, 5, 15)},
		},
		Paylines: []domain.Payline{
			{ID: 3, Rows: []int{2, 2, 2, 2, 2}},
			{ID: 1, Rows: []int{1, 1, 1, 1, 1}},
			{ID: 2, Rows: []int{0, 0, 0, 0, 0}},
		},
		ReelStrips:         domain.ReelStrips{Base: base, Bonus: bonus},
		WeightDistribution: domain.WeightDistribution{Base: weights, Bonus: bonusWeights},
		Bonus: domain.Bonus{FreeSpins: &domain.FreeSpins{
			Trigger:      domain.FreeSpinTrigger{Symbol: "SCAT", Count: 3},
			SpinsAwarded: map[int]int{3: 10, 4: 15, 5: 20},
			Retrigger:    true,
		}},
		RTP: domain.RTP{TargetRTP: 95},
	}
}

// SingleLineGame is a 5x1 payline game with one line, so the line bet equals the total bet
func SingleLineGame() *domain.GameConfig {
	cfg := LineGame()
	cfg.Layout.Rows = 1
	cfg.Paylines = []domain.Payline{{ID: 1, Rows: []int{0, 0, 0, 0, 0}}}
	cfg.Bonus = domain.Bonus{}
	cfg.ReelStrips.Bonus = nil
	cfg.WeightDistribution.Bonus = nil
	return cfg
}

// RTPGame is a 3x1, single line game whose exact return is 96%:
// each reel is [A, B] with equal weight, A pays 6 and B pays 1.68 for three
// of a kind, so RTP = (6 + 1.68) / 8.
func RTPGame() *domain.GameConfig {
	strips := domain.StripSet{0: {"A", "B"}, 1: {"A", "B"}, 2: {"A", "B"}}
	weights := domain.WeightSet{0: {1, 1}, 1: {1, 1}, 2: {1, 1}}
	return &domain.GameConfig{
		ID:          "rtp-96",
		Layout:      domain.Layout{Reels: 3, Rows: 1},
		PaymentType: domain.PaymentPayline,
		Symbols: []domain.Symbol{
			{ID: "A", Type: domain.SymbolTypeHigh, Paytable: Pays(3, 6)},
			{ID: "B", Type: domain.SymbolTypeLow, Paytable: Pays(3, 1.68)},
		},
		Paylines:           []domain.Payline{{ID: 1, Rows: []int{0, 0, 0}}},
		ReelStrips:         domain.ReelStrips{Base: strips},
		WeightDistribution: domain.WeightDistribution{Base: weights},
		RTP:                domain.RTP{TargetRTP: 96},
	}
}

// WaysGame is a 5x3 ways game
func WaysGame() *domain.GameConfig {
	strip := []string{"A", "B", "C", "WILD", "A", "B", "C", "SCAT"}
	base := domain.StripSet{}
	weights := domain.WeightSet{}
	for r := 0; r < 5; r++ {
		base[r] = append([]string(nil), strip...)
		weights[r] = Uniform(len(strip))
	}
	return &domain.GameConfig{
		ID:          "ways-243",
		Layout:      domain.Layout{Reels: 5, Rows: 3},
		PaymentType: domain.PaymentWays,
		Symbols: []domain.Symbol{
			Wild(),
			{ID: "SCAT", Type: domain.SymbolTypeScatter, Paytable: Pays(3, 5)},
			{ID: "A", Type: domain.SymbolTypeHigh, Paytable: Pays(3, 2, 4, 5, 5, 10)},
			{ID: "B", Type: domain.SymbolTypeMedium, Paytable: Pays(3, 1, 4, 3, 5, 6)},
			{ID: "C", Type: domain.SymbolTypeLow, Paytable: Pays(3, 0.5, 4, 1, 5, 2)},
		},
		ReelStrips:         domain.ReelStrips{Base: base},
		WeightDistribution: domain.WeightDistribution{Base: weights},
		RTP:                domain.RTP{TargetRTP: 94},
	}
}

// ClusterGame is a 6x5 cluster game, minimum cluster 5, orthogonal adjacency
func ClusterGame() *domain.GameConfig {
	strip := []string{"gem1", "gem2", "gem3", "gem1", "gem2", "gem3", "WILD"}
	base := domain.StripSet{}
	weights := domain.WeightSet{}
	for r := 0; r < 6; r++ {
		base[r] = append([]string(nil), strip...)
		weights[r] = Uniform(len(strip))
	}
	return &domain.GameConfig{
		ID:          "gem-clusters",
		Layout:      domain.Layout{Reels: 6, Rows: 5},
		PaymentType: domain.PaymentCluster,
		Symbols: []domain.Symbol{
			Wild(),
			{ID: "gem1", Type: domain.SymbolTypeHigh},
			{ID: "gem2", Type: domain.SymbolTypeMedium},
			{ID: "gem3", Type: domain.SymbolTypeLow},
		},
		ClusterRules: &domain.ClusterRules{
			MinSize: 5,
			PayMultiplier: map[string]decimal.Decimal{
				"5":   decimal.NewFromInt(1),
				"6":   decimal.NewFromInt(2),
				"7":   decimal.NewFromInt(3),
				"8":   decimal.NewFromInt(5),
				"10+": decimal.NewFromInt(20),
			},
		},
		ReelStrips:         domain.ReelStrips{Base: base},
		WeightDistribution: domain.WeightDistribution{Base: weights},
		RTP:                domain.RTP{TargetRTP: 95},
	}
}
