// Package gameconfig validates and loads game configuration documents.
package gameconfig

import (
	"fmt"
	"sort"

	"github.com/osse101/SlotForge_Go/internal/domain"
)

// Validate checks a configuration and returns nil or a *ConfigError listing
// every problem found. Struct tag rules run first, then cross-field rules.
func Validate(cfg *domain.GameConfig) error {
	if cfg == nil {
		return &ConfigError{Problems: []string{"configuration is nil"}}
	}

	c := &checker{cfg: cfg, symbols: make(map[string]domain.Symbol, len(cfg.Symbols))}
	c.problems = append(c.problems, tagProblems(cfg)...)

	c.checkSymbols()
	c.checkStripSet("base", cfg.ReelStrips.Base, cfg.WeightDistribution.Base, true)
	if len(cfg.ReelStrips.Bonus) > 0 || len(cfg.WeightDistribution.Bonus) > 0 {
		c.checkStripSet("bonus", cfg.ReelStrips.Bonus, cfg.WeightDistribution.Bonus, false)
	}
	c.checkPayment()
	c.checkFreeSpins()

	if cfg.RTP.TargetRTP <= 0 || cfg.RTP.TargetRTP > 100 {
		c.addf("rtp.target_rtp must be in (0, 100], got %g", cfg.RTP.TargetRTP)
	}
	if cfg.MaxWinMultiplier.IsNegative() {
		c.addf("max_win_multiplier must not be negative")
	}

	if len(c.problems) > 0 {
		return &ConfigError{Problems: c.problems}
	}
	return nil
}

type checker struct {
	cfg      *domain.GameConfig
	symbols  map[string]domain.Symbol
	problems []string
}

func (c *checker) addf(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

func (c *checker) checkSymbols() {
	for i, s := range c.cfg.Symbols {
		if _, dup := c.symbols[s.ID]; dup {
			c.addf("symbols[%d]: duplicate id %q", i, s.ID)
			continue
		}
		c.symbols[s.ID] = s

		for _, ex := range s.ExcludedFromSubstitution {
			if !ex.Valid() {
				c.addf("symbol %q: unknown excluded type %q", s.ID, ex)
			}
		}
		for count, pay := range s.Paytable {
			if count < 1 {
				c.addf("symbol %q: paytable count %d must be at least 1", s.ID, count)
			}
			if pay.IsNegative() {
				c.addf("symbol %q: paytable payout for %d is negative", s.ID, count)
			}
		}
	}
}

// checkStripSet verifies that every reel has a strip and a parallel weight
// array, that weights are usable and that all strip symbols exist
func (c *checker) checkStripSet(mode string, strips domain.StripSet, weights domain.WeightSet, required bool) {
	if len(strips) == 0 {
		if required {
			c.addf("reel_strips.%s is required", mode)
		} else {
			c.addf("weight_distribution.%s given without reel_strips.%s", mode, mode)
		}
		return
	}

	for _, reel := range sortedKeys(strips) {
		if reel < 0 || reel >= c.cfg.Layout.Reels {
			c.addf("reel_strips.%s: reel index %d outside layout of %d reels", mode, reel, c.cfg.Layout.Reels)
		}
	}
	for _, reel := range sortedKeys(weights) {
		if _, ok := strips[reel]; !ok {
			c.addf("weight_distribution.%s: weights for reel %d have no strip", mode, reel)
		}
	}

	for reel := 0; reel < c.cfg.Layout.Reels; reel++ {
		strip, ok := strips[reel]
		if !ok || len(strip) == 0 {
			c.addf("reel_strips.%s: reel %d has no strip", mode, reel)
			continue
		}
		for i, id := range strip {
			if _, known := c.symbols[id]; !known {
				c.addf("reel_strips.%s[%d][%d]: unknown symbol %q", mode, reel, i, id)
			}
		}

		w, ok := weights[reel]
		if !ok {
			c.addf("weight_distribution.%s: reel %d has no weights", mode, reel)
			continue
		}
		if len(w) != len(strip) {
			c.addf("weight_distribution.%s[%d]: %d weights for %d stops", mode, reel, len(w), len(strip))
			continue
		}
		total := 0
		for i, v := range w {
			if v < 0 {
				c.addf("weight_distribution.%s[%d][%d]: negative weight %d", mode, reel, i, v)
			}
			total += v
		}
		if total <= 0 {
			c.addf("weight_distribution.%s[%d]: weights must sum to a positive total", mode, reel)
		}
	}
}

func (c *checker) checkPayment() {
	switch c.cfg.PaymentType {
	case domain.PaymentPayline:
		c.checkPaylines()
		if !c.hasPayer() {
			c.addf("payline games need at least one non-scatter symbol with a paytable")
		}
	case domain.PaymentWays:
		if len(c.cfg.Paylines) > 0 {
			c.addf("paylines are only valid for payline games")
		}
		if !c.hasPayer() {
			c.addf("ways games need at least one non-scatter symbol with a paytable")
		}
	case domain.PaymentCluster:
		if len(c.cfg.Paylines) > 0 {
			c.addf("paylines are only valid for payline games")
		}
		c.checkClusterRules()
	}
}

func (c *checker) checkPaylines() {
	if len(c.cfg.Paylines) == 0 {
		c.addf("payline games need at least one payline")
		return
	}
	seen := map[int]bool{}
	for _, line := range c.cfg.Paylines {
		if seen[line.ID] {
			c.addf("payline %d: duplicate id", line.ID)
		}
		seen[line.ID] = true

		if len(line.Rows) != c.cfg.Layout.Reels {
			c.addf("payline %d: %d positions for %d reels", line.ID, len(line.Rows), c.cfg.Layout.Reels)
			continue
		}
		for reel, row := range line.Rows {
			if row < 0 || row >= c.cfg.Layout.Rows {
				c.addf("payline %d: row %d on reel %d outside layout of %d rows", line.ID, row, reel, c.cfg.Layout.Rows)
			}
		}
	}
}

func (c *checker) checkClusterRules() {
	rules := c.cfg.ClusterRules
	if rules == nil {
		c.addf("cluster games need cluster_rules")
		return
	}
	if rules.MinSize > c.cfg.Layout.Reels*c.cfg.Layout.Rows {
		c.addf("cluster_rules.min_size %d exceeds the %d grid cells", rules.MinSize, c.cfg.Layout.Reels*c.cfg.Layout.Rows)
	}
	for key, mult := range rules.PayMultiplier {
		b, err := domain.ParseSizeBucket(key)
		if err != nil {
			continue // reported by the tag validator
		}
		if b.Size < rules.MinSize {
			c.addf("cluster_rules.pay_multiplier[%q] is below min_size %d", key, rules.MinSize)
		}
		if mult.IsNegative() {
			c.addf("cluster_rules.pay_multiplier[%q] is negative", key)
		}
	}

	clusterable := false
	for _, s := range c.cfg.Symbols {
		if !s.SubstitutesAll && s.Type != domain.SymbolTypeWild && s.Type != domain.SymbolTypeScatter {
			clusterable = true
			break
		}
	}
	if !clusterable {
		c.addf("cluster games need at least one non-wild, non-scatter symbol")
	}
}

func (c *checker) checkFreeSpins() {
	fs := c.cfg.Bonus.FreeSpins
	if fs == nil {
		return
	}
	if _, ok := c.symbols[fs.Trigger.Symbol]; !ok && fs.Trigger.Symbol != "" {
		c.addf("bonus.free_spins.trigger: unknown symbol %q", fs.Trigger.Symbol)
	}
	for count, spins := range fs.SpinsAwarded {
		if count < fs.Trigger.Count {
			c.addf("bonus.free_spins.spins_awarded[%d] is below the trigger count %d", count, fs.Trigger.Count)
		}
		if spins < 1 {
			c.addf("bonus.free_spins.spins_awarded[%d] must award at least one spin", count)
		}
	}
	if _, ok := fs.SpinsAwarded[fs.Trigger.Count]; !ok && len(fs.SpinsAwarded) > 0 {
		c.addf("bonus.free_spins.spins_awarded has no entry for the trigger count %d", fs.Trigger.Count)
	}
}

func (c *checker) hasPayer() bool {
	for _, s := range c.cfg.Symbols {
		if s.Type == domain.SymbolTypeScatter {
			continue
		}
		for _, pay := range s.Paytable {
			if pay.IsPositive() {
				return true
			}
		}
	}
	return false
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
