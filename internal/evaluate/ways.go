package evaluate

import (
	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/symbols"
)

type waysStrategy struct {
	table *symbols.Table
}

// evaluate pays every paying symbol that appears (with substitution) on
// consecutive reels from reel 0. The way count is the product of matches
// per reel; the run stops at the first reel without a match.
func (s *waysStrategy) evaluate(grid domain.Grid) []domain.WinLine {
	var wins []domain.WinLine
	for _, id := range s.table.Payers() {
		sym, _ := s.table.Get(id)

		ways, run := 1, 0
		var positions []domain.Position
		for reel, col := range grid {
			matches := 0
			for row, cell := range col {
				if s.table.Matches(cell, id) {
					matches++
					positions = append(positions, domain.Position{Reel: reel, Row: row})
				}
			}
			if matches == 0 {
				break
			}
			ways *= matches
			run++
		}
		if run == 0 {
			continue
		}

		mult, ok := sym.Pays(run)
		if !ok || !mult.IsPositive() {
			continue
		}
		wins = append(wins, domain.WinLine{
			Kind:       domain.WinWays,
			SymbolID:   id,
			Count:      run,
			WayCount:   ways,
			Multiplier: mult,
			Positions:  positions,
		})
	}
	return wins
}
