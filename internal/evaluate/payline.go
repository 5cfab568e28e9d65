package evaluate

import (
	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/symbols"
)

type paylineStrategy struct {
	table *symbols.Table
	lines []domain.Payline
}

// evaluate scores each line in ascending id order. A line pays its single
// best left-anchored run: either the run of the first non-wild symbol with
// substitution, or the leading wilds paid as the wild's own paytable.
func (s *paylineStrategy) evaluate(grid domain.Grid) []domain.WinLine {
	var wins []domain.WinLine
	for _, line := range s.lines {
		cells := make([]string, len(line.Rows))
		for reel, row := range line.Rows {
			cells[reel] = grid[reel][row]
		}
		if w, ok := s.bestRun(cells); ok {
			w.LineID = line.ID
			w.Positions = make([]domain.Position, w.Count)
			for reel := 0; reel < w.Count; reel++ {
				w.Positions[reel] = domain.Position{Reel: reel, Row: line.Rows[reel]}
			}
			wins = append(wins, w)
		}
	}
	return wins
}

func (s *paylineStrategy) bestRun(cells []string) (domain.WinLine, bool) {
	var (
		best  domain.WinLine
		found bool
	)
	consider := func(id string, count int) {
		sym, ok := s.table.Get(id)
		if !ok {
			return
		}
		mult, ok := sym.Pays(count)
		if !ok || !mult.IsPositive() {
			return
		}
		if !found || mult.GreaterThan(best.Multiplier) {
			best = domain.WinLine{Kind: domain.WinPayline, SymbolID: id, Count: count, Multiplier: mult}
			found = true
		}
	}

	leadingWilds := 0
	for leadingWilds < len(cells) && s.table.IsWild(cells[leadingWilds]) {
		leadingWilds++
	}
	if leadingWilds > 0 {
		// a run of one wild id paying on its own
		first := cells[0]
		n := 0
		for n < leadingWilds && cells[n] == first {
			n++
		}
		consider(first, n)
	}

	if leadingWilds < len(cells) {
		target := cells[leadingWilds]
		if !s.table.IsScatter(target) {
			consider(target, runLength(s.table, cells, target))
		}
	}
	return best, found
}

func runLength(table *symbols.Table, cells []string, target string) int {
	n := 0
	for n < len(cells) && table.Matches(cells[n], target) {
		n++
	}
	return n
}
