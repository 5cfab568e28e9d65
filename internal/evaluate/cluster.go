package evaluate

import (
	"sort"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/symbols"
)

type clusterStrategy struct {
	table *symbols.Table
	rules domain.ClusterPayment
}

var (
	orthogonal = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal   = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

// evaluate finds connected components per symbol. Substituting cells join
// the component of any symbol they can stand in for, so one wild may belong
// to clusters of different symbols. A component must contain at least one
// real cell of its symbol.
func (s *clusterStrategy) evaluate(grid domain.Grid) []domain.WinLine {
	dirs := orthogonal
	if s.rules.DiagonalAllowed {
		dirs = append(append([][2]int(nil), orthogonal...), diagonal...)
	}

	var (
		wins   []domain.WinLine
		nextID = 1
	)
	for _, id := range s.clusterSymbols() {
		visited := make([][]bool, len(grid))
		for reel := range grid {
			visited[reel] = make([]bool, len(grid[reel]))
		}

		for reel, col := range grid {
			for row, cell := range col {
				if cell != id || visited[reel][row] {
					continue
				}
				component := s.flood(grid, visited, dirs, domain.Position{Reel: reel, Row: row}, id)
				if len(component) < s.rules.MinSize {
					continue
				}
				mult, ok := s.rules.Multiplier(len(component))
				if !ok || !mult.IsPositive() {
					continue
				}
				wins = append(wins, domain.WinLine{
					Kind:       domain.WinCluster,
					ClusterID:  nextID,
					SymbolID:   id,
					Count:      len(component),
					Multiplier: mult,
					Positions:  component,
				})
				nextID++
			}
		}
	}
	return wins
}

// clusterSymbols returns every non-substituting, non-scatter symbol in declaration order
func (s *clusterStrategy) clusterSymbols() []string {
	var out []string
	for _, id := range s.table.IDs() {
		if s.table.IsWild(id) || s.table.IsScatter(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (s *clusterStrategy) flood(grid domain.Grid, visited [][]bool, dirs [][2]int, start domain.Position, id string) []domain.Position {
	visited[start.Reel][start.Row] = true
	queue := []domain.Position{start}
	var component []domain.Position

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		component = append(component, p)

		for _, d := range dirs {
			n := domain.Position{Reel: p.Reel + d[0], Row: p.Row + d[1]}
			if n.Reel < 0 || n.Reel >= len(grid) || n.Row < 0 || n.Row >= len(grid[n.Reel]) {
				continue
			}
			if visited[n.Reel][n.Row] || !s.table.Matches(grid[n.Reel][n.Row], id) {
				continue
			}
			visited[n.Reel][n.Row] = true
			queue = append(queue, n)
		}
	}

	sort.Slice(component, func(i, j int) bool {
		if component[i].Reel != component[j].Reel {
			return component[i].Reel < component[j].Reel
		}
		return component[i].Row < component[j].Row
	})
	return component
}
