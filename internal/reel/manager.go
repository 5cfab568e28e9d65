// Package reel draws symbol grids from weighted reel strips.
package reel

import (
	"fmt"
	"sort"

	"github.com/osse101/SlotForge_Go/internal/domain"
)

// RandomSource yields uniform integers in [0, n). *rand.Rand from
// math/rand/v2 satisfies it; tests inject scripted sources.
type RandomSource interface {
	IntN(n int) int
}

// Strip is one reel strip with its cumulative stop weights
type Strip struct {
	Symbols    []string
	Weights    []int
	cumulative []int
	total      int
}

// NewStrip builds a strip. Weights must be parallel to symbols, non-negative
// and sum to a positive total.
func NewStrip(symbols []string, weights []int) (Strip, error) {
	if len(symbols) == 0 {
		return Strip{}, fmt.Errorf("%w: empty reel strip", domain.ErrInvalidConfig)
	}
	if len(symbols) != len(weights) {
		return Strip{}, fmt.Errorf("%w: %d weights for %d stops", domain.ErrInvalidConfig, len(weights), len(symbols))
	}
	s := Strip{
		Symbols:    symbols,
		Weights:    weights,
		cumulative: make([]int, len(weights)),
	}
	for i, w := range weights {
		if w < 0 {
			return Strip{}, fmt.Errorf("%w: negative weight %d at stop %d", domain.ErrInvalidConfig, w, i)
		}
		s.total += w
		s.cumulative[i] = s.total
	}
	if s.total <= 0 {
		return Strip{}, fmt.Errorf("%w: reel weights sum to zero", domain.ErrInvalidConfig)
	}
	return s, nil
}

// Len returns the number of stops
func (s Strip) Len() int { return len(s.Symbols) }

// TotalWeight returns the sum of all stop weights
func (s Strip) TotalWeight() int { return s.total }

// Pick performs roulette-wheel selection: one uniform draw in
// [0, total) mapped onto the cumulative weights.
func (s Strip) Pick(rng RandomSource) int {
	roll := rng.IntN(s.total)
	return sort.Search(len(s.cumulative), func(i int) bool {
		return s.cumulative[i] > roll
	})
}

// Window returns rows symbols starting at stop, wrapping around the strip
func (s Strip) Window(stop, rows int) []string {
	out := make([]string, rows)
	for r := 0; r < rows; r++ {
		out[r] = s.Symbols[(stop+r)%len(s.Symbols)]
	}
	return out
}

// Manager generates grids. It is not safe for concurrent use; give each
// goroutine its own Manager and RandomSource.
type Manager struct {
	layout   domain.Layout
	sampling domain.Sampling
	base     []Strip
	bonus    []Strip
	rng      RandomSource
}

// NewManager builds strips for every reel of both modes. Bonus mode reuses
// base strips when the configuration has no bonus set.
func NewManager(cfg *domain.GameConfig, rng RandomSource) (*Manager, error) {
	if rng == nil {
		return nil, fmt.Errorf("reel manager requires a random source")
	}
	m := &Manager{
		layout:   cfg.Layout,
		sampling: cfg.SamplingMode(),
		rng:      rng,
	}

	var err error
	if m.base, err = buildStrips(cfg.Layout.Reels, cfg.ReelStrips.Base, cfg.WeightDistribution.Base); err != nil {
		return nil, fmt.Errorf("base strips: %w", err)
	}
	m.bonus = m.base
	if len(cfg.ReelStrips.Bonus) > 0 {
		if m.bonus, err = buildStrips(cfg.Layout.Reels, cfg.ReelStrips.Bonus, cfg.WeightDistribution.Bonus); err != nil {
			return nil, fmt.Errorf("bonus strips: %w", err)
		}
	}
	return m, nil
}

func buildStrips(reels int, strips domain.StripSet, weights domain.WeightSet) ([]Strip, error) {
	out := make([]Strip, reels)
	for i := 0; i < reels; i++ {
		symbols, ok := strips[i]
		if !ok {
			return nil, fmt.Errorf("%w: no strip for reel %d", domain.ErrInvalidConfig, i)
		}
		s, err := NewStrip(symbols, weights[i])
		if err != nil {
			return nil, fmt.Errorf("reel %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// Layout returns the grid dimensions produced by GenerateGrid
func (m *Manager) Layout() domain.Layout { return m.layout }

// Strips returns the strips used for mode
func (m *Manager) Strips(mode domain.Mode) []Strip {
	if mode == domain.ModeBonus {
		return m.bonus
	}
	return m.base
}

// GenerateGrid draws one grid. With contiguous sampling each reel gets a
// single weighted stop and shows the following rows symbols; with
// independent sampling every cell is its own weighted draw.
func (m *Manager) GenerateGrid(mode domain.Mode) (domain.Grid, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}
	strips := m.Strips(mode)
	grid := make(domain.Grid, m.layout.Reels)
	for reel, strip := range strips {
		if m.sampling == domain.SamplingIndependent {
			col := make([]string, m.layout.Rows)
			for row := range col {
				col[row] = strip.Symbols[strip.Pick(m.rng)]
			}
			grid[reel] = col
			continue
		}
		grid[reel] = strip.Window(strip.Pick(m.rng), m.layout.Rows)
	}
	return grid, nil
}

// GridAt builds the contiguous-window grid for explicit stops, one per reel
func (m *Manager) GridAt(mode domain.Mode, stops []int) (domain.Grid, error) {
	strips := m.Strips(mode)
	if len(stops) != len(strips) {
		return nil, fmt.Errorf("%w: %d stops for %d reels", domain.ErrMalformedGrid, len(stops), len(strips))
	}
	grid := make(domain.Grid, len(strips))
	for reel, strip := range strips {
		if stops[reel] < 0 || stops[reel] >= strip.Len() {
			return nil, fmt.Errorf("%w: stop %d out of range on reel %d", domain.ErrMalformedGrid, stops[reel], reel)
		}
		grid[reel] = strip.Window(stops[reel], m.layout.Rows)
	}
	return grid, nil
}
