// Package evaluate scores grids against a game's payment rules.
package evaluate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/symbols"
)

// strategy evaluates the paytable-driven wins of one payment mechanism.
// Stakes are applied by the caller.
type strategy interface {
	evaluate(grid domain.Grid) []domain.WinLine
}

// Evaluator is a pure function of (grid, mode, bet) for one configuration.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	cfg      *domain.GameConfig
	table    *symbols.Table
	payment  domain.Payment
	strategy strategy
	divisor  decimal.Decimal
	scatter  domain.ScatterPayBasis
	maxWin   decimal.Decimal
}

// New resolves the payment mechanism once and builds the matching strategy
func New(cfg *domain.GameConfig) (*Evaluator, error) {
	table, err := symbols.NewTable(cfg.Symbols)
	if err != nil {
		return nil, err
	}
	payment, err := cfg.Payment()
	if err != nil {
		return nil, err
	}

	e := &Evaluator{
		cfg:     cfg,
		table:   table,
		payment: payment,
		divisor: decimal.NewFromInt(int64(cfg.LineBetDivisor())),
		scatter: cfg.ScatterBasis(),
		maxWin:  cfg.MaxWinMultiplier,
	}

	switch p := payment.(type) {
	case domain.PaylineRules:
		e.strategy = &paylineStrategy{table: table, lines: p.Lines}
	case domain.WaysRules:
		e.strategy = &waysStrategy{table: table}
	case domain.ClusterPayment:
		e.strategy = &clusterStrategy{table: table, rules: p}
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnknownPayment, payment)
	}
	return e, nil
}

// Symbols returns the symbol table the evaluator scores with
func (e *Evaluator) Symbols() *symbols.Table { return e.table }

// PaymentType returns the resolved payment mechanism
func (e *Evaluator) PaymentType() domain.PaymentType { return e.payment.Type() }

// onLineBet pays units paytable multiples of the line bet, dividing last
func (e *Evaluator) onLineBet(units, bet decimal.Decimal) decimal.Decimal {
	return units.Mul(bet).Div(e.divisor)
}

// Evaluate scores a grid. Identical inputs always give identical results:
// paylines are scored in ascending id order, then ways/cluster wins in
// symbol declaration order, then scatters.
func (e *Evaluator) Evaluate(grid domain.Grid, mode domain.Mode, bet decimal.Decimal) (*domain.SpinResult, error) {
	if err := e.checkGrid(grid); err != nil {
		return nil, err
	}
	if !bet.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", domain.ErrInvalidBet, bet)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}

	// Line-bet wins are summed as multipliers and divided once.
	lineUnits := decimal.Zero
	wins := e.strategy.evaluate(grid)
	for i := range wins {
		units := wins[i].Multiplier
		if wins[i].WayCount > 0 {
			units = units.Mul(decimal.NewFromInt(int64(wins[i].WayCount)))
		}
		wins[i].Payout = e.onLineBet(units, bet)
		lineUnits = lineUnits.Add(units)
	}

	total := decimal.Zero
	for _, w := range e.scatterWins(grid) {
		if e.scatter == domain.ScatterPayLineBet {
			w.Payout = e.onLineBet(w.Multiplier, bet)
			lineUnits = lineUnits.Add(w.Multiplier)
		} else {
			w.Payout = w.Multiplier.Mul(bet)
			total = total.Add(w.Payout)
		}
		wins = append(wins, w)
	}
	total = total.Add(e.onLineBet(lineUnits, bet))

	result := &domain.SpinResult{
		Mode:               mode,
		Bet:                bet,
		Grid:               grid.Clone(),
		Wins:               wins,
		TotalWin:           total,
		TriggeredFreeSpins: e.freeSpins(grid, mode),
	}
	if result.Wins == nil {
		result.Wins = []domain.WinLine{}
	}

	if e.maxWin.IsPositive() {
		limit := bet.Mul(e.maxWin)
		if total.GreaterThan(limit) {
			result.TotalWin = limit
			result.Capped = true
		}
	}
	return result, nil
}

func (e *Evaluator) checkGrid(grid domain.Grid) error {
	if !grid.Fits(e.cfg.Layout) {
		return fmt.Errorf("%w: want %dx%d, got %d reels", domain.ErrMalformedGrid,
			e.cfg.Layout.Reels, e.cfg.Layout.Rows, grid.Reels())
	}
	for reel, col := range grid {
		for row, id := range col {
			if !e.table.Has(id) {
				return fmt.Errorf("%w: unknown symbol %q at reel %d row %d", domain.ErrMalformedGrid, id, reel, row)
			}
		}
	}
	return nil
}

// scatterWins pays each scatter symbol on its total count anywhere on the
// grid, using the greatest paytable count not above the actual count
func (e *Evaluator) scatterWins(grid domain.Grid) []domain.WinLine {
	var wins []domain.WinLine
	for _, id := range e.table.Scatters() {
		positions := findAll(grid, id)
		if len(positions) == 0 {
			continue
		}
		sym, _ := e.table.Get(id)
		mult, _, ok := sym.PaysAtLeast(len(positions))
		if !ok || mult.IsZero() {
			continue
		}
		wins = append(wins, domain.WinLine{
			Kind:       domain.WinScatter,
			SymbolID:   id,
			Count:      len(positions),
			Multiplier: mult,
			Positions:  positions,
		})
	}
	return wins
}

// freeSpins returns the spins awarded by the trigger symbol count. Bonus
// mode spins only award when retriggering is enabled.
func (e *Evaluator) freeSpins(grid domain.Grid, mode domain.Mode) int {
	fs := e.cfg.Bonus.FreeSpins
	if fs == nil {
		return 0
	}
	if mode == domain.ModeBonus && !fs.Retrigger {
		return 0
	}
	count := len(findAll(grid, fs.Trigger.Symbol))
	if count < fs.Trigger.Count {
		return 0
	}
	best, awarded := -1, 0
	for c, spins := range fs.SpinsAwarded {
		if c <= count && c > best {
			best, awarded = c, spins
		}
	}
	return awarded
}

func findAll(grid domain.Grid, id string) []domain.Position {
	var out []domain.Position
	for reel, col := range grid {
		for row, cell := range col {
			if cell == id {
				out = append(out, domain.Position{Reel: reel, Row: row})
			}
		}
	}
	return out
}
