package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Mode selects base or bonus reels
type Mode string

const (
	ModeBase  Mode = "base"
	ModeBonus Mode = "bonus"
)

// Valid reports whether m is base or bonus
func (m Mode) Valid() bool {
	return m == ModeBase || m == ModeBonus
}

// SpinRequest is a single wager
type SpinRequest struct {
	Bet  decimal.Decimal `json:"bet"`
	Mode Mode            `json:"mode"`
}

// Validate checks the bet and mode
func (r SpinRequest) Validate() error {
	if !r.Bet.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidBet, r.Bet)
	}
	if !r.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, r.Mode)
	}
	return nil
}

// Grid is a reels x rows matrix of symbol ids, indexed [reel][row]
type Grid [][]string

// Reels returns the number of columns
func (g Grid) Reels() int { return len(g) }

// Rows returns the number of visible rows, assuming a rectangular grid
func (g Grid) Rows() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the symbol at the given cell
func (g Grid) At(p Position) string { return g[p.Reel][p.Row] }

// Fits reports whether the grid is exactly reels x rows
func (g Grid) Fits(l Layout) bool {
	if len(g) != l.Reels {
		return false
	}
	for _, col := range g {
		if len(col) != l.Rows {
			return false
		}
	}
	return true
}

// Clone returns a deep copy
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, col := range g {
		out[i] = append([]string(nil), col...)
	}
	return out
}

// Position addresses one grid cell
type Position struct {
	Reel int `json:"reel"`
	Row  int `json:"row"`
}

// WinKind tells which rule produced a WinLine
type WinKind string

const (
	WinPayline WinKind = "payline"
	WinWays    WinKind = "ways"
	WinCluster WinKind = "cluster"
	WinScatter WinKind = "scatter"
)

// WinLine is one paying combination.
//
// Multiplier is the paytable (or cluster bucket) value; Payout is the
// multiplier applied to the stake, and for ways wins also to WayCount.
type WinLine struct {
	Kind       WinKind         `json:"kind"`
	LineID     int             `json:"line_id,omitempty"`
	ClusterID  int             `json:"cluster_id,omitempty"`
	WayCount   int             `json:"way_count,omitempty"`
	SymbolID   string          `json:"symbol_id"`
	Count      int             `json:"count"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	Positions  []Position      `json:"positions"`
}

// SpinResult is the outcome of one spin
type SpinResult struct {
	SpinID             string          `json:"spin_id,omitempty"`
	Mode               Mode            `json:"mode"`
	Bet                decimal.Decimal `json:"bet"`
	Grid               Grid            `json:"grid"`
	Wins               []WinLine       `json:"wins"`
	TotalWin           decimal.Decimal `json:"total_win"`
	TriggeredFreeSpins int             `json:"triggered_free_spins"`
	Capped             bool            `json:"capped,omitempty"`
}

// IsWin reports whether anything was paid
func (r *SpinResult) IsWin() bool {
	return r.TotalWin.IsPositive()
}

// Clone returns a deep copy so listeners cannot mutate engine state
func (r *SpinResult) Clone() *SpinResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Grid = r.Grid.Clone()
	out.Wins = make([]WinLine, len(r.Wins))
	for i, w := range r.Wins {
		w.Positions = append([]Position(nil), w.Positions...)
		out.Wins[i] = w
	}
	return &out
}
