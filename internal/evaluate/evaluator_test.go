package evaluate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/reel"
	"github.com/osse101/SlotForge_Go/internal/testing/fixtures"
	"github.com/osse101/SlotForge_Go/internal/utils"
)

// fromRows turns a row-major picture of the screen into a [reel][row] grid
func fromRows(rows ...[]string) domain.Grid {
	grid := make(domain.Grid, len(rows[0]))
	for reel := range grid {
		grid[reel] = make([]string, len(rows))
		for row := range rows {
			grid[reel][row] = rows[row][reel]
		}
	}
	return grid
}

func one() decimal.Decimal { return decimal.NewFromInt(1) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func lineFixture() *domain.GameConfig {
	cfg := fixtures.SingleLineGame()
	cfg.Symbols = append(cfg.Symbols,
		domain.Symbol{ID: "A", Type: domain.SymbolTypeHigh, Paytable: fixtures.Pays(3, 5, 4, 25, 5, 100)},
		domain.Symbol{ID: "B", Type: domain.SymbolTypeMedium, Paytable: fixtures.Pays(3, 2)},
		domain.Symbol{ID: "C", Type: domain.SymbolTypeLow, Paytable: fixtures.Pays(3, 1)},
	)
	return cfg
}

func TestPayline_LeftmostRun(t *testing.T) {
	e, err := New(lineFixture())
	require.NoError(t, err)

	res, err := e.Evaluate(fromRows([]string{"A", "A", "A", "B", "C"}), domain.ModeBase, one())
	require.NoError(t, err)

	require.Len(t, res.Wins, 1)
	w := res.Wins[0]
	assert.Equal(t, domain.WinPayline, w.Kind)
	assert.Equal(t, 1, w.LineID)
	assert.Equal(t, "A", w.SymbolID)
	assert.Equal(t, 3, w.Count)
	assert.True(t, w.Payout.Equal(dec("5")), w.Payout.String())
	assert.Equal(t, []domain.Position{{Reel: 0, Row: 0}, {Reel: 1, Row: 0}, {Reel: 2, Row: 0}}, w.Positions)
	assert.True(t, res.TotalWin.Equal(dec("5")))
}

func TestPayline_WildSubstitution(t *testing.T) {
	e, err := New(lineFixture())
	require.NoError(t, err)

	res, err := e.Evaluate(fromRows([]string{"WILD", "WILD", "H1", "H1", "L2"}), domain.ModeBase, one())
	require.NoError(t, err)

	require.Len(t, res.Wins, 1)
	assert.Equal(t, "H1", res.Wins[0].SymbolID)
	assert.Equal(t, 4, res.Wins[0].Count)
	assert.True(t, res.TotalWin.Equal(dec("25")), res.TotalWin.String())
}

func TestPayline_NoEntryForCount(t *testing.T) {
	e, err := New(lineFixture())
	require.NoError(t, err)

	res, err := e.Evaluate(fromRows([]string{"A", "A", "B", "A", "A"}), domain.ModeBase, one())
	require.NoError(t, err)
	assert.Empty(t, res.Wins)
	assert.True(t, res.TotalWin.IsZero())
	assert.False(t, res.IsWin())
}

func TestPayline_WildPaysOnItsOwn(t *testing.T) {
	cfg := lineFixture()
	cfg.Symbols[0].Paytable = fixtures.Pays(3, 50)
	e, err := New(cfg)
	require.NoError(t, err)

	res, err := e.Evaluate(fromRows([]string{"WILD", "WILD", "WILD", "L1", "H1"}), domain.ModeBase, one())
	require.NoError(t, err)

	require.Len(t, res.Wins, 1, "only the best run on a line counts")
	assert.Equal(t, "WILD", res.Wins[0].SymbolID)
	assert.True(t, res.TotalWin.Equal(dec("50")))
}

func TestPayline_ScatterDoesNotAnchorLine(t *testing.T) {
	e, err := New(lineFixture())
	require.NoError(t, err)

	res, err := e.Evaluate(fromRows([]string{"WILD", "SCAT", "SCAT", "SCAT", "L1"}), domain.ModeBase, one())
	require.NoError(t, err)

	require.Len(t, res.Wins, 1)
	assert.Equal(t, domain.WinScatter, res.Wins[0].Kind)
	assert.Equal(t, 3, res.Wins[0].Count)
}

func TestPayline_AscendingLineOrderAndLineBet(t *testing.T) {
	e, err := New(fixtures.LineGame())
	require.NoError(t, err)

	grid := fromRows(
		[]string{"L1", "L1", "L1", "H2", "H2"},
		[]string{"H1", "H1", "H1", "H1", "L2"},
		[]string{"L2", "L2", "L2", "L2", "L2"},
	)
	// three lines, bet 3: line bet 1
	res, err := e.Evaluate(grid, domain.ModeBase, decimal.NewFromInt(3))
	require.NoError(t, err)

	require.Len(t, res.Wins, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{res.Wins[0].LineID, res.Wins[1].LineID, res.Wins[2].LineID})
	assert.True(t, res.Wins[0].Payout.Equal(dec("25")))
	assert.True(t, res.Wins[1].Payout.Equal(dec("1")))
	assert.True(t, res.Wins[2].Payout.Equal(dec("15")))
	assert.True(t, res.TotalWin.Equal(dec("41")))
}

func TestPayline_TotalExactWithRepeatingLineBet(t *testing.T) {
	e, err := New(fixtures.LineGame())
	require.NoError(t, err)

	grid := fromRows(
		[]string{"H1", "H1", "H1", "L2", "H2"},
		[]string{"H1", "H1", "H1", "H2", "L1"},
		[]string{"H1", "H1", "H1", "L1", "H2"},
	)
	// bet 1 over three lines: line bet 1/3 does not terminate
	res, err := e.Evaluate(grid, domain.ModeBase, one())
	require.NoError(t, err)

	require.Len(t, res.Wins, 3)
	for _, w := range res.Wins {
		assert.Equal(t, 3, w.Count)
		assert.True(t, w.Multiplier.Equal(dec("5")))
	}
	assert.True(t, res.TotalWin.Equal(dec("5")), "total %s", res.TotalWin)
	assert.False(t, res.Capped)
}

func TestWays_ColumnProduct(t *testing.T) {
	e, err := New(fixtures.WaysGame())
	require.NoError(t, err)

	// per-reel counts of A: 2, 3, 1, 0, 2
	grid := fromRows(
		[]string{"A", "A", "A", "B", "A"},
		[]string{"A", "A", "C", "C", "A"},
		[]string{"B", "A", "B", "B", "C"},
	)
	res, err := e.Evaluate(grid, domain.ModeBase, one())
	require.NoError(t, err)

	var win *domain.WinLine
	for i := range res.Wins {
		if res.Wins[i].SymbolID == "A" {
			win = &res.Wins[i]
		}
	}
	require.NotNil(t, win)
	assert.Equal(t, domain.WinWays, win.Kind)
	assert.Equal(t, 3, win.Count)
	assert.Equal(t, 6, win.WayCount)
	assert.True(t, win.Payout.Equal(dec("12")), win.Payout.String())
	assert.Len(t, win.Positions, 6)
}

func TestWays_WildCountsInEveryColumn(t *testing.T) {
	e, err := New(fixtures.WaysGame())
	require.NoError(t, err)

	grid := fromRows(
		[]string{"C", "WILD", "C", "B", "B"},
		[]string{"B", "B", "B", "B", "B"},
		[]string{"B", "B", "B", "SCAT", "SCAT"},
	)
	res, err := e.Evaluate(grid, domain.ModeBase, one())
	require.NoError(t, err)

	byID := map[string]domain.WinLine{}
	for _, w := range res.Wins {
		byID[w.SymbolID] = w
	}
	// B: 2 * 3 (wild + two B) * 2 * 2 * 2 over five reels
	require.Contains(t, byID, "B")
	assert.Equal(t, 5, byID["B"].Count)
	assert.Equal(t, 48, byID["B"].WayCount)
	assert.True(t, byID["B"].Payout.Equal(dec("288")), byID["B"].Payout.String())
	// C: 1 * 1 (wild) * 1 over three reels
	require.Contains(t, byID, "C")
	assert.Equal(t, 3, byID["C"].Count)
	assert.Equal(t, 1, byID["C"].WayCount)
	assert.NotContains(t, byID, "SCAT", "two scatters do not pay")
}

func checkerboard(reels, rows int) [][]string {
	out := make([][]string, rows)
	for row := range out {
		out[row] = make([]string, reels)
		for reel := range out[row] {
			if (reel+row)%2 == 0 {
				out[row][reel] = "gem2"
			} else {
				out[row][reel] = "gem3"
			}
		}
	}
	return out
}

func TestCluster_ExactBucket(t *testing.T) {
	e, err := New(fixtures.ClusterGame())
	require.NoError(t, err)

	rows := checkerboard(6, 5)
	for _, p := range [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}, {0, 2}, {1, 2}} {
		rows[p[1]][p[0]] = "gem1"
	}
	res, err := e.Evaluate(fromRows(rows...), domain.ModeBase, one())
	require.NoError(t, err)

	require.Len(t, res.Wins, 1)
	w := res.Wins[0]
	assert.Equal(t, domain.WinCluster, w.Kind)
	assert.Equal(t, "gem1", w.SymbolID)
	assert.Equal(t, 8, w.Count)
	assert.Equal(t, 1, w.ClusterID)
	assert.True(t, w.Payout.Equal(dec("5")), w.Payout.String())
}

func TestCluster_OpenBucketAndGaps(t *testing.T) {
	e, err := New(fixtures.ClusterGame())
	require.NoError(t, err)

	tests := []struct {
		name  string
		cells int
		want  string
	}{
		{"below minimum", 4, "0"},
		{"exact five", 5, "1"},
		{"nine has no bucket", 9, "0"},
		{"open bucket", 12, "20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := checkerboard(6, 5)
			placed := 0
			for reel := 0; reel < 6 && placed < tt.cells; reel++ {
				for row := 0; row < 5 && placed < tt.cells; row++ {
					rows[row][reel] = "gem1"
					placed++
				}
			}
			res, err := e.Evaluate(fromRows(rows...), domain.ModeBase, one())
			require.NoError(t, err)
			assert.True(t, res.TotalWin.Equal(dec(tt.want)), res.TotalWin.String())
		})
	}
}

func TestCluster_WildJoinsAndDiagonals(t *testing.T) {
	cfg := fixtures.ClusterGame()
	e, err := New(cfg)
	require.NoError(t, err)

	rows := checkerboard(6, 5)
	// gem1 x4 bridged to a fifth through a wild
	rows[0][0], rows[0][1], rows[0][2], rows[0][3], rows[0][4] = "gem1", "gem1", "WILD", "gem1", "gem1"
	res, err := e.Evaluate(fromRows(rows...), domain.ModeBase, one())
	require.NoError(t, err)
	require.Len(t, res.Wins, 1)
	assert.Equal(t, 5, res.Wins[0].Count)

	cfg.ClusterRules.DiagonalAllowed = true
	diag, err := New(cfg)
	require.NoError(t, err)
	res, err = diag.Evaluate(fromRows(checkerboard(6, 5)...), domain.ModeBase, one())
	require.NoError(t, err)
	// diagonal adjacency links the checkerboard colours into two clusters of 15
	require.Len(t, res.Wins, 2)
	assert.Equal(t, 15, res.Wins[0].Count)
	assert.Equal(t, 15, res.Wins[1].Count)
}

func TestScatter_PaysTotalBetAndTriggersFreeSpins(t *testing.T) {
	cfg := fixtures.LineGame()
	e, err := New(cfg)
	require.NoError(t, err)

	grid := fromRows(
		[]string{"SCAT", "L1", "H2", "L2", "SCAT"},
		[]string{"L2", "H1", "L1", "H2", "L1"},
		[]string{"H2", "L2", "SCAT", "L1", "SCAT"},
	)
	res, err := e.Evaluate(grid, domain.ModeBase, decimal.NewFromInt(3))
	require.NoError(t, err)

	require.Len(t, res.Wins, 1)
	assert.Equal(t, domain.WinScatter, res.Wins[0].Kind)
	assert.Equal(t, 4, res.Wins[0].Count)
	assert.True(t, res.TotalWin.Equal(dec("30")), "10x total bet, got %s", res.TotalWin)
	assert.Equal(t, 15, res.TriggeredFreeSpins)

	bonus, err := e.Evaluate(grid, domain.ModeBonus, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, 15, bonus.TriggeredFreeSpins, "retrigger enabled")

	cfg.Bonus.FreeSpins.Retrigger = false
	noRetrigger, err := New(cfg)
	require.NoError(t, err)
	bonus, err = noRetrigger.Evaluate(grid, domain.ModeBonus, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Zero(t, bonus.TriggeredFreeSpins)
}

func TestScatter_LineBetBasis(t *testing.T) {
	cfg := fixtures.LineGame()
	cfg.ScatterPayBasis = domain.ScatterPayLineBet
	e, err := New(cfg)
	require.NoError(t, err)

	grid := fromRows(
		[]string{"SCAT", "L1", "SCAT", "L2", "SCAT"},
		[]string{"L2", "H1", "L1", "H2", "L1"},
		[]string{"H2", "L2", "L2", "L1", "H2"},
	)
	res, err := e.Evaluate(grid, domain.ModeBase, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, res.TotalWin.Equal(dec("2")), res.TotalWin.String())
}

func TestMaxWinCap(t *testing.T) {
	cfg := lineFixture()
	cfg.MaxWinMultiplier = decimal.NewFromInt(20)
	e, err := New(cfg)
	require.NoError(t, err)

	res, err := e.Evaluate(fromRows([]string{"A", "A", "A", "A", "A"}), domain.ModeBase, one())
	require.NoError(t, err)
	assert.True(t, res.Capped)
	assert.True(t, res.TotalWin.Equal(dec("20")))
	assert.True(t, res.Wins[0].Payout.Equal(dec("100")), "win lines keep their uncapped payout")
}

func TestEvaluate_RejectsMalformedInput(t *testing.T) {
	e, err := New(fixtures.LineGame())
	require.NoError(t, err)

	_, err = e.Evaluate(domain.Grid{{"H1"}}, domain.ModeBase, one())
	assert.ErrorIs(t, err, domain.ErrMalformedGrid)

	grid := fromRows(
		[]string{"H1", "H1", "H1", "H1", "H1"},
		[]string{"H1", "??", "H1", "H1", "H1"},
		[]string{"H1", "H1", "H1", "H1", "H1"},
	)
	_, err = e.Evaluate(grid, domain.ModeBase, one())
	assert.ErrorIs(t, err, domain.ErrMalformedGrid)

	grid[1][1] = "H1"
	_, err = e.Evaluate(grid, domain.ModeBase, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidBet)
}

func TestEvaluate_Deterministic(t *testing.T) {
	for _, cfg := range []*domain.GameConfig{fixtures.LineGame(), fixtures.WaysGame(), fixtures.ClusterGame()} {
		e, err := New(cfg)
		require.NoError(t, err)
		reels, err := reel.NewManager(cfg, utils.NewSeededRand(99))
		require.NoError(t, err)

		for i := 0; i < 500; i++ {
			grid, err := reels.GenerateGrid(domain.ModeBase)
			require.NoError(t, err)
			a, err := e.Evaluate(grid, domain.ModeBase, one())
			require.NoError(t, err)
			b, err := e.Evaluate(grid.Clone(), domain.ModeBase, one())
			require.NoError(t, err)
			require.Equal(t, a, b)
		}
	}
}

func BenchmarkEvaluate(b *testing.B) {
	for _, cfg := range []*domain.GameConfig{fixtures.LineGame(), fixtures.WaysGame(), fixtures.ClusterGame()} {
		b.Run(string(cfg.PaymentType), func(b *testing.B) {
			e, err := New(cfg)
			require.NoError(b, err)
			reels, err := reel.NewManager(cfg, utils.NewSeededRand(1))
			require.NoError(b, err)
			grid, err := reels.GenerateGrid(domain.ModeBase)
			require.NoError(b, err)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = e.Evaluate(grid, domain.ModeBase, one())
			}
		})
	}
}
