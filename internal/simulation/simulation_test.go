package simulation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/gameconfig"
	"github.com/osse101/SlotForge_Go/internal/testing/fixtures"
)

func TestExactRTP_KnownGame(t *testing.T) {
	report, err := ExactRTP(context.Background(), fixtures.RTPGame(), ExactOptions{Workers: 2})

	require.NoError(t, err)
	assert.Equal(t, 8, report.Combinations)
	assert.InDelta(t, 96.0, report.RTP, 1e-9)
	assert.InDelta(t, 0.25, report.HitFrequency, 1e-12)
	assert.Zero(t, report.TriggerProbability)
}

func TestExactRTP_Limit(t *testing.T) {
	_, err := ExactRTP(context.Background(), fixtures.RTPGame(), ExactOptions{Limit: 4})
	assert.ErrorIs(t, err, domain.ErrEnumerationTooLarge)
}

func TestExactRTP_IndependentSampling(t *testing.T) {
	cfg := fixtures.ClusterGame()
	cfg.ReelStrips.Sampling = domain.SamplingIndependent

	_, err := ExactRTP(context.Background(), cfg, ExactOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contiguous sampling")
}

func TestExactRTP_InvalidConfig(t *testing.T) {
	cfg := fixtures.RTPGame()
	cfg.RTP.TargetRTP = 0
	_, err := ExactRTP(context.Background(), cfg, ExactOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRun_ConvergesToTargetRTP(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	cfg := fixtures.RTPGame()
	report, err := Run(context.Background(), cfg, Options{
		Spins: 1_000_000,
		Bet:   decimal.NewFromInt(1),
		Seed:  20240501,
	})

	require.NoError(t, err)
	assert.Equal(t, 1_000_000, report.Spins)
	assert.InDelta(t, cfg.RTP.TargetRTP, report.RTP, 1.0)
	assert.InDelta(t, 0.25, report.HitFrequency, 0.005)
	assert.Equal(t, "6", report.MaxWin.String())
}

func TestRun_IndependentOfWorkerCount(t *testing.T) {
	opts := Options{Spins: 25_000, Bet: decimal.NewFromInt(10), Seed: 7, ChunkSize: 1_000}

	opts.Workers = 1
	single, err := Run(context.Background(), fixtures.LineGame(), opts)
	require.NoError(t, err)

	opts.Workers = 4
	parallel, err := Run(context.Background(), fixtures.LineGame(), opts)
	require.NoError(t, err)

	assert.True(t, single.TotalWin.Equal(parallel.TotalWin))
	assert.Equal(t, single.HitFrequency, parallel.HitFrequency)
	assert.Equal(t, "250000", single.TotalBet.String())
}

func TestRun_PlaysFreeSpins(t *testing.T) {
	report, err := Run(context.Background(), fixtures.LineGame(), Options{
		Spins:         20_000,
		Seed:          99,
		PlayFreeSpins: true,
	})

	require.NoError(t, err)
	require.Positive(t, report.FreeSpinTriggers)
	assert.GreaterOrEqual(t, report.FreeSpinsPlayed, 10*report.FreeSpinTriggers)
	assert.True(t, report.TotalWin.Equal(report.BaseWin.Add(report.BonusWin)))
	assert.True(t, report.BonusWin.IsPositive())
}

func TestRun_WithoutFreeSpinsCountsTriggersOnly(t *testing.T) {
	report, err := Run(context.Background(), fixtures.LineGame(), Options{Spins: 5_000, Seed: 3})

	require.NoError(t, err)
	assert.Zero(t, report.FreeSpinsPlayed)
	assert.True(t, report.BonusWin.IsZero())
}

func TestRun_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := Run(ctx, fixtures.RTPGame(), Options{Spins: 0})
	assert.Error(t, err)

	_, err = Run(ctx, fixtures.RTPGame(), Options{Spins: 10, Bet: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidBet)

	bad := fixtures.RTPGame()
	bad.Paylines = nil
	_, err = Run(ctx, bad, Options{Spins: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, fixtures.RTPGame(), Options{Spins: 50_000, Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_ExampleGames(t *testing.T) {
	loader := gameconfig.NewLoader("configs/schemas/game.schema.json", 4, time.Minute)

	for _, name := range []string{"classic_lines.yaml", "ways_243.json", "gem_clusters.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := loader.Load(filepath.Join("..", "..", "configs", "games", name))
			require.NoError(t, err)

			report, err := Run(context.Background(), cfg, Options{Spins: 20_000, Seed: 1, PlayFreeSpins: true})
			require.NoError(t, err)
			assert.Equal(t, 20_000, report.Spins)
			assert.Positive(t, report.RTP)
			assert.Positive(t, report.HitFrequency)
		})
	}
}
