// Package simulation measures a game's return to player, by Monte Carlo
// sampling or by enumerating every base-game stop combination.
package simulation

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/evaluate"
	"github.com/osse101/SlotForge_Go/internal/gameconfig"
	"github.com/osse101/SlotForge_Go/internal/logger"
	"github.com/osse101/SlotForge_Go/internal/metrics"
	"github.com/osse101/SlotForge_Go/internal/reel"
	"github.com/osse101/SlotForge_Go/internal/utils"
	"github.com/osse101/SlotForge_Go/internal/worker"
)

// Options controls a Monte Carlo run
type Options struct {
	Spins         int
	Bet           decimal.Decimal
	Workers       int
	Seed          uint64
	PlayFreeSpins bool
	// ChunkSize is the number of base spins per job. Each chunk has its own
	// generator derived from Seed, so results do not depend on Workers.
	ChunkSize int
}

// Report summarizes a run. A round is one paid base spin plus any free
// spins it triggered.
type Report struct {
	GameID           string          `json:"game_id"`
	Spins            int             `json:"spins"`
	FreeSpinsPlayed  int             `json:"free_spins_played"`
	TotalBet         decimal.Decimal `json:"total_bet"`
	TotalWin         decimal.Decimal `json:"total_win"`
	BaseWin          decimal.Decimal `json:"base_win"`
	BonusWin         decimal.Decimal `json:"bonus_win"`
	RTP              float64         `json:"rtp"`
	HitFrequency     float64         `json:"hit_frequency"`
	FreeSpinTriggers int             `json:"free_spin_triggers"`
	MaxWin           decimal.Decimal `json:"max_win"`
	// StdDev is the standard deviation of the round win in units of the bet
	StdDev   float64       `json:"std_dev"`
	Duration time.Duration `json:"duration_ns"`
}

// tally accumulates one chunk
type tally struct {
	spins, hits, freeSpins, triggers int
	baseWin, bonusWin, maxWin        decimal.Decimal
	sum, sumSq                       float64
}

func newTally() *tally {
	return &tally{baseWin: decimal.Zero, bonusWin: decimal.Zero, maxWin: decimal.Zero}
}

func (t *tally) merge(o *tally) {
	t.spins += o.spins
	t.hits += o.hits
	t.freeSpins += o.freeSpins
	t.triggers += o.triggers
	t.baseWin = t.baseWin.Add(o.baseWin)
	t.bonusWin = t.bonusWin.Add(o.bonusWin)
	if o.maxWin.GreaterThan(t.maxWin) {
		t.maxWin = o.maxWin
	}
	t.sum += o.sum
	t.sumSq += o.sumSq
}

// Run simulates opts.Spins paid spins of cfg on a worker pool
func Run(ctx context.Context, cfg *domain.GameConfig, opts Options) (*Report, error) {
	if err := gameconfig.Validate(cfg); err != nil {
		return nil, err
	}
	if opts.Spins < 1 {
		return nil, fmt.Errorf("simulation needs at least one spin, got %d", opts.Spins)
	}
	if opts.Bet.IsZero() {
		opts.Bet = decimal.NewFromInt(1)
	}
	if !opts.Bet.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", domain.ErrInvalidBet, opts.Bet)
	}
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.ChunkSize < 1 {
		opts.ChunkSize = DefaultChunkSize
	}

	eval, err := evaluate.New(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(logger.WithGameID(ctx, cfg.ID))
	log.Info(LogMsgSimulationStarted, "spins", opts.Spins, "workers", opts.Workers, "seed", opts.Seed)
	started := time.Now()

	total := newTally()
	var mu sync.Mutex

	pool := worker.NewPool(opts.Workers, opts.Workers)
	pool.Start(ctx)

	chunks := (opts.Spins + opts.ChunkSize - 1) / opts.ChunkSize
	var enqueueErr error
	for chunk := 0; chunk < chunks; chunk++ {
		spins := min(opts.ChunkSize, opts.Spins-chunk*opts.ChunkSize)
		seed := utils.DeriveSeed(opts.Seed, chunk)
		job := worker.JobFunc(func(ctx context.Context) error {
			t, err := runChunk(ctx, cfg, eval, seed, spins, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			total.merge(t)
			mu.Unlock()
			return nil
		})
		if enqueueErr = pool.Enqueue(ctx, job); enqueueErr != nil {
			break
		}
	}
	if err := pool.Stop(); err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}
	if enqueueErr != nil {
		return nil, enqueueErr
	}

	report := total.report(cfg.ID, opts.Bet)
	report.Duration = time.Since(started)
	metrics.SimulatedRTP.WithLabelValues(cfg.ID).Set(report.RTP)
	log.Info(LogMsgSimulationFinished, "rtp", report.RTP, "hit_frequency", report.HitFrequency, "duration", report.Duration)
	return report, nil
}

func runChunk(ctx context.Context, cfg *domain.GameConfig, eval *evaluate.Evaluator, seed uint64, spins int, opts Options) (*tally, error) {
	reels, err := reel.NewManager(cfg, utils.NewSeededRand(seed))
	if err != nil {
		return nil, err
	}
	betUnits := opts.Bet.InexactFloat64()
	t := newTally()

	for i := 0; i < spins; i++ {
		if i%1024 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		base, err := playOne(reels, eval, domain.ModeBase, opts.Bet)
		if err != nil {
			return nil, err
		}
		round := base.TotalWin
		t.spins++
		t.baseWin = t.baseWin.Add(base.TotalWin)

		if opts.PlayFreeSpins && base.TriggeredFreeSpins > 0 {
			t.triggers++
			bonus, played, err := playFreeSpins(ctx, reels, eval, base.TriggeredFreeSpins, opts.Bet)
			if err != nil {
				return nil, err
			}
			t.freeSpins += played
			t.bonusWin = t.bonusWin.Add(bonus)
			round = round.Add(bonus)
		} else if base.TriggeredFreeSpins > 0 {
			t.triggers++
		}

		if round.IsPositive() {
			t.hits++
		}
		if round.GreaterThan(t.maxWin) {
			t.maxWin = round
		}
		x := round.InexactFloat64() / betUnits
		t.sum += x
		t.sumSq += x * x
	}
	return t, nil
}

// playFreeSpins plays awarded bonus spins, adding retriggers, and returns
// the bonus win and the number of spins played
func playFreeSpins(ctx context.Context, reels *reel.Manager, eval *evaluate.Evaluator, awarded int, bet decimal.Decimal) (decimal.Decimal, int, error) {
	win := decimal.Zero
	remaining := awarded
	played := 0
	for remaining > 0 {
		if played >= MaxFreeSpinsPerRound {
			logger.FromContext(ctx).Debug(LogMsgFreeSpinCapReached, "played", played, "remaining", remaining)
			break
		}
		result, err := playOne(reels, eval, domain.ModeBonus, bet)
		if err != nil {
			return decimal.Zero, played, err
		}
		remaining += result.TriggeredFreeSpins - 1
		played++
		win = win.Add(result.TotalWin)
	}
	return win, played, nil
}

func playOne(reels *reel.Manager, eval *evaluate.Evaluator, mode domain.Mode, bet decimal.Decimal) (*domain.SpinResult, error) {
	grid, err := reels.GenerateGrid(mode)
	if err != nil {
		return nil, err
	}
	return eval.Evaluate(grid, mode, bet)
}

func (t *tally) report(gameID string, bet decimal.Decimal) *Report {
	totalBet := bet.Mul(decimal.NewFromInt(int64(t.spins)))
	totalWin := t.baseWin.Add(t.bonusWin)
	r := &Report{
		GameID:           gameID,
		Spins:            t.spins,
		FreeSpinsPlayed:  t.freeSpins,
		TotalBet:         totalBet,
		TotalWin:         totalWin,
		BaseWin:          t.baseWin,
		BonusWin:         t.bonusWin,
		RTP:              utils.Ratio(totalWin, totalBet) * 100,
		FreeSpinTriggers: t.triggers,
		MaxWin:           t.maxWin,
	}
	if t.spins > 0 {
		n := float64(t.spins)
		r.HitFrequency = float64(t.hits) / n
		mean := t.sum / n
		r.StdDev = math.Sqrt(math.Max(t.sumSq/n-mean*mean, 0))
	}
	return r
}
