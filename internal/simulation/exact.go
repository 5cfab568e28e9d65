package simulation

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/evaluate"
	"github.com/osse101/SlotForge_Go/internal/gameconfig"
	"github.com/osse101/SlotForge_Go/internal/logger"
	"github.com/osse101/SlotForge_Go/internal/reel"
	"github.com/osse101/SlotForge_Go/internal/utils"
	"github.com/osse101/SlotForge_Go/internal/worker"
)

// ExactOptions controls ExactRTP
type ExactOptions struct {
	Workers int
	// Limit caps the number of stop combinations; 0 means DefaultEnumerationLimit
	Limit int
}

// ExactReport is the theoretical base-game return, free spins excluded
type ExactReport struct {
	GameID       string  `json:"game_id"`
	Combinations int     `json:"combinations"`
	RTP          float64 `json:"rtp"`
	HitFrequency float64 `json:"hit_frequency"`
	// TriggerProbability is the chance a base spin awards free spins
	TriggerProbability float64 `json:"trigger_probability"`
}

// ExactRTP weighs every contiguous base-game stop combination by its
// probability. Games with independent sampling cannot be enumerated this way.
func ExactRTP(ctx context.Context, cfg *domain.GameConfig, opts ExactOptions) (*ExactReport, error) {
	if err := gameconfig.Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.SamplingMode() != domain.SamplingContiguous {
		return nil, fmt.Errorf("exact RTP needs contiguous sampling, game uses %s", cfg.SamplingMode())
	}
	if opts.Limit < 1 {
		opts.Limit = DefaultEnumerationLimit
	}
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}

	reels, err := reel.NewManager(cfg, utils.NewSeededRand(0))
	if err != nil {
		return nil, err
	}
	strips := reels.Strips(domain.ModeBase)

	combos := 1
	totalWeight := 1.0
	for _, s := range strips {
		if combos > opts.Limit/s.Len() {
			return nil, fmt.Errorf("%w: more than %d combinations", domain.ErrEnumerationTooLarge, opts.Limit)
		}
		combos *= s.Len()
		totalWeight *= float64(s.TotalWeight())
	}

	eval, err := evaluate.New(cfg)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgEnumerationStarted, "game_id", cfg.ID, "combinations", combos)

	// Bet the line divisor so the line bet is exactly one unit
	bet := decimal.NewFromInt(int64(cfg.LineBetDivisor()))
	betUnits := bet.InexactFloat64()

	var mu sync.Mutex
	var winWeight, hitWeight, triggerWeight float64

	pool := worker.NewPool(opts.Workers, opts.Workers)
	pool.Start(ctx)
	var enqueueErr error
	// one job per stop of the first reel
	for first := 0; first < strips[0].Len(); first++ {
		job := worker.JobFunc(func(ctx context.Context) error {
			w, h, tr, err := enumerateFrom(ctx, reels, eval, strips, first, bet)
			if err != nil {
				return err
			}
			mu.Lock()
			winWeight += w
			hitWeight += h
			triggerWeight += tr
			mu.Unlock()
			return nil
		})
		if enqueueErr = pool.Enqueue(ctx, job); enqueueErr != nil {
			break
		}
	}
	if err := pool.Stop(); err != nil {
		return nil, fmt.Errorf("enumeration failed: %w", err)
	}
	if enqueueErr != nil {
		return nil, enqueueErr
	}

	return &ExactReport{
		GameID:             cfg.ID,
		Combinations:       combos,
		RTP:                winWeight / totalWeight / betUnits * 100,
		HitFrequency:       hitWeight / totalWeight,
		TriggerProbability: triggerWeight / totalWeight,
	}, nil
}

// enumerateFrom walks every combination whose first reel stops at first and
// returns weight-scaled sums of win, hits and triggers
func enumerateFrom(ctx context.Context, reels *reel.Manager, eval *evaluate.Evaluator, strips []reel.Strip, first int, bet decimal.Decimal) (float64, float64, float64, error) {
	stops := make([]int, len(strips))
	stops[0] = first
	var win, hits, triggers float64

	for {
		if ctx.Err() != nil {
			return 0, 0, 0, ctx.Err()
		}

		weight := 1.0
		for i, stop := range stops {
			weight *= float64(strips[i].Weights[stop])
		}
		if weight > 0 {
			grid, err := reels.GridAt(domain.ModeBase, stops)
			if err != nil {
				return 0, 0, 0, err
			}
			result, err := eval.Evaluate(grid, domain.ModeBase, bet)
			if err != nil {
				return 0, 0, 0, err
			}
			if result.IsWin() {
				win += weight * result.TotalWin.InexactFloat64()
				hits += weight
			}
			if result.TriggeredFreeSpins > 0 {
				triggers += weight
			}
		}

		// odometer over reels 1..n-1
		r := len(stops) - 1
		for ; r >= 1; r-- {
			stops[r]++
			if stops[r] < strips[r].Len() {
				break
			}
			stops[r] = 0
		}
		if r < 1 {
			return win, hits, triggers, nil
		}
	}
}
