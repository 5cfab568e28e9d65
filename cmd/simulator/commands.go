package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"

	"github.com/osse101/SlotForge_Go/internal/animation"
	"github.com/osse101/SlotForge_Go/internal/config"
	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/engine"
	"github.com/osse101/SlotForge_Go/internal/gameconfig"
	"github.com/osse101/SlotForge_Go/internal/handler"
	"github.com/osse101/SlotForge_Go/internal/server"
	"github.com/osse101/SlotForge_Go/internal/simulation"
	"github.com/osse101/SlotForge_Go/internal/utils"
)

// Flag names
const (
	flagGame        = "game"
	flagSpins       = "spins"
	flagBet         = "bet"
	flagWorkers     = "workers"
	flagSeed        = "seed"
	flagFreeSpins   = "free-spins"
	flagMetricsAddr = "metrics-addr"
	flagLimit       = "limit"
	flagLinger      = "linger"
)

var errNoGames = errors.New("no game configuration given")

// app carries what every command needs once flags are parsed
type app struct {
	out      io.Writer
	settings *config.Config
	reports  *simulation.ReportStore
	loader   *gameconfig.Loader
}

func newApp(out io.Writer) *cli.Command {
	a := &app{out: out, reports: simulation.NewReportStore()}

	gameFlag := &cli.StringSliceFlag{
		Name:    flagGame,
		Aliases: []string{"g"},
		Usage:   "game configuration file (json or yaml); repeatable",
		Sources: cli.EnvVars("GAME_CONFIG_PATH"),
	}
	workersFlag := &cli.IntFlag{
		Name:    flagWorkers,
		Aliases: []string{"w"},
		Usage:   "worker goroutines; 0 uses every CPU",
	}
	metricsFlag := &cli.StringFlag{
		Name:    flagMetricsAddr,
		Usage:   "serve /metrics and /api/v1/reports on this address while running",
		Sources: cli.EnvVars("METRICS_ADDR"),
	}
	lingerFlag := &cli.DurationFlag{
		Name:  flagLinger,
		Usage: "keep the metrics server up this long after the run",
	}

	return &cli.Command{
		Name:    "simulator",
		Usage:   "validate slot game configurations and measure their RTP",
		Version: handler.VersionString(),
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "check game configurations against the schema and the semantic rules",
				Flags:  []cli.Flag{gameFlag},
				Action: a.validate,
			},
			{
				Name:  "simulate",
				Usage: "estimate RTP by playing seeded spins",
				Flags: []cli.Flag{
					gameFlag, workersFlag, metricsFlag, lingerFlag,
					&cli.IntFlag{Name: flagSpins, Aliases: []string{"n"}, Value: 1_000_000, Usage: "paid base spins per game"},
					&cli.StringFlag{Name: flagBet, Value: "1", Usage: "total bet per spin"},
					&cli.Uint64Flag{Name: flagSeed, Usage: "base seed; 0 picks a random one"},
					&cli.BoolFlag{Name: flagFreeSpins, Value: true, Usage: "play awarded free spins"},
				},
				Action: a.simulate,
			},
			{
				Name:  "exact",
				Usage: "compute the theoretical base-game RTP by enumerating every stop combination",
				Flags: []cli.Flag{
					gameFlag, workersFlag, metricsFlag, lingerFlag,
					&cli.IntFlag{Name: flagLimit, Value: simulation.DefaultEnumerationLimit, Usage: "refuse games with more stop combinations"},
				},
				Action: a.exact,
			},
			{
				Name:  "play",
				Usage: "play spins through the full engine and print each result",
				Flags: []cli.Flag{
					gameFlag,
					&cli.IntFlag{Name: flagSpins, Aliases: []string{"n"}, Value: 10, Usage: "spins to play"},
					&cli.StringFlag{Name: flagBet, Value: "1", Usage: "total bet per spin"},
					&cli.Uint64Flag{Name: flagSeed, Usage: "seed; 0 uses a crypto-seeded generator"},
				},
				Action: a.play,
			},
		},
	}
}

// setup loads the environment settings and the logger. It runs per command
// so --help never touches the environment.
func (a *app) setup() error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	initLogger(settings)
	if warnings, err := settings.ValidateWithWarnings(); err == nil {
		for _, w := range warnings {
			slog.Warn(w)
		}
	}
	a.settings = settings
	a.loader = gameconfig.NewLoader(settings.GameSchemaPath, settings.ConfigCacheSize, settings.ConfigCacheTTL)
	return nil
}

func (a *app) games(cmd *cli.Command) []string {
	paths := cmd.StringSlice(flagGame)
	paths = append(paths, cmd.Args().Slice()...)
	if len(paths) == 0 && a.settings.GameConfigPath != "" {
		paths = []string{a.settings.GameConfigPath}
	}
	return paths
}

func (a *app) validate(ctx context.Context, cmd *cli.Command) error {
	if err := a.setup(); err != nil {
		return err
	}
	paths := a.games(cmd)
	if len(paths) == 0 {
		return errNoGames
	}

	var errs []error
	for _, path := range paths {
		cfg, err := a.loader.Load(path)
		if err != nil {
			fmt.Fprintf(a.out, "FAIL %s\n%v\n", path, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(a.out, "ok   %s (%s, %dx%d)\n", path, cfg.PaymentType, cfg.Layout.Reels, cfg.Layout.Rows)
	}
	return errors.Join(errs...)
}

func (a *app) simulate(ctx context.Context, cmd *cli.Command) error {
	if err := a.setup(); err != nil {
		return err
	}
	bet, err := decimal.NewFromString(cmd.String(flagBet))
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", flagBet, err)
	}
	seed := cmd.Uint64(flagSeed)
	if seed == 0 {
		seed = utils.NewRand().Uint64()
	}

	return a.withServer(ctx, cmd, func(ctx context.Context) error {
		for _, path := range a.games(cmd) {
			cfg, err := a.loader.Load(path)
			if err != nil {
				return err
			}
			report, err := simulation.Run(ctx, cfg, simulation.Options{
				Spins:         cmd.Int(flagSpins),
				Bet:           bet,
				Workers:       cmd.Int(flagWorkers),
				Seed:          seed,
				PlayFreeSpins: cmd.Bool(flagFreeSpins),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			a.reports.Put(report)
			printReport(a.out, report, cfg.RTP.TargetRTP, seed)
		}
		return nil
	})
}

func (a *app) exact(ctx context.Context, cmd *cli.Command) error {
	if err := a.setup(); err != nil {
		return err
	}
	return a.withServer(ctx, cmd, func(ctx context.Context) error {
		for _, path := range a.games(cmd) {
			cfg, err := a.loader.Load(path)
			if err != nil {
				return err
			}
			report, err := simulation.ExactRTP(ctx, cfg, simulation.ExactOptions{
				Workers: cmd.Int(flagWorkers),
				Limit:   cmd.Int(flagLimit),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			a.reports.PutExact(report)
			printExactReport(a.out, report, cfg.RTP.TargetRTP)
		}
		return nil
	})
}

func (a *app) play(ctx context.Context, cmd *cli.Command) error {
	if err := a.setup(); err != nil {
		return err
	}
	paths := a.games(cmd)
	if len(paths) == 0 {
		return errNoGames
	}
	bet, err := decimal.NewFromString(cmd.String(flagBet))
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", flagBet, err)
	}

	var opts []engine.Option
	if seed := cmd.Uint64(flagSeed); seed != 0 {
		opts = append(opts, engine.WithRandomSource(utils.NewSeededRand(seed)))
	}
	eng, err := engine.Load(paths[0], a.settings, opts...)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.settings.FXTimeout)
		defer cancel()
		if err := eng.Close(closeCtx); err != nil {
			slog.Warn("engine close", "error", err)
		}
	}()

	// Effects print from the animation chain while spins print from here
	out := &lockedWriter{w: a.out}
	for _, tier := range []string{animation.FXSmallWin, animation.FXBigWin, animation.FXMegaWin} {
		eng.Animation().RegisterHandler(tier, func(ctx context.Context, fx animation.FX) error {
			fmt.Fprintf(out, "  %s %s\n", tier, fx.TotalWin)
			return nil
		})
	}

	for i := 0; i < cmd.Int(flagSpins); i++ {
		mode := domain.ModeBase
		if eng.SpinManager().FreeSpinsRemaining() > 0 {
			mode = domain.ModeBonus
		}
		result, err := eng.Spin(ctx, domain.SpinRequest{Bet: bet, Mode: mode})
		if err != nil {
			return err
		}
		printSpin(out, i+1, result)
	}
	return nil
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// withServer runs fn with the ops server up when --metrics-addr is set
func (a *app) withServer(ctx context.Context, cmd *cli.Command, fn func(context.Context) error) error {
	addr := cmd.String(flagMetricsAddr)
	if addr == "" {
		addr = a.settings.MetricsAddr
	}
	if addr == "" {
		return fn(ctx)
	}

	ready := handler.HealthCheckFunc(func(context.Context) error {
		if len(a.reports.Games()) == 0 {
			return errors.New(handler.ErrMsgNotReady)
		}
		return nil
	})
	srv := server.NewServer(addr, ready, a.reports)
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	runErr := fn(ctx)

	if linger := cmd.Duration(flagLinger); linger > 0 && runErr == nil {
		select {
		case <-time.After(linger):
		case <-ctx.Done():
		case err := <-serveErr:
			return err
		}
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return errors.Join(runErr, srv.Stop(stopCtx))
}
