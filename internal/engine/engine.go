// Package engine wires one validated game configuration into a playable session.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/SlotForge_Go/internal/animation"
	"github.com/osse101/SlotForge_Go/internal/config"
	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/evaluate"
	"github.com/osse101/SlotForge_Go/internal/event"
	"github.com/osse101/SlotForge_Go/internal/gameconfig"
	"github.com/osse101/SlotForge_Go/internal/logger"
	"github.com/osse101/SlotForge_Go/internal/metrics"
	"github.com/osse101/SlotForge_Go/internal/pool"
	"github.com/osse101/SlotForge_Go/internal/reel"
	"github.com/osse101/SlotForge_Go/internal/spin"
	"github.com/osse101/SlotForge_Go/internal/symbols"
	"github.com/osse101/SlotForge_Go/internal/utils"
)

// Option configures an Engine
type Option func(*options)

type options struct {
	rng                 reel.RandomSource
	factory             pool.Factory
	metrics             bool
	presentationTimeout *time.Duration
}

// WithRandomSource replaces the crypto-seeded generator, e.g. with a fixed seed
func WithRandomSource(rng reel.RandomSource) Option {
	return func(o *options) { o.rng = rng }
}

// WithSymbolFactory enables the symbol view: every reel stop checks out one
// pooled instance per visible cell, created by factory
func WithSymbolFactory(factory pool.Factory) Option {
	return func(o *options) { o.factory = factory }
}

// WithoutMetrics skips registering the prometheus event collector
func WithoutMetrics() Option {
	return func(o *options) { o.metrics = false }
}

// WithPresentationTimeout overrides the setting of the same name
func WithPresentationTimeout(d time.Duration) Option {
	return func(o *options) { o.presentationTimeout = &d }
}

// Engine is one game session. Every component is owned by the engine; there
// are no package-level singletons.
type Engine struct {
	cfg       *domain.GameConfig
	symbols   *symbols.Table
	reels     *reel.Manager
	evaluator *evaluate.Evaluator
	bus       *event.MemoryBus
	spins     *spin.Manager
	pool      *pool.Pool
	animation *animation.Manager
	view      *symbolView

	collector *metrics.EventMetricsCollector
	unbind    func()
}

// New validates cfg and builds the session. An invalid configuration is
// refused with a *gameconfig.ConfigError.
func New(cfg *domain.GameConfig, settings *config.Config, opts ...Option) (*Engine, error) {
	if settings == nil {
		settings = config.Default()
	}
	o := &options{metrics: true}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = utils.NewRand()
	}

	if err := gameconfig.Validate(cfg); err != nil {
		return nil, err
	}

	table, err := symbols.NewTable(cfg.Symbols)
	if err != nil {
		return nil, err
	}
	reels, err := reel.NewManager(cfg, o.rng)
	if err != nil {
		return nil, err
	}
	eval, err := evaluate.New(cfg)
	if err != nil {
		return nil, err
	}
	overflow, err := pool.ParseOverflowPolicy(settings.SymbolPoolOverflow)
	if err != nil {
		return nil, fmt.Errorf("symbol pool: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		symbols:   table,
		reels:     reels,
		evaluator: eval,
	}

	var busOpts []event.Option
	if o.metrics {
		busOpts = append(busOpts, event.WithErrorHook(metrics.HandlerErrorHook))
	}
	e.bus = event.NewMemoryBus(busOpts...)

	e.animation = animation.NewManager(
		animation.WithFXTimeout(settings.FXTimeout),
		animation.WithThresholds(settings.BigWinThreshold, settings.MegaWinThreshold),
	)

	timeout := settings.PresentationTimeout
	if o.presentationTimeout != nil {
		timeout = *o.presentationTimeout
	}
	e.spins = spin.NewManager(reels, eval, e.bus,
		spin.WithPresentationTimeout(timeout),
		spin.WithWinTier(e.animation.WinTier),
	)
	e.unbind = e.animation.Bind(e.bus, e.spins.AcknowledgeSpin)

	if o.factory != nil {
		e.pool = pool.New(o.factory, pool.WithMaxSize(settings.SymbolPoolMax), pool.WithOverflowPolicy(overflow))
		e.view = newSymbolView(e.pool, cfg.Layout.Reels)
		e.view.bind(e.bus)
	}

	if o.metrics {
		e.collector = metrics.NewEventMetricsCollector()
		e.collector.Register(e.bus)
	}

	logger.FromContext(logger.WithGameID(context.Background(), cfg.ID)).Debug(LogMsgEngineReady,
		"payment_type", cfg.PaymentType, "reels", cfg.Layout.Reels, "rows", cfg.Layout.Rows)
	return e, nil
}

// Load reads a game document with settings' schema and cache, then builds the engine
func Load(path string, settings *config.Config, opts ...Option) (*Engine, error) {
	if settings == nil {
		settings = config.Default()
	}
	loader := gameconfig.NewLoader(settings.GameSchemaPath, settings.ConfigCacheSize, settings.ConfigCacheTTL)
	cfg, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, settings, opts...)
}

// Spin plays one spin; see spin.Manager.Spin
func (e *Engine) Spin(ctx context.Context, req domain.SpinRequest) (*domain.SpinResult, error) {
	ctx = logger.WithGameID(ctx, e.cfg.ID)
	return e.spins.Spin(ctx, req)
}

// AcknowledgePresentationComplete ends the current presentation early
func (e *Engine) AcknowledgePresentationComplete() bool {
	return e.spins.AcknowledgePresentationComplete()
}

// SymbolType exposes the symbol type lookup for renderers
func (e *Engine) SymbolType(id string) (domain.SymbolType, error) {
	return e.symbols.Type(id)
}

// Config returns the validated configuration
func (e *Engine) Config() *domain.GameConfig { return e.cfg }

// Bus returns the event bus presentation code subscribes to
func (e *Engine) Bus() event.Bus { return e.bus }

// Animation returns the effect registry
func (e *Engine) Animation() *animation.Manager { return e.animation }

// SpinManager returns the lifecycle state machine
func (e *Engine) SpinManager() *spin.Manager { return e.spins }

// Pool returns the symbol pool, nil without WithSymbolFactory
func (e *Engine) Pool() *pool.Pool { return e.pool }

// VisibleHandles returns the pooled instances currently shown, per reel
func (e *Engine) VisibleHandles() [][]*pool.Handle {
	if e.view == nil {
		return nil
	}
	return e.view.snapshot()
}

// Close unsubscribes every component, waits for queued effects and
// releases pooled instances
func (e *Engine) Close(ctx context.Context) error {
	e.unbind()
	if e.collector != nil {
		e.collector.Unregister()
	}
	err := e.animation.Wait(ctx)
	if e.view != nil {
		e.view.close(ctx)
		e.pool.Close(ctx)
	}
	return err
}
