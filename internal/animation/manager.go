// Package animation maps lifecycle events onto presentation effects and
// reports when a spin's presentation has finished.
package animation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/event"
	"github.com/osse101/SlotForge_Go/internal/logger"
)

// FX carries what an effect needs to render
type FX struct {
	SpinID    string
	ReelIndex int
	Symbols   []string
	Wins      []domain.WinLine
	TotalWin  decimal.Decimal
	Bet       decimal.Decimal
}

// Effect plays one named effect. It should return when ctx is done.
type Effect func(ctx context.Context, fx FX) error

// Option configures a Manager
type Option func(*Manager)

// WithFXTimeout bounds every effect. Zero or less disables the bound.
func WithFXTimeout(d time.Duration) Option {
	return func(m *Manager) { m.fxTimeout = d }
}

// WithThresholds sets the big and mega win multiples of the bet
func WithThresholds(big, mega decimal.Decimal) Option {
	return func(m *Manager) {
		m.bigWin = big
		m.megaWin = mega
	}
}

// Manager owns the effect registry and the ordered effect chain
type Manager struct {
	mu       sync.RWMutex
	handlers map[string]Effect

	fxTimeout time.Duration
	bigWin    decimal.Decimal
	megaWin   decimal.Decimal

	chainMu sync.Mutex
	tail    chan struct{}
}

// NewManager creates a Manager with no effects registered
func NewManager(opts ...Option) *Manager {
	done := make(chan struct{})
	close(done)
	m := &Manager{
		handlers:  make(map[string]Effect),
		fxTimeout: DefaultFXTimeout,
		bigWin:    decimal.NewFromInt(DefaultBigWinMultiple),
		megaWin:   decimal.NewFromInt(DefaultMegaWinMultiple),
		tail:      done,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterHandler installs the effect played for name, replacing any previous one
func (m *Manager) RegisterHandler(name string, effect Effect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[name] = effect
}

// UnregisterHandler removes the effect for name
func (m *Manager) UnregisterHandler(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, name)
}

// HasHandler reports whether an effect is registered for name
func (m *Manager) HasHandler(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.handlers[name]
	return ok
}

// PlayFX starts the effect for name and returns a channel that receives its
// outcome once. Names without an effect complete immediately with nil.
func (m *Manager) PlayFX(ctx context.Context, name string, fx FX) <-chan error {
	done := make(chan error, 1)

	m.mu.RLock()
	effect, ok := m.handlers[name]
	m.mu.RUnlock()
	if !ok {
		done <- nil
		close(done)
		return done
	}

	go func() {
		defer close(done)
		done <- m.run(ctx, name, effect, fx)
	}()
	return done
}

// Play runs the effect for name and waits for it
func (m *Manager) Play(ctx context.Context, name string, fx FX) error {
	return <-m.PlayFX(ctx, name, fx)
}

// run executes one effect, bounded by the FX timeout, converting panics to errors
func (m *Manager) run(ctx context.Context, name string, effect Effect, fx FX) error {
	log := logger.FromContext(ctx)
	if m.fxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.fxTimeout)
		defer cancel()
	}

	result := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error(LogMsgEffectPanic, "fx", name, "panic", r)
				result <- fmt.Errorf("%w: %s: %v", domain.ErrEffectPanic, name, r)
			}
		}()
		result <- effect(ctx, fx)
	}()

	select {
	case err := <-result:
		if err != nil {
			log.Warn(LogMsgEffectFailed, "fx", name, "error", err)
		}
		return err
	case <-ctx.Done():
		log.Warn(LogMsgEffectTimeout, "fx", name, "timeout", m.fxTimeout)
		return fmt.Errorf("%w: %s: %w", domain.ErrEffectTimeout, name, ctx.Err())
	}
}

// WinTier names the celebration for a win: megaWin and bigWin at or above
// their bet multiples, smallWin for any other positive win, "" otherwise
func (m *Manager) WinTier(totalWin, bet decimal.Decimal) string {
	if !totalWin.IsPositive() {
		return ""
	}
	if bet.IsPositive() {
		switch {
		case totalWin.GreaterThanOrEqual(bet.Mul(m.megaWin)):
			return FXMegaWin
		case totalWin.GreaterThanOrEqual(bet.Mul(m.bigWin)):
			return FXBigWin
		}
	}
	return FXSmallWin
}

// enqueue appends step to the effect chain. Steps run one at a time, in
// the order they were enqueued, off the caller's goroutine.
func (m *Manager) enqueue(step func()) {
	m.chainMu.Lock()
	prev := m.tail
	done := make(chan struct{})
	m.tail = done
	m.chainMu.Unlock()

	go func() {
		defer close(done)
		<-prev
		step()
	}()
}

// Wait blocks until every enqueued step has run or ctx is done
func (m *Manager) Wait(ctx context.Context) error {
	m.chainMu.Lock()
	tail := m.tail
	m.chainMu.Unlock()

	select {
	case <-tail:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Bind subscribes the manager to the lifecycle events of bus:
// spin:start plays spinStart, reel:stop plays reelStop, win:reveal plays
// the win tier and spin:complete calls ack once everything before it has
// played. Handlers only enqueue, so emits never wait on effects.
// The returned func unsubscribes.
func (m *Manager) Bind(bus event.Bus, ack func(spinID string) bool) func() {
	offs := []func(){
		bus.On(domain.EventSpinStart, func(ctx context.Context, e event.Event) error {
			p, err := event.DecodePayload[domain.SpinStartPayload](e.Payload)
			if err != nil {
				return err
			}
			m.enqueueFX(ctx, FXSpinStart, FX{SpinID: p.SpinID, Bet: p.Bet})
			return nil
		}, DefaultHandlerPriority),

		bus.On(domain.EventReelStop, func(ctx context.Context, e event.Event) error {
			p, err := event.DecodePayload[domain.ReelStopPayload](e.Payload)
			if err != nil {
				return err
			}
			m.enqueueFX(ctx, FXReelStop, FX{SpinID: p.SpinID, ReelIndex: p.ReelIndex, Symbols: p.Symbols})
			return nil
		}, DefaultHandlerPriority),

		bus.On(domain.EventWinReveal, func(ctx context.Context, e event.Event) error {
			p, err := event.DecodePayload[domain.WinRevealPayload](e.Payload)
			if err != nil {
				return err
			}
			tier := p.Tier
			if tier == "" {
				tier = m.WinTier(p.TotalWin, p.Bet)
			}
			m.enqueueFX(ctx, tier, FX{SpinID: p.SpinID, Wins: p.Wins, TotalWin: p.TotalWin, Bet: p.Bet})
			return nil
		}, DefaultHandlerPriority),

		bus.On(domain.EventSpinComplete, func(ctx context.Context, e event.Event) error {
			p, err := event.DecodePayload[domain.SpinCompletePayload](e.Payload)
			if err != nil || p.Result == nil {
				return fmt.Errorf("spin:complete without result: %v", err)
			}
			spinID := p.Result.SpinID
			ctx = context.WithoutCancel(ctx)
			m.enqueue(func() {
				if ack != nil && !ack(spinID) {
					logger.FromContext(ctx).Debug(LogMsgAckIgnored, "spin_id", spinID)
				}
			})
			return nil
		}, DefaultHandlerPriority),
	}

	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// enqueueFX schedules an effect on the chain. Failures are logged by run
// and never reach the spin.
func (m *Manager) enqueueFX(ctx context.Context, name string, fx FX) {
	ctx = context.WithoutCancel(ctx)
	m.enqueue(func() {
		_ = m.Play(ctx, name, fx)
	})
}
