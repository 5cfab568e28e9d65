// Package spin runs the spin lifecycle: draw, evaluate, present, complete.
package spin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/event"
	"github.com/osse101/SlotForge_Go/internal/logger"
	"github.com/osse101/SlotForge_Go/internal/metrics"
)

// GridGenerator draws the visible grid for a spin
type GridGenerator interface {
	GenerateGrid(mode domain.Mode) (domain.Grid, error)
	Layout() domain.Layout
}

// Evaluator scores a grid
type Evaluator interface {
	Evaluate(grid domain.Grid, mode domain.Mode, bet decimal.Decimal) (*domain.SpinResult, error)
}

// TierFunc names the presentation tier of a win, e.g. "bigWin"
type TierFunc func(totalWin, bet decimal.Decimal) string

// Option configures a Manager
type Option func(*Manager)

// WithPresentationTimeout sets how long Presenting waits for an
// acknowledgement. Zero or less completes immediately.
func WithPresentationTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithWinTier sets the tier reported in win:reveal
func WithWinTier(fn TierFunc) Option {
	return func(m *Manager) { m.tier = fn }
}

// WithSpinIDGenerator overrides spin id generation
func WithSpinIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// Manager owns the state machine of a single game session. One spin may be
// in flight at a time; a second request while not Idle is rejected.
type Manager struct {
	reels GridGenerator
	eval  Evaluator
	bus   event.Bus

	timeout time.Duration
	tier    TierFunc
	newID   func() string

	mu        sync.Mutex
	state     State
	currentID string
	last      *domain.SpinResult
	freeSpins int

	ack chan struct{}
}

// NewManager creates a spin manager in the Idle state
func NewManager(reels GridGenerator, eval Evaluator, bus event.Bus, opts ...Option) *Manager {
	m := &Manager{
		reels:   reels,
		eval:    eval,
		bus:     bus,
		timeout: DefaultPresentationTimeout,
		newID:   logger.GenerateSpinID,
		ack:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastResult returns a copy of the most recent completed result, or nil
func (m *Manager) LastResult() *domain.SpinResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last.Clone()
}

// FreeSpinsRemaining returns the unplayed free spins of this session
func (m *Manager) FreeSpinsRemaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.freeSpins
}

// AcknowledgePresentationComplete ends the Presenting wait of the current
// spin. It returns false when no spin is presenting.
func (m *Manager) AcknowledgePresentationComplete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acknowledgeLocked()
}

// AcknowledgeSpin is AcknowledgePresentationComplete scoped to one spin id,
// so a late acknowledgement cannot end a later spin's presentation
func (m *Manager) AcknowledgeSpin(spinID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if spinID != m.currentID {
		return false
	}
	return m.acknowledgeLocked()
}

func (m *Manager) acknowledgeLocked() bool {
	if m.state != StatePresenting {
		return false
	}
	select {
	case m.ack <- struct{}{}:
	default:
	}
	return true
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Spin plays one spin to completion. It blocks through the presentation
// phase until acknowledged, timed out, or ctx is done. A request made while
// another spin is in flight fails with domain.ErrSpinBusy and changes nothing.
func (m *Manager) Spin(ctx context.Context, req domain.SpinRequest) (result *domain.SpinResult, err error) {
	log := logger.FromContext(ctx)

	if err := req.Validate(); err != nil {
		log.Debug(LogMsgSpinRejectedInvalid, "error", err)
		metrics.SpinsRejected.WithLabelValues(metrics.ReasonInvalid).Inc()
		return nil, err
	}

	m.mu.Lock()
	if m.state != StateIdle {
		state := m.state
		m.mu.Unlock()
		log.Debug(LogMsgSpinRejectedBusy, "state", state.String())
		metrics.SpinsRejected.WithLabelValues(metrics.ReasonBusy).Inc()
		return nil, fmt.Errorf("%w (state %s)", domain.ErrSpinBusy, state)
	}
	spinID := m.newID()
	m.state = StateSpinning
	m.currentID = spinID
	// drop an acknowledgement left over from a previous spin
	select {
	case <-m.ack:
	default:
	}
	m.mu.Unlock()

	ctx = logger.WithSpinID(ctx, spinID)
	log = logger.FromContext(ctx)
	log.Debug(LogMsgSpinStarted, "bet", req.Bet.String(), "mode", req.Mode)

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = m.abort(ctx, spinID, fmt.Sprintf("panic: %v", r))
		}
	}()

	result, reason := m.run(ctx, spinID, req)
	if reason != "" {
		return nil, m.abort(ctx, spinID, reason)
	}

	m.present(ctx)

	m.setState(StateComplete)
	log.Debug(LogMsgSpinCompleted, "total_win", result.TotalWin.String())
	m.setState(StateIdle)
	return result, nil
}

// run drives Spinning and Evaluating and publishes the outcome. A non-empty
// reason reports an invariant violation.
func (m *Manager) run(ctx context.Context, spinID string, req domain.SpinRequest) (*domain.SpinResult, string) {
	layout := m.reels.Layout()

	m.emit(ctx, domain.EventSpinStart, domain.SpinStartPayload{SpinID: spinID, Bet: req.Bet, Mode: req.Mode})
	for reel := 0; reel < layout.Reels; reel++ {
		m.emit(ctx, domain.EventReelStart, domain.ReelStartPayload{SpinID: spinID, ReelIndex: reel})
	}

	grid, err := m.reels.GenerateGrid(req.Mode)
	if err != nil {
		return nil, fmt.Sprintf("grid generation failed: %v", err)
	}
	if !grid.Fits(layout) {
		return nil, fmt.Sprintf("grid is %dx%d, layout is %dx%d", grid.Reels(), grid.Rows(), layout.Reels, layout.Rows)
	}

	for reel := 0; reel < layout.Reels; reel++ {
		m.emit(ctx, domain.EventReelStop, domain.ReelStopPayload{
			SpinID:    spinID,
			ReelIndex: reel,
			Symbols:   append([]string(nil), grid[reel]...),
		})
	}

	m.setState(StateEvaluating)
	result, err := m.eval.Evaluate(grid, req.Mode, req.Bet)
	if err != nil {
		return nil, fmt.Sprintf("evaluation failed: %v", err)
	}
	if result == nil {
		return nil, "evaluator returned no result"
	}
	result.SpinID = spinID

	m.mu.Lock()
	m.state = StatePresenting
	m.last = result.Clone()
	// a free spin is spent only once it has an outcome
	if req.Mode == domain.ModeBonus && m.freeSpins > 0 {
		m.freeSpins--
	}
	m.freeSpins += result.TriggeredFreeSpins
	remaining := m.freeSpins
	m.mu.Unlock()

	if result.IsWin() {
		reveal := result.Clone()
		tier := ""
		if m.tier != nil {
			tier = m.tier(result.TotalWin, result.Bet)
		}
		m.emit(ctx, domain.EventWinReveal, domain.WinRevealPayload{
			SpinID:   spinID,
			Wins:     reveal.Wins,
			TotalWin: result.TotalWin,
			Bet:      result.Bet,
			Tier:     tier,
		})
	}
	if result.TriggeredFreeSpins > 0 {
		m.emit(ctx, domain.EventFreeSpinsAwarded, domain.FreeSpinsAwardedPayload{
			SpinID:    spinID,
			Awarded:   result.TriggeredFreeSpins,
			Remaining: remaining,
		})
	}
	m.emit(ctx, domain.EventSpinComplete, domain.SpinCompletePayload{Result: result.Clone()})

	return result, ""
}

// present waits in Presenting for an acknowledgement or the timeout
func (m *Manager) present(ctx context.Context) {
	if m.timeout <= 0 {
		return
	}

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case <-m.ack:
	case <-timer.C:
		metrics.PresentationTimeouts.Inc()
		logger.FromContext(ctx).Warn(LogMsgPresentationTimeout, "timeout", m.timeout)
	case <-ctx.Done():
		logger.FromContext(ctx).Debug(LogMsgPresentationCanceled, "error", ctx.Err())
	}
}

// abort reports an invariant violation and forces the machine back to Idle
func (m *Manager) abort(ctx context.Context, spinID, reason string) error {
	logger.FromContext(ctx).Error(LogMsgInvariantViolation, "reason", reason)
	m.setState(StateIdle)
	m.emit(ctx, domain.EventSpinError, domain.SpinErrorPayload{SpinID: spinID, Reason: reason})
	return fmt.Errorf("%w: %s", domain.ErrInvariantViolation, reason)
}

// emit publishes and logs handler failures; presentation faults never fail a spin
func (m *Manager) emit(ctx context.Context, eventType event.Type, payload any) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Emit(ctx, eventType, payload); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEmitFailed, "event_type", eventType, "error", err)
	}
}
