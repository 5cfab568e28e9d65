package spin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/evaluate"
	"github.com/osse101/SlotForge_Go/internal/event"
	"github.com/osse101/SlotForge_Go/internal/reel"
	"github.com/osse101/SlotForge_Go/internal/testing/fixtures"
	"github.com/osse101/SlotForge_Go/internal/testing/leaktest"
)

var allEvents = []event.Type{
	domain.EventSpinStart, domain.EventReelStart, domain.EventReelStop, domain.EventWinReveal,
	domain.EventSpinComplete, domain.EventSpinError, domain.EventFreeSpinsAwarded,
}

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func record(bus event.Bus) *recorder {
	r := &recorder{}
	for _, name := range allEvents {
		bus.On(name, func(ctx context.Context, e event.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, e)
			return nil
		}, 0)
	}
	return r
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = string(e.Type)
	}
	return out
}

func (r *recorder) find(name event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Type == name {
			out = append(out, e)
		}
	}
	return out
}

// newLineManager wires a 5x1 single line game whose stops come from script
func newLineManager(t *testing.T, script []int, opts ...Option) (*Manager, *event.MemoryBus) {
	t.Helper()
	cfg := fixtures.SingleLineGame()
	reels, err := reel.NewManager(cfg, fixtures.NewScriptedRand(script...))
	require.NoError(t, err)
	eval, err := evaluate.New(cfg)
	require.NoError(t, err)
	bus := event.NewMemoryBus()
	ids := 0
	opts = append([]Option{
		WithPresentationTimeout(0),
		WithSpinIDGenerator(func() string { ids++; return "spin-" + string(rune('0'+ids)) }),
	}, opts...)
	return NewManager(reels, eval, bus, opts...), bus
}

func bet(v int64) domain.SpinRequest {
	return domain.SpinRequest{Bet: decimal.NewFromInt(v), Mode: domain.ModeBase}
}

func TestSpin_WinningLifecycle(t *testing.T) {
	// every reel stops on H1: five of a kind pays 100x on the only line
	m, bus := newLineManager(t, []int{0}, WithWinTier(func(total, bet decimal.Decimal) string { return "megaWin" }))
	rec := record(bus)

	result, err := m.Spin(context.Background(), bet(2))

	require.NoError(t, err)
	assert.Equal(t, "200", result.TotalWin.String())
	assert.Equal(t, "spin-1", result.SpinID)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, []string{
		"spin:start",
		"reel:start", "reel:start", "reel:start", "reel:start", "reel:start",
		"reel:stop", "reel:stop", "reel:stop", "reel:stop", "reel:stop",
		"win:reveal",
		"spin:complete",
	}, rec.names())

	for i, e := range rec.find(domain.EventReelStop) {
		payload := e.Payload.(domain.ReelStopPayload)
		assert.Equal(t, i, payload.ReelIndex)
		assert.Equal(t, []string{"H1"}, payload.Symbols)
	}
	reveal := rec.find(domain.EventWinReveal)[0].Payload.(domain.WinRevealPayload)
	assert.Equal(t, "megaWin", reveal.Tier)
	assert.Len(t, reveal.Wins, 1)

	complete := rec.find(domain.EventSpinComplete)[0].Payload.(domain.SpinCompletePayload)
	assert.Equal(t, result.TotalWin, complete.Result.TotalWin)
	assert.NotSame(t, result, complete.Result)
	assert.Equal(t, result.TotalWin, m.LastResult().TotalWin)
}

func TestSpin_LosingSpinSkipsReveal(t *testing.T) {
	m, bus := newLineManager(t, []int{0, 1, 0, 1, 0})
	rec := record(bus)

	result, err := m.Spin(context.Background(), bet(1))

	require.NoError(t, err)
	assert.True(t, result.TotalWin.IsZero())
	assert.Empty(t, rec.find(domain.EventWinReveal))
	assert.Len(t, rec.find(domain.EventSpinComplete), 1)
}

func TestSpin_InvalidRequest(t *testing.T) {
	m, bus := newLineManager(t, []int{0})
	rec := record(bus)

	_, err := m.Spin(context.Background(), domain.SpinRequest{Bet: decimal.Zero, Mode: domain.ModeBase})
	assert.ErrorIs(t, err, domain.ErrInvalidBet)

	_, err = m.Spin(context.Background(), domain.SpinRequest{Bet: decimal.NewFromInt(1), Mode: "turbo"})
	assert.ErrorIs(t, err, domain.ErrInvalidMode)

	assert.Empty(t, rec.names())
	assert.Equal(t, StateIdle, m.State())
}

func TestSpin_BusyDuringPresentation(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		m, bus := newLineManager(t, []int{0}, WithPresentationTimeout(time.Minute))
		rec := record(bus)

		done := make(chan error, 1)
		go func() {
			_, err := m.Spin(context.Background(), bet(1))
			done <- err
		}()
		require.Eventually(t, func() bool { return m.State() == StatePresenting }, time.Second, time.Millisecond)

		before := rec.names()
		last := m.LastResult()

		_, err := m.Spin(context.Background(), bet(1))

		assert.ErrorIs(t, err, domain.ErrSpinBusy)
		assert.Equal(t, StatePresenting, m.State())
		assert.Equal(t, before, rec.names(), "a rejected spin emits nothing")
		assert.Equal(t, last, m.LastResult())

		assert.True(t, m.AcknowledgePresentationComplete())
		require.NoError(t, <-done)
		assert.Equal(t, StateIdle, m.State())
	})
}

func TestSpin_AcknowledgeSpinMatchesID(t *testing.T) {
	m, _ := newLineManager(t, []int{0}, WithPresentationTimeout(time.Minute))

	done := make(chan error, 1)
	go func() {
		_, err := m.Spin(context.Background(), bet(1))
		done <- err
	}()
	require.Eventually(t, func() bool { return m.State() == StatePresenting }, time.Second, time.Millisecond)

	assert.False(t, m.AcknowledgeSpin("someone-else"))
	assert.True(t, m.AcknowledgeSpin("spin-1"))
	require.NoError(t, <-done)
}

func TestSpin_PresentationTimeout(t *testing.T) {
	m, _ := newLineManager(t, []int{0}, WithPresentationTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := m.Spin(context.Background(), bet(1))

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, StateIdle, m.State())
}

func TestSpin_ContextEndsPresentation(t *testing.T) {
	m, _ := newLineManager(t, []int{0}, WithPresentationTimeout(time.Minute))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := m.Spin(ctx, bet(1))

	require.NoError(t, err)
	assert.Equal(t, StateIdle, m.State())
}

func TestSpin_AckWhenIdle(t *testing.T) {
	m, _ := newLineManager(t, []int{0})
	assert.False(t, m.AcknowledgePresentationComplete())
}

func TestSpin_StaleAckDoesNotLeak(t *testing.T) {
	m, _ := newLineManager(t, []int{0}, WithPresentationTimeout(30*time.Millisecond))

	// an ack during Idle is ignored, so the next spin still waits for its timeout
	m.AcknowledgePresentationComplete()
	start := time.Now()
	_, err := m.Spin(context.Background(), bet(1))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSpin_HandlerFailureDoesNotFailSpin(t *testing.T) {
	m, bus := newLineManager(t, []int{0})
	bus.On(domain.EventReelStop, func(ctx context.Context, e event.Event) error {
		return errors.New("texture missing")
	}, 0)
	bus.On(domain.EventWinReveal, func(ctx context.Context, e event.Event) error { panic("fx crash") }, 0)

	result, err := m.Spin(context.Background(), bet(1))

	require.NoError(t, err)
	assert.True(t, result.IsWin())
}

type badGrid struct{}

func (badGrid) GenerateGrid(domain.Mode) (domain.Grid, error) {
	return domain.Grid{{"H1"}, {"H1"}}, nil
}
func (badGrid) Layout() domain.Layout { return domain.Layout{Reels: 5, Rows: 1} }

type panicEval struct{}

func (panicEval) Evaluate(domain.Grid, domain.Mode, decimal.Decimal) (*domain.SpinResult, error) {
	panic("index out of range")
}

type stubEval struct {
	freeSpins int
}

func (s stubEval) Evaluate(grid domain.Grid, mode domain.Mode, bet decimal.Decimal) (*domain.SpinResult, error) {
	return &domain.SpinResult{
		Mode: mode, Bet: bet, Grid: grid, Wins: []domain.WinLine{},
		TotalWin: decimal.Zero, TriggeredFreeSpins: s.freeSpins,
	}, nil
}

func TestSpin_MalformedGridAborts(t *testing.T) {
	bus := event.NewMemoryBus()
	rec := record(bus)
	m := NewManager(badGrid{}, stubEval{}, bus, WithPresentationTimeout(0))

	_, err := m.Spin(context.Background(), bet(1))

	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Equal(t, StateIdle, m.State())
	errs := rec.find(domain.EventSpinError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Payload.(domain.SpinErrorPayload).Reason, "grid is 2x1")
	assert.Empty(t, rec.find(domain.EventSpinComplete))
	assert.Nil(t, m.LastResult())
}

func TestSpin_EvaluatorPanicAborts(t *testing.T) {
	cfg := fixtures.SingleLineGame()
	reels, err := reel.NewManager(cfg, fixtures.NewScriptedRand(0))
	require.NoError(t, err)
	bus := event.NewMemoryBus()
	rec := record(bus)
	m := NewManager(reels, panicEval{}, bus, WithPresentationTimeout(0))

	_, err = m.Spin(context.Background(), bet(1))

	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Equal(t, StateIdle, m.State())
	assert.Len(t, rec.find(domain.EventSpinError), 1)

	// the machine is usable again
	m.eval = stubEval{}
	_, err = m.Spin(context.Background(), bet(1))
	assert.NoError(t, err)
}

func TestSpin_AbortedBonusSpinKeepsFreeSpin(t *testing.T) {
	cfg := fixtures.SingleLineGame()
	reels, err := reel.NewManager(cfg, fixtures.NewScriptedRand(0))
	require.NoError(t, err)
	bus := event.NewMemoryBus()
	m := NewManager(reels, stubEval{freeSpins: 10}, bus, WithPresentationTimeout(0))

	_, err = m.Spin(context.Background(), bet(1))
	require.NoError(t, err)
	require.Equal(t, 10, m.FreeSpinsRemaining())

	m.eval = panicEval{}
	bonus := domain.SpinRequest{Bet: decimal.NewFromInt(1), Mode: domain.ModeBonus}
	_, err = m.Spin(context.Background(), bonus)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Equal(t, 10, m.FreeSpinsRemaining())

	m.eval = stubEval{}
	_, err = m.Spin(context.Background(), bonus)
	require.NoError(t, err)
	assert.Equal(t, 9, m.FreeSpinsRemaining())
}

func TestSpin_FreeSpinBookkeeping(t *testing.T) {
	cfg := fixtures.SingleLineGame()
	reels, err := reel.NewManager(cfg, fixtures.NewScriptedRand(0))
	require.NoError(t, err)
	bus := event.NewMemoryBus()
	rec := record(bus)
	m := NewManager(reels, stubEval{freeSpins: 10}, bus, WithPresentationTimeout(0))

	_, err = m.Spin(context.Background(), bet(1))
	require.NoError(t, err)
	assert.Equal(t, 10, m.FreeSpinsRemaining())
	awarded := rec.find(domain.EventFreeSpinsAwarded)
	require.Len(t, awarded, 1)
	assert.Equal(t, domain.FreeSpinsAwardedPayload{SpinID: awarded[0].Payload.(domain.FreeSpinsAwardedPayload).SpinID, Awarded: 10, Remaining: 10},
		awarded[0].Payload)

	m.eval = stubEval{}
	_, err = m.Spin(context.Background(), domain.SpinRequest{Bet: decimal.NewFromInt(1), Mode: domain.ModeBonus})
	require.NoError(t, err)
	assert.Equal(t, 9, m.FreeSpinsRemaining())

	_, err = m.Spin(context.Background(), bet(1))
	require.NoError(t, err)
	assert.Equal(t, 9, m.FreeSpinsRemaining(), "base spins do not consume free spins")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "presenting", StatePresenting.String())
	assert.Equal(t, "unknown", State(42).String())
}
