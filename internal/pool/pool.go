// Package pool hands out reusable renderable symbol instances, bounded per symbol.
package pool

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/SlotForge_Go/internal/concurrency"
	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/logger"
	"github.com/osse101/SlotForge_Go/internal/metrics"
)

// Factory creates a fresh instance for a symbol
type Factory func(ctx context.Context, symbolID string) (any, error)

// Disposer releases an instance dropped from the pool
type Disposer func(symbolID string, instance any)

// OverflowPolicy decides what Acquire does when a symbol is at its limit
type OverflowPolicy int

const (
	// OverflowReject fails fast with domain.ErrPoolExhausted
	OverflowReject OverflowPolicy = iota
	// OverflowBlock waits for a release or for the context to end
	OverflowBlock
)

func (p OverflowPolicy) String() string {
	if p == OverflowBlock {
		return "block"
	}
	return "reject"
}

// ParseOverflowPolicy maps "reject" or "block" to a policy
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(s) {
	case "", "reject":
		return OverflowReject, nil
	case "block":
		return OverflowBlock, nil
	default:
		return OverflowReject, fmt.Errorf("unknown overflow policy %q", s)
	}
}

// Handle is a live instance checked out of the pool
type Handle struct {
	ID       uuid.UUID
	SymbolID string
	Instance any
}

// KeyStats describes one symbol's pool
type KeyStats struct {
	Live int
	Idle int
}

// Option configures a Pool
type Option func(*Pool)

// WithMaxSize sets the live handle limit per symbol
func WithMaxSize(n int) Option {
	return func(p *Pool) { p.max = n }
}

// WithOverflowPolicy sets the behaviour at the limit
func WithOverflowPolicy(policy OverflowPolicy) Option {
	return func(p *Pool) { p.policy = policy }
}

// WithDisposer is called for every idle instance dropped by Drain or Close
func WithDisposer(d Disposer) Option {
	return func(p *Pool) { p.dispose = d }
}

// Pool keeps idle instances per symbol and caps how many are live at once
type Pool struct {
	factory Factory
	dispose Disposer
	max     int
	policy  OverflowPolicy
	slots   *concurrency.KeyedSemaphore

	mu     sync.Mutex
	idle   map[string][]any
	live   map[uuid.UUID]*Handle
	closed bool
}

// New creates a pool backed by factory
func New(factory Factory, opts ...Option) *Pool {
	p := &Pool{
		factory: factory,
		max:     DefaultMaxSize,
		policy:  OverflowReject,
		idle:    make(map[string][]any),
		live:    make(map[uuid.UUID]*Handle),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.max < 1 {
		p.max = 1
	}
	p.slots = concurrency.NewKeyedSemaphore(p.max)
	return p
}

// MaxSize returns the per-symbol live handle limit
func (p *Pool) MaxSize() int { return p.max }

// Acquire checks out an instance of symbolID, reusing an idle one when possible
func (p *Pool) Acquire(ctx context.Context, symbolID string) (*Handle, error) {
	return p.acquire(ctx, symbolID, p.policy == OverflowBlock)
}

// TryAcquire is Acquire without waiting: at the limit it fails with
// domain.ErrPoolExhausted whatever the overflow policy.
func (p *Pool) TryAcquire(ctx context.Context, symbolID string) (*Handle, error) {
	return p.acquire(ctx, symbolID, false)
}

func (p *Pool) acquire(ctx context.Context, symbolID string, wait bool) (*Handle, error) {
	if p.isClosed() {
		return nil, domain.ErrPoolClosed
	}

	if err := p.takeSlot(ctx, symbolID, wait); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.slots.Release(symbolID)
		return nil, domain.ErrPoolClosed
	}
	var instance any
	if idle := p.idle[symbolID]; len(idle) > 0 {
		instance = idle[len(idle)-1]
		p.idle[symbolID] = idle[:len(idle)-1]
	}
	p.mu.Unlock()

	if instance == nil {
		var err error
		instance, err = p.factory(ctx, symbolID)
		if err != nil {
			p.slots.Release(symbolID)
			logger.FromContext(ctx).Warn(LogMsgFactoryFailed, "symbol", symbolID, "error", err)
			return nil, fmt.Errorf("create %s instance: %w", symbolID, err)
		}
	}

	h := &Handle{ID: uuid.New(), SymbolID: symbolID, Instance: instance}
	p.mu.Lock()
	p.live[h.ID] = h
	p.mu.Unlock()

	metrics.PoolAcquires.WithLabelValues(symbolID, metrics.ResultOK).Inc()
	metrics.PoolLiveHandles.WithLabelValues(symbolID).Inc()
	return h, nil
}

func (p *Pool) takeSlot(ctx context.Context, symbolID string, wait bool) error {
	if wait {
		if err := p.slots.Acquire(ctx, symbolID); err != nil {
			metrics.PoolAcquires.WithLabelValues(symbolID, metrics.ResultCanceled).Inc()
			return fmt.Errorf("%w: %s: %w", domain.ErrPoolExhausted, symbolID, err)
		}
		return nil
	}
	if !p.slots.TryAcquire(symbolID) {
		metrics.PoolAcquires.WithLabelValues(symbolID, metrics.ResultExhausted).Inc()
		logger.FromContext(ctx).Debug(LogMsgPoolExhausted, "symbol", symbolID, "max", p.max)
		return fmt.Errorf("%w: %s has %d live handles", domain.ErrPoolExhausted, symbolID, p.max)
	}
	return nil
}

// Release returns a handle's instance to the pool. Releasing a handle that
// is not live fails with domain.ErrHandleNotLive.
func (p *Pool) Release(h *Handle) error {
	if h == nil {
		return domain.ErrHandleNotLive
	}

	p.mu.Lock()
	if _, ok := p.live[h.ID]; !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrHandleNotLive, h.ID)
	}
	delete(p.live, h.ID)
	var dropped any
	if p.closed || len(p.idle[h.SymbolID]) >= p.max {
		dropped = h.Instance
	} else {
		p.idle[h.SymbolID] = append(p.idle[h.SymbolID], h.Instance)
	}
	p.mu.Unlock()

	p.slots.Release(h.SymbolID)
	metrics.PoolLiveHandles.WithLabelValues(h.SymbolID).Dec()
	if dropped != nil {
		p.disposeAll(context.Background(), h.SymbolID, []any{dropped})
	}
	return nil
}

// Prewarm fills the idle list of symbolID up to n instances, capped at the max size
func (p *Pool) Prewarm(ctx context.Context, symbolID string, n int) error {
	if n > p.max {
		n = p.max
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return domain.ErrPoolClosed
	}
	missing := n - len(p.idle[symbolID])
	p.mu.Unlock()

	created := make([]any, 0, max(missing, 0))
	for i := 0; i < missing; i++ {
		instance, err := p.factory(ctx, symbolID)
		if err != nil {
			p.disposeAll(ctx, symbolID, created)
			return fmt.Errorf("prewarm %s: %w", symbolID, err)
		}
		created = append(created, instance)
	}

	p.mu.Lock()
	p.idle[symbolID] = append(p.idle[symbolID], created...)
	p.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgPoolPrewarmed, "symbol", symbolID, "idle", n)
	return nil
}

// Stats returns live and idle counts per symbol
func (p *Pool) Stats() map[string]KeyStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]KeyStats)
	for id, idle := range p.idle {
		s := out[id]
		s.Idle = len(idle)
		out[id] = s
	}
	for _, h := range p.live {
		s := out[h.SymbolID]
		s.Live++
		out[h.SymbolID] = s
	}
	return out
}

// Live returns the number of live handles of symbolID
func (p *Pool) Live(symbolID string) int {
	return p.Stats()[symbolID].Live
}

// Drain drops every idle instance. Live handles are untouched.
func (p *Pool) Drain(ctx context.Context) {
	p.mu.Lock()
	idle := p.idle
	p.idle = make(map[string][]any)
	p.mu.Unlock()

	ids := make([]string, 0, len(idle))
	for id := range idle {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p.disposeAll(ctx, id, idle[id])
	}
	logger.FromContext(ctx).Debug(LogMsgPoolDrained, "symbols", len(ids))
}

// Close drains the pool and rejects further acquisitions. Outstanding
// handles may still be released; their instances are disposed.
func (p *Pool) Close(ctx context.Context) {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.Drain(ctx)
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Pool) disposeAll(ctx context.Context, symbolID string, instances []any) {
	if p.dispose == nil {
		return
	}
	for _, instance := range instances {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.FromContext(ctx).Error(LogMsgDisposerFailed, "symbol", symbolID, "panic", r)
				}
			}()
			p.dispose(symbolID, instance)
		}()
	}
}
