package engine

import (
	"context"
	"sync"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/event"
	"github.com/osse101/SlotForge_Go/internal/logger"
	"github.com/osse101/SlotForge_Go/internal/pool"
)

// symbolView keeps one pooled handle per visible cell. A reel's previous
// handles go back to the pool as soon as the reel stops on new symbols.
// It runs inside the reel:stop emit, so it never waits on the pool.
type symbolView struct {
	pool *pool.Pool

	mu    sync.Mutex
	reels [][]*pool.Handle
	offs  []func()
}

func newSymbolView(p *pool.Pool, reels int) *symbolView {
	return &symbolView{pool: p, reels: make([][]*pool.Handle, reels)}
}

func (v *symbolView) bind(bus event.Bus) {
	v.offs = append(v.offs, bus.On(domain.EventReelStop, v.onReelStop, event.PriorityHigh))
}

func (v *symbolView) onReelStop(ctx context.Context, e event.Event) error {
	p, err := event.DecodePayload[domain.ReelStopPayload](e.Payload)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if p.ReelIndex < 0 || p.ReelIndex >= len(v.reels) {
		return nil
	}

	v.releaseLocked(ctx, p.ReelIndex)
	handles := make([]*pool.Handle, 0, len(p.Symbols))
	for _, id := range p.Symbols {
		h, err := v.pool.TryAcquire(ctx, id)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgSymbolAcquireFailed, "symbol", id, "error", err)
			handles = append(handles, nil)
			continue
		}
		handles = append(handles, h)
	}
	v.reels[p.ReelIndex] = handles
	return nil
}

func (v *symbolView) releaseLocked(ctx context.Context, reel int) {
	for _, h := range v.reels[reel] {
		if h == nil {
			continue
		}
		if err := v.pool.Release(h); err != nil {
			logger.FromContext(ctx).Warn(LogMsgSymbolReleaseFailed, "symbol", h.SymbolID, "error", err)
		}
	}
	v.reels[reel] = nil
}

func (v *symbolView) snapshot() [][]*pool.Handle {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([][]*pool.Handle, len(v.reels))
	for i, col := range v.reels {
		out[i] = append([]*pool.Handle(nil), col...)
	}
	return out
}

func (v *symbolView) close(ctx context.Context) {
	for _, off := range v.offs {
		off()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for reel := range v.reels {
		v.releaseLocked(ctx, reel)
	}
}
