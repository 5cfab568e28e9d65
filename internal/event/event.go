// Package event provides the in-process pub/sub bus that drives presentation.
package event

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/logger"
)

// Type is the name of an event, e.g. "spin:start"
type Type string

// Event is the value handed to every handler. Handlers must not mutate the payload.
type Event struct {
	Version   string    `json:"version"`
	Type      Type      `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	// On registers a handler. Handlers with a higher priority run first;
	// equal priorities run in registration order. The returned func unsubscribes.
	On(eventType Type, handler Handler, priority int) func()
	// Emit wraps the payload in an Event and publishes it
	Emit(ctx context.Context, eventType Type, payload any) error
	// Publish runs every handler for the event in order and waits for all of them
	Publish(ctx context.Context, event Event) error
}

type subscription struct {
	id       uint64
	priority int
	handler  Handler
}

// ErrorHook observes every handler failure, panics included
type ErrorHook func(eventType Type, err error)

// Option configures a MemoryBus
type Option func(*MemoryBus)

// WithErrorHook installs a hook called once per failed handler
func WithErrorHook(hook ErrorHook) Option {
	return func(b *MemoryBus) {
		b.onError = hook
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(b *MemoryBus) {
		b.now = now
	}
}

// MemoryBus is an in-memory implementation of the Event Bus.
// Handlers run sequentially on the emitting goroutine.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[Type][]subscription
	nextID   uint64
	onError  ErrorHook
	now      func() time.Time
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus(opts ...Option) *MemoryBus {
	b := &MemoryBus{
		handlers: make(map[Type][]subscription),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// On registers a handler at the given priority
func (b *MemoryBus) On(eventType Type, handler Handler, priority int) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	subs := append(b.handlers[eventType], subscription{id: id, priority: priority, handler: handler})
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].priority > subs[j].priority
	})
	b.handlers[eventType] = subs

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(eventType, id) })
	}
}

func (b *MemoryBus) remove(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	kept := make([]subscription, 0, len(subs))
	for _, s := range subs {
		if s.id != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.handlers, eventType)
		return
	}
	b.handlers[eventType] = kept
}

// Emit publishes a payload under eventType, stamped with the bus clock
func (b *MemoryBus) Emit(ctx context.Context, eventType Type, payload any) error {
	return b.Publish(ctx, Event{
		Version:   EventSchemaVersion,
		Type:      eventType,
		Payload:   payload,
		Timestamp: b.now(),
	})
}

// Publish publishes an event to all subscribers. A failing or panicking
// handler does not stop the ones after it; all failures come back joined.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	subs := b.handlers[event.Type]
	// snapshot so handlers may subscribe or unsubscribe while we iterate
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	b.mu.RUnlock()

	var errs []error
	for _, s := range snapshot {
		if err := b.invoke(ctx, s.handler, event); err != nil {
			errs = append(errs, err)
			if b.onError != nil {
				b.onError(event.Type, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// HandlerCount reports how many handlers are registered for eventType
func (b *MemoryBus) HandlerCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

func (b *MemoryBus) invoke(ctx context.Context, h Handler, event Event) (err error) {
	log := logger.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error(LogMsgHandlerPanic, "event_type", event.Type, "panic", r)
			err = fmt.Errorf("%w: %v", domain.ErrHandlerPanic, r)
		}
	}()

	if err := h(ctx, event); err != nil {
		log.Warn(LogMsgHandlerFailed, "event_type", event.Type, "error", err)
		return err
	}
	return nil
}
