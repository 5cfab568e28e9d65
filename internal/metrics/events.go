package metrics

import (
	"context"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/event"
	"github.com/osse101/SlotForge_Go/internal/logger"
)

// EventMetricsCollector subscribes to lifecycle events and records metrics
type EventMetricsCollector struct {
	unsubscribe []func()
}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// TrackedEvents lists every event type the collector counts
var TrackedEvents = []event.Type{
	domain.EventSpinStart,
	domain.EventReelStart,
	domain.EventReelStop,
	domain.EventWinReveal,
	domain.EventSpinComplete,
	domain.EventSpinError,
	domain.EventFreeSpinsAwarded,
}

// Register subscribes to the tracked events at metrics priority, so
// presentation handlers always run before the collector
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, eventType := range TrackedEvents {
		e.unsubscribe = append(e.unsubscribe, bus.On(eventType, e.HandleEvent, event.PriorityMetrics))
	}
}

// Unregister removes every subscription made by Register
func (e *EventMetricsCollector) Unregister() {
	for _, off := range e.unsubscribe {
		off()
	}
	e.unsubscribe = nil
}

// HandlerErrorHook feeds bus handler failures into EventHandlerErrors
func HandlerErrorHook(eventType event.Type, _ error) {
	EventHandlerErrors.WithLabelValues(string(eventType)).Inc()
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case domain.EventSpinComplete:
		payload, err := event.DecodePayload[domain.SpinCompletePayload](evt.Payload)
		if err != nil || payload.Result == nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type)
			return nil
		}
		RecordSpin(payload.Result)

	case domain.EventSpinError:
		SpinErrors.Inc()

	case domain.EventFreeSpinsAwarded:
		payload, err := event.DecodePayload[domain.FreeSpinsAwardedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type)
			return nil
		}
		FreeSpinsAwarded.Add(float64(payload.Awarded))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

// RecordSpin counts a finished spin and observes its win multiple
func RecordSpin(result *domain.SpinResult) {
	mode := string(result.Mode)
	if !result.IsWin() {
		SpinsTotal.WithLabelValues(mode, OutcomeLoss).Inc()
		return
	}
	SpinsTotal.WithLabelValues(mode, OutcomeWin).Inc()
	if result.Bet.IsPositive() {
		multiple, _ := result.TotalWin.Div(result.Bet).Float64()
		WinMultiplier.WithLabelValues(mode).Observe(multiple)
	}
}
