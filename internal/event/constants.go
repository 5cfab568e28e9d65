package event

// EventSchemaVersion is the version stamped on every emitted event
const EventSchemaVersion = "1.0"

// Default handler priorities. Higher runs first.
const (
	PriorityHigh    = 100
	PriorityNormal  = 0
	PriorityMetrics = -100
)

// Log message constants
const (
	LogMsgHandlerFailed = "Event handler failed"
	LogMsgHandlerPanic  = "Event handler panicked"

	// LogMsgHandlerErrorFormat wraps the aggregated handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %w"
)
