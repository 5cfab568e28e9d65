package metrics

// Namespace prefixes every metric exported by the engine
const Namespace = "slotforge"

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Spin metric names
const (
	MetricNameSpinsTotal           = "spins_total"
	MetricNameSpinsRejected        = "spins_rejected_total"
	MetricNameSpinErrors           = "spin_errors_total"
	MetricNameWinMultiplier        = "win_multiplier"
	MetricNameFreeSpinsAwarded     = "free_spins_awarded_total"
	MetricNamePresentationTimeouts = "presentation_timeouts_total"
	MetricNameSimulatedRTP         = "simulated_rtp_percent"
)

// Pool metric names
const (
	MetricNamePoolAcquires    = "symbol_pool_acquires_total"
	MetricNamePoolLiveHandles = "symbol_pool_live_handles"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Spin metric help text
const (
	HelpTextSpinsTotal           = "Total number of completed spins"
	HelpTextSpinsRejected        = "Total number of spin requests rejected before starting"
	HelpTextSpinErrors           = "Total number of spins aborted by an internal error"
	HelpTextWinMultiplier        = "Total win of winning spins as a multiple of the bet"
	HelpTextFreeSpinsAwarded     = "Total number of free spins awarded"
	HelpTextPresentationTimeouts = "Total number of presentations completed by timeout instead of acknowledgement"
	HelpTextSimulatedRTP         = "Return to player of the last simulation run, in percent"
)

// Pool metric help text
const (
	HelpTextPoolAcquires    = "Total number of symbol handle acquisitions"
	HelpTextPoolLiveHandles = "Current number of live symbol handles"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelMode    = "mode"
	LabelOutcome = "outcome"
	LabelReason  = "reason"
	LabelResult  = "result"
	LabelSymbol  = "symbol"
	LabelGame    = "game"
)

// Label values
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"

	ReasonBusy    = "busy"
	ReasonInvalid = "invalid"

	ResultOK        = "ok"
	ResultExhausted = "exhausted"
	ResultCanceled  = "canceled"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// WinMultiplierBuckets covers sub-stake wins up to typical max win caps
var WinMultiplierBuckets = []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
