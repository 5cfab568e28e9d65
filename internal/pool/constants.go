package pool

// DefaultMaxSize is the per-symbol live handle limit when none is configured
const DefaultMaxSize = 32

// Log message constants
const (
	LogMsgPoolExhausted  = "Symbol pool exhausted"
	LogMsgFactoryFailed  = "Symbol factory failed"
	LogMsgPoolPrewarmed  = "Symbol pool prewarmed"
	LogMsgPoolDrained    = "Symbol pool drained"
	LogMsgDisposerFailed = "Symbol disposer panicked"
)
