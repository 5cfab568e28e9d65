package engine

// Log message constants
const (
	LogMsgEngineReady         = "Engine ready"
	LogMsgSymbolAcquireFailed = "Could not acquire symbol handle"
	LogMsgSymbolReleaseFailed = "Could not release symbol handle"
)
