package simulation

// Simulation defaults
const (
	DefaultChunkSize = 10_000
	// MaxFreeSpinsPerRound stops runaway retrigger chains
	MaxFreeSpinsPerRound = 1_000
	// DefaultEnumerationLimit bounds ExactRTP to this many stop combinations
	DefaultEnumerationLimit = 20_000_000
)

// Log message constants
const (
	LogMsgSimulationStarted  = "Simulation started"
	LogMsgSimulationFinished = "Simulation finished"
	LogMsgFreeSpinCapReached = "Free spin round capped"
	LogMsgEnumerationStarted = "Exact RTP enumeration started"
)
