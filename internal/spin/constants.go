package spin

import "time"

// DefaultPresentationTimeout completes a presentation nobody acknowledged
const DefaultPresentationTimeout = 5 * time.Second

// Log message constants
const (
	LogMsgSpinStarted          = "Spin started"
	LogMsgSpinCompleted        = "Spin completed"
	LogMsgSpinRejectedBusy     = "Spin rejected, another spin is in progress"
	LogMsgSpinRejectedInvalid  = "Spin rejected, invalid request"
	LogMsgInvariantViolation   = "Spin aborted by invariant violation"
	LogMsgEmitFailed           = "Event handlers reported errors"
	LogMsgPresentationTimeout  = "Presentation not acknowledged before timeout"
	LogMsgPresentationCanceled = "Presentation wait canceled by context"
)
