package animation

import "time"

// Effect names derived from lifecycle events
const (
	FXSpinStart = "spinStart"
	FXReelStop  = "reelStop"
	FXSmallWin  = "smallWin"
	FXBigWin    = "bigWin"
	FXMegaWin   = "megaWin"
)

// Defaults for tiers and effect bounds
const (
	DefaultFXTimeout       = 3 * time.Second
	DefaultBigWinMultiple  = 10
	DefaultMegaWinMultiple = 50
	DefaultHandlerPriority = 100
)

// Log message constants
const (
	LogMsgEffectFailed  = "Effect failed"
	LogMsgEffectPanic   = "Effect panicked"
	LogMsgEffectTimeout = "Effect timed out"
	LogMsgAckIgnored    = "Presentation acknowledgement ignored"
)
