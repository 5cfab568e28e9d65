package domain

import "github.com/shopspring/decimal"

// Lifecycle event names emitted by the spin manager.
//
// Event names follow the pattern <subject>:<action> (e.g., "reel:stop")
const (
	// EventSpinStart is emitted when a spin leaves Idle
	EventSpinStart = "spin:start"

	// EventReelStart is emitted once per reel, in reel order, before the grid is drawn
	EventReelStart = "reel:start"

	// EventReelStop is emitted once per reel, in reel order, after the grid is drawn
	EventReelStop = "reel:stop"

	// EventWinReveal is emitted when the spin paid anything
	EventWinReveal = "win:reveal"

	// EventSpinComplete is emitted for every spin that reached presentation
	EventSpinComplete = "spin:complete"

	// EventSpinError is emitted when a spin is aborted by an internal fault
	EventSpinError = "spin:error"

	// EventFreeSpinsAwarded is emitted when a spin awards free spins
	EventFreeSpinsAwarded = "freespins:awarded"
)

// SpinStartPayload is the payload of spin:start
type SpinStartPayload struct {
	SpinID string          `json:"spin_id"`
	Bet    decimal.Decimal `json:"bet"`
	Mode   Mode            `json:"mode"`
}

// ReelStartPayload is the payload of reel:start
type ReelStartPayload struct {
	SpinID    string `json:"spin_id"`
	ReelIndex int    `json:"reel_index"`
}

// ReelStopPayload is the payload of reel:stop
type ReelStopPayload struct {
	SpinID    string   `json:"spin_id"`
	ReelIndex int      `json:"reel_index"`
	Symbols   []string `json:"symbols"`
}

// WinRevealPayload is the payload of win:reveal
type WinRevealPayload struct {
	SpinID   string          `json:"spin_id"`
	Wins     []WinLine       `json:"wins"`
	TotalWin decimal.Decimal `json:"total_win"`
	Bet      decimal.Decimal `json:"bet"`
	Tier     string          `json:"tier,omitempty"`
}

// SpinCompletePayload is the payload of spin:complete
type SpinCompletePayload struct {
	Result *SpinResult `json:"result"`
}

// SpinErrorPayload is the payload of spin:error
type SpinErrorPayload struct {
	SpinID string `json:"spin_id"`
	Reason string `json:"reason"`
}

// FreeSpinsAwardedPayload is the payload of freespins:awarded
type FreeSpinsAwardedPayload struct {
	SpinID    string `json:"spin_id"`
	Awarded   int    `json:"awarded"`
	Remaining int    `json:"remaining"`
}
