package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Configuration errors
	ErrMsgInvalidConfig  = "invalid game configuration"
	ErrMsgUnknownSymbol  = "unknown symbol"
	ErrMsgUnknownPayment = "unknown payment type"

	// Spin errors
	ErrMsgSpinBusy            = "spin already in progress"
	ErrMsgInvalidBet          = "bet must be greater than zero"
	ErrMsgInvalidMode         = "invalid spin mode"
	ErrMsgInvariantViolation  = "internal invariant violated"
	ErrMsgMalformedGrid       = "malformed grid"
	ErrMsgEnumerationTooLarge = "stop space too large to enumerate"

	// Presentation errors
	ErrMsgHandlerPanic  = "event handler panicked"
	ErrMsgEffectPanic   = "effect panicked"
	ErrMsgEffectTimeout = "effect timed out"

	// Pool errors
	ErrMsgPoolExhausted = "symbol pool exhausted"
	ErrMsgHandleNotLive = "handle is not live"
	ErrMsgPoolClosed    = "symbol pool closed"
)

var (
	// ErrInvalidConfig is returned (wrapped) for every configuration validation failure
	ErrInvalidConfig = errors.New(ErrMsgInvalidConfig)
	// ErrUnknownSymbol is returned when a symbol id is not present in the symbol table
	ErrUnknownSymbol = errors.New(ErrMsgUnknownSymbol)
	// ErrUnknownPayment is returned when a payment type string cannot be resolved
	ErrUnknownPayment = errors.New(ErrMsgUnknownPayment)

	// ErrSpinBusy is returned when a spin is requested while another is in flight
	ErrSpinBusy = errors.New(ErrMsgSpinBusy)
	// ErrInvalidBet is returned for non-positive bets
	ErrInvalidBet = errors.New(ErrMsgInvalidBet)
	// ErrInvalidMode is returned for spin modes other than base and bonus
	ErrInvalidMode = errors.New(ErrMsgInvalidMode)
	// ErrInvariantViolation marks programming-contract failures inside a spin
	ErrInvariantViolation = errors.New(ErrMsgInvariantViolation)
	// ErrMalformedGrid is returned when a grid does not match the configured layout
	ErrMalformedGrid = errors.New(ErrMsgMalformedGrid)
	// ErrEnumerationTooLarge is returned when exact RTP enumeration would exceed its bound
	ErrEnumerationTooLarge = errors.New(ErrMsgEnumerationTooLarge)

	ErrHandlerPanic  = errors.New(ErrMsgHandlerPanic)
	ErrEffectPanic   = errors.New(ErrMsgEffectPanic)
	ErrEffectTimeout = errors.New(ErrMsgEffectTimeout)

	// ErrPoolExhausted is returned by Acquire under the reject overflow policy
	ErrPoolExhausted = errors.New(ErrMsgPoolExhausted)
	// ErrHandleNotLive is returned when releasing a handle twice or one from another pool
	ErrHandleNotLive = errors.New(ErrMsgHandleNotLive)
	ErrPoolClosed    = errors.New(ErrMsgPoolClosed)
)
