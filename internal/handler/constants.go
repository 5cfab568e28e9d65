package handler

// User-facing error messages
const (
	ErrMsgInternal       = "Something went wrong"
	ErrMsgReportNotFound = "No report for that game yet"
	ErrMsgNotReady       = "not ready"
)

// Log messages
const (
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response"
	LogMsgReadinessFailed = "Readiness check failed"
)

// Health statuses
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)
