package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey string

const (
	spinIDKey ctxKey = "spinID"
	gameIDKey ctxKey = "gameID"
)

// InitLogger installs the default slog logger writing to stdout
func InitLogger(cfg Config) *slog.Logger {
	return InitLoggerWithWriter(cfg, os.Stdout)
}

// InitLoggerWithWriter installs the default slog logger writing to w
func InitLoggerWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	handler = handler.WithAttrs(cfg.BaseAttributes())

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// GenerateSpinID creates a new UUID identifying one spin
func GenerateSpinID() string {
	return uuid.NewString()
}

// WithSpinID returns a new context carrying the spin ID.
func WithSpinID(ctx context.Context, spinID string) context.Context {
	return context.WithValue(ctx, spinIDKey, spinID)
}

// SpinIDFromContext extracts the spin ID from the context, if present.
func SpinIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(spinIDKey).(string)
	return id, ok && id != ""
}

// WithGameID returns a new context carrying the game ID.
func WithGameID(ctx context.Context, gameID string) context.Context {
	return context.WithValue(ctx, gameIDKey, gameID)
}

// FromContext returns the default logger enriched with spin_id and game_id when present.
func FromContext(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if ctx == nil {
		return l
	}
	if id, ok := ctx.Value(gameIDKey).(string); ok && id != "" {
		l = l.With(AttrKeyGameID, id)
	}
	if id, ok := SpinIDFromContext(ctx); ok {
		l = l.With(AttrKeySpinID, id)
	}
	return l
}
