package gameconfig

import (
	"strings"

	"github.com/osse101/SlotForge_Go/internal/domain"
)

// ConfigError lists every problem found in a game configuration.
// It is fatal: an engine must never be built from a config that produced one.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return domain.ErrMsgInvalidConfig + ": " + strings.Join(e.Problems, "; ")
}

// Unwrap lets errors.Is(err, domain.ErrInvalidConfig) match
func (e *ConfigError) Unwrap() error { return domain.ErrInvalidConfig }
