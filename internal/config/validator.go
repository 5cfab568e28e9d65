package config

import (
	"fmt"
	"strings"
)

// Validate checks cross-field constraints on the runtime settings
func (c *Config) Validate() error {
	var problems []string

	if c.SymbolPoolMax < 1 {
		problems = append(problems, fmt.Sprintf("SYMBOL_POOL_MAX must be at least 1, got %d", c.SymbolPoolMax))
	}
	if c.SymbolPoolOverflow != OverflowReject && c.SymbolPoolOverflow != OverflowBlock {
		problems = append(problems, fmt.Sprintf("SYMBOL_POOL_OVERFLOW must be %q or %q, got %q", OverflowReject, OverflowBlock, c.SymbolPoolOverflow))
	}
	if !c.BigWinThreshold.IsPositive() {
		problems = append(problems, "BIG_WIN_THRESHOLD must be positive")
	}
	if c.MegaWinThreshold.LessThan(c.BigWinThreshold) {
		problems = append(problems, "MEGA_WIN_THRESHOLD must not be below BIG_WIN_THRESHOLD")
	}
	if c.FXTimeout < 0 {
		problems = append(problems, "FX_TIMEOUT must not be negative")
	}
	if c.ConfigCacheSize < 1 {
		problems = append(problems, "CONFIG_CACHE_SIZE must be at least 1")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateWithWarnings validates and returns warnings for settings that are
// legal but probably unintended
func (c *Config) ValidateWithWarnings() ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var warnings []string
	if c.PresentationTimeout <= 0 {
		warnings = append(warnings, "PRESENTATION_TIMEOUT is not positive - spins will complete without waiting for presentation")
	}
	if c.FXTimeout == 0 {
		warnings = append(warnings, "FX_TIMEOUT is zero - effects are not time bounded")
	}
	if c.FXTimeout > 0 && c.PresentationTimeout > 0 && c.FXTimeout > c.PresentationTimeout {
		warnings = append(warnings, "FX_TIMEOUT exceeds PRESENTATION_TIMEOUT - slow effects will be cut off by forced completion")
	}
	return warnings, nil
}
