package config

import "time"

const (
	// Configuration file paths
	ConfigPathGamesDir    = "configs/games/"
	ConfigPathGameSchema  = "configs/schemas/game.schema.json"
	ConfigPathDefaultGame = "configs/games/classic_lines.yaml"
)

// Defaults applied when the environment does not override them
const (
	DefaultPresentationTimeout = 5 * time.Second
	DefaultFXTimeout           = 3 * time.Second
	DefaultSymbolPoolMax       = 32
	DefaultConfigCacheSize     = 16
	DefaultConfigCacheTTL      = 10 * time.Minute
	DefaultBigWinThreshold     = "10"
	DefaultMegaWinThreshold    = "50"
	DefaultMetricsAddr         = ""
)

// Symbol pool overflow policies
const (
	OverflowReject = "reject"
	OverflowBlock  = "block"
)
