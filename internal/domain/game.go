package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// PaymentType selects the win evaluation mechanism of a game
type PaymentType string

const (
	PaymentPayline PaymentType = "payline"
	PaymentWays    PaymentType = "ways"
	PaymentCluster PaymentType = "cluster"
)

// Sampling selects how visible cells are drawn from a reel strip
type Sampling string

const (
	// SamplingContiguous draws one stop per reel and shows the next rows symbols, wrapping
	SamplingContiguous Sampling = "contiguous"
	// SamplingIndependent draws one stop per visible cell
	SamplingIndependent Sampling = "independent"
)

// ScatterPayBasis selects the stake scatter paytables multiply
type ScatterPayBasis string

const (
	ScatterPayTotalBet ScatterPayBasis = "total_bet"
	ScatterPayLineBet  ScatterPayBasis = "line_bet"
)

// Layout is the visible grid size
type Layout struct {
	Reels int `json:"reels" validate:"min=1,max=12"`
	Rows  int `json:"rows" validate:"min=1,max=12"`
}

// Payline is a fixed path through the grid, one row index per reel
type Payline struct {
	ID   int   `json:"id" validate:"min=0"`
	Rows []int `json:"rows" validate:"required"`
}

// ClusterRules configures cluster pays. PayMultiplier keys are size
// buckets: an exact size ("5") or an open bucket ("8+").
type ClusterRules struct {
	MinSize         int                        `json:"min_size" validate:"min=2"`
	DiagonalAllowed bool                       `json:"diagonal_allowed,omitempty"`
	PayMultiplier   map[string]decimal.Decimal `json:"pay_multiplier" validate:"required,min=1,dive,keys,clusterbucket,endkeys"`
}

// StripSet maps a reel index to its strip of symbol ids
type StripSet map[int][]string

// WeightSet maps a reel index to per-stop weights, parallel to a StripSet
type WeightSet map[int][]int

// ReelStrips holds base and optional bonus strips
type ReelStrips struct {
	Base     StripSet `json:"base" validate:"required"`
	Bonus    StripSet `json:"bonus,omitempty"`
	Sampling Sampling `json:"sampling,omitempty" validate:"omitempty,oneof=contiguous independent"`
}

// WeightDistribution holds the stop weights for each strip set
type WeightDistribution struct {
	Base  WeightSet `json:"base" validate:"required"`
	Bonus WeightSet `json:"bonus,omitempty"`
}

// FreeSpinTrigger is the symbol count that starts free spins
type FreeSpinTrigger struct {
	Symbol string `json:"symbol" validate:"required"`
	Count  int    `json:"count" validate:"min=1"`
}

// FreeSpins configures the free spin bonus
type FreeSpins struct {
	Trigger      FreeSpinTrigger `json:"trigger"`
	SpinsAwarded map[int]int     `json:"spins_awarded" validate:"required"`
	Retrigger    bool            `json:"retrigger,omitempty"`
}

// Bonus groups bonus features
type Bonus struct {
	FreeSpins *FreeSpins `json:"free_spins,omitempty"`
}

// RTP holds the theoretical return target, as a percentage
type RTP struct {
	TargetRTP float64 `json:"target_rtp"`
}

// GameConfig is an immutable, validated game definition
type GameConfig struct {
	ID                 string             `json:"id,omitempty"`
	Name               string             `json:"name,omitempty"`
	Layout             Layout             `json:"layout"`
	Symbols            []Symbol           `json:"symbols" validate:"required,min=1,dive"`
	PaymentType        PaymentType        `json:"payment_type" validate:"required,oneof=payline ways cluster"`
	Paylines           []Payline          `json:"paylines,omitempty" validate:"dive"`
	ClusterRules       *ClusterRules      `json:"cluster_rules,omitempty"`
	ReelStrips         ReelStrips         `json:"reel_strips"`
	WeightDistribution WeightDistribution `json:"weight_distribution"`
	Bonus              Bonus              `json:"bonus,omitempty"`
	RTP                RTP                `json:"rtp"`

	// BetDivisor splits the total bet into the line bet; zero means the
	// payline count for payline games and 1 otherwise.
	BetDivisor       int             `json:"bet_divisor,omitempty" validate:"min=0"`
	ScatterPayBasis  ScatterPayBasis `json:"scatter_pay_basis,omitempty" validate:"omitempty,oneof=total_bet line_bet"`
	MaxWinMultiplier decimal.Decimal `json:"max_win_multiplier,omitempty"`
}

// Strips returns the strip set for mode, falling back to base strips
func (c *GameConfig) Strips(mode Mode) StripSet {
	if mode == ModeBonus && len(c.ReelStrips.Bonus) > 0 {
		return c.ReelStrips.Bonus
	}
	return c.ReelStrips.Base
}

// Weights returns the weight set for mode, falling back to base weights
func (c *GameConfig) Weights(mode Mode) WeightSet {
	if mode == ModeBonus && len(c.ReelStrips.Bonus) > 0 {
		return c.WeightDistribution.Bonus
	}
	return c.WeightDistribution.Base
}

// SamplingMode returns the configured sampling, defaulting to contiguous windows
func (c *GameConfig) SamplingMode() Sampling {
	if c.ReelStrips.Sampling == "" {
		return SamplingContiguous
	}
	return c.ReelStrips.Sampling
}

// LineBetDivisor returns the number the total bet is divided by to obtain the line bet
func (c *GameConfig) LineBetDivisor() int {
	if c.BetDivisor > 0 {
		return c.BetDivisor
	}
	if c.PaymentType == PaymentPayline && len(c.Paylines) > 0 {
		return len(c.Paylines)
	}
	return 1
}

// ScatterBasis returns the scatter pay basis, defaulting to the total bet
func (c *GameConfig) ScatterBasis() ScatterPayBasis {
	if c.ScatterPayBasis == "" {
		return ScatterPayTotalBet
	}
	return c.ScatterPayBasis
}

// Symbol looks up a symbol by id
func (c *GameConfig) Symbol(id string) (Symbol, bool) {
	for _, s := range c.Symbols {
		if s.ID == id {
			return s, true
		}
	}
	return Symbol{}, false
}

// Payment is the payment mechanism resolved from a configuration.
// Exactly one of PaylineRules, WaysRules or ClusterPayment implements it.
type Payment interface {
	Type() PaymentType
}

// PaylineRules is the resolved payline mechanism, lines sorted by ascending id
type PaylineRules struct {
	Lines []Payline
}

func (PaylineRules) Type() PaymentType { return PaymentPayline }

// WaysRules is the resolved ways mechanism
type WaysRules struct{}

func (WaysRules) Type() PaymentType { return PaymentWays }

// SizeBucket is one parsed cluster pay bucket
type SizeBucket struct {
	Size       int
	Open       bool
	Multiplier decimal.Decimal
}

// ClusterPayment is the resolved cluster mechanism
type ClusterPayment struct {
	MinSize         int
	DiagonalAllowed bool
	// Buckets are sorted by ascending size, exact buckets before open ones of the same size
	Buckets []SizeBucket
}

func (ClusterPayment) Type() PaymentType { return PaymentCluster }

// Multiplier returns the pay multiplier for a cluster of size n: the exact
// bucket when configured, otherwise the largest open bucket not above n.
func (p ClusterPayment) Multiplier(n int) (decimal.Decimal, bool) {
	var (
		open  decimal.Decimal
		found bool
	)
	for _, b := range p.Buckets {
		if b.Size > n {
			break
		}
		if !b.Open && b.Size == n {
			return b.Multiplier, true
		}
		if b.Open {
			open, found = b.Multiplier, true
		}
	}
	return open, found
}

// Payment resolves the configured payment mechanism into its tagged form
func (c *GameConfig) Payment() (Payment, error) {
	switch c.PaymentType {
	case PaymentPayline:
		lines := make([]Payline, len(c.Paylines))
		copy(lines, c.Paylines)
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
		return PaylineRules{Lines: lines}, nil
	case PaymentWays:
		return WaysRules{}, nil
	case PaymentCluster:
		if c.ClusterRules == nil {
			return nil, fmt.Errorf("%w: cluster payment requires cluster_rules", ErrInvalidConfig)
		}
		buckets := make([]SizeBucket, 0, len(c.ClusterRules.PayMultiplier))
		for key, mult := range c.ClusterRules.PayMultiplier {
			b, err := ParseSizeBucket(key)
			if err != nil {
				return nil, err
			}
			b.Multiplier = mult
			buckets = append(buckets, b)
		}
		sort.Slice(buckets, func(i, j int) bool {
			if buckets[i].Size != buckets[j].Size {
				return buckets[i].Size < buckets[j].Size
			}
			return !buckets[i].Open && buckets[j].Open
		})
		return ClusterPayment{
			MinSize:         c.ClusterRules.MinSize,
			DiagonalAllowed: c.ClusterRules.DiagonalAllowed,
			Buckets:         buckets,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPayment, c.PaymentType)
	}
}
