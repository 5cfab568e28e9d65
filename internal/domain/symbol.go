package domain

import "github.com/shopspring/decimal"

// SymbolType classifies a symbol for substitution and payout purposes
type SymbolType string

const (
	SymbolTypeWild    SymbolType = "wild"
	SymbolTypeScatter SymbolType = "scatter"
	SymbolTypeHigh    SymbolType = "high"
	SymbolTypeMedium  SymbolType = "medium"
	SymbolTypeLow     SymbolType = "low"
	SymbolTypeSpecial SymbolType = "special"
)

// Valid reports whether t is one of the known symbol types
func (t SymbolType) Valid() bool {
	switch t {
	case SymbolTypeWild, SymbolTypeScatter, SymbolTypeHigh, SymbolTypeMedium, SymbolTypeLow, SymbolTypeSpecial:
		return true
	}
	return false
}

// Symbol is a configured reel symbol.
//
// Paytable maps a match count to a multiplier of the line bet (or of the
// total bet for scatters, depending on ScatterPayBasis). A substituting
// symbol stands in for any other symbol whose type is not listed in
// ExcludedFromSubstitution.
type Symbol struct {
	ID                       string                  `json:"id" validate:"required"`
	Name                     string                  `json:"name,omitempty"`
	Type                     SymbolType              `json:"type" validate:"required,oneof=wild scatter high medium low special"`
	Paytable                 map[int]decimal.Decimal `json:"paytable,omitempty"`
	SubstitutesAll           bool                    `json:"substitutes_all,omitempty"`
	ExcludedFromSubstitution []SymbolType            `json:"excluded_from_substitution,omitempty"`
}

// Excludes reports whether the symbol refuses to stand in for symbols of type t
func (s Symbol) Excludes(t SymbolType) bool {
	for _, ex := range s.ExcludedFromSubstitution {
		if ex == t {
			return true
		}
	}
	return false
}

// Pays returns the paytable entry for an exact count
func (s Symbol) Pays(count int) (decimal.Decimal, bool) {
	v, ok := s.Paytable[count]
	return v, ok
}

// PaysAtLeast returns the entry for the greatest configured count not above count
func (s Symbol) PaysAtLeast(count int) (decimal.Decimal, int, bool) {
	best := -1
	for c := range s.Paytable {
		if c <= count && c > best {
			best = c
		}
	}
	if best < 0 {
		return decimal.Zero, 0, false
	}
	return s.Paytable[best], best, true
}
