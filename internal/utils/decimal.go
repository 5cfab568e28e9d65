package utils

import "github.com/shopspring/decimal"

// Ratio returns a/b as a float64, or 0 when b is zero
func Ratio(a, b decimal.Decimal) float64 {
	if b.IsZero() {
		return 0
	}
	return a.Div(b).InexactFloat64()
}

// SumPayouts adds a list of amounts
func SumPayouts(amounts ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, amounts...)
}
