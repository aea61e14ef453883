// Package money converts between major currency units and integer cents.
// Splitting arithmetic happens exclusively in cents so that no value is
// created or destroyed by floating-point rounding.
package money

import "math"

// Round rounds a major-unit amount to two decimal places.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToCents converts a major-unit amount to integer cents.
func ToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FromCents converts integer cents back to a major-unit amount.
func FromCents(c int64) float64 {
	return Round(float64(c) / 100)
}
