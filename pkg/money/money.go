// Package money provides canonical rounding for monetary amounts.
//
// Amounts are carried as float64 dollars throughout the system; every value
// that is stored or returned to a caller must first pass through Round so
// that all components agree on cent precision. Halves round away from zero.
package money

import "math"

// Epsilon is the tolerance below which a balance is treated as settled.
// One cent: differences smaller than this are rounding noise, not debt.
const Epsilon = 0.01

// Round rounds an amount to the nearest cent, halves away from zero.
// Applying Round to an already-rounded value returns it unchanged.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// IsZero reports whether an amount is zero within Epsilon.
func IsZero(amount float64) bool {
	return math.Abs(amount) < Epsilon
}

// Equal reports whether two amounts are equal within Epsilon.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}
