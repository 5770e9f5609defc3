package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundingPrecision is the scale used when rounding values for output (0.01).
const RoundingPrecision = 100

// round rounds a float64 value to two decimal places using the package RoundingPrecision constant.
// This function is used throughout the service layer to ensure consistent rounding of monetary
// values and ratios in view output.
//
// The rounding uses the standard "round half away from zero" approach via math.Round.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// roundDecimal converts an exact ledger amount to a rounded float for output.
func roundDecimal(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// percent returns part/whole*100, or 0 when whole is zero.
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
