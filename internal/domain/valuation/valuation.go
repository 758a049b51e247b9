// Package valuation implements the age-based devaluation rule applied to
// returned materials when they are issued or disposed.
package valuation

import (
	"time"

	"github.com/shopspring/decimal"
)

// hoursPerYear uses a fixed-length year so the rule stays deterministic
// regardless of leap days between the two dates.
const hoursPerYear = 24 * 365.25

var (
	fractionFirstYear  = decimal.NewFromFloat(0.50)
	fractionSecondYear = decimal.NewFromFloat(0.40)
	fractionThirdYear  = decimal.NewFromFloat(0.30)
	fractionBeyond     = decimal.NewFromFloat(0.25)
)

// Adjusted returns the unit rate retained after depreciation by age. When
// either date is missing or the elapsed time is negative, the source rate is
// returned unchanged; a missing rate yields zero. This is a defaulting policy,
// not an error.
func Adjusted(sourceRate decimal.Decimal, received, event *time.Time) decimal.Decimal {
	if sourceRate.IsNegative() {
		return decimal.Zero
	}
	if received == nil || event == nil || received.IsZero() || event.IsZero() {
		return sourceRate
	}

	elapsed := event.Sub(*received)
	if elapsed < 0 {
		return sourceRate
	}

	return sourceRate.Mul(RetainedFraction(elapsed.Hours() / hoursPerYear))
}

// RetainedFraction maps an age in years onto its retained-value multiplier.
// Bands are evaluated in ascending order and the first match wins, so an age
// of exactly 1.0 years falls in the first band.
func RetainedFraction(ageYears float64) decimal.Decimal {
	switch {
	case ageYears <= 1:
		return fractionFirstYear
	case ageYears <= 2:
		return fractionSecondYear
	case ageYears <= 3:
		return fractionThirdYear
	default:
		return fractionBeyond
	}
}

// AdjustedRate is a float convenience wrapper around Adjusted for callers that
// persist rates as plain numbers.
func AdjustedRate(sourceRate float64, received, event *time.Time) float64 {
	adjusted, _ := Adjusted(decimal.NewFromFloat(sourceRate), received, event).Float64()
	return adjusted
}
