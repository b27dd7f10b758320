package warehouse

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeMargin combines allocated net revenue and estimated COGS into
// per-unit gross margin and margin percent. Degenerate inputs (zero
// quantity, zero or negative net revenue per unit) yield zero percent
// rather than an error; whether the figures are complete is carried by
// the line's has_missing_cost flag, not here.
func ComputeMargin(netLineRevenue decimal.Decimal, quantity int, estimatedCOGS decimal.Decimal) (grossMargin, marginPercent decimal.Decimal) {
	if quantity == 0 {
		return decimal.Zero, decimal.Zero
	}
	perUnit := netLineRevenue.Div(decimal.NewFromInt(int64(quantity)))
	grossMargin = perUnit.Sub(estimatedCOGS)
	if perUnit.IsPositive() {
		marginPercent = grossMargin.Div(perUnit).Mul(hundred)
	} else {
		marginPercent = decimal.Zero
	}
	return grossMargin, marginPercent
}
