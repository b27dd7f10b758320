package warehouse

import (
	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
)

// tolerance is the reconciliation tolerance for monetary checks: one
// cent.
var tolerance = decimal.New(1, -2)

// OrderTotals holds order-grain figures computed from an order's lines.
type OrderTotals struct {
	GrossProductSales decimal.Decimal
	UnitCount         int
	LineItemCount     int
	NetSales          decimal.Decimal
	ValidationStatus  string
}

// AggregateOrder computes order-grain totals from the header and its
// lines. Gross product sales is always the line-derived figure; the
// header's reported subtotal and total are cross-checked against it and
// a mismatch beyond tolerance is flagged, not reconciled.
func AggregateOrder(o model.Order, lines []model.OrderLine) OrderTotals {
	gross := decimal.Zero
	var units int
	for _, line := range lines {
		gross = gross.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		units += line.Quantity
	}

	totals := OrderTotals{
		GrossProductSales: gross,
		UnitCount:         units,
		LineItemCount:     len(lines),
		NetSales:          o.Subtotal.Sub(o.RefundedAmount),
		ValidationStatus:  model.ValidationOK,
	}

	// subtotal must equal gross - discount; total must equal
	// subtotal + shipping + taxes.
	subtotalDiff := o.Subtotal.Sub(gross.Sub(o.DiscountAmount)).Abs()
	totalDiff := o.Total.Sub(o.Subtotal.Add(o.Shipping).Add(o.Taxes)).Abs()
	switch {
	case subtotalDiff.GreaterThan(tolerance):
		totals.ValidationStatus = model.ValidationSubtotalMismatch
	case totalDiff.GreaterThan(tolerance):
		totals.ValidationStatus = model.ValidationTotalMismatch
	}

	return totals
}
