package warehouse

import (
	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
)

// AllocateDiscount distributes an order-level discount across the
// order's lines proportionally to each line's share of gross revenue.
// Shares are computed at full precision and rounded to cents only here,
// at the point of persistence; any rounding residual is assigned to the
// line with the largest allocation (lowest line number among ties) so
// the per-line allocations always sum back to the order discount.
// Orders with zero gross revenue allocate zero to every line.
func AllocateDiscount(discount decimal.Decimal, lines []model.OrderLine) []decimal.Decimal {
	allocations := make([]decimal.Decimal, len(lines))
	if len(lines) == 0 {
		return allocations
	}

	gross := decimal.Zero
	revenues := make([]decimal.Decimal, len(lines))
	for i, line := range lines {
		revenues[i] = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		gross = gross.Add(revenues[i])
	}

	if gross.IsZero() || discount.IsZero() {
		for i := range allocations {
			allocations[i] = decimal.Zero
		}
		return allocations
	}

	rounded := discount.Round(2)
	sum := decimal.Zero
	largest := 0
	for i := range lines {
		allocations[i] = revenues[i].Div(gross).Mul(discount).Round(2)
		sum = sum.Add(allocations[i])
		if allocations[i].GreaterThan(allocations[largest]) {
			largest = i
		}
	}

	if residual := rounded.Sub(sum); !residual.IsZero() {
		allocations[largest] = allocations[largest].Add(residual)
	}
	return allocations
}
