package warehouse

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(n int, price string, qty int) model.OrderLine {
	return model.OrderLine{LineNumber: n, Price: dec(price), Quantity: qty}
}

func TestAllocateDiscountProportional(t *testing.T) {
	// $24 and $16 lines share a $5 discount 3:2.
	lines := []model.OrderLine{
		line(1, "24.00", 1),
		line(2, "16.00", 1),
	}

	got := AllocateDiscount(dec("5.00"), lines)

	if !got[0].Equal(dec("3.00")) {
		t.Errorf("Expected 3.00 for the $24 line, got %s", got[0])
	}
	if !got[1].Equal(dec("2.00")) {
		t.Errorf("Expected 2.00 for the $16 line, got %s", got[1])
	}
}

func TestAllocateDiscountZeroGross(t *testing.T) {
	// All free-sample lines: nonzero discount allocates zero everywhere.
	lines := []model.OrderLine{
		line(1, "0.00", 1),
		line(2, "0.00", 2),
	}

	got := AllocateDiscount(dec("5.00"), lines)

	for i, a := range got {
		if !a.IsZero() {
			t.Errorf("Expected zero allocation for line %d, got %s", i+1, a)
		}
	}
}

func TestAllocateDiscountResidualCent(t *testing.T) {
	// Three equal lines cannot split $10 evenly; the residual cent goes
	// to the largest allocation, lowest line number among ties.
	lines := []model.OrderLine{
		line(1, "10.00", 1),
		line(2, "10.00", 1),
		line(3, "10.00", 1),
	}

	got := AllocateDiscount(dec("10.00"), lines)

	if !got[0].Equal(dec("3.34")) {
		t.Errorf("Expected 3.34 on line 1, got %s", got[0])
	}
	if !got[1].Equal(dec("3.33")) || !got[2].Equal(dec("3.33")) {
		t.Errorf("Expected 3.33 on lines 2 and 3, got %s and %s", got[1], got[2])
	}

	sum := decimal.Zero
	for _, a := range got {
		sum = sum.Add(a)
	}
	if !sum.Equal(dec("10.00")) {
		t.Errorf("Expected allocations to sum to 10.00, got %s", sum)
	}
}

func TestAllocateDiscountSumsToDiscount(t *testing.T) {
	tests := []struct {
		name     string
		discount string
		lines    []model.OrderLine
	}{
		{
			name:     "uneven prices",
			discount: "7.77",
			lines: []model.OrderLine{
				line(1, "12.49", 1),
				line(2, "33.10", 2),
				line(3, "5.00", 3),
			},
		},
		{
			name:     "single line",
			discount: "4.21",
			lines:    []model.OrderLine{line(1, "50.00", 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllocateDiscount(dec(tt.discount), tt.lines)
			sum := decimal.Zero
			for _, a := range got {
				sum = sum.Add(a)
			}
			if !sum.Equal(dec(tt.discount)) {
				t.Errorf("Expected allocations to sum to %s, got %s", tt.discount, sum)
			}
		})
	}
}

func TestAllocateDiscountZeroDiscount(t *testing.T) {
	got := AllocateDiscount(decimal.Zero, []model.OrderLine{line(1, "24.00", 1)})
	if !got[0].IsZero() {
		t.Errorf("Expected zero allocation, got %s", got[0])
	}
}

func TestAllocateDiscountNoLines(t *testing.T) {
	if got := AllocateDiscount(dec("5.00"), nil); len(got) != 0 {
		t.Errorf("Expected no allocations, got %d", len(got))
	}
}
