package warehouse

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeMargin(t *testing.T) {
	tests := []struct {
		name        string
		net         string
		quantity    int
		cogs        string
		wantMargin  string
		wantPercent string
	}{
		{
			name: "simple",
			net:  "21.00", quantity: 1, cogs: "6.00",
			wantMargin: "15.00", wantPercent: "71.43",
		},
		{
			name: "per unit",
			net:  "40.00", quantity: 2, cogs: "5.00",
			wantMargin: "15.00", wantPercent: "75.00",
		},
		{
			name: "zero net revenue",
			net:  "0.00", quantity: 1, cogs: "2.00",
			wantMargin: "-2.00", wantPercent: "0",
		},
		{
			name: "negative net revenue",
			net:  "-5.00", quantity: 1, cogs: "2.00",
			wantMargin: "-7.00", wantPercent: "0",
		},
		{
			name: "zero quantity",
			net:  "10.00", quantity: 0, cogs: "2.00",
			wantMargin: "0", wantPercent: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			margin, percent := ComputeMargin(dec(tt.net), tt.quantity, dec(tt.cogs))
			if !margin.Round(2).Equal(dec(tt.wantMargin).Round(2)) {
				t.Errorf("Expected margin %s, got %s", tt.wantMargin, margin)
			}
			if !percent.Round(2).Equal(dec(tt.wantPercent).Round(2)) {
				t.Errorf("Expected percent %s, got %s", tt.wantPercent, percent)
			}
		})
	}
}

func TestComputeMarginFullCostLoss(t *testing.T) {
	// COGS above revenue yields a negative margin, never an error.
	margin, percent := ComputeMargin(dec("10.00"), 1, dec("15.00"))
	if !margin.Equal(dec("-5.00")) {
		t.Errorf("Expected -5.00, got %s", margin)
	}
	if percent.GreaterThanOrEqual(decimal.Zero) {
		t.Errorf("Expected negative percent, got %s", percent)
	}
}
