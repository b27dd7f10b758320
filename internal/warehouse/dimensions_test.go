package warehouse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		ts   time.Time
		want int
	}{
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 20250301},
		{time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), 20241231},
		{time.Date(2026, 1, 5, 8, 30, 0, 0, time.UTC), 20260105},
	}

	for _, tt := range tests {
		if got := DateKey(tt.ts); got != tt.want {
			t.Errorf("DateKey(%s) = %d, want %d", tt.ts, got, tt.want)
		}
	}
}

func TestGenerateDates(t *testing.T) {
	start := time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	dates := GenerateDates(start, end)

	if len(dates) != 4 {
		t.Fatalf("Expected 4 days, got %d", len(dates))
	}
	if dates[0].Key != 20250227 {
		t.Errorf("Unexpected first key: %d", dates[0].Key)
	}
	if dates[len(dates)-1].Key != 20250302 {
		t.Errorf("Unexpected last key: %d", dates[len(dates)-1].Key)
	}

	// March 1st 2025 is a Saturday.
	var sat model.DateDim
	for _, d := range dates {
		if d.Key == 20250301 {
			sat = d
		}
	}
	if !sat.IsWeekend {
		t.Error("Expected 2025-03-01 to be a weekend")
	}
	if sat.Quarter != 1 {
		t.Errorf("Expected quarter 1, got %d", sat.Quarter)
	}
	if sat.DayName != "Saturday" {
		t.Errorf("Expected Saturday, got %s", sat.DayName)
	}
}

func TestBuildProductDims(t *testing.T) {
	skuMap := []model.SKUMapping{
		{InternalSKU: "AKH-OUD-30", LineItemName: "Royal Oud - 30ml", Handle: "royal-oud",
			SizeML: 30, RecipeID: "R-OUD", IsActive: true},
		{InternalSKU: "AKH-LOST-50", LineItemName: "Lost Scent - 50ml", Handle: "lost-scent",
			SizeML: 50, IsActive: true},
	}
	products := []model.Product{
		{Handle: "royal-oud", Vendor: "Akhdar Perfumes",
			VariantPrice: decimal.NullDecimal{Decimal: dec("45.00"), Valid: true}},
	}

	dims := BuildProductDims(skuMap, products)

	if len(dims) != 2 {
		t.Fatalf("Expected 2 dims, got %d", len(dims))
	}
	if dims[0].Key != 1 || dims[1].Key != 2 {
		t.Errorf("Unexpected keys: %d, %d", dims[0].Key, dims[1].Key)
	}
	if !dims[0].VariantPrice.Equal(dec("45.00")) {
		t.Errorf("Expected catalog price, got %s", dims[0].VariantPrice)
	}
	// Unmatched handle falls back to defaults.
	if dims[1].Vendor != "Akhdar Perfumes" {
		t.Errorf("Expected default vendor, got %q", dims[1].Vendor)
	}
	if !dims[1].VariantPrice.Equal(dec("10.50")) {
		t.Errorf("Expected default price, got %s", dims[1].VariantPrice)
	}
}

func TestBuildProductDimsUpsert(t *testing.T) {
	skuMap := []model.SKUMapping{
		{InternalSKU: "AKH-OUD-30", LineItemName: "Royal Oud - 30ml", SizeML: 30},
		{InternalSKU: "AKH-OUD-30", LineItemName: "Royal Oud 30ml (renamed)", SizeML: 30},
	}

	dims := BuildProductDims(skuMap, nil)

	if len(dims) != 1 {
		t.Fatalf("Expected 1 dim after upsert, got %d", len(dims))
	}
	if dims[0].Key != 1 {
		t.Errorf("Expected key 1 to survive the upsert, got %d", dims[0].Key)
	}
	if dims[0].Title != "Royal Oud 30ml (renamed)" {
		t.Errorf("Expected last write to win, got %q", dims[0].Title)
	}
}

func TestBuildChannelDims(t *testing.T) {
	orders := []model.Order{
		{Source: "web"},
		{Source: "Instagram"},
		{Source: ""},
		{Source: "instagram"},
	}

	dims := BuildChannelDims(orders)

	if len(dims) != 2 {
		t.Fatalf("Expected 2 channels, got %d", len(dims))
	}
	if dims[0].Code != "web" || dims[0].Key != 1 {
		t.Errorf("Expected seeded web channel first, got %+v", dims[0])
	}
	if dims[1].Code != "instagram" {
		t.Errorf("Expected instagram channel, got %q", dims[1].Code)
	}
}

func TestShippingMethodCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Standard Shipping", "standard_shipping"},
		{"Local Delivery", "local_delivery"},
		{"  Express ", "express"},
	}
	for _, tt := range tests {
		if got := ShippingMethodCode(tt.in); got != tt.want {
			t.Errorf("ShippingMethodCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildShippingMethodDims(t *testing.T) {
	orders := []model.Order{
		{ShippingMethod: "Standard Shipping"},
		{ShippingMethod: "Local Delivery"},
		{ShippingMethod: ""},
	}

	dims := BuildShippingMethodDims(orders)

	if len(dims) != 2 {
		t.Fatalf("Expected 2 methods, got %d", len(dims))
	}
	// Sorted by code: local_delivery before standard_shipping.
	if dims[0].Code != "local_delivery" || !dims[0].IsLocalDelivery {
		t.Errorf("Expected local delivery flagged, got %+v", dims[0])
	}
	if dims[1].Code != "standard_shipping" || dims[1].IsLocalDelivery {
		t.Errorf("Unexpected standard shipping dim: %+v", dims[1])
	}
}

func TestBuildShippingMethodDimsFallback(t *testing.T) {
	dims := BuildShippingMethodDims(nil)
	if len(dims) != 1 || dims[0].Code != "unknown" {
		t.Errorf("Expected single unknown fallback, got %+v", dims)
	}
}

func TestBuildCustomerDims(t *testing.T) {
	first := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{
		{OrderID: 1001, Email: "buyer@example.com", CreatedAt: first, Subtotal: dec("35.00")},
		{OrderID: 1002, Email: "buyer@example.com", CreatedAt: first.AddDate(0, 0, 3), Subtotal: dec("24.00")},
	}
	customers := []model.Customer{
		{CustomerID: 7001, Email: "buyer@example.com", City: "Houston", CountryCode: "US"},
		{CustomerID: 7002, Email: "window-shopper@example.com", City: "Austin"},
	}

	histories := FoldCustomers(orders)
	dims := BuildCustomerDims(histories, customers)

	if len(dims) != 2 {
		t.Fatalf("Expected 2 customer dims, got %d", len(dims))
	}

	var buyer, prospect model.CustomerDim
	for _, d := range dims {
		switch d.CustomerID {
		case 7001:
			buyer = d
		case 7002:
			prospect = d
		}
	}

	if buyer.Segment != model.SegmentReturning {
		t.Errorf("Expected returning buyer, got %s", buyer.Segment)
	}
	if buyer.TotalOrders != 2 {
		t.Errorf("Expected 2 orders, got %d", buyer.TotalOrders)
	}
	if buyer.City != "Houston" {
		t.Errorf("Expected geography joined in, got %q", buyer.City)
	}
	if prospect.Segment != model.SegmentProspect {
		t.Errorf("Expected prospect, got %s", prospect.Segment)
	}
	if prospect.TotalOrders != 0 {
		t.Errorf("Expected 0 orders for prospect, got %d", prospect.TotalOrders)
	}

	// Surrogate keys are dense and 1-based.
	seen := make(map[int]bool)
	for _, d := range dims {
		if d.Key < 1 || d.Key > len(dims) || seen[d.Key] {
			t.Errorf("Bad surrogate key %d", d.Key)
		}
		seen[d.Key] = true
	}
}
