package staging

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/extract"
	"github.com/akhdar/akhdar-bi/internal/report"
)

func TestHashEmail(t *testing.T) {
	base := HashEmail("user@example.com")

	if HashEmail("USER@Example.COM") != base {
		t.Error("Expected hash to be case-insensitive")
	}
	if HashEmail("  user@example.com  ") != base {
		t.Error("Expected hash to ignore surrounding whitespace")
	}
	if HashEmail("other@example.com") == base {
		t.Error("Expected different emails to hash differently")
	}
	if len(base) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(base))
	}

	// Absent identities still join consistently.
	if HashEmail("") != HashEmail("  ") {
		t.Error("Expected all empty identities to share one hash")
	}
}

func TestOrders(t *testing.T) {
	table := &extract.Table{
		Name: "orders.csv",
		Rows: []extract.Row{
			{
				"id": "1001", "name": "#1001", "email": "a@example.com",
				"subtotal": "35.00", "shipping": "5.00", "taxes": "2.00", "total": "42.00",
				"discount_amount": "5.00",
				"created_at":      "2025-03-01 10:00:00 +0000",
				"lineitem_name":   "Royal Oud - 30ml", "lineitem_price": "24.00", "lineitem_quantity": "1",
			},
			// Line-only row: no created_at, no header amounts.
			{
				"id":            "1001",
				"lineitem_name": "Desert Rose - 30ml", "lineitem_price": "16.00", "lineitem_quantity": "1",
			},
			// Line without a price is excluded.
			{
				"id":            "1001",
				"lineitem_name": "Mystery Freebie",
			},
			// Order with no created_at row at all is excluded.
			{
				"id":            "2002",
				"lineitem_name": "Royal Oud - 30ml", "lineitem_price": "24.00",
			},
		},
	}

	rep := report.New()
	orders, lines := Orders(table, rep)

	if len(orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(orders))
	}
	o := orders[0]
	if o.OrderID != 1001 {
		t.Errorf("Expected order id 1001, got %d", o.OrderID)
	}
	if !o.Subtotal.Equal(decimal.RequireFromString("35.00")) {
		t.Errorf("Unexpected subtotal: %s", o.Subtotal)
	}
	if !o.CreatedAt.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected created_at: %s", o.CreatedAt)
	}

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	// Lines are numbered in name order.
	if lines[0].Name != "Desert Rose - 30ml" || lines[0].LineNumber != 1 {
		t.Errorf("Unexpected first line: %s #%d", lines[0].Name, lines[0].LineNumber)
	}
	if lines[1].Name != "Royal Oud - 30ml" || lines[1].LineNumber != 2 {
		t.Errorf("Unexpected second line: %s #%d", lines[1].Name, lines[1].LineNumber)
	}
	// Lines inherit the header timestamp.
	if !lines[0].CreatedAt.Equal(o.CreatedAt) {
		t.Error("Expected line to carry the header timestamp")
	}

	if n := rep.Count(report.ExcludedRow); n != 2 {
		t.Errorf("Expected 2 excluded-row findings, got %d", n)
	}
}

func TestOrdersEarliestHeaderWins(t *testing.T) {
	table := &extract.Table{
		Rows: []extract.Row{
			{"id": "1001", "created_at": "2025-03-02 08:00:00 +0000", "subtotal": "99.00"},
			{"id": "1001", "created_at": "2025-03-01 08:00:00 +0000", "subtotal": "35.00"},
		},
	}

	orders, _ := Orders(table, report.New())
	if len(orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(orders))
	}
	if !orders[0].Subtotal.Equal(decimal.RequireFromString("35.00")) {
		t.Errorf("Expected earliest row to win as header, got subtotal %s", orders[0].Subtotal)
	}
}

func TestProductsDedupe(t *testing.T) {
	table := &extract.Table{
		Rows: []extract.Row{
			{"handle": "royal-oud", "title": "Royal Oud - 50ml", "variant_price": "65.00"},
			{"handle": "royal-oud", "title": "Royal Oud - 30ml", "variant_price": "45.00"},
			{"handle": "", "title": "Orphan"},
		},
	}

	rep := report.New()
	products := Products(table, rep)

	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(products))
	}
	if products[0].Title != "Royal Oud - 30ml" {
		t.Errorf("Expected lowest title to win, got %q", products[0].Title)
	}
	if n := rep.Count(report.ExcludedRow); n != 1 {
		t.Errorf("Expected 1 excluded-row finding, got %d", n)
	}
}

func TestSKUMapDefaults(t *testing.T) {
	table := &extract.Table{
		Rows: []extract.Row{
			{"internal_sku": "AKH-OUD-30", "lineitem_name": "Royal Oud - 30ml", "size_ml": "30", "recipe_id": "R-OUD"},
			{"internal_sku": "AKH-OLD-50", "is_active": "FALSE"},
		},
	}

	mappings := SKUMap(table, report.New())
	if len(mappings) != 2 {
		t.Fatalf("Expected 2 mappings, got %d", len(mappings))
	}
	if !mappings[0].IsActive {
		t.Error("Expected is_active to default to true")
	}
	if mappings[1].IsActive {
		t.Error("Expected explicit FALSE to parse")
	}
	if mappings[0].SizeML != 30 {
		t.Errorf("Unexpected size: %d", mappings[0].SizeML)
	}
}

func TestParseDec(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"24.00", "24.00", true},
		{"$1,234.56", "1234.56", true},
		{"3.5%", "3.5", true},
		{"", "", false},
		{"n/a", "", false},
	}

	for _, tt := range tests {
		got := parseDec(tt.in)
		if got.Valid != tt.valid {
			t.Errorf("parseDec(%q).Valid = %v, want %v", tt.in, got.Valid, tt.valid)
			continue
		}
		if tt.valid && !got.Decimal.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("parseDec(%q) = %s, want %s", tt.in, got.Decimal, tt.want)
		}
	}
}

func TestSearchConsoleCTRFraction(t *testing.T) {
	table := &extract.Table{
		Rows: []extract.Row{
			{"date": "2025-03-01", "clicks": "12", "impressions": "400", "ctr": "3%", "position": "8.2"},
		},
	}

	rows := SearchConsole(table)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if !rows[0].CTR.Decimal.Equal(decimal.RequireFromString("0.03")) {
		t.Errorf("Expected CTR 0.03, got %s", rows[0].CTR.Decimal)
	}
	if rows[0].Clicks != 12 {
		t.Errorf("Unexpected clicks: %d", rows[0].Clicks)
	}
}

func TestMetaAdsNilTable(t *testing.T) {
	if rows := MetaAds(nil); rows != nil {
		t.Errorf("Expected nil for absent source, got %d rows", len(rows))
	}
}
