package extract

import (
	"strings"
	"testing"
)

func TestCleanColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"Lineitem name", "lineitem_name"},
		{"Lineitem compare at price", "lineitem_compare_at_price"},
		{"Billing Zip", "billing_zip"},
		{"CPM (cost per 1,000 impressions)", "cpm_cost_per_1_000_impressions"},
		{"CTR (link click-through rate)", "ctr_link_click_through_rate"},
		{"  Created at ", "created_at"},
		{"Amount spent (USD)", "amount_spent_usd"},
	}

	for _, tt := range tests {
		if got := CleanColumn(tt.in); got != tt.want {
			t.Errorf("CleanColumn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripApostrophe(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"'77083", "77083"},
		{"77083", "77083"},
		{"", ""},
		{"'", ""},
	}

	for _, tt := range tests {
		if got := StripApostrophe(tt.in); got != tt.want {
			t.Errorf("StripApostrophe(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRead(t *testing.T) {
	csv := "\uFEFFName,Email,Billing Zip\n#1001,a@example.com,'77083\n#1002,b@example.com,10001\n"

	table, err := Read(strings.NewReader(csv), "orders.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	wantCols := []string{"name", "email", "billing_zip"}
	if len(table.Columns) != len(wantCols) {
		t.Fatalf("Expected %d columns, got %d", len(wantCols), len(table.Columns))
	}
	for i, col := range wantCols {
		if table.Columns[i] != col {
			t.Errorf("Column %d = %q, want %q", i, table.Columns[i], col)
		}
	}

	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0]["name"] != "#1001" {
		t.Errorf("Unexpected name: %q", table.Rows[0]["name"])
	}
	if table.Rows[0]["billing_zip"] != "77083" {
		t.Errorf("Apostrophe prefix not stripped: %q", table.Rows[0]["billing_zip"])
	}
}

func TestReadRaggedRows(t *testing.T) {
	// Storefront exports pad line-item rows with fewer fields.
	csv := "name,email,total\n#1001,a@example.com,42.00\n#1001\n"

	table, err := Read(strings.NewReader(csv), "orders.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[1]["name"] != "#1001" {
		t.Errorf("Unexpected name on short row: %q", table.Rows[1]["name"])
	}
	if table.Rows[1]["total"] != "" {
		t.Errorf("Expected empty total on short row, got %q", table.Rows[1]["total"])
	}
}

func TestReadEmpty(t *testing.T) {
	if _, err := Read(strings.NewReader(""), "empty.csv"); err == nil {
		t.Error("Expected error for empty input, got nil")
	}
}
