//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sample generates realistic sample extracts so the full
// pipeline can run without access to real storefront exports or the
// private cost sheets.
package sample

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/akhdar/akhdar-bi/internal/extract"
	"github.com/akhdar/akhdar-bi/internal/logging"
)

// Config controls sample generation.
type Config struct {
	// Orders is the number of orders to generate.
	Orders int

	// Customers is the number of customers to generate. Orders are
	// placed by a random subset, so some customers stay prospects.
	Customers int

	// Seed makes generation reproducible.
	Seed uint64

	// StartDate and EndDate bound the order timestamps.
	StartDate time.Time
	EndDate   time.Time
}

// DefaultConfig returns default sample generation configuration.
func DefaultConfig() Config {
	return Config{
		Orders:    500,
		Customers: 200,
		Seed:      1,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Generator produces sample extract files.
type Generator struct {
	faker *gofakeit.Faker
	cfg   Config
}

// New creates a Generator seeded from cfg.Seed.
func New(cfg Config) *Generator {
	return &Generator{
		faker: gofakeit.New(cfg.Seed),
		cfg:   cfg,
	}
}

// catalogEntry is one sellable product with its recipe reference.
type catalogEntry struct {
	sku      string
	name     string
	handle   string
	sizeML   int
	recipeID string
	category string
	price    float64
}

// The sample catalog mirrors the real one in shape: eau de parfum in
// two sizes per scent, one discovery set, one scent whose oud resin has
// no known cost yet.
var catalog = []catalogEntry{
	{"AKH-OUD-30", "Royal Oud - 30ml", "royal-oud", 30, "R-OUD", "eau_de_parfum", 45.00},
	{"AKH-OUD-50", "Royal Oud - 50ml", "royal-oud", 50, "R-OUD", "eau_de_parfum", 65.00},
	{"AKH-ROSE-30", "Desert Rose - 30ml", "desert-rose", 30, "R-ROSE", "eau_de_parfum", 38.00},
	{"AKH-ROSE-50", "Desert Rose - 50ml", "desert-rose", 50, "R-ROSE", "eau_de_parfum", 55.00},
	{"AKH-AMBER-30", "Amber Nights - 30ml", "amber-nights", 30, "R-AMBER", "eau_de_parfum", 42.00},
	{"AKH-AMBER-50", "Amber Nights - 50ml", "amber-nights", 50, "R-AMBER", "eau_de_parfum", 60.00},
	{"AKH-DISC-15", "Discovery Set - 3x5ml", "discovery-set", 15, "R-DISC", "discovery_set", 24.00},
}

type materialRow struct {
	id, name, match, category, unit string
	costPerUnit, costPerML          string
	hasKnownCost                    bool
	supplier                        string
}

var materials = []materialRow{
	{"MAT-ETH", "Perfumer's Alcohol", "perfumers alcohol", "solvent", "ml", "", "0.004", true, "SolviChem"},
	{"MAT-OUD", "Oud Resin", "oud resin", "fragrance", "ml", "", "", false, "Taif Oud House"},
	{"MAT-ROSE", "Rose Absolute", "rose absolute", "fragrance", "ml", "", "0.42", true, "Grasse Botanics"},
	{"MAT-AMBER", "Amber Accord", "amber accord", "fragrance", "ml", "", "0.18", true, "Grasse Botanics"},
	{"MAT-BTL-30", "Bottle 30ml", "bottle 30ml", "packaging", "unit", "1.15", "", true, "GlassPak"},
	{"MAT-BTL-50", "Bottle 50ml", "bottle 50ml", "packaging", "unit", "1.40", "", true, "GlassPak"},
	{"MAT-BTL-5", "Vial 5ml", "vial 5ml", "packaging", "unit", "0.35", "", true, "GlassPak"},
	{"MAT-BOX", "Gift Box", "gift box", "packaging", "unit", "0.80", "", true, "CartaPrint"},
}

type recipeRow struct {
	recipeID, recipeName, variant          string
	batchSizeML                            int
	ingredientMatch, percent, amountML, id string
}

func recipeSheet() []recipeRow {
	var rows []recipeRow
	scents := []struct {
		recipeID, name, oil, oilID string
	}{
		{"R-OUD", "Royal Oud", "oud resin", "MAT-OUD"},
		{"R-ROSE", "Desert Rose", "rose absolute", "MAT-ROSE"},
		{"R-AMBER", "Amber Nights", "amber accord", "MAT-AMBER"},
	}
	for _, s := range scents {
		for _, size := range []int{30, 50} {
			bottle := fmt.Sprintf("bottle %dml", size)
			bottleID := fmt.Sprintf("MAT-BTL-%d", size)
			rows = append(rows,
				recipeRow{s.recipeID, s.name, "final", size, "perfumers alcohol", "0.80", "", "MAT-ETH"},
				recipeRow{s.recipeID, s.name, "final", size, s.oil, "0.20", "", s.oilID},
				recipeRow{s.recipeID, s.name, "final", size, bottle, "", "1", bottleID},
				recipeRow{s.recipeID, s.name, "final", size, "gift box", "", "1", "MAT-BOX"},
				// Tester variant, excluded from costing.
				recipeRow{s.recipeID, s.name, "tester", size, "perfumers alcohol", "0.80", "", "MAT-ETH"},
			)
		}
	}
	rows = append(rows,
		recipeRow{"R-DISC", "Discovery Set", "final", 15, "perfumers alcohol", "0.80", "", "MAT-ETH"},
		recipeRow{"R-DISC", "Discovery Set", "final", 15, "rose absolute", "0.20", "", "MAT-ROSE"},
		recipeRow{"R-DISC", "Discovery Set", "final", 15, "vial 5ml", "", "3", "MAT-BTL-5"},
		recipeRow{"R-DISC", "Discovery Set", "final", 15, "gift box", "", "1", "MAT-BOX"},
	)
	return rows
}

type sampleCustomer struct {
	id           int64
	email        string
	first, last  string
	city, state  string
	zip          string
	acceptsEmail bool
}

// WriteAll generates every sample extract into dir.
func (g *Generator) WriteAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating sample directory: %w", err)
	}

	customers := g.generateCustomers()

	if err := g.writeOrders(filepath.Join(dir, extract.SampleOrdersFile), customers); err != nil {
		return err
	}
	if err := g.writeProducts(filepath.Join(dir, extract.SampleProductsFile)); err != nil {
		return err
	}
	if err := g.writeCustomers(filepath.Join(dir, extract.SampleCustomersFile), customers); err != nil {
		return err
	}
	if err := g.writeSKUMap(filepath.Join(dir, extract.SKUMapFile)); err != nil {
		return err
	}
	if err := g.writeMaterialCosts(filepath.Join(dir, extract.MaterialCostsFile)); err != nil {
		return err
	}
	if err := g.writeRecipes(filepath.Join(dir, extract.RecipesFile)); err != nil {
		return err
	}

	logging.Info().
		Str("dir", dir).
		Int("orders", g.cfg.Orders).
		Int("customers", g.cfg.Customers).
		Msg("Sample extracts written")
	return nil
}

func (g *Generator) generateCustomers() []sampleCustomer {
	customers := make([]sampleCustomer, g.cfg.Customers)
	for i := range customers {
		first := g.faker.FirstName()
		last := g.faker.LastName()
		customers[i] = sampleCustomer{
			id:           int64(7000000001 + i),
			email:        fmt.Sprintf("%s.%s.%d@example.com", first, last, i),
			first:        first,
			last:         last,
			city:         g.faker.City(),
			state:        g.faker.StateAbr(),
			zip:          g.faker.Zip(),
			acceptsEmail: g.faker.Bool(),
		}
	}
	return customers
}

func (g *Generator) writeOrders(path string, customers []sampleCustomer) error {
	header := []string{
		"Id", "Name", "Email", "Financial Status", "Fulfillment Status", "Currency",
		"Subtotal", "Shipping", "Taxes", "Total",
		"Discount Code", "Discount Amount", "Refunded Amount",
		"Shipping Method", "Risk Level", "Source", "Payment Method",
		"Billing City", "Billing Province", "Billing Country", "Billing Zip",
		"Shipping City", "Shipping Province", "Shipping Country", "Shipping Zip",
		"Created at", "Paid at", "Fulfilled at", "Cancelled at",
		"Lineitem name", "Lineitem sku", "Lineitem quantity", "Lineitem price",
		"Lineitem compare at price", "Lineitem discount", "Lineitem fulfillment status",
		"Vendor",
	}

	rows := [][]string{header}
	for i := 0; i < g.cfg.Orders; i++ {
		id := fmt.Sprintf("%d", 5000000001+int64(i))
		name := fmt.Sprintf("#%d", 1001+i)
		cust := customers[g.faker.Number(0, len(customers)-1)]
		createdAt := g.faker.DateRange(g.cfg.StartDate, g.cfg.EndDate).UTC()

		lineCount := g.faker.Number(1, 3)
		var gross float64
		type line struct {
			entry catalogEntry
			qty   int
		}
		lines := make([]line, lineCount)
		for j := range lines {
			entry := catalog[g.faker.Number(0, len(catalog)-1)]
			qty := g.faker.Number(1, 2)
			lines[j] = line{entry, qty}
			gross += entry.price * float64(qty)
		}

		var discountCode string
		var discount float64
		if g.faker.Number(1, 10) <= 3 {
			discountCode = "WELCOME10"
			discount = round2(gross * 0.10)
		}
		subtotal := round2(gross - discount)
		shipping := 5.00
		method := "Standard Shipping"
		if g.faker.Number(1, 10) <= 2 {
			shipping = 0
			method = "Local Delivery"
		}
		taxes := round2(subtotal * 0.05)
		total := round2(subtotal + shipping + taxes)

		var refunded float64
		if g.faker.Number(1, 50) == 1 {
			refunded = subtotal
		}

		ts := createdAt.Format("2006-01-02 15:04:05 -0700")
		for j, l := range lines {
			row := make([]string, len(header))
			row[0] = id
			row[1] = name
			if j == 0 {
				row[2] = cust.email
				row[3] = "paid"
				row[4] = "fulfilled"
				row[5] = "USD"
				row[6] = money(subtotal)
				row[7] = money(shipping)
				row[8] = money(taxes)
				row[9] = money(total)
				row[10] = discountCode
				row[11] = money(discount)
				row[12] = money(refunded)
				row[13] = method
				row[14] = "Low"
				row[15] = "web"
				row[16] = "Credit Card"
				row[17], row[18], row[19], row[20] = cust.city, cust.state, "US", cust.zip
				row[21], row[22], row[23], row[24] = cust.city, cust.state, "US", cust.zip
				row[25] = ts
				row[26] = ts
				row[27] = ts
			}
			row[29] = l.entry.name
			row[30] = l.entry.sku
			row[31] = fmt.Sprintf("%d", l.qty)
			row[32] = money(l.entry.price)
			row[35] = "fulfilled"
			row[36] = "Akhdar Perfumes"
			rows = append(rows, row)
		}
	}
	return writeCSV(path, rows)
}

func (g *Generator) writeProducts(path string) error {
	rows := [][]string{{
		"Handle", "Title", "Vendor", "Product Category", "Type", "Tags",
		"Variant SKU", "Variant Price", "Variant Compare At Price",
		"Variant Inventory Qty", "Published", "Status",
	}}
	for _, entry := range catalog {
		rows = append(rows, []string{
			entry.handle, entry.name, "Akhdar Perfumes", entry.category, "Fragrance",
			"perfume, artisan", entry.sku, money(entry.price), "",
			fmt.Sprintf("%d", g.faker.Number(5, 80)), "TRUE", "active",
		})
	}
	return writeCSV(path, rows)
}

func (g *Generator) writeCustomers(path string, customers []sampleCustomer) error {
	rows := [][]string{{
		"Customer ID", "Email", "First Name", "Last Name",
		"Accepts Email Marketing", "Accepts SMS Marketing",
		"Default Address City", "Default Address Province Code",
		"Default Address Country Code", "Default Address Zip",
		"Total Spent", "Total Orders",
	}}
	for _, c := range customers {
		accepts := "no"
		if c.acceptsEmail {
			accepts = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.id), c.email, c.first, c.last,
			accepts, "no", c.city, c.state, "US", c.zip, "0.00", "0",
		})
	}
	return writeCSV(path, rows)
}

func (g *Generator) writeSKUMap(path string) error {
	rows := [][]string{{
		"internal_sku", "lineitem_name", "product_handle", "size_ml",
		"recipe_id", "product_category", "is_active",
	}}
	for _, entry := range catalog {
		rows = append(rows, []string{
			entry.sku, entry.name, entry.handle, fmt.Sprintf("%d", entry.sizeML),
			entry.recipeID, entry.category, "TRUE",
		})
	}
	return writeCSV(path, rows)
}

func (g *Generator) writeMaterialCosts(path string) error {
	rows := [][]string{{
		"material_id", "material_name", "ingredient_match", "category", "unit",
		"cost_per_unit", "cost_per_ml", "has_known_cost", "supplier",
	}}
	for _, m := range materials {
		known := "FALSE"
		if m.hasKnownCost {
			known = "TRUE"
		}
		rows = append(rows, []string{
			m.id, m.name, m.match, m.category, m.unit,
			m.costPerUnit, m.costPerML, known, m.supplier,
		})
	}
	return writeCSV(path, rows)
}

func (g *Generator) writeRecipes(path string) error {
	rows := [][]string{{
		"recipe_id", "recipe_name", "variant", "batch_size_ml",
		"ingredient_match", "percent", "amount_ml", "material_id",
	}}
	for _, r := range recipeSheet() {
		rows = append(rows, []string{
			r.recipeID, r.recipeName, r.variant, fmt.Sprintf("%d", r.batchSizeML),
			r.ingredientMatch, r.percent, r.amountML, r.id,
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
