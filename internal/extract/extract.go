//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract reads the storefront CSV exports and reference sheets
// into raw row collections. All values are kept as text; typing happens
// in the staging parses.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/akhdar/akhdar-bi/internal/logging"
)

// Row is one raw CSV record keyed by cleaned column name.
type Row map[string]string

// Table is one parsed extract file.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Extract file names. The storefront export names are fixed by the
// export tooling; sample names are written by the seed command.
const (
	OrdersFile    = "orders_export_1.csv"
	ProductsFile  = "products_export_1.csv"
	CustomersFile = "customers_export.csv"

	SKUMapFile        = "product_sku_map.csv"
	MaterialCostsFile = "material_costs.csv"
	RecipesFile       = "recipes.csv"

	SampleOrdersFile    = "sample_orders.csv"
	SampleProductsFile  = "sample_products.csv"
	SampleCustomersFile = "sample_customers.csv"
)

// Optional marketing sources are matched by pattern: the ads export
// carries the campaign date range in its name, the Search Console chart
// lives under a dated directory.
const (
	metaAdsGlob = "*Campaigns*.csv"
	gscGlob     = "*Performance-on-Search*/Chart.csv"
)

// Extracts holds every parsed source for one run. MetaAds and
// SearchConsole are nil when the optional files are absent.
type Extracts struct {
	Orders        *Table
	Products      *Table
	Customers     *Table
	SKUMap        *Table
	MaterialCosts *Table
	Recipes       *Table
	MetaAds       *Table
	SearchConsole *Table
}

// CleanColumn converts an export column header to snake_case for
// Postgres compatibility.
func CleanColumn(col string) string {
	r := strings.NewReplacer(
		" ", "_",
		",", "_",
		"(", "",
		")", "",
		"/", "_",
		"-", "_",
		".", "_",
		":", "_",
	)
	return r.Replace(strings.ToLower(strings.TrimSpace(col)))
}

// StripApostrophe removes the leading apostrophe some spreadsheet tools
// prepend to preserve numeric strings (e.g. '77083 -> 77083).
func StripApostrophe(v string) string {
	if strings.HasPrefix(v, "'") {
		return v[1:]
	}
	return v
}

// ReadFile parses one CSV file into a Table.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV content into a Table, cleaning headers and stripping
// apostrophe prefixes from every value.
func Read(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, err
	}

	// Strip a UTF-8 BOM from the first header cell if present.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = CleanColumn(col)
	}

	t := &Table{Name: name, Columns: columns}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = StripApostrophe(record[i])
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadAll reads every extract for one run. The order/product/customer
// exports and all three reference sheets are required; marketing
// sources are optional and skipped with an info log when absent.
func ReadAll(dataDir, referenceDir string, sample bool) (*Extracts, error) {
	ordersFile, productsFile, customersFile := OrdersFile, ProductsFile, CustomersFile
	skuMapDir := referenceDir
	refDir := dataDir
	if sample {
		ordersFile, productsFile, customersFile = SampleOrdersFile, SampleProductsFile, SampleCustomersFile
		skuMapDir = dataDir
	}

	ex := &Extracts{}
	required := []struct {
		path string
		dst  **Table
	}{
		{filepath.Join(dataDir, ordersFile), &ex.Orders},
		{filepath.Join(dataDir, productsFile), &ex.Products},
		{filepath.Join(dataDir, customersFile), &ex.Customers},
		{filepath.Join(skuMapDir, SKUMapFile), &ex.SKUMap},
		{filepath.Join(refDir, MaterialCostsFile), &ex.MaterialCosts},
		{filepath.Join(refDir, RecipesFile), &ex.Recipes},
	}
	for _, req := range required {
		t, err := ReadFile(req.path)
		if err != nil {
			return nil, fmt.Errorf("reading required extract: %w", err)
		}
		*req.dst = t
		logging.Info().
			Str("file", t.Name).
			Int("rows", len(t.Rows)).
			Msg("Parsed extract")
	}

	ex.MetaAds = readOptional(dataDir, metaAdsGlob)
	ex.SearchConsole = readOptional(dataDir, gscGlob)

	return ex, nil
}

func readOptional(dir, pattern string) *Table {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) == 0 {
		logging.Info().
			Str("pattern", pattern).
			Msg("Optional extract not found (skipping)")
		return nil
	}
	t, err := ReadFile(matches[0])
	if err != nil {
		logging.Warn().
			Err(err).
			Str("file", matches[0]).
			Msg("Could not parse optional extract")
		return nil
	}
	logging.Info().
		Str("file", t.Name).
		Int("rows", len(t.Rows)).
		Msg("Parsed optional extract")
	return t
}
