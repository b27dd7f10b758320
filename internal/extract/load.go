//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akhdar/akhdar-bi/internal/db"
	"github.com/akhdar/akhdar-bi/internal/logging"
)

// RawSchema is the schema raw extracts are loaded into.
const RawSchema = "raw"

// Raw table names per extract.
const (
	RawOrders        = "orders"
	RawProducts      = "products"
	RawCustomers     = "customers"
	RawSKUMap        = "product_sku_map"
	RawMaterialCosts = "material_costs"
	RawRecipes       = "recipes"
	RawMetaAds       = "meta_ads"
	RawGSCDaily      = "gsc_daily"
)

// LoadRaw loads every parsed extract into its raw table. Tables are
// dropped and recreated from the extract's column set so schema drift in
// the export tooling never breaks a load.
func LoadRaw(ctx context.Context, pool *pgxpool.Pool, bc db.BatchConfig, ex *Extracts) error {
	loadedAt := time.Now().UTC()

	tables := []struct {
		table *Table
		name  string
	}{
		{ex.Orders, RawOrders},
		{ex.Products, RawProducts},
		{ex.Customers, RawCustomers},
		{ex.SKUMap, RawSKUMap},
		{ex.MaterialCosts, RawMaterialCosts},
		{ex.Recipes, RawRecipes},
		{ex.MetaAds, RawMetaAds},
		{ex.SearchConsole, RawGSCDaily},
	}
	for _, t := range tables {
		if t.table == nil {
			continue
		}
		if err := loadTable(ctx, pool, bc, t.name, t.table, loadedAt); err != nil {
			return fmt.Errorf("loading %s.%s: %w", RawSchema, t.name, err)
		}
	}
	return nil
}

func loadTable(ctx context.Context, pool *pgxpool.Pool, bc db.BatchConfig, name string, t *Table, loadedAt time.Time) error {
	drop := fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{RawSchema, name}.Sanitize())
	if _, err := pool.Exec(ctx, drop); err != nil {
		return err
	}

	defs := make([]string, 0, len(t.Columns)+1)
	for _, col := range t.Columns {
		defs = append(defs, fmt.Sprintf("%s TEXT", pgx.Identifier{col}.Sanitize()))
	}
	defs = append(defs, "loaded_at TIMESTAMPTZ NOT NULL")
	create := fmt.Sprintf("CREATE TABLE %s (%s)",
		pgx.Identifier{RawSchema, name}.Sanitize(), strings.Join(defs, ", "))
	if _, err := pool.Exec(ctx, create); err != nil {
		return err
	}

	columns := append(append([]string{}, t.Columns...), "loaded_at")
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]any, 0, len(columns))
		for _, col := range t.Columns {
			values = append(values, row[col])
		}
		values = append(values, loadedAt)
		rows[i] = values
	}
	if err := db.CopyRows(ctx, pool, bc, RawSchema, name, columns, rows); err != nil {
		return err
	}

	logging.Info().
		Str("table", RawSchema+"."+name).
		Int("rows", len(t.Rows)).
		Msg("Loaded raw extract")
	return nil
}

// ReadRaw reads a raw table back into a Table. Returns nil (no error)
// when the table does not exist, which is how optional sources read.
func ReadRaw(ctx context.Context, pool *pgxpool.Pool, name string) (*Table, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = $1 AND table_name = $2
        )
    `, RawSchema, name).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s",
		pgx.Identifier{RawSchema, name}.Sanitize()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Name == "loaded_at" {
			continue
		}
		columns = append(columns, f.Name)
	}

	t := &Table{Name: name, Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, f := range fields {
			if f.Name == "loaded_at" {
				continue
			}
			if s, ok := values[i].(string); ok {
				row[f.Name] = s
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}
