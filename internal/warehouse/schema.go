//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema names. Facts are built into the shadow schema and published by
// renaming it over the live one.
const (
	RawSchema       = "raw"
	StagingSchema   = "staging"
	PublishedSchema = "warehouse"
	ShadowSchema    = "warehouse_build"
	PriorSchema     = "warehouse_prior"
)

// Staging DDL. Staging is an intermediate layer, rebuilt in place each
// run; it is not part of the atomic publication contract.
const stagingSchemaSQL = `
CREATE SCHEMA IF NOT EXISTS staging;

DROP TABLE IF EXISTS staging.stg_orders CASCADE;
CREATE TABLE staging.stg_orders (
    order_id           BIGINT PRIMARY KEY,
    order_number       TEXT,
    email              TEXT,
    financial_status   TEXT,
    fulfillment_status TEXT,
    currency           TEXT,
    subtotal           NUMERIC(12,2),
    shipping           NUMERIC(12,2),
    taxes              NUMERIC(12,2),
    total              NUMERIC(12,2),
    discount_code      TEXT,
    discount_amount    NUMERIC(12,2) NOT NULL DEFAULT 0,
    refunded_amount    NUMERIC(12,2) NOT NULL DEFAULT 0,
    shipping_method    TEXT,
    risk_level         TEXT,
    source             TEXT,
    payment_method     TEXT,
    billing_city       TEXT,
    billing_province   TEXT,
    billing_country    TEXT,
    billing_zip        TEXT,
    shipping_city      TEXT,
    shipping_province  TEXT,
    shipping_country   TEXT,
    shipping_zip       TEXT,
    created_at         TIMESTAMPTZ NOT NULL,
    paid_at            TIMESTAMPTZ,
    fulfilled_at       TIMESTAMPTZ,
    cancelled_at       TIMESTAMPTZ
);

DROP TABLE IF EXISTS staging.stg_order_lines CASCADE;
CREATE TABLE staging.stg_order_lines (
    order_id            BIGINT NOT NULL,
    line_number         INTEGER NOT NULL,
    order_number        TEXT,
    lineitem_name       TEXT NOT NULL,
    lineitem_sku        TEXT,
    lineitem_quantity   INTEGER NOT NULL DEFAULT 1,
    lineitem_price      NUMERIC(12,2) NOT NULL,
    lineitem_discount   NUMERIC(12,2) NOT NULL DEFAULT 0,
    vendor              TEXT,
    created_at          TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (order_id, line_number)
);

DROP TABLE IF EXISTS staging.stg_products CASCADE;
CREATE TABLE staging.stg_products (
    handle                   TEXT PRIMARY KEY,
    title                    TEXT,
    vendor                   TEXT,
    product_category         TEXT,
    product_type             TEXT,
    tags                     TEXT,
    variant_sku              TEXT,
    variant_price            NUMERIC(12,2),
    variant_compare_at_price NUMERIC(12,2),
    variant_inventory_qty    INTEGER NOT NULL DEFAULT 0,
    is_published             BOOLEAN NOT NULL DEFAULT FALSE,
    status                   TEXT
);

DROP TABLE IF EXISTS staging.stg_customers CASCADE;
CREATE TABLE staging.stg_customers (
    customer_id             BIGINT PRIMARY KEY,
    email                   TEXT,
    accepts_email_marketing BOOLEAN NOT NULL DEFAULT FALSE,
    accepts_sms_marketing   BOOLEAN NOT NULL DEFAULT FALSE,
    city                    TEXT,
    province_code           TEXT,
    country_code            TEXT,
    zip                     TEXT,
    total_spent             NUMERIC(12,2) NOT NULL DEFAULT 0,
    total_orders            INTEGER NOT NULL DEFAULT 0
);

DROP TABLE IF EXISTS staging.stg_product_sku_map CASCADE;
CREATE TABLE staging.stg_product_sku_map (
    internal_sku     TEXT PRIMARY KEY,
    lineitem_name    TEXT,
    product_handle   TEXT,
    size_ml          INTEGER,
    recipe_id        TEXT,
    product_category TEXT,
    is_active        BOOLEAN NOT NULL DEFAULT TRUE
);

DROP TABLE IF EXISTS staging.stg_material_costs CASCADE;
CREATE TABLE staging.stg_material_costs (
    material_id      TEXT PRIMARY KEY,
    material_name    TEXT,
    ingredient_match TEXT,
    category         TEXT,
    unit             TEXT,
    cost_per_unit    NUMERIC(12,4),
    cost_per_ml      NUMERIC(12,6),
    has_known_cost   BOOLEAN NOT NULL DEFAULT FALSE,
    supplier         TEXT
);

DROP TABLE IF EXISTS staging.stg_recipes CASCADE;
CREATE TABLE staging.stg_recipes (
    recipe_id        TEXT NOT NULL,
    recipe_name      TEXT,
    variant          TEXT,
    batch_size_ml    INTEGER,
    ingredient_match TEXT,
    percent          NUMERIC(8,4),
    amount_ml        NUMERIC(12,4),
    material_id      TEXT
);
`

// Warehouse DDL template; %[1]s is the target schema. Monetary columns
// carry scale 2, costs scale 4, so full-precision figures are rounded
// exactly once, at persistence.
const warehouseSchemaSQLTemplate = `
CREATE SCHEMA %[1]s;

CREATE TABLE %[1]s.dim_date (
    date_key     INTEGER PRIMARY KEY,
    full_date    DATE NOT NULL,
    year         INTEGER NOT NULL,
    quarter      INTEGER NOT NULL,
    month        INTEGER NOT NULL,
    month_name   TEXT NOT NULL,
    week_of_year INTEGER NOT NULL,
    day_of_month INTEGER NOT NULL,
    day_of_week  INTEGER NOT NULL,
    day_name     TEXT NOT NULL,
    is_weekend   BOOLEAN NOT NULL
);

CREATE TABLE %[1]s.dim_product (
    product_key      INTEGER PRIMARY KEY,
    internal_sku     TEXT NOT NULL UNIQUE,
    product_handle   TEXT,
    product_title    TEXT,
    size_ml          INTEGER,
    recipe_id        TEXT,
    product_category TEXT,
    vendor           TEXT,
    variant_price    NUMERIC(12,2),
    is_active        BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE %[1]s.dim_customer (
    customer_key            INTEGER PRIMARY KEY,
    customer_id_hash        TEXT NOT NULL UNIQUE,
    customer_id             BIGINT,
    city                    TEXT,
    province                TEXT,
    province_code           TEXT,
    country                 TEXT,
    country_code            TEXT,
    accepts_email_marketing BOOLEAN NOT NULL DEFAULT FALSE,
    accepts_sms_marketing   BOOLEAN NOT NULL DEFAULT FALSE,
    first_order_date        DATE,
    total_orders            INTEGER NOT NULL DEFAULT 0,
    total_spent             NUMERIC(12,2) NOT NULL DEFAULT 0,
    customer_segment        TEXT NOT NULL
);

CREATE TABLE %[1]s.dim_channel (
    channel_key  INTEGER PRIMARY KEY,
    channel_code TEXT NOT NULL UNIQUE,
    channel_name TEXT
);

CREATE TABLE %[1]s.dim_shipping_method (
    shipping_method_key  INTEGER PRIMARY KEY,
    shipping_method_code TEXT NOT NULL UNIQUE,
    shipping_method_name TEXT,
    is_local_delivery    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE %[1]s.dim_material (
    material_key     INTEGER PRIMARY KEY,
    material_id      TEXT NOT NULL UNIQUE,
    material_name    TEXT,
    ingredient_match TEXT,
    category         TEXT,
    unit             TEXT,
    cost_per_unit    NUMERIC(12,4),
    cost_per_ml      NUMERIC(12,6),
    has_known_cost   BOOLEAN NOT NULL DEFAULT FALSE,
    supplier         TEXT
);

CREATE TABLE %[1]s.fact_order (
    order_id            BIGINT PRIMARY KEY,
    order_number        TEXT,
    order_date_key      INTEGER NOT NULL REFERENCES %[1]s.dim_date(date_key),
    customer_key        INTEGER REFERENCES %[1]s.dim_customer(customer_key),
    channel_key         INTEGER REFERENCES %[1]s.dim_channel(channel_key),
    shipping_method_key INTEGER REFERENCES %[1]s.dim_shipping_method(shipping_method_key),
    gross_product_sales NUMERIC(12,2) NOT NULL,
    order_discount_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
    subtotal            NUMERIC(12,2) NOT NULL,
    shipping_amount     NUMERIC(12,2) NOT NULL DEFAULT 0,
    tax_amount          NUMERIC(12,2) NOT NULL DEFAULT 0,
    total_amount        NUMERIC(12,2) NOT NULL,
    refunded_amount     NUMERIC(12,2) NOT NULL DEFAULT 0,
    net_sales           NUMERIC(12,2) NOT NULL,
    line_item_count     INTEGER NOT NULL,
    unit_count          INTEGER NOT NULL,
    financial_status    TEXT,
    fulfillment_status  TEXT,
    risk_level          TEXT,
    is_first_order      BOOLEAN NOT NULL DEFAULT FALSE,
    validation_status   TEXT NOT NULL DEFAULT 'ok',
    created_at          TIMESTAMPTZ NOT NULL,
    paid_at             TIMESTAMPTZ,
    fulfilled_at        TIMESTAMPTZ
);

CREATE TABLE %[1]s.fact_order_line (
    order_line_key           INTEGER PRIMARY KEY,
    order_id                 BIGINT NOT NULL REFERENCES %[1]s.fact_order(order_id),
    line_number              INTEGER NOT NULL,
    product_key              INTEGER REFERENCES %[1]s.dim_product(product_key),
    order_date_key           INTEGER NOT NULL REFERENCES %[1]s.dim_date(date_key),
    quantity                 INTEGER NOT NULL,
    unit_price               NUMERIC(12,2) NOT NULL,
    gross_line_revenue       NUMERIC(12,2) NOT NULL,
    line_discount            NUMERIC(12,2) NOT NULL DEFAULT 0,
    allocated_order_discount NUMERIC(12,2) NOT NULL DEFAULT 0,
    net_line_revenue         NUMERIC(12,2) NOT NULL,
    estimated_cogs           NUMERIC(12,4) NOT NULL DEFAULT 0,
    has_missing_cost         BOOLEAN NOT NULL DEFAULT TRUE,
    gross_margin             NUMERIC(12,4) NOT NULL DEFAULT 0,
    margin_percent           NUMERIC(8,2) NOT NULL DEFAULT 0,
    UNIQUE (order_id, line_number)
);

CREATE TABLE %[1]s.fact_cogs_estimate (
    cogs_estimate_key SERIAL PRIMARY KEY,
    order_line_key    INTEGER NOT NULL REFERENCES %[1]s.fact_order_line(order_line_key),
    product_key       INTEGER REFERENCES %[1]s.dim_product(product_key),
    material_key      INTEGER REFERENCES %[1]s.dim_material(material_key),
    ingredient_name   TEXT,
    amount_ml         NUMERIC(12,4),
    cost_per_ml       NUMERIC(12,6),
    line_cost         NUMERIC(12,4) NOT NULL DEFAULT 0,
    has_known_cost    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE %[1]s.fact_marketing_spend (
    campaign_name      TEXT NOT NULL,
    platform           TEXT NOT NULL,
    reach              BIGINT,
    impressions        BIGINT,
    amount_spent       NUMERIC(12,2) NOT NULL DEFAULT 0,
    link_clicks        BIGINT,
    landing_page_views BIGINT,
    cpm                NUMERIC(12,4),
    cpc                NUMERIC(12,4),
    ctr                NUMERIC(8,4)
);

CREATE TABLE %[1]s.fact_gsc_daily (
    date_key     INTEGER NOT NULL,
    clicks       BIGINT,
    impressions  BIGINT,
    ctr          NUMERIC(8,6),
    avg_position NUMERIC(8,2)
);

CREATE TABLE %[1]s.build_issues (
    category TEXT NOT NULL,
    entity   TEXT NOT NULL,
    detail   TEXT NOT NULL,
    count    INTEGER NOT NULL
);
`

// CreateRawSchema creates the raw schema.
func CreateRawSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+RawSchema)
	return err
}

// CreateStagingTables creates (or recreates) the staging tables.
func CreateStagingTables(ctx context.Context, pool *pgxpool.Pool) error {
	return execStatements(ctx, pool, stagingSchemaSQL)
}

// CreateWarehouseTables creates the warehouse tables in the given
// schema, which must not already exist.
func CreateWarehouseTables(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	return execStatements(ctx, pool, fmt.Sprintf(warehouseSchemaSQLTemplate, schema))
}

func execStatements(ctx context.Context, pool *pgxpool.Pool, sql string) error {
	for _, stmt := range strings.Split(sql, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}
	return nil
}
