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

	"github.com/jackc/pgx/v5/pgxpool"
)

// Mart view DDL template; %[1]s is the target schema. Views are created
// inside the shadow schema so the rename swap carries them along, and
// they track the renamed tables by identity rather than by name.
const martViewsSQLTemplate = `
CREATE VIEW %[1]s.mart_sales_daily AS
SELECT
    d.full_date,
    d.year,
    d.month,
    d.is_weekend,
    COUNT(DISTINCT f.order_id)  AS orders,
    SUM(f.unit_count)           AS units,
    SUM(f.gross_product_sales)  AS gross_sales,
    SUM(f.order_discount_amount) AS discounts,
    SUM(f.net_sales)            AS net_sales,
    SUM(f.refunded_amount)      AS refunds
FROM %[1]s.fact_order f
JOIN %[1]s.dim_date d ON d.date_key = f.order_date_key
GROUP BY d.full_date, d.year, d.month, d.is_weekend;

CREATE VIEW %[1]s.mart_product_margin AS
SELECT
    p.internal_sku,
    p.product_title,
    p.product_category,
    p.size_ml,
    COUNT(*)                          AS line_count,
    SUM(l.quantity)                   AS units_sold,
    SUM(l.net_line_revenue)           AS net_revenue,
    SUM(l.estimated_cogs * l.quantity) AS estimated_cogs,
    SUM(l.gross_margin * l.quantity)  AS gross_margin,
    BOOL_OR(l.has_missing_cost)       AS has_missing_cost
FROM %[1]s.fact_order_line l
JOIN %[1]s.dim_product p ON p.product_key = l.product_key
GROUP BY p.internal_sku, p.product_title, p.product_category, p.size_ml;

CREATE VIEW %[1]s.mart_customer_segments AS
SELECT
    c.customer_segment,
    COUNT(*)            AS customers,
    SUM(c.total_orders) AS orders,
    SUM(c.total_spent)  AS lifetime_spend,
    AVG(c.total_spent)  AS avg_lifetime_spend
FROM %[1]s.dim_customer c
GROUP BY c.customer_segment;

CREATE VIEW %[1]s.mart_executive_summary AS
SELECT
    (SELECT COUNT(*) FROM %[1]s.fact_order)                   AS total_orders,
    (SELECT COALESCE(SUM(net_sales), 0) FROM %[1]s.fact_order) AS total_net_sales,
    (SELECT COALESCE(SUM(refunded_amount), 0) FROM %[1]s.fact_order) AS total_refunds,
    (SELECT COUNT(*) FROM %[1]s.dim_customer WHERE customer_segment <> 'prospect') AS buying_customers,
    (SELECT COALESCE(SUM(gross_margin * quantity), 0)
       FROM %[1]s.fact_order_line WHERE NOT has_missing_cost) AS known_gross_margin,
    (SELECT COALESCE(SUM(amount_spent), 0) FROM %[1]s.fact_marketing_spend) AS marketing_spend;
`

// CreateMartViews creates the KPI mart views in the given schema.
func CreateMartViews(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	return execStatements(ctx, pool, fmt.Sprintf(martViewsSQLTemplate, schema))
}
