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
	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/db"
	"github.com/akhdar/akhdar-bi/internal/logging"
)

// WriteStaging recreates the staging tables and bulk-loads the staged
// rows into them.
func WriteStaging(ctx context.Context, pool *pgxpool.Pool, bc db.BatchConfig, in Input) error {
	if err := CreateStagingTables(ctx, pool); err != nil {
		return fmt.Errorf("creating staging tables: %w", err)
	}

	orderRows := make([][]any, len(in.Orders))
	for i, o := range in.Orders {
		orderRows[i] = []any{
			o.OrderID, o.OrderNumber, o.Email, o.FinancialStatus, o.FulfillmentStatus,
			o.Currency, money(o.Subtotal), money(o.Shipping), money(o.Taxes), money(o.Total),
			o.DiscountCode, money(o.DiscountAmount), money(o.RefundedAmount),
			o.ShippingMethod, o.RiskLevel, o.Source, o.PaymentMethod,
			o.BillingCity, o.BillingProvince, o.BillingCountry, o.BillingZip,
			o.ShippingCity, o.ShippingProvince, o.ShippingCountry, o.ShippingZip,
			o.CreatedAt, o.PaidAt, o.FulfilledAt, o.CancelledAt,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, StagingSchema, "stg_orders", []string{
		"order_id", "order_number", "email", "financial_status", "fulfillment_status",
		"currency", "subtotal", "shipping", "taxes", "total",
		"discount_code", "discount_amount", "refunded_amount",
		"shipping_method", "risk_level", "source", "payment_method",
		"billing_city", "billing_province", "billing_country", "billing_zip",
		"shipping_city", "shipping_province", "shipping_country", "shipping_zip",
		"created_at", "paid_at", "fulfilled_at", "cancelled_at",
	}, orderRows); err != nil {
		return err
	}

	lineRows := make([][]any, len(in.Lines))
	for i, l := range in.Lines {
		lineRows[i] = []any{
			l.OrderID, l.LineNumber, l.OrderNumber, l.Name, l.SKU,
			l.Quantity, money(l.Price), money(l.Discount), l.Vendor, l.CreatedAt,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, StagingSchema, "stg_order_lines", []string{
		"order_id", "line_number", "order_number", "lineitem_name", "lineitem_sku",
		"lineitem_quantity", "lineitem_price", "lineitem_discount", "vendor", "created_at",
	}, lineRows); err != nil {
		return err
	}

	productRows := make([][]any, len(in.Products))
	for i, p := range in.Products {
		productRows[i] = []any{
			p.Handle, p.Title, p.Vendor, p.Category, p.ProductType, p.Tags,
			p.VariantSKU, nullDec(p.VariantPrice), nullDec(p.CompareAtPrice),
			p.InventoryQty, p.IsPublished, p.Status,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, StagingSchema, "stg_products", []string{
		"handle", "title", "vendor", "product_category", "product_type", "tags",
		"variant_sku", "variant_price", "variant_compare_at_price",
		"variant_inventory_qty", "is_published", "status",
	}, productRows); err != nil {
		return err
	}

	customerRows := make([][]any, len(in.Customers))
	for i, c := range in.Customers {
		customerRows[i] = []any{
			c.CustomerID, c.Email, c.AcceptsEmail, c.AcceptsSMS,
			c.City, c.ProvinceCode, c.CountryCode, c.Zip,
			money(c.TotalSpent), c.TotalOrders,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, StagingSchema, "stg_customers", []string{
		"customer_id", "email", "accepts_email_marketing", "accepts_sms_marketing",
		"city", "province_code", "country_code", "zip", "total_spent", "total_orders",
	}, customerRows); err != nil {
		return err
	}

	skuRows := make([][]any, len(in.SKUMap))
	for i, m := range in.SKUMap {
		skuRows[i] = []any{
			m.InternalSKU, m.LineItemName, m.Handle, m.SizeML,
			m.RecipeID, m.Category, m.IsActive,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, StagingSchema, "stg_product_sku_map", []string{
		"internal_sku", "lineitem_name", "product_handle", "size_ml",
		"recipe_id", "product_category", "is_active",
	}, skuRows); err != nil {
		return err
	}

	materialRows := make([][]any, len(in.Materials))
	for i, m := range in.Materials {
		materialRows[i] = []any{
			m.MaterialID, m.Name, m.IngredientMatch, m.Category, m.Unit,
			nullDec(m.CostPerUnit), nullDec(m.CostPerML), m.HasKnownCost, m.Supplier,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, StagingSchema, "stg_material_costs", []string{
		"material_id", "material_name", "ingredient_match", "category", "unit",
		"cost_per_unit", "cost_per_ml", "has_known_cost", "supplier",
	}, materialRows); err != nil {
		return err
	}

	recipeRows := make([][]any, len(in.Recipes))
	for i, r := range in.Recipes {
		recipeRows[i] = []any{
			r.RecipeID, r.RecipeName, r.Variant, r.BatchSizeML,
			r.IngredientMatch, nullDec(r.Percent), nullDec(r.AmountML), r.MaterialID,
		}
	}
	return db.CopyRows(ctx, pool, bc, StagingSchema, "stg_recipes", []string{
		"recipe_id", "recipe_name", "variant", "batch_size_ml",
		"ingredient_match", "percent", "amount_ml", "material_id",
	}, recipeRows)
}

// Publish writes a build result into the shadow schema and swaps it
// over the published one. A failure at any point before the swap
// leaves the previously published warehouse untouched.
func Publish(ctx context.Context, pool *pgxpool.Pool, bc db.BatchConfig, result *Result) error {
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS "+ShadowSchema+" CASCADE"); err != nil {
		return fmt.Errorf("clearing shadow schema: %w", err)
	}
	if err := CreateWarehouseTables(ctx, pool, ShadowSchema); err != nil {
		return fmt.Errorf("creating shadow tables: %w", err)
	}
	if err := writeResult(ctx, pool, bc, ShadowSchema, result); err != nil {
		return err
	}
	if err := CreateMartViews(ctx, pool, ShadowSchema); err != nil {
		return fmt.Errorf("creating mart views: %w", err)
	}
	if err := swapSchemas(ctx, pool); err != nil {
		return err
	}

	logging.Info().
		Str("schema", PublishedSchema).
		Int("orders", len(result.Orders)).
		Int("lines", len(result.Lines)).
		Msg("Warehouse published")
	return nil
}

func writeResult(ctx context.Context, pool *pgxpool.Pool, bc db.BatchConfig, schema string, result *Result) error {
	dateRows := make([][]any, len(result.Dates))
	for i, d := range result.Dates {
		dateRows[i] = []any{
			d.Key, d.Date, d.Year, d.Quarter, d.Month, d.MonthName,
			d.WeekOfYear, d.DayOfMonth, d.DayOfWeek, d.DayName, d.IsWeekend,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "dim_date", []string{
		"date_key", "full_date", "year", "quarter", "month", "month_name",
		"week_of_year", "day_of_month", "day_of_week", "day_name", "is_weekend",
	}, dateRows); err != nil {
		return err
	}

	productRows := make([][]any, len(result.Products))
	for i, p := range result.Products {
		productRows[i] = []any{
			p.Key, p.InternalSKU, p.Handle, p.Title, p.SizeML, p.RecipeID,
			p.Category, p.Vendor, money(p.VariantPrice), p.IsActive,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "dim_product", []string{
		"product_key", "internal_sku", "product_handle", "product_title", "size_ml",
		"recipe_id", "product_category", "vendor", "variant_price", "is_active",
	}, productRows); err != nil {
		return err
	}

	customerRows := make([][]any, len(result.Customers))
	for i, c := range result.Customers {
		var firstOrder any
		if !c.FirstOrderDate.IsZero() {
			firstOrder = c.FirstOrderDate
		}
		customerRows[i] = []any{
			c.Key, c.Hash, nullInt64(c.CustomerID), c.City, c.Province, c.ProvinceCode,
			c.Country, c.CountryCode, c.AcceptsEmail, c.AcceptsSMS,
			firstOrder, c.TotalOrders, money(c.TotalSpent), c.Segment,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "dim_customer", []string{
		"customer_key", "customer_id_hash", "customer_id", "city", "province",
		"province_code", "country", "country_code", "accepts_email_marketing",
		"accepts_sms_marketing", "first_order_date", "total_orders", "total_spent",
		"customer_segment",
	}, customerRows); err != nil {
		return err
	}

	channelRows := make([][]any, len(result.Channels))
	for i, c := range result.Channels {
		channelRows[i] = []any{c.Key, c.Code, c.Name}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "dim_channel",
		[]string{"channel_key", "channel_code", "channel_name"}, channelRows); err != nil {
		return err
	}

	shippingRows := make([][]any, len(result.ShippingMethods))
	for i, s := range result.ShippingMethods {
		shippingRows[i] = []any{s.Key, s.Code, s.Name, s.IsLocalDelivery}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "dim_shipping_method", []string{
		"shipping_method_key", "shipping_method_code", "shipping_method_name", "is_local_delivery",
	}, shippingRows); err != nil {
		return err
	}

	materialRows := make([][]any, len(result.Materials))
	for i, m := range result.Materials {
		materialRows[i] = []any{
			m.Key, m.MaterialID, m.Name, m.IngredientMatch, m.Category, m.Unit,
			nullDec(m.CostPerUnit), nullDec(m.CostPerML), m.HasKnownCost, m.Supplier,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "dim_material", []string{
		"material_key", "material_id", "material_name", "ingredient_match", "category",
		"unit", "cost_per_unit", "cost_per_ml", "has_known_cost", "supplier",
	}, materialRows); err != nil {
		return err
	}

	orderRows := make([][]any, len(result.Orders))
	for i, f := range result.Orders {
		orderRows[i] = []any{
			f.OrderID, f.OrderNumber, f.DateKey, nullKey(f.CustomerKey),
			nullKey(f.ChannelKey), nullKey(f.ShippingMethodKey),
			money(f.GrossProductSales), money(f.DiscountAmount), money(f.Subtotal),
			money(f.ShippingAmount), money(f.TaxAmount), money(f.TotalAmount),
			money(f.RefundedAmount), money(f.NetSales),
			f.LineItemCount, f.UnitCount,
			f.FinancialStatus, f.FulfillmentStatus, f.RiskLevel,
			f.IsFirstOrder, f.ValidationStatus,
			f.CreatedAt, f.PaidAt, f.FulfilledAt,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "fact_order", []string{
		"order_id", "order_number", "order_date_key", "customer_key",
		"channel_key", "shipping_method_key",
		"gross_product_sales", "order_discount_amount", "subtotal",
		"shipping_amount", "tax_amount", "total_amount",
		"refunded_amount", "net_sales",
		"line_item_count", "unit_count",
		"financial_status", "fulfillment_status", "risk_level",
		"is_first_order", "validation_status",
		"created_at", "paid_at", "fulfilled_at",
	}, orderRows); err != nil {
		return err
	}

	lineRows := make([][]any, len(result.Lines))
	for i, l := range result.Lines {
		lineRows[i] = []any{
			l.Key, l.OrderID, l.LineNumber, nullKey(l.ProductKey), l.DateKey,
			l.Quantity, money(l.UnitPrice), money(l.GrossLineRevenue),
			money(l.LineDiscount), money(l.AllocatedOrderDiscount), money(l.NetLineRevenue),
			l.EstimatedCOGS.Round(4), l.HasMissingCost,
			l.GrossMargin.Round(4), l.MarginPercent.Round(2),
		}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "fact_order_line", []string{
		"order_line_key", "order_id", "line_number", "product_key", "order_date_key",
		"quantity", "unit_price", "gross_line_revenue",
		"line_discount", "allocated_order_discount", "net_line_revenue",
		"estimated_cogs", "has_missing_cost", "gross_margin", "margin_percent",
	}, lineRows); err != nil {
		return err
	}

	detailRows := make([][]any, len(result.CogsDetails))
	for i, d := range result.CogsDetails {
		detailRows[i] = []any{
			d.OrderLineKey, nullKey(d.ProductKey), nullKey(d.MaterialKey),
			d.IngredientName, d.AmountML.Round(4), nullDec(d.CostPerML),
			d.LineCost.Round(4), d.HasKnownCost,
		}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "fact_cogs_estimate", []string{
		"order_line_key", "product_key", "material_key",
		"ingredient_name", "amount_ml", "cost_per_ml", "line_cost", "has_known_cost",
	}, detailRows); err != nil {
		return err
	}

	marketingRows := make([][]any, len(result.Marketing))
	for i, m := range result.Marketing {
		marketingRows[i] = []any{
			m.CampaignName, "meta", m.Reach, m.Impressions, money(m.AmountSpent),
			m.LinkClicks, m.LandingPageViews, nullDec(m.CPM), nullDec(m.CPC), nullDec(m.CTR),
		}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "fact_marketing_spend", []string{
		"campaign_name", "platform", "reach", "impressions", "amount_spent",
		"link_clicks", "landing_page_views", "cpm", "cpc", "ctr",
	}, marketingRows); err != nil {
		return err
	}

	gscRows := make([][]any, len(result.SearchConsole))
	for i, g := range result.SearchConsole {
		gscRows[i] = []any{
			DateKey(g.Date), g.Clicks, g.Impressions, nullDec(g.CTR), nullDec(g.AvgPosition),
		}
	}
	if err := db.CopyRows(ctx, pool, bc, schema, "fact_gsc_daily", []string{
		"date_key", "clicks", "impressions", "ctr", "avg_position",
	}, gscRows); err != nil {
		return err
	}

	issues := result.Report.Issues()
	issueRows := make([][]any, len(issues))
	for i, issue := range issues {
		issueRows[i] = []any{string(issue.Category), issue.Entity, issue.Detail, issue.Count}
	}
	return db.CopyRows(ctx, pool, bc, schema, "build_issues",
		[]string{"category", "entity", "detail", "count"}, issueRows)
}

// swapSchemas renames the shadow schema over the published one in a
// single transaction, so readers see either the old warehouse or the
// new one, never a half-built state.
func swapSchemas(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting publish transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DROP SCHEMA IF EXISTS "+PriorSchema+" CASCADE"); err != nil {
		return fmt.Errorf("dropping prior schema: %w", err)
	}

	var published bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)",
		PublishedSchema).Scan(&published)
	if err != nil {
		return fmt.Errorf("checking published schema: %w", err)
	}
	if published {
		if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER SCHEMA %s RENAME TO %s", PublishedSchema, PriorSchema)); err != nil {
			return fmt.Errorf("retiring published schema: %w", err)
		}
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER SCHEMA %s RENAME TO %s", ShadowSchema, PublishedSchema)); err != nil {
		return fmt.Errorf("promoting shadow schema: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing publish: %w", err)
	}

	// Best effort; the retired schema is garbage either way.
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS "+PriorSchema+" CASCADE"); err != nil {
		logging.Warn().Err(err).Msg("Could not drop retired warehouse schema")
	}
	return nil
}

// money rounds a full-precision figure to currency scale. Rounding
// happens exactly once, at persistence.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func nullDec(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal
}

func nullKey(k int) any {
	if k <= 0 {
		return nil
	}
	return k
}

func nullInt64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
