//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package staging turns raw all-text extract rows into typed, cleaned
// row collections: one row per order, numbered line items, deduplicated
// products and reference sheets. Rows missing a required field are
// excluded and reported, never silently passed through.
package staging

import (
	"fmt"
	"sort"

	"github.com/akhdar/akhdar-bi/internal/extract"
	"github.com/akhdar/akhdar-bi/internal/model"
	"github.com/akhdar/akhdar-bi/internal/report"
)

// Orders parses the order export into one header per order id plus its
// numbered line items. The storefront export repeats the order id on
// every line row but carries the header amounts only on rows that also
// carry created_at; the earliest such row wins as the header.
func Orders(t *extract.Table, rep *report.Report) ([]model.Order, []model.OrderLine) {
	type group struct {
		header *model.Order
		lines  []model.OrderLine
	}
	groups := make(map[int64]*group)
	var ids []int64

	for _, row := range t.Rows {
		id, ok := parseInt64(row["id"])
		if !ok {
			rep.Add(report.ExcludedRow, "orders", "missing or unparseable order id")
			continue
		}
		g := groups[id]
		if g == nil {
			g = &group{}
			groups[id] = g
			ids = append(ids, id)
		}

		if createdAt, ok := parseTime(row["created_at"]); ok {
			if g.header == nil || createdAt.Before(g.header.CreatedAt) {
				g.header = &model.Order{
					OrderID:           id,
					OrderNumber:       row["name"],
					Email:             row["email"],
					FinancialStatus:   row["financial_status"],
					FulfillmentStatus: row["fulfillment_status"],
					Currency:          row["currency"],
					Subtotal:          decOrZero(row["subtotal"]),
					Shipping:          decOrZero(row["shipping"]),
					Taxes:             decOrZero(row["taxes"]),
					Total:             decOrZero(row["total"]),
					DiscountCode:      row["discount_code"],
					DiscountAmount:    decOrZero(row["discount_amount"]),
					RefundedAmount:    decOrZero(row["refunded_amount"]),
					ShippingMethod:    row["shipping_method"],
					RiskLevel:         row["risk_level"],
					Source:            row["source"],
					PaymentMethod:     row["payment_method"],
					BillingCity:       row["billing_city"],
					BillingProvince:   row["billing_province"],
					BillingCountry:    row["billing_country"],
					BillingZip:        row["billing_zip"],
					ShippingCity:      row["shipping_city"],
					ShippingProvince:  row["shipping_province"],
					ShippingCountry:   row["shipping_country"],
					ShippingZip:       row["shipping_zip"],
					CreatedAt:         createdAt,
					PaidAt:            parseTimePtr(row["paid_at"]),
					FulfilledAt:       parseTimePtr(row["fulfilled_at"]),
					CancelledAt:       parseTimePtr(row["cancelled_at"]),
				}
			}
		}

		if row["lineitem_name"] == "" {
			continue
		}
		price := parseDec(row["lineitem_price"])
		if !price.Valid {
			rep.Add(report.ExcludedRow, "order_lines",
				fmt.Sprintf("line %q without a price", row["lineitem_name"]))
			continue
		}
		g.lines = append(g.lines, model.OrderLine{
			OrderID:           id,
			OrderNumber:       row["name"],
			Name:              row["lineitem_name"],
			SKU:               row["lineitem_sku"],
			Quantity:          parseInt(row["lineitem_quantity"], 1),
			Price:             price.Decimal,
			CompareAtPrice:    parseDec(row["lineitem_compare_at_price"]),
			Discount:          decOrZero(row["lineitem_discount"]),
			FulfillmentStatus: row["lineitem_fulfillment_status"],
			Vendor:            row["vendor"],
		})
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var orders []model.Order
	var lines []model.OrderLine
	for _, id := range ids {
		g := groups[id]
		if g.header == nil {
			rep.Add(report.ExcludedRow, "orders",
				fmt.Sprintf("order %d has no row with created_at", id))
			continue
		}
		sort.SliceStable(g.lines, func(i, j int) bool {
			return g.lines[i].Name < g.lines[j].Name
		})
		for i := range g.lines {
			g.lines[i].LineNumber = i + 1
			g.lines[i].CreatedAt = g.header.CreatedAt
		}
		orders = append(orders, *g.header)
		lines = append(lines, g.lines...)
	}
	return orders, lines
}

// Products parses the product export, one row per handle (first by
// title).
func Products(t *extract.Table, rep *report.Report) []model.Product {
	byHandle := make(map[string]model.Product)
	var handles []string

	for _, row := range t.Rows {
		handle := row["handle"]
		if handle == "" {
			rep.Add(report.ExcludedRow, "products", "missing product handle")
			continue
		}
		p := model.Product{
			Handle:         handle,
			Title:          row["title"],
			Vendor:         row["vendor"],
			Category:       row["product_category"],
			ProductType:    row["type"],
			Tags:           row["tags"],
			VariantSKU:     row["variant_sku"],
			VariantPrice:   parseDec(row["variant_price"]),
			CompareAtPrice: parseDec(row["variant_compare_at_price"]),
			InventoryQty:   parseInt(row["variant_inventory_qty"], 0),
			IsPublished:    parseTrue(row["published"]),
			Status:         row["status"],
		}
		existing, seen := byHandle[handle]
		if !seen {
			byHandle[handle] = p
			handles = append(handles, handle)
		} else if p.Title < existing.Title {
			byHandle[handle] = p
		}
	}

	sort.Strings(handles)
	products := make([]model.Product, 0, len(handles))
	for _, h := range handles {
		products = append(products, byHandle[h])
	}
	return products
}

// Customers parses the customer export, one row per storefront customer
// id.
func Customers(t *extract.Table, rep *report.Report) []model.Customer {
	var customers []model.Customer
	seen := make(map[int64]bool)

	for _, row := range t.Rows {
		id, ok := parseInt64(row["customer_id"])
		if !ok {
			rep.Add(report.ExcludedRow, "customers", "missing or unparseable customer id")
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		customers = append(customers, model.Customer{
			CustomerID:   id,
			Email:        row["email"],
			FirstName:    row["first_name"],
			LastName:     row["last_name"],
			AcceptsEmail: parseYes(row["accepts_email_marketing"]),
			AcceptsSMS:   parseYes(row["accepts_sms_marketing"]),
			City:         row["default_address_city"],
			Province:     row["default_address_province_code"],
			ProvinceCode: row["default_address_province_code"],
			Country:      row["default_address_country_code"],
			CountryCode:  row["default_address_country_code"],
			Zip:          row["default_address_zip"],
			TotalSpent:   decOrZero(row["total_spent"]),
			TotalOrders:  parseInt(row["total_orders"], 0),
		})
	}
	return customers
}

// SKUMap parses the internal SKU mapping sheet.
func SKUMap(t *extract.Table, rep *report.Report) []model.SKUMapping {
	var mappings []model.SKUMapping
	for _, row := range t.Rows {
		if row["internal_sku"] == "" {
			rep.Add(report.ExcludedRow, "product_sku_map", "missing internal sku")
			continue
		}
		isActive := true
		if row["is_active"] != "" {
			isActive = parseTrue(row["is_active"])
		}
		mappings = append(mappings, model.SKUMapping{
			InternalSKU:  row["internal_sku"],
			LineItemName: row["lineitem_name"],
			Handle:       row["product_handle"],
			SizeML:       parseInt(row["size_ml"], 0),
			RecipeID:     row["recipe_id"],
			Category:     row["product_category"],
			IsActive:     isActive,
		})
	}
	return mappings
}

// MaterialCosts parses the material cost sheet.
func MaterialCosts(t *extract.Table, rep *report.Report) []model.Material {
	var materials []model.Material
	for _, row := range t.Rows {
		if row["material_id"] == "" {
			rep.Add(report.ExcludedRow, "material_costs", "missing material id")
			continue
		}
		materials = append(materials, model.Material{
			MaterialID:      row["material_id"],
			Name:            row["material_name"],
			IngredientMatch: row["ingredient_match"],
			Category:        row["category"],
			Unit:            row["unit"],
			CostPerUnit:     parseDec(row["cost_per_unit"]),
			CostPerML:       parseDec(row["cost_per_ml"]),
			HasKnownCost:    parseTrue(row["has_known_cost"]),
			Supplier:        row["supplier"],
		})
	}
	return materials
}

// Recipes parses the recipe sheet, one row per (recipe, batch size,
// ingredient).
func Recipes(t *extract.Table, rep *report.Report) []model.RecipeLine {
	var recipes []model.RecipeLine
	for _, row := range t.Rows {
		if row["recipe_id"] == "" {
			rep.Add(report.ExcludedRow, "recipes", "missing recipe id")
			continue
		}
		recipes = append(recipes, model.RecipeLine{
			RecipeID:        row["recipe_id"],
			RecipeName:      row["recipe_name"],
			Variant:         row["variant"],
			BatchSizeML:     parseInt(row["batch_size_ml"], 0),
			IngredientMatch: row["ingredient_match"],
			Percent:         parseDec(row["percent"]),
			AmountML:        parseDec(row["amount_ml"]),
			MaterialID:      row["material_id"],
		})
	}
	return recipes
}

// MetaAds parses the optional Meta ads campaign export. Returns nil for
// a nil table.
func MetaAds(t *extract.Table) []model.MarketingRow {
	if t == nil {
		return nil
	}
	var rows []model.MarketingRow
	for _, row := range t.Rows {
		if row["campaign_name"] == "" {
			continue
		}
		spent := row["amount_spent"]
		if spent == "" {
			spent = row["amount_spent_usd"]
		}
		rows = append(rows, model.MarketingRow{
			CampaignName:     row["campaign_name"],
			Reach:            int64(parseInt(row["reach"], 0)),
			Impressions:      int64(parseInt(row["impressions"], 0)),
			AmountSpent:      decOrZero(spent),
			LinkClicks:       int64(parseInt(row["link_clicks"], 0)),
			LandingPageViews: int64(parseInt(row["landing_page_views"], 0)),
			CPM:              parseDec(row["cpm_cost_per_1_000_impressions"]),
			CPC:              parseDec(row["cpc_cost_per_link_click"]),
			CTR:              parseDec(row["ctr_link_click_through_rate"]),
		})
	}
	return rows
}

// SearchConsole parses the optional Search Console daily chart. CTR
// arrives as a percentage string and is stored as a fraction.
func SearchConsole(t *extract.Table) []model.SearchConsoleRow {
	if t == nil {
		return nil
	}
	hundred := newDec(100)
	var rows []model.SearchConsoleRow
	for _, row := range t.Rows {
		date, ok := parseTime(row["date"])
		if !ok {
			continue
		}
		ctr := parseDec(row["ctr"])
		if ctr.Valid {
			ctr.Decimal = ctr.Decimal.Div(hundred)
		}
		rows = append(rows, model.SearchConsoleRow{
			Date:        date,
			Clicks:      int64(parseInt(row["clicks"], 0)),
			Impressions: int64(parseInt(row["impressions"], 0)),
			CTR:         ctr,
			AvgPosition: parseDec(row["position"]),
		})
	}
	return rows
}
