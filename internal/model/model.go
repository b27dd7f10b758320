//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package model defines the typed rows flowing through the warehouse build:
// staged extract rows on the way in, dimension and fact rows on the way out.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer lifecycle segments.
const (
	SegmentProspect  = "prospect"
	SegmentNew       = "new"
	SegmentReturning = "returning"
)

// Order-level validation statuses.
const (
	ValidationOK               = "ok"
	ValidationSubtotalMismatch = "subtotal_mismatch"
	ValidationTotalMismatch    = "total_mismatch"
)

// Order is one storefront order header, deduplicated to a single row
// per order id.
type Order struct {
	OrderID           int64
	OrderNumber       string
	Email             string
	FinancialStatus   string
	FulfillmentStatus string
	Currency          string

	Subtotal       decimal.Decimal
	Shipping       decimal.Decimal
	Taxes          decimal.Decimal
	Total          decimal.Decimal
	DiscountCode   string
	DiscountAmount decimal.Decimal
	RefundedAmount decimal.Decimal

	ShippingMethod string
	RiskLevel      string
	Source         string
	PaymentMethod  string

	BillingCity      string
	BillingProvince  string
	BillingCountry   string
	BillingZip       string
	ShippingCity     string
	ShippingProvince string
	ShippingCountry  string
	ShippingZip      string

	CreatedAt   time.Time
	PaidAt      *time.Time
	FulfilledAt *time.Time
	CancelledAt *time.Time
}

// OrderLine is one line item belonging to exactly one Order. LineNumber
// is assigned per order in line-item-name order during staging.
type OrderLine struct {
	OrderID           int64
	OrderNumber       string
	LineNumber        int
	Name              string
	SKU               string
	Quantity          int
	Price             decimal.Decimal
	CompareAtPrice    decimal.NullDecimal
	Discount          decimal.Decimal
	FulfillmentStatus string
	Vendor            string
	CreatedAt         time.Time
}

// Product is one storefront catalog row, deduplicated per handle.
type Product struct {
	Handle         string
	Title          string
	Vendor         string
	Category       string
	ProductType    string
	Tags           string
	VariantSKU     string
	VariantPrice   decimal.NullDecimal
	CompareAtPrice decimal.NullDecimal
	InventoryQty   int
	IsPublished    bool
	Status         string
}

// Customer is one storefront customer export row. Email is carried only
// until dimension build, where it is reduced to a one-way hash.
type Customer struct {
	CustomerID   int64
	Email        string
	FirstName    string
	LastName     string
	AcceptsEmail bool
	AcceptsSMS   bool
	City         string
	Province     string
	ProvinceCode string
	Country      string
	CountryCode  string
	Zip          string
	TotalSpent   decimal.Decimal
	TotalOrders  int
}

// SKUMapping maps a storefront line-item name to an internal SKU and its
// recipe reference.
type SKUMapping struct {
	InternalSKU  string
	LineItemName string
	Handle       string
	SizeML       int
	RecipeID     string
	Category     string
	IsActive     bool
}

// Material is one ingredient or packaging unit from the material-cost
// sheet. HasKnownCost is the single source of cost-completeness truth.
type Material struct {
	MaterialID      string
	Name            string
	IngredientMatch string
	Category        string
	Unit            string
	CostPerUnit     decimal.NullDecimal
	CostPerML       decimal.NullDecimal
	HasKnownCost    bool
	Supplier        string
}

// RecipeLine is one ingredient of a recipe at a given batch size. The
// amount basis is either AmountML (fixed quantity, e.g. packaging) or
// Percent of the batch volume (liquids).
type RecipeLine struct {
	RecipeID        string
	RecipeName      string
	Variant         string
	BatchSizeML     int
	IngredientMatch string
	Percent         decimal.NullDecimal
	AmountML        decimal.NullDecimal
	MaterialID      string
}

// MarketingRow is one Meta ads campaign row (optional source).
type MarketingRow struct {
	CampaignName     string
	Reach            int64
	Impressions      int64
	AmountSpent      decimal.Decimal
	LinkClicks       int64
	LandingPageViews int64
	CPM              decimal.NullDecimal
	CPC              decimal.NullDecimal
	CTR              decimal.NullDecimal
}

// SearchConsoleRow is one Search Console daily row (optional source).
type SearchConsoleRow struct {
	Date        time.Time
	Clicks      int64
	Impressions int64
	CTR         decimal.NullDecimal
	AvgPosition decimal.NullDecimal
}

// DateDim is one pre-generated calendar day. Key is YYYYMMDD.
type DateDim struct {
	Key        int
	Date       time.Time
	Year       int
	Quarter    int
	Month      int
	MonthName  string
	WeekOfYear int
	DayOfMonth int
	DayOfWeek  int
	DayName    string
	IsWeekend  bool
}

// ProductDim is one product dimension row keyed by internal SKU.
type ProductDim struct {
	Key          int
	InternalSKU  string
	Handle       string
	Title        string
	SizeML       int
	RecipeID     string
	Category     string
	Vendor       string
	VariantPrice decimal.Decimal
	IsActive     bool
}

// CustomerDim is one customer dimension row keyed by identity hash.
// It carries no email, name, phone or street address.
type CustomerDim struct {
	Key            int
	Hash           string
	CustomerID     int64
	City           string
	Province       string
	ProvinceCode   string
	Country        string
	CountryCode    string
	AcceptsEmail   bool
	AcceptsSMS     bool
	FirstOrderDate time.Time
	TotalOrders    int
	TotalSpent     decimal.Decimal
	Segment        string
}

// ChannelDim is one sales channel row keyed by channel code.
type ChannelDim struct {
	Key  int
	Code string
	Name string
}

// ShippingMethodDim is one shipping method row keyed by method code.
type ShippingMethodDim struct {
	Key             int
	Code            string
	Name            string
	IsLocalDelivery bool
}

// MaterialDim is one material dimension row keyed by material id.
type MaterialDim struct {
	Key int
	Material
}

// OrderFact is the order-grain financial fact.
type OrderFact struct {
	OrderID           int64
	OrderNumber       string
	DateKey           int
	CustomerKey       int
	ChannelKey        int
	ShippingMethodKey int

	GrossProductSales decimal.Decimal
	DiscountAmount    decimal.Decimal
	Subtotal          decimal.Decimal
	ShippingAmount    decimal.Decimal
	TaxAmount         decimal.Decimal
	TotalAmount       decimal.Decimal
	RefundedAmount    decimal.Decimal
	NetSales          decimal.Decimal

	LineItemCount int
	UnitCount     int

	FinancialStatus   string
	FulfillmentStatus string
	RiskLevel         string

	IsFirstOrder     bool
	ValidationStatus string

	CreatedAt   time.Time
	PaidAt      *time.Time
	FulfilledAt *time.Time
}

// OrderLineFact is the line-grain financial fact, an order line enriched
// with the allocated order discount, estimated COGS and margin.
type OrderLineFact struct {
	Key        int
	OrderID    int64
	LineNumber int
	ProductKey int
	DateKey    int

	Quantity               int
	UnitPrice              decimal.Decimal
	GrossLineRevenue       decimal.Decimal
	LineDiscount           decimal.Decimal
	AllocatedOrderDiscount decimal.Decimal
	NetLineRevenue         decimal.Decimal

	EstimatedCOGS  decimal.Decimal
	HasMissingCost bool
	GrossMargin    decimal.Decimal
	MarginPercent  decimal.Decimal
}

// CogsDetail is one (order line, recipe ingredient) costing record,
// individually flagged with its own cost-known status.
type CogsDetail struct {
	OrderLineKey   int
	ProductKey     int
	MaterialKey    int
	IngredientName string
	AmountML       decimal.Decimal
	CostPerML      decimal.NullDecimal
	LineCost       decimal.Decimal
	HasKnownCost   bool
}
