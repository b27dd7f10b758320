//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse implements the financial attribution and cost
// rollup core: dimension derivation, order aggregation, proportional
// discount allocation, recipe-based COGS estimation, margins and
// customer segmentation, plus the shadow-schema publication of the
// result.
package warehouse

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/logging"
	"github.com/akhdar/akhdar-bi/internal/model"
	"github.com/akhdar/akhdar-bi/internal/refdata"
	"github.com/akhdar/akhdar-bi/internal/report"
	"github.com/akhdar/akhdar-bi/internal/staging"
)

// Input is the full set of staged rows one build consumes.
type Input struct {
	Orders        []model.Order
	Lines         []model.OrderLine
	Products      []model.Product
	Customers     []model.Customer
	SKUMap        []model.SKUMapping
	Materials     []model.Material
	Recipes       []model.RecipeLine
	Marketing     []model.MarketingRow
	SearchConsole []model.SearchConsoleRow
}

// Options controls a build.
type Options struct {
	Workers       int
	CalendarStart time.Time
	CalendarEnd   time.Time
}

// Result is the complete warehouse content for one run, deterministic
// for unchanged input.
type Result struct {
	Dates           []model.DateDim
	Products        []model.ProductDim
	Customers       []model.CustomerDim
	Channels        []model.ChannelDim
	ShippingMethods []model.ShippingMethodDim
	Materials       []model.MaterialDim

	Orders      []model.OrderFact
	Lines       []model.OrderLineFact
	CogsDetails []model.CogsDetail

	Marketing     []model.MarketingRow
	SearchConsole []model.SearchConsoleRow

	Report *report.Report
}

type orderOutput struct {
	fact    *model.OrderFact
	lines   []model.OrderLineFact
	details [][]model.CogsDetail
}

// Build runs the transformation core over staged input. Findings from
// upstream staging land in the same report. Per-order work fans out
// across opts.Workers goroutines; the lookup structures are read-only
// once built, and output order is fixed by order id so repeated runs on
// unchanged input produce identical results.
func Build(in Input, opts Options, rep *report.Report) *Result {
	res := refdata.Build(in.SKUMap, in.Materials, in.Recipes, rep)

	dates := GenerateDates(opts.CalendarStart, opts.CalendarEnd)
	dateIndex := make(map[int]bool, len(dates))
	for _, d := range dates {
		dateIndex[d.Key] = true
	}

	productDims := BuildProductDims(in.SKUMap, in.Products)
	productKey := make(map[string]int, len(productDims))
	for _, d := range productDims {
		productKey[d.InternalSKU] = d.Key
	}

	channelDims := BuildChannelDims(in.Orders)
	channelKey := make(map[string]int, len(channelDims))
	for _, d := range channelDims {
		channelKey[d.Code] = d.Key
	}

	shippingDims := BuildShippingMethodDims(in.Orders)
	shippingKey := make(map[string]int, len(shippingDims))
	for _, d := range shippingDims {
		shippingKey[d.Code] = d.Key
	}

	materialDims := BuildMaterialDims(res.Materials())

	histories := FoldCustomers(in.Orders)
	customerDims := BuildCustomerDims(histories, in.Customers)
	customerKey := make(map[string]int, len(customerDims))
	for _, d := range customerDims {
		customerKey[d.Hash] = d.Key
	}

	linesByOrder := make(map[int64][]model.OrderLine, len(in.Orders))
	for _, line := range in.Lines {
		linesByOrder[line.OrderID] = append(linesByOrder[line.OrderID], line)
	}
	for id := range linesByOrder {
		group := linesByOrder[id]
		sort.Slice(group, func(i, j int) bool { return group[i].LineNumber < group[j].LineNumber })
	}

	outputs := make([]orderOutput, len(in.Orders))
	jobs := make(chan int)
	var processed atomic.Int64
	var wg sync.WaitGroup

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outputs[i] = buildOrder(in.Orders[i], linesByOrder[in.Orders[i].OrderID],
					res, histories, dateIndex, productKey, channelKey, shippingKey, customerKey, rep)
				processed.Add(1)
			}
		}()
	}
	for i := range in.Orders {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := &Result{
		Dates:           dates,
		Products:        productDims,
		Customers:       customerDims,
		Channels:        channelDims,
		ShippingMethods: shippingDims,
		Materials:       materialDims,
		Marketing:       in.Marketing,
		SearchConsole:   in.SearchConsole,
		Report:          rep,
	}

	// Line and detail keys are assigned here, in order-id order, so the
	// numbering never depends on worker scheduling.
	for _, out := range outputs {
		if out.fact == nil {
			continue
		}
		result.Orders = append(result.Orders, *out.fact)
		for j := range out.lines {
			out.lines[j].Key = len(result.Lines) + 1
			result.Lines = append(result.Lines, out.lines[j])
			for _, detail := range out.details[j] {
				detail.OrderLineKey = out.lines[j].Key
				result.CogsDetails = append(result.CogsDetails, detail)
			}
		}
	}

	logging.Info().
		Int64("orders", processed.Load()).
		Int("order_facts", len(result.Orders)).
		Int("line_facts", len(result.Lines)).
		Int("cogs_details", len(result.CogsDetails)).
		Msg("Transformation complete")

	return result
}

func buildOrder(
	o model.Order,
	lines []model.OrderLine,
	res *refdata.Resolver,
	histories map[string]*CustomerHistory,
	dateIndex map[int]bool,
	productKey, channelKey, shippingKey map[string]int,
	customerKey map[string]int,
	rep *report.Report,
) orderOutput {
	dateKey := DateKey(o.CreatedAt)
	if !dateIndex[dateKey] {
		rep.Add(report.OutOfRangeDate, "orders",
			fmt.Sprintf("order %d dated %s outside calendar dimension", o.OrderID, o.CreatedAt.Format("2006-01-02")))
		return orderOutput{}
	}

	totals := AggregateOrder(o, lines)
	if totals.ValidationStatus != model.ValidationOK {
		rep.Add(report.ReconciliationMismatch, "orders",
			fmt.Sprintf("order %d (%s): %s", o.OrderID, o.OrderNumber, totals.ValidationStatus))
	}

	hash := staging.HashEmail(o.Email)
	history := histories[hash]

	chKey, ok := channelKey[normalizeChannel(o.Source)]
	if !ok {
		chKey = channelKey["web"]
	}
	smKey, ok := shippingKey[ShippingMethodCode(o.ShippingMethod)]
	if !ok {
		smKey = 1
	}

	fact := &model.OrderFact{
		OrderID:           o.OrderID,
		OrderNumber:       o.OrderNumber,
		DateKey:           dateKey,
		CustomerKey:       customerKey[hash],
		ChannelKey:        chKey,
		ShippingMethodKey: smKey,
		GrossProductSales: totals.GrossProductSales,
		DiscountAmount:    o.DiscountAmount,
		Subtotal:          o.Subtotal,
		ShippingAmount:    o.Shipping,
		TaxAmount:         o.Taxes,
		TotalAmount:       o.Total,
		RefundedAmount:    o.RefundedAmount,
		NetSales:          totals.NetSales,
		LineItemCount:     totals.LineItemCount,
		UnitCount:         totals.UnitCount,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		RiskLevel:         o.RiskLevel,
		IsFirstOrder:      history.IsFirstOrder(o),
		ValidationStatus:  totals.ValidationStatus,
		CreatedAt:         o.CreatedAt,
		PaidAt:            o.PaidAt,
		FulfilledAt:       o.FulfilledAt,
	}

	// Unmapped lines never reach fact output, so the order discount is
	// allocated over the mapped lines only. That keeps the per-order sum
	// of allocations equal to the order's discount amount.
	type mappedLine struct {
		line    model.OrderLine
		mapping model.SKUMapping
	}
	mapped := make([]mappedLine, 0, len(lines))
	allocatable := make([]model.OrderLine, 0, len(lines))
	for _, line := range lines {
		mapping, ok := res.ProductByLineItem(line.Name)
		if !ok {
			rep.Add(report.UnresolvedReference, "order_lines",
				fmt.Sprintf("unmapped product %q", line.Name))
			continue
		}
		mapped = append(mapped, mappedLine{line, mapping})
		allocatable = append(allocatable, line)
	}
	allocations := AllocateDiscount(o.DiscountAmount, allocatable)

	out := orderOutput{fact: fact}
	for j, ml := range mapped {
		line, mapping := ml.line, ml.mapping

		gross := line.Price.Mul(decimalFromInt(line.Quantity))
		net := gross.Sub(line.Discount).Sub(allocations[j])
		cogs := EstimateCOGS(res, mapping)
		margin, marginPct := ComputeMargin(net, line.Quantity, cogs.EstimatedCOGS)

		lf := model.OrderLineFact{
			OrderID:                o.OrderID,
			LineNumber:             line.LineNumber,
			ProductKey:             productKey[mapping.InternalSKU],
			DateKey:                dateKey,
			Quantity:               line.Quantity,
			UnitPrice:              line.Price,
			GrossLineRevenue:       gross,
			LineDiscount:           line.Discount,
			AllocatedOrderDiscount: allocations[j],
			NetLineRevenue:         net,
			EstimatedCOGS:          cogs.EstimatedCOGS,
			HasMissingCost:         cogs.HasMissingCost,
			GrossMargin:            margin,
			MarginPercent:          marginPct,
		}
		for d := range cogs.Details {
			cogs.Details[d].ProductKey = lf.ProductKey
		}
		out.lines = append(out.lines, lf)
		out.details = append(out.details, cogs.Details)
	}
	return out
}

func normalizeChannel(source string) string {
	code := strings.ToLower(strings.TrimSpace(source))
	if code == "" {
		return "web"
	}
	return code
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
