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
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
	"github.com/akhdar/akhdar-bi/internal/staging"
)

// Defaults applied when the catalog export carries no row for a mapped
// product.
var (
	defaultVendor       = "Akhdar Perfumes"
	defaultVariantPrice = decimal.RequireFromString("10.50")
)

// DateKey converts a timestamp to its YYYYMMDD dimension key.
func DateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// GenerateDates pre-generates the calendar dimension over [start, end]
// inclusive, with derived calendar attributes computed once.
func GenerateDates(start, end time.Time) []model.DateDim {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var dates []model.DateDim
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		_, week := d.ISOWeek()
		weekday := d.Weekday()
		dates = append(dates, model.DateDim{
			Key:        DateKey(d),
			Date:       d,
			Year:       d.Year(),
			Quarter:    (int(d.Month())-1)/3 + 1,
			Month:      int(d.Month()),
			MonthName:  d.Month().String(),
			WeekOfYear: week,
			DayOfMonth: d.Day(),
			DayOfWeek:  int(weekday),
			DayName:    weekday.String(),
			IsWeekend:  weekday == time.Saturday || weekday == time.Sunday,
		})
	}
	return dates
}

// BuildProductDims derives the product dimension from the SKU map
// joined to the catalog export by handle. Internal SKU is the natural
// key; repeats upsert attributes last-write-wins.
func BuildProductDims(skuMap []model.SKUMapping, products []model.Product) []model.ProductDim {
	byHandle := make(map[string]model.Product, len(products))
	for _, p := range products {
		byHandle[p.Handle] = p
	}

	keys := make(map[string]int, len(skuMap))
	var dims []model.ProductDim
	for _, m := range skuMap {
		vendor := defaultVendor
		price := defaultVariantPrice
		if p, ok := byHandle[m.Handle]; ok {
			if p.Vendor != "" {
				vendor = p.Vendor
			}
			if p.VariantPrice.Valid {
				price = p.VariantPrice.Decimal
			}
		}
		dim := model.ProductDim{
			InternalSKU:  m.InternalSKU,
			Handle:       m.Handle,
			Title:        m.LineItemName,
			SizeML:       m.SizeML,
			RecipeID:     m.RecipeID,
			Category:     m.Category,
			Vendor:       vendor,
			VariantPrice: price,
			IsActive:     m.IsActive,
		}
		if key, seen := keys[m.InternalSKU]; seen {
			dim.Key = key
			dims[key-1] = dim
			continue
		}
		dim.Key = len(dims) + 1
		keys[m.InternalSKU] = dim.Key
		dims = append(dims, dim)
	}
	return dims
}

// BuildChannelDims derives the channel dimension from distinct order
// sources. A 'web' default row is always seeded first so unattributed
// orders have a home.
func BuildChannelDims(orders []model.Order) []model.ChannelDim {
	dims := []model.ChannelDim{{Key: 1, Code: "web", Name: "Online Store"}}
	seen := map[string]bool{"web": true}

	var codes []string
	names := make(map[string]string)
	for _, o := range orders {
		code := strings.ToLower(strings.TrimSpace(o.Source))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
		names[code] = o.Source
	}
	sort.Strings(codes)
	for _, code := range codes {
		dims = append(dims, model.ChannelDim{
			Key:  len(dims) + 1,
			Code: code,
			Name: names[code],
		})
	}
	return dims
}

// ShippingMethodCode normalizes a shipping method name to its
// dimension code.
func ShippingMethodCode(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// BuildShippingMethodDims derives the shipping method dimension from
// distinct order shipping methods, falling back to a single 'unknown'
// row when no order carries one.
func BuildShippingMethodDims(orders []model.Order) []model.ShippingMethodDim {
	var codes []string
	names := make(map[string]string)
	for _, o := range orders {
		if o.ShippingMethod == "" {
			continue
		}
		code := ShippingMethodCode(o.ShippingMethod)
		if _, seen := names[code]; !seen {
			codes = append(codes, code)
		}
		names[code] = o.ShippingMethod
	}
	if len(codes) == 0 {
		return []model.ShippingMethodDim{{Key: 1, Code: "unknown", Name: "Unknown"}}
	}

	sort.Strings(codes)
	dims := make([]model.ShippingMethodDim, 0, len(codes))
	for _, code := range codes {
		dims = append(dims, model.ShippingMethodDim{
			Key:             len(dims) + 1,
			Code:            code,
			Name:            names[code],
			IsLocalDelivery: strings.Contains(strings.ToLower(names[code]), "local"),
		})
	}
	return dims
}

// BuildMaterialDims derives the material dimension from the resolver's
// arena, in arena order so dimension keys and arena keys stay aligned.
func BuildMaterialDims(materials []model.Material) []model.MaterialDim {
	dims := make([]model.MaterialDim, 0, len(materials))
	for i, m := range materials {
		dims = append(dims, model.MaterialDim{Key: i + 1, Material: m})
	}
	return dims
}

// BuildCustomerDims derives the customer dimension from folded order
// histories joined to the customer export by identity hash. Exported
// customers with no order history appear as prospects. Only the hash
// and coarse geography survive; emails, names and street addresses do
// not.
func BuildCustomerDims(histories map[string]*CustomerHistory, customers []model.Customer) []model.CustomerDim {
	byHash := make(map[string]model.Customer, len(customers))
	for _, c := range customers {
		byHash[staging.HashEmail(c.Email)] = c
	}

	hashes := make([]string, 0, len(histories))
	for hash := range histories {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)

	var dims []model.CustomerDim
	for _, hash := range hashes {
		h := histories[hash]
		dim := model.CustomerDim{
			Hash:           hash,
			FirstOrderDate: h.FirstOrderDate,
			TotalOrders:    h.TotalOrders,
			TotalSpent:     h.TotalSpent,
			Segment:        Segment(h.TotalOrders),
		}
		if c, ok := byHash[hash]; ok {
			dim.CustomerID = c.CustomerID
			dim.City = c.City
			dim.Province = c.Province
			dim.ProvinceCode = c.ProvinceCode
			dim.Country = c.Country
			dim.CountryCode = c.CountryCode
			dim.AcceptsEmail = c.AcceptsEmail
			dim.AcceptsSMS = c.AcceptsSMS
		}
		dim.Key = len(dims) + 1
		dims = append(dims, dim)
	}

	// Exported customers who never ordered.
	prospectHashes := make([]string, 0)
	prospects := make(map[string]model.Customer)
	for hash, c := range byHash {
		if _, ordered := histories[hash]; !ordered {
			prospectHashes = append(prospectHashes, hash)
			prospects[hash] = c
		}
	}
	sort.Strings(prospectHashes)
	for _, hash := range prospectHashes {
		c := prospects[hash]
		dims = append(dims, model.CustomerDim{
			Key:          len(dims) + 1,
			Hash:         hash,
			CustomerID:   c.CustomerID,
			City:         c.City,
			Province:     c.Province,
			ProvinceCode: c.ProvinceCode,
			Country:      c.Country,
			CountryCode:  c.CountryCode,
			AcceptsEmail: c.AcceptsEmail,
			AcceptsSMS:   c.AcceptsSMS,
			TotalSpent:   decimal.Zero,
			Segment:      Segment(0),
		})
	}
	return dims
}
