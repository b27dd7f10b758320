package warehouse

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
	"github.com/akhdar/akhdar-bi/internal/staging"
)

// CustomerHistory is the fold of one customer's full order history,
// recomputed from scratch on every run.
type CustomerHistory struct {
	Hash           string
	TotalOrders    int
	TotalSpent     decimal.Decimal
	FirstOrderDate time.Time
	FirstOrderID   int64
}

// Segment classifies a customer by order count.
func Segment(totalOrders int) string {
	switch {
	case totalOrders == 0:
		return model.SegmentProspect
	case totalOrders == 1:
		return model.SegmentNew
	default:
		return model.SegmentReturning
	}
}

// IsFirstOrder reports whether an order is its customer's first. Orders
// sharing the first timestamp tie-break on the lower order id.
func (h *CustomerHistory) IsFirstOrder(o model.Order) bool {
	return o.CreatedAt.Equal(h.FirstOrderDate) && o.OrderID == h.FirstOrderID
}

// FoldCustomers groups orders by hashed customer identity and folds
// each group into lifetime metrics. Total spent is net sales (subtotal
// minus refunds), matching the order-grain figure.
func FoldCustomers(orders []model.Order) map[string]*CustomerHistory {
	byHash := make(map[string][]model.Order)
	for _, o := range orders {
		hash := staging.HashEmail(o.Email)
		byHash[hash] = append(byHash[hash], o)
	}

	histories := make(map[string]*CustomerHistory, len(byHash))
	for hash, group := range byHash {
		sort.Slice(group, func(i, j int) bool {
			if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].CreatedAt.Before(group[j].CreatedAt)
			}
			return group[i].OrderID < group[j].OrderID
		})

		h := &CustomerHistory{
			Hash:           hash,
			TotalOrders:    len(group),
			TotalSpent:     decimal.Zero,
			FirstOrderDate: group[0].CreatedAt,
			FirstOrderID:   group[0].OrderID,
		}
		for _, o := range group {
			h.TotalSpent = h.TotalSpent.Add(o.Subtotal.Sub(o.RefundedAmount))
		}
		histories[hash] = h
	}
	return histories
}
