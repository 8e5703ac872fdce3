package accounting

import (
	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// stockDirection is the per-unit stock change for each movement. Creation applies it,
// deletion applies its negation; nothing else may derive stock changes.
var stockDirection = map[domain.StockMovement]int64{
	domain.MovementSale:               -1,
	domain.MovementPurchase:           +1,
	domain.MovementReturnFromCustomer: +1,
	domain.MovementReturnToSupplier:   -1,
	domain.MovementStockIncrease:      +1,
	domain.MovementStockDecrease:      -1,
}

// StockDelta is the net change a transaction makes to one product's stock.
type StockDelta struct {
	ProductID int64
	Delta     int64
}

// StockDeltas computes the per-product stock changes of a transaction's line items, merged by
// product in first-appearance order. Categories without a stock movement yield nothing.
func StockDeltas(c domain.Category, items []domain.LineItem) []StockDelta {
	dir, ok := stockDirection[c.StockMovement]
	if !ok || len(items) == 0 {
		return nil
	}
	idx := make(map[int64]int, len(items))
	var deltas []StockDelta
	for _, it := range items {
		d := dir * it.Quantity
		if i, seen := idx[it.ProductID]; seen {
			deltas[i].Delta += d
			continue
		}
		idx[it.ProductID] = len(deltas)
		deltas = append(deltas, StockDelta{ProductID: it.ProductID, Delta: d})
	}
	return deltas
}

// InvertStockDeltas returns the deltas that exactly undo the given ones.
func InvertStockDeltas(deltas []StockDelta) []StockDelta {
	out := make([]StockDelta, len(deltas))
	for i, d := range deltas {
		out[i] = StockDelta{ProductID: d.ProductID, Delta: -d.Delta}
	}
	return out
}
