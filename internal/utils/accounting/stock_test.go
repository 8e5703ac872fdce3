package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	"github.com/SscSPs/bizbooks/internal/core/taxonomy"
)

func TestStockDeltas(t *testing.T) {
	tax := taxonomy.Default()
	items := []domain.LineItem{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 2},
	}
	tests := []struct {
		category string
		want     []StockDelta
	}{
		{"Sale to Customer (Credit)", []StockDelta{{1, -5}, {2, -1}}},
		{"Purchase from Supplier (Cash)", []StockDelta{{1, 5}, {2, 1}}},
		{"Sales Return from Customer (Credit)", []StockDelta{{1, 5}, {2, 1}}},
		{"Purchase Return to Supplier (Credit)", []StockDelta{{1, -5}, {2, -1}}},
		{"Stock Increase (Adjustment)", []StockDelta{{1, 5}, {2, 1}}},
		{"Stock Decrease (Adjustment)", []StockDelta{{1, -5}, {2, -1}}},
		{"Rent Expense (Cash)", nil},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			c, err := tax.Lookup(tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.want, StockDeltas(c, items))
		})
	}
}

func TestStockDeltas_NegativeQuantityIsAReturn(t *testing.T) {
	c, err := taxonomy.Default().Lookup("Sale to Customer (Cash)")
	require.NoError(t, err)
	got := StockDeltas(c, []domain.LineItem{{ProductID: 4, Quantity: -2}})
	assert.Equal(t, []StockDelta{{ProductID: 4, Delta: 2}}, got)
}

func TestInvertStockDeltas_RoundTrip(t *testing.T) {
	c, err := taxonomy.Default().Lookup("Sale to Customer (Bank)")
	require.NoError(t, err)
	stock := map[int64]int64{1: 10, 2: 4}
	before := map[int64]int64{1: 10, 2: 4}

	forward := StockDeltas(c, []domain.LineItem{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 7}})
	for _, d := range forward {
		stock[d.ProductID] += d.Delta
	}
	assert.Equal(t, int64(-3), stock[2], "stock may go negative")
	for _, d := range InvertStockDeltas(forward) {
		stock[d.ProductID] += d.Delta
	}
	assert.Equal(t, before, stock)
}
