package mapping

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

func TestTransactionMapping(t *testing.T) {
	customer := int64(4)
	d := domain.Transaction{
		ID:          11,
		Date:        time.Date(2024, 3, 9, 17, 30, 0, 0, time.UTC),
		Category:    "Sale to Customer (Credit)",
		Amount:      decimal.NewFromInt(2200),
		PartyUserID: &customer,
		LineItems: []domain.LineItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(1100)},
		},
		BatchID: "b-1",
	}

	m := ToModelTransaction(d)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), m.TxDate, "the log stores calendar dates")

	lines := ToModelLineItems(m.TransactionID, d.LineItems)
	assert.Equal(t, 1, lines[0].LineNo)
	assert.Equal(t, int64(11), lines[0].TransactionID)

	back := ToDomainTransaction(m, lines)
	assert.Equal(t, d.LineItems, back.LineItems)
	assert.Equal(t, &customer, back.PartyUserID)
	assert.Nil(t, ToDomainTransaction(m, nil).LineItems)
}
