package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a product line attached to a product-related transaction.
type LineItem struct {
	ProductID int64           `json:"productID"`
	Quantity  int64           `json:"quantity"` // negative = return
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Transaction is one entry of the append-only transaction log.
// Amount is signed from the perspective of the ledger its category is relevant to.
type Transaction struct {
	ID               int64           `json:"id"`
	Date             time.Time       `json:"date"`
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	PartyUserID      *int64          `json:"partyUserID,omitempty"`
	PartyLenderID    *int64          `json:"partyLenderID,omitempty"`
	AgreementID      *int64          `json:"agreementID,omitempty"`
	RelatedInvoiceID *int64          `json:"relatedInvoiceID,omitempty"`
	LineItems        []LineItem      `json:"lineItems,omitempty"`
	BatchID          string          `json:"batchID,omitempty"`
	AuditFields
}

// TransactionDraft is the caller-supplied input for creating or updating a transaction.
type TransactionDraft struct {
	Date             string          `json:"date"` // YYYY-MM-DD
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	PartyUserID      *int64          `json:"partyUserID,omitempty"`
	PartyLenderID    *int64          `json:"partyLenderID,omitempty"`
	AgreementID      *int64          `json:"agreementID,omitempty"`
	RelatedInvoiceID *int64          `json:"relatedInvoiceID,omitempty"`
	LineItems        []LineItem      `json:"lineItems,omitempty"`
	BatchID          string          `json:"-"`
}

// TransactionFilter selects transactions from the log. Nil fields do not filter.
type TransactionFilter struct {
	PartyUserID      *int64
	PartyLenderID    *int64
	AgreementID      *int64
	RelatedInvoiceID *int64
	From             *time.Time // inclusive
	To               *time.Time // inclusive
	Categories       []string
	// After resumes listing strictly after this (date, id) position.
	After *Cursor
	Limit int
}

// Cursor is a position in the (date, id) ordering of the log.
type Cursor struct {
	Date time.Time
	ID   int64
}

// Precedes reports whether t sorts strictly after the cursor.
func (c Cursor) Precedes(t Transaction) bool {
	d := DateOnly(t.Date)
	if !d.Equal(DateOnly(c.Date)) {
		return d.After(DateOnly(c.Date))
	}
	return t.ID > c.ID
}

// CreateResult is what the side-effect engine returns for a created or updated transaction.
type CreateResult struct {
	Transaction Transaction `json:"transaction"`
	Warnings    []string    `json:"warnings,omitempty"`
}
