package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID    int64           `json:"transactionID"`
	TxDate           time.Time       `json:"txDate"` // DATE column
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"` // signed
	Description      string          `json:"description"`
	PartyUserID      *int64          `json:"partyUserID"`   // FK -> customers.id (Nullable)
	PartyLenderID    *int64          `json:"partyLenderID"` // FK -> external_entities.id (Nullable)
	AgreementID      *int64          `json:"agreementID"`
	RelatedInvoiceID *int64          `json:"relatedInvoiceID"`
	BatchID          string          `json:"batchID"` // '' when not part of a batch
	AuditFields
}

// TransactionLineItem is a row of the transaction_line_items table.
type TransactionLineItem struct {
	TransactionID int64           `json:"transactionID"`
	LineNo        int             `json:"lineNo"`
	ProductID     int64           `json:"productID"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
}
