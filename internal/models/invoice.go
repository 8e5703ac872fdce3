package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID    int64           `json:"invoiceID"`
	Number       string          `json:"number"` // Unique
	CustomerID   int64           `json:"customerID"`
	InvoiceDate  time.Time       `json:"invoiceDate"`
	CGSTRate     decimal.Decimal `json:"cgstRate"`
	SGSTRate     decimal.Decimal `json:"sgstRate"`
	IGSTRate     decimal.Decimal `json:"igstRate"`
	LumpDiscount decimal.Decimal `json:"lumpDiscount"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	Status       string          `json:"status"`
	AuditFields
}

// InvoiceLine is a row of the invoice_lines table.
type InvoiceLine struct {
	InvoiceID      int64           `json:"invoiceID"`
	LineNo         int             `json:"lineNo"`
	ProductID      int64           `json:"productID"`
	Description    string          `json:"description"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxableValue   decimal.Decimal `json:"taxableValue"`
}
