package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived from PaidAmount against GrandTotal.
type InvoiceStatus string

const (
	InvoiceUnpaid  InvoiceStatus = "Unpaid"
	InvoicePartial InvoiceStatus = "Partial"
	InvoicePaid    InvoiceStatus = "Paid"
)

// InvoiceLine is a line of a tax invoice.
type InvoiceLine struct {
	ProductID      int64           `json:"productID"`
	Description    string          `json:"description,omitempty"`
	Quantity       int64           `json:"quantity"` // negative = embedded return
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxableValue   decimal.Decimal `json:"taxableValue"`
}

// Invoice is a tax invoice. PaidAmount is mutated only by the transaction engine.
type Invoice struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	CustomerID   int64           `json:"customerID"`
	InvoiceDate  time.Time       `json:"invoiceDate"`
	LineItems    []InvoiceLine   `json:"lineItems"`
	CGSTRate     decimal.Decimal `json:"cgstRate"`
	SGSTRate     decimal.Decimal `json:"sgstRate"`
	IGSTRate     decimal.Decimal `json:"igstRate"`
	LumpDiscount decimal.Decimal `json:"lumpDiscount"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	Status       InvoiceStatus   `json:"status"`
	AuditFields
}

// InvoiceStatusFor derives the status for a paid amount against a grand total.
func InvoiceStatusFor(paid, grandTotal decimal.Decimal) InvoiceStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return InvoiceUnpaid
	case paid.GreaterThanOrEqual(grandTotal):
		return InvoicePaid
	default:
		return InvoicePartial
	}
}

// InvoiceTotals is the output of the tax and totals computation.
type InvoiceTotals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	ReturnsValue  decimal.Decimal `json:"returnsValue"` // always <= 0
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	LumpDiscount  decimal.Decimal `json:"lumpDiscount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	AmountInWords string          `json:"amountInWords"`
}

// TaxRates is a CGST/SGST/IGST triple in percent.
type TaxRates struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// InvoicePayment is a payment collected at the time the invoice is raised.
type InvoicePayment struct {
	Amount decimal.Decimal `json:"amount"`
	Mode   PaymentMode     `json:"mode"` // cash or bank
}

// InvoiceDraft is the caller-supplied input for raising an invoice.
type InvoiceDraft struct {
	Number       string          `json:"number"`
	CustomerID   int64           `json:"customerID"`
	InvoiceDate  string          `json:"invoiceDate"` // YYYY-MM-DD
	Lines        []InvoiceLine   `json:"lines"`
	GSTRate      decimal.Decimal `json:"gstRate"` // percent, split by place of supply
	LumpDiscount decimal.Decimal `json:"lumpDiscount"`
	Payment      *InvoicePayment `json:"payment,omitempty"`
}

// InvoiceReceipt is a priced invoice together with the transactions it produced.
type InvoiceReceipt struct {
	Invoice      Invoice       `json:"invoice"`
	Totals       InvoiceTotals `json:"totals"`
	Transactions []Transaction `json:"transactions,omitempty"`
	Warnings     []string      `json:"warnings,omitempty"`
}
