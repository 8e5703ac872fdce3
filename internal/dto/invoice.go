package dto

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// InvoiceLineRequest is one line of an invoice. A negative quantity is a return.
type InvoiceLineRequest struct {
	ProductID      int64           `json:"productID" binding:"required,gt=0"`
	Description    string          `json:"description" binding:"max=200"`
	Quantity       int64           `json:"quantity" binding:"required,ne=0"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// InvoicePaymentRequest is a payment collected when the invoice is raised.
type InvoicePaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Mode   string          `json:"mode" binding:"required,oneof=cash bank"`
}

// CreateInvoiceRequest defines the data needed to price or raise an invoice.
type CreateInvoiceRequest struct {
	Number       string                 `json:"number" binding:"required,max=50"`
	CustomerID   int64                  `json:"customerID" binding:"required,gt=0"`
	InvoiceDate  string                 `json:"invoiceDate" binding:"required,isodate"`
	Lines        []InvoiceLineRequest   `json:"lines" binding:"required,min=1,dive"`
	GSTRate      decimal.Decimal        `json:"gstRate"`
	LumpDiscount decimal.Decimal        `json:"lumpDiscount"`
	Payment      *InvoicePaymentRequest `json:"payment"`
}

// ToDraft converts the request into the invoice workflow input.
func (r CreateInvoiceRequest) ToDraft() domain.InvoiceDraft {
	d := domain.InvoiceDraft{
		Number:       r.Number,
		CustomerID:   r.CustomerID,
		InvoiceDate:  r.InvoiceDate,
		GSTRate:      r.GSTRate,
		LumpDiscount: r.LumpDiscount,
	}
	for _, l := range r.Lines {
		d.Lines = append(d.Lines, domain.InvoiceLine{
			ProductID:      l.ProductID,
			Description:    l.Description,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			DiscountAmount: l.DiscountAmount,
		})
	}
	if r.Payment != nil {
		d.Payment = &domain.InvoicePayment{Amount: r.Payment.Amount, Mode: domain.PaymentMode(r.Payment.Mode)}
	}
	return d
}

// SettleAuctionRequest defines the data needed to settle one chit auction round.
type SettleAuctionRequest struct {
	AuctionDate        string          `json:"auctionDate" binding:"required,isodate"`
	PrizedMemberID     int64           `json:"prizedMemberID" binding:"required,gt=0"`
	WinningBidDiscount decimal.Decimal `json:"winningBidDiscount"`
}

// ToDraft converts the request into the settlement input for a group.
func (r SettleAuctionRequest) ToDraft(groupID int64) domain.AuctionDraft {
	return domain.AuctionDraft{
		GroupID:            groupID,
		AuctionDate:        r.AuctionDate,
		PrizedMemberID:     r.PrizedMemberID,
		WinningBidDiscount: r.WinningBidDiscount,
	}
}
