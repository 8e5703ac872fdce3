package services

import (
	"context"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, customerID *int64) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines invoice pricing and creation
type InvoiceWriterSvc interface {
	// PreviewInvoice prices a draft without storing anything.
	PreviewInvoice(ctx context.Context, draft domain.InvoiceDraft) (*domain.InvoiceReceipt, error)

	// CreateInvoice stores the invoice together with its sale transaction and optional payment
	// transaction in one unit of work.
	CreateInvoice(ctx context.Context, draft domain.InvoiceDraft, userID string) (*domain.InvoiceReceipt, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}

// ChitSvcFacade settles chit-fund auctions.
type ChitSvcFacade interface {
	// SettleAuction computes the round's figures and records the payout and every member's
	// contribution atomically.
	SettleAuction(ctx context.Context, draft domain.AuctionDraft, userID string) (*domain.ChitSettlement, error)

	// ListAuctions lists the settled rounds of a group.
	ListAuctions(ctx context.Context, groupID int64) ([]domain.ChitAuction, error)
}
