package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/utils/accounting"
)

// Base names the invoice workflow posts under; the payment mode picks the concrete category.
const (
	creditSaleBase      = "Sale to Customer"
	customerPaymentBase = "Payment Received from Customer"
)

type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceReader
	partyRepo   portsrepo.PartyReader
	uow         portsrepo.UnitOfWorkRunner
	engine      portssvc.TransactionEngine
	categories  CategoryCatalog
	profile     domain.BusinessProfile
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service. Transactions are posted through engine.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceReader,
	partyRepo portsrepo.PartyReader,
	uow portsrepo.UnitOfWorkRunner,
	engine portssvc.TransactionEngine,
	categories CategoryCatalog,
	profile domain.BusinessProfile,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		partyRepo:   partyRepo,
		uow:         uow,
		engine:      engine,
		categories:  categories,
		profile:     profile,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, id)
}

func (s *invoiceService) ListInvoices(ctx context.Context, customerID *int64) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices")
		return nil, err
	}
	return invoices, nil
}

func (s *invoiceService) PreviewInvoice(ctx context.Context, draft domain.InvoiceDraft) (*domain.InvoiceReceipt, error) {
	return s.price(ctx, draft)
}

// price validates a draft and computes its tax and totals. Rates follow the place of supply:
// a customer in the business's state pays CGST and SGST, anyone else IGST.
func (s *invoiceService) price(ctx context.Context, draft domain.InvoiceDraft) (*domain.InvoiceReceipt, error) {
	if strings.TrimSpace(draft.Number) == "" {
		return nil, apperrors.NewValidationError("invoice number is required")
	}
	if len(draft.Lines) == 0 {
		return nil, apperrors.NewValidationError("invoice needs at least one line")
	}
	if draft.GSTRate.IsNegative() || draft.LumpDiscount.IsNegative() {
		return nil, apperrors.NewValidationError("gst rate and lump discount cannot be negative")
	}
	invoiceDate, err := time.Parse(domain.DateLayout, draft.InvoiceDate)
	if err != nil {
		return nil, apperrors.NewValidationError("malformed invoice date %q, expected YYYY-MM-DD", draft.InvoiceDate)
	}
	for i, l := range draft.Lines {
		if l.ProductID <= 0 || l.Quantity == 0 {
			return nil, apperrors.NewValidationError("line #%d needs a product and a non-zero quantity", i)
		}
	}
	customer, err := s.partyRepo.FindCustomerByID(ctx, draft.CustomerID)
	if err != nil {
		return nil, err
	}

	rates := accounting.SelectRates(s.profile.State, customer.State, draft.GSTRate)
	totals, lines := accounting.ComputeTotals(draft.Lines, rates, draft.LumpDiscount)
	inv := domain.Invoice{
		Number:       strings.TrimSpace(draft.Number),
		CustomerID:   customer.ID,
		InvoiceDate:  invoiceDate,
		LineItems:    lines,
		CGSTRate:     rates.CGST,
		SGSTRate:     rates.SGST,
		IGSTRate:     rates.IGST,
		LumpDiscount: draft.LumpDiscount,
		GrandTotal:   totals.GrandTotal,
		PaidAmount:   decimal.Zero,
		Status:       domain.InvoiceUnpaid,
	}
	return &domain.InvoiceReceipt{Invoice: inv, Totals: totals}, nil
}

// CreateInvoice stores the invoice, posts a credit sale for its grand total with the invoice's
// lines (moving stock) and, when a payment is attached, a payment linked to the invoice.
func (s *invoiceService) CreateInvoice(ctx context.Context, draft domain.InvoiceDraft, userID string) (*domain.InvoiceReceipt, error) {
	receipt, err := s.price(ctx, draft)
	if err != nil {
		return nil, err
	}
	if !receipt.Totals.GrandTotal.IsPositive() {
		return nil, apperrors.NewValidationError("invoice grand total must be positive, got %s", receipt.Totals.GrandTotal.StringFixed(2))
	}

	saleCategory, err := s.categories.Resolve(domain.CategoryKey{Base: creditSaleBase, PaymentMode: domain.ModeCredit})
	if err != nil {
		return nil, err
	}
	var paymentCategory domain.Category
	if p := draft.Payment; p != nil {
		if p.Mode != domain.ModeCash && p.Mode != domain.ModeBank {
			return nil, apperrors.NewValidationError("payment mode must be cash or bank, got %q", p.Mode)
		}
		if !p.Amount.IsPositive() || p.Amount.GreaterThan(receipt.Totals.GrandTotal) {
			return nil, apperrors.NewValidationError("payment must be positive and at most the grand total %s", receipt.Totals.GrandTotal.StringFixed(2))
		}
		paymentCategory, err = s.categories.Resolve(domain.CategoryKey{Base: customerPaymentBase, PaymentMode: p.Mode})
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	batchID := uuid.NewString()
	inv := receipt.Invoice
	inv.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	var txs []domain.Transaction
	var warnings []string
	err = s.uow.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		txs, warnings = nil, nil
		stored, err := uow.InsertInvoice(ctx, inv)
		if err != nil {
			return err
		}
		inv = stored

		items := make([]domain.LineItem, 0, len(inv.LineItems))
		for _, l := range inv.LineItems {
			items = append(items, domain.LineItem{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
		}
		sale, err := s.engine.CreateWithin(ctx, uow, domain.TransactionDraft{
			Date:             draft.InvoiceDate,
			Category:         saleCategory.Name,
			Amount:           receipt.Totals.GrandTotal,
			Description:      "Invoice " + inv.Number,
			PartyUserID:      &inv.CustomerID,
			RelatedInvoiceID: &inv.ID,
			LineItems:        items,
			BatchID:          batchID,
		}, userID)
		if err != nil {
			return err
		}
		txs = append(txs, sale.Transaction)
		warnings = append(warnings, sale.Warnings...)

		if draft.Payment != nil {
			payment, err := s.engine.CreateWithin(ctx, uow, domain.TransactionDraft{
				Date:             draft.InvoiceDate,
				Category:         paymentCategory.Name,
				Amount:           draft.Payment.Amount,
				Description:      "Payment against invoice " + inv.Number,
				PartyUserID:      &inv.CustomerID,
				RelatedInvoiceID: &inv.ID,
				BatchID:          batchID,
			}, userID)
			if err != nil {
				return err
			}
			txs = append(txs, payment.Transaction)
			inv.PaidAmount = inv.PaidAmount.Add(draft.Payment.Amount)
			inv.Status = domain.InvoiceStatusFor(inv.PaidAmount, inv.GrandTotal)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create invoice", slog.String("invoice_number", draft.Number))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice created",
		slog.Int64("invoice_id", inv.ID),
		slog.String("grand_total", inv.GrandTotal.StringFixed(2)),
		slog.String("status", string(inv.Status)))
	receipt.Invoice = inv
	receipt.Transactions = txs
	receipt.Warnings = warnings
	return receipt, nil
}
