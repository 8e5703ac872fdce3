package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/utils/accounting"
)

// transactionService is the side-effect engine: it keeps product stock and invoice paid amounts in
// step with the transaction log.
type transactionService struct {
	BaseService
	txRepo     portsrepo.TransactionReader
	uow        portsrepo.UnitOfWorkRunner
	categories accounting.CategoryLookup
	locker     portsrepo.PartyLocker
	now        func() time.Time
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithPartyLocker adds a cross-process party lock taken around every mutating call.
func WithPartyLocker(locker portsrepo.PartyLocker) TransactionServiceOption {
	return func(s *transactionService) {
		s.locker = locker
	}
}

// WithClock overrides the audit timestamp source.
func WithClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(txRepo portsrepo.TransactionReader, uow portsrepo.UnitOfWorkRunner, categories accounting.CategoryLookup, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txRepo:     txRepo,
		uow:        uow,
		categories: categories,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	t, err := s.txRepo.FindTransactionByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get transaction", slog.Int64("transaction_id", id))
		}
		return nil, err
	}
	return t, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	txs, err := s.txRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}
	return txs, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, draft domain.TransactionDraft, userID string) (*domain.CreateResult, error) {
	release, err := s.lockParties(ctx, partyKey(draft.PartyUserID, draft.PartyLenderID))
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	var res *domain.CreateResult
	err = s.uow.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		res, err = s.CreateWithin(ctx, uow, draft, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transaction", slog.String("category", draft.Category))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction created",
		slog.Int64("transaction_id", res.Transaction.ID),
		slog.String("category", res.Transaction.Category))
	return res, nil
}

func (s *transactionService) CreateTransactionBatch(ctx context.Context, drafts []domain.TransactionDraft, userID string) ([]domain.CreateResult, error) {
	if len(drafts) == 0 {
		return nil, apperrors.NewValidationError("batch is empty")
	}
	keys := make([]string, 0, len(drafts))
	for _, d := range drafts {
		keys = append(keys, partyKey(d.PartyUserID, d.PartyLenderID))
	}
	release, err := s.lockParties(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	batchID := uuid.NewString()
	results := make([]domain.CreateResult, 0, len(drafts))
	err = s.uow.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		results = results[:0]
		for i, d := range drafts {
			if d.BatchID == "" {
				d.BatchID = batchID
			}
			res, err := s.CreateWithin(ctx, uow, d, userID)
			if err != nil {
				return fmt.Errorf("transaction #%d: %w", i, err)
			}
			results = append(results, *res)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transaction batch", slog.Int("size", len(drafts)))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction batch created", slog.String("batch_id", batchID), slog.Int("size", len(results)))
	return results, nil
}

// CreateWithin validates a draft and applies it, with its stock and invoice effects, inside uow.
func (s *transactionService) CreateWithin(ctx context.Context, uow portsrepo.UnitOfWork, draft domain.TransactionDraft, userID string) (*domain.CreateResult, error) {
	t, c, err := s.buildTransaction(draft)
	if err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, uow, t); err != nil {
		return nil, err
	}
	if err := lockInUnitOfWork(ctx, uow, partyKey(t.PartyUserID, t.PartyLenderID)); err != nil {
		return nil, err
	}

	now := s.now()
	t.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	stored, err := uow.InsertTransaction(ctx, t)
	if err != nil {
		return nil, err
	}

	res := &domain.CreateResult{Transaction: stored}
	warnings, err := s.applyStock(ctx, uow, accounting.StockDeltas(c, stored.LineItems), false)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, warnings...)

	if delta, ok := invoicePaidDelta(c, stored); ok {
		if _, err := uow.AdjustInvoicePaid(ctx, *stored.RelatedInvoiceID, delta); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("invoice %d does not exist", *stored.RelatedInvoiceID)
			}
			return nil, err
		}
	}
	return res, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, id int64, draft domain.TransactionDraft, userID string) (*domain.CreateResult, error) {
	if len(draft.LineItems) > 0 {
		return nil, fmt.Errorf("%w: transactions with line items cannot be updated, delete and recreate them", apperrors.ErrUnsupported)
	}
	existing, err := s.txRepo.FindTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	release, err := s.lockParties(ctx,
		partyKey(existing.PartyUserID, existing.PartyLenderID),
		partyKey(draft.PartyUserID, draft.PartyLenderID))
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	var res *domain.CreateResult
	err = s.uow.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		old, err := uow.FindTransactionForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if len(old.LineItems) > 0 {
			return fmt.Errorf("%w: transaction %d carries line items, delete and recreate it", apperrors.ErrUnsupported, id)
		}
		oldCategory, err := s.categories.Lookup(old.Category)
		if err != nil {
			return err
		}
		updated, newCategory, err := s.buildTransaction(draft)
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, uow, updated); err != nil {
			return err
		}
		if err := lockInUnitOfWork(ctx, uow,
			partyKey(old.PartyUserID, old.PartyLenderID),
			partyKey(updated.PartyUserID, updated.PartyLenderID)); err != nil {
			return err
		}

		// undo the old invoice effect, then apply the new one
		if delta, ok := invoicePaidDelta(oldCategory, *old); ok {
			if _, err := uow.AdjustInvoicePaid(ctx, *old.RelatedInvoiceID, delta.Neg()); err != nil {
				return reversalError(err, "invoice %d", *old.RelatedInvoiceID)
			}
		}
		if delta, ok := invoicePaidDelta(newCategory, updated); ok {
			if _, err := uow.AdjustInvoicePaid(ctx, *updated.RelatedInvoiceID, delta); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.NewValidationError("invoice %d does not exist", *updated.RelatedInvoiceID)
				}
				return err
			}
		}

		updated.ID = old.ID
		updated.BatchID = old.BatchID
		updated.AuditFields = old.AuditFields
		updated.LastUpdatedAt = s.now()
		updated.LastUpdatedBy = userID
		if err := uow.UpdateTransaction(ctx, updated); err != nil {
			return err
		}
		res = &domain.CreateResult{Transaction: updated}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.Int64("transaction_id", id))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction updated", slog.Int64("transaction_id", id))
	return res, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, id int64, userID string) error {
	existing, err := s.txRepo.FindTransactionByID(ctx, id)
	if err != nil {
		return err
	}
	release, err := s.lockParties(ctx, partyKey(existing.PartyUserID, existing.PartyLenderID))
	if err != nil {
		return err
	}
	defer release(ctx)

	err = s.uow.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		old, err := uow.FindTransactionForUpdate(ctx, id)
		if err != nil {
			return err
		}
		c, err := s.categories.Lookup(old.Category)
		if err != nil {
			return err
		}
		if err := lockInUnitOfWork(ctx, uow, partyKey(old.PartyUserID, old.PartyLenderID)); err != nil {
			return err
		}

		inverse := accounting.InvertStockDeltas(accounting.StockDeltas(c, old.LineItems))
		if _, err := s.applyStock(ctx, uow, inverse, true); err != nil {
			return err
		}
		if delta, ok := invoicePaidDelta(c, *old); ok {
			if _, err := uow.AdjustInvoicePaid(ctx, *old.RelatedInvoiceID, delta.Neg()); err != nil {
				return reversalError(err, "invoice %d", *old.RelatedInvoiceID)
			}
		}
		return uow.DeleteTransaction(ctx, id)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.Int64("transaction_id", id))
		return err
	}
	s.LogInfo(ctx, "Transaction deleted", slog.Int64("transaction_id", id), slog.String("deleted_by", userID))
	return nil
}

// buildTransaction validates a draft against its category.
func (s *transactionService) buildTransaction(draft domain.TransactionDraft) (domain.Transaction, domain.Category, error) {
	c, err := s.categories.Lookup(draft.Category)
	if err != nil {
		return domain.Transaction{}, domain.Category{}, err
	}
	date, err := time.Parse(domain.DateLayout, draft.Date)
	if err != nil {
		return domain.Transaction{}, c, apperrors.NewValidationError("malformed date %q, expected YYYY-MM-DD", draft.Date)
	}

	if draft.PartyUserID != nil && draft.PartyLenderID != nil {
		return domain.Transaction{}, c, apperrors.NewValidationError("a transaction cannot reference both a customer and an external entity")
	}
	switch c.RelevantTo {
	case domain.RelevantCustomer:
		if draft.PartyUserID == nil {
			return domain.Transaction{}, c, apperrors.NewValidationError("category %q requires a customer", c.Name)
		}
	case domain.RelevantLender:
		if draft.PartyLenderID == nil {
			return domain.Transaction{}, c, apperrors.NewValidationError("category %q requires an external entity", c.Name)
		}
	}

	if err := checkAmountSign(c, draft.Amount); err != nil {
		return domain.Transaction{}, c, err
	}

	if len(draft.LineItems) > 0 && !c.IsProductRelated() {
		return domain.Transaction{}, c, apperrors.NewValidationError("category %q does not take line items", c.Name)
	}
	if len(draft.LineItems) == 0 && (c.StockMovement == domain.MovementStockIncrease || c.StockMovement == domain.MovementStockDecrease) {
		return domain.Transaction{}, c, apperrors.NewValidationError("stock adjustment needs at least one line item")
	}
	for i, li := range draft.LineItems {
		if li.ProductID <= 0 || li.Quantity == 0 {
			return domain.Transaction{}, c, apperrors.NewValidationError("line item #%d needs a product and a non-zero quantity", i)
		}
	}
	if draft.RelatedInvoiceID != nil && c.RelevantTo != domain.RelevantCustomer {
		return domain.Transaction{}, c, apperrors.NewValidationError("only customer categories can reference an invoice")
	}

	t := domain.Transaction{
		Date:             date,
		Category:         c.Name,
		Amount:           draft.Amount,
		Description:      draft.Description,
		PartyUserID:      draft.PartyUserID,
		PartyLenderID:    draft.PartyLenderID,
		AgreementID:      draft.AgreementID,
		RelatedInvoiceID: draft.RelatedInvoiceID,
		LineItems:        append([]domain.LineItem(nil), draft.LineItems...),
		BatchID:          draft.BatchID,
	}
	return t, c, nil
}

// checkReferences confirms that every party, agreement and invoice a transaction names exists in
// uow, and that a linked invoice was raised for the transaction's customer.
func checkReferences(ctx context.Context, uow portsrepo.UnitOfWork, t domain.Transaction) error {
	if t.PartyUserID != nil {
		if _, err := uow.FindCustomerByID(ctx, *t.PartyUserID); err != nil {
			return missingReference(err, "customer %d does not exist", *t.PartyUserID)
		}
	}
	if t.PartyLenderID != nil {
		if _, err := uow.FindEntityByID(ctx, *t.PartyLenderID); err != nil {
			return missingReference(err, "external entity %d does not exist", *t.PartyLenderID)
		}
	}
	if t.AgreementID != nil {
		if _, err := uow.FindAgreementByID(ctx, *t.AgreementID); err != nil {
			return missingReference(err, "agreement %d does not exist", *t.AgreementID)
		}
	}
	if t.RelatedInvoiceID != nil {
		inv, err := uow.FindInvoiceByID(ctx, *t.RelatedInvoiceID)
		if err != nil {
			return missingReference(err, "invoice %d does not exist", *t.RelatedInvoiceID)
		}
		if t.PartyUserID == nil || inv.CustomerID != *t.PartyUserID {
			return apperrors.NewValidationError("invoice %s belongs to customer %d, not to the transaction's customer",
				inv.Number, inv.CustomerID)
		}
	}
	return nil
}

func missingReference(err error, format string, args ...any) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewValidationError(format, args...)
	}
	return err
}

func checkAmountSign(c domain.Category, amount decimal.Decimal) error {
	switch c.AmountSign {
	case domain.SignPositive:
		if !amount.IsPositive() {
			return apperrors.NewValidationError("category %q requires a positive amount", c.Name)
		}
	case domain.SignNegative:
		if !amount.IsNegative() {
			return apperrors.NewValidationError("category %q requires a negative amount", c.Name)
		}
	case domain.SignNonZero:
		if amount.IsZero() {
			return apperrors.NewValidationError("category %q requires a non-zero amount", c.Name)
		}
	}
	return nil
}

// applyStock applies deltas within uow. Negative results are warnings; a missing product is a
// validation error on the way in and a reversal mismatch on the way out.
func (s *transactionService) applyStock(ctx context.Context, uow portsrepo.UnitOfWork, deltas []accounting.StockDelta, reversing bool) ([]string, error) {
	var warnings []string
	for _, d := range deltas {
		stock, err := uow.AdjustProductStock(ctx, d.ProductID, d.Delta)
		if err != nil {
			if reversing {
				return nil, reversalError(err, "product %d", d.ProductID)
			}
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("product %d does not exist", d.ProductID)
			}
			return nil, err
		}
		if stock < 0 {
			w := fmt.Sprintf("%v: product %d stock is now %d", apperrors.ErrStockInconsistency, d.ProductID, stock)
			s.LogWarn(ctx, "Stock went negative", slog.Int64("product_id", d.ProductID), slog.Int64("stock", stock))
			warnings = append(warnings, w)
		}
	}
	return warnings, nil
}

// invoicePaidDelta is the paid-amount change a transaction makes to its linked invoice.
func invoicePaidDelta(c domain.Category, t domain.Transaction) (decimal.Decimal, bool) {
	if t.RelatedInvoiceID == nil || c.Group != domain.GroupCustomerPayment {
		return decimal.Zero, false
	}
	return t.Amount.Abs(), true
}

func reversalError(err error, format string, args ...any) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s no longer exists", apperrors.ErrReversalMismatch, fmt.Sprintf(format, args...))
	}
	return err
}

// partyKey names the ledger a transaction belongs to, empty when it has no party.
func partyKey(customerID, entityID *int64) string {
	switch {
	case customerID != nil:
		return fmt.Sprintf("customer:%d", *customerID)
	case entityID != nil:
		return fmt.Sprintf("entity:%d", *entityID)
	default:
		return ""
	}
}

// sortedKeys de-duplicates and orders lock keys so that concurrent writers lock in the same order.
func sortedKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lockInUnitOfWork(ctx context.Context, uow portsrepo.UnitOfWork, keys ...string) error {
	for _, k := range sortedKeys(keys) {
		if err := uow.LockParty(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// lockParties takes the cross-process locks for keys. Only ErrLocked is fatal; any other lock
// failure is logged and the unit-of-work lock alone protects the write.
func (s *transactionService) lockParties(ctx context.Context, keys ...string) (func(context.Context), error) {
	noop := func(context.Context) {}
	if s.locker == nil {
		return noop, nil
	}
	var releases []func(context.Context)
	releaseAll := func(ctx context.Context) {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i](ctx)
		}
	}
	for _, k := range sortedKeys(keys) {
		release, err := s.locker.Acquire(ctx, k)
		if err != nil {
			if errors.Is(err, apperrors.ErrLocked) {
				releaseAll(ctx)
				return noop, err
			}
			s.LogWarn(ctx, "Party lock unavailable, continuing without it", slog.String("key", k), slog.String("error", err.Error()))
			continue
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
