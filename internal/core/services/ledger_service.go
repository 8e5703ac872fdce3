package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/utils/accounting"
)

// ledgerService rebuilds every ledger view from the log on each call.
type ledgerService struct {
	BaseService
	txRepo        portsrepo.TransactionReader
	partyRepo     portsrepo.PartyReader
	agreementRepo portsrepo.AgreementReader
	resolver      *accounting.Resolver
	profile       domain.BusinessProfile
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	txRepo portsrepo.TransactionReader,
	partyRepo portsrepo.PartyReader,
	agreementRepo portsrepo.AgreementReader,
	categories accounting.CategoryLookup,
	profile domain.BusinessProfile,
) portssvc.LedgerSvc {
	return &ledgerService{
		txRepo:        txRepo,
		partyRepo:     partyRepo,
		agreementRepo: agreementRepo,
		resolver:      accounting.NewResolver(categories),
		profile:       profile,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

func (s *ledgerService) CustomerLedger(ctx context.Context, customerID int64, window domain.Window) (*domain.LedgerSnapshot, error) {
	customer, err := s.partyRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	filter := throughWindow(window)
	filter.PartyUserID = &customerID
	return s.reconstruct(ctx, domain.ViewPartyLedger, customer.OpeningBalance, filter, window)
}

func (s *ledgerService) EntityLedger(ctx context.Context, entityID int64, window domain.Window) (*domain.LedgerSnapshot, error) {
	entity, err := s.partyRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	filter := throughWindow(window)
	filter.PartyLenderID = &entityID
	return s.reconstruct(ctx, domain.ViewPartyLedger, entity.OpeningPayableBalance, filter, window)
}

func (s *ledgerService) CashLedger(ctx context.Context, window domain.Window) (*domain.LedgerSnapshot, error) {
	return s.reconstruct(ctx, domain.ViewCash, s.profile.OpeningCashBalance, throughWindow(window), window)
}

func (s *ledgerService) BankLedger(ctx context.Context, window domain.Window) (*domain.LedgerSnapshot, error) {
	return s.reconstruct(ctx, domain.ViewBank, s.profile.OpeningBankBalance, throughWindow(window), window)
}

func (s *ledgerService) AgreementLedger(ctx context.Context, agreementID int64, window domain.Window) (*domain.LedgerSnapshot, error) {
	if _, err := s.agreementRepo.FindAgreementByID(ctx, agreementID); err != nil {
		return nil, err
	}
	filter := throughWindow(window)
	filter.AgreementID = &agreementID
	return s.reconstruct(ctx, domain.ViewPartyLedger, decimal.Zero, filter, window)
}

func (s *ledgerService) reconstruct(ctx context.Context, view domain.ViewKind, base decimal.Decimal, filter domain.TransactionFilter, window domain.Window) (*domain.LedgerSnapshot, error) {
	txs, err := s.txRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for ledger", slog.String("view", string(view)))
		return nil, err
	}
	snap, err := s.resolver.Reconstruct(accounting.ReconstructRequest{
		View:         view,
		BaseBalance:  base,
		Transactions: txs,
		Window:       window,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reconstruct ledger", slog.String("view", string(view)))
		return nil, err
	}
	return snap, nil
}

// throughWindow selects everything up to the window end; earlier rows feed the opening balance.
func throughWindow(window domain.Window) domain.TransactionFilter {
	var filter domain.TransactionFilter
	if !window.End.IsZero() {
		end := window.End
		filter.To = &end
	}
	return filter
}
