package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/utils/accounting"
)

type loanService struct {
	BaseService
	txRepo        portsrepo.TransactionReader
	agreementRepo portsrepo.AgreementReader
	categories    CategoryCatalog
}

// NewLoanService creates a new loan service.
func NewLoanService(txRepo portsrepo.TransactionReader, agreementRepo portsrepo.AgreementReader, categories CategoryCatalog) portssvc.LoanSvc {
	return &loanService{
		txRepo:        txRepo,
		agreementRepo: agreementRepo,
		categories:    categories,
	}
}

var _ portssvc.LoanSvc = (*loanService)(nil)

// AccrueInterest reads the agreement's principal and interest payments from the log and
// derives its accrual. Nothing is written back.
func (s *loanService) AccrueInterest(ctx context.Context, agreementID int64, asOf time.Time) (*domain.AccrualResult, error) {
	agreement, err := s.agreementRepo.FindAgreementByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	principal, err := s.payments(ctx, agreementID, asOf, domain.GroupLenderLoanRepay, domain.GroupCustomerLoanRepay)
	if err != nil {
		return nil, err
	}
	interest, err := s.payments(ctx, agreementID, asOf, domain.GroupLenderLoanInterest, domain.GroupCustomerLoanInterest)
	if err != nil {
		return nil, err
	}

	res, err := accounting.Accrue(*agreement, principal, interest, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to accrue interest", slog.Int64("agreement_id", agreementID))
		return nil, err
	}
	if res.Mode == domain.AccrualEMIReverse {
		s.LogDebug(ctx, "Accrual used the assumed EMI rate",
			slog.Int64("agreement_id", agreementID),
			slog.String("effective_principal", res.EffectivePrincipal.String()))
	}
	return res, nil
}

func (s *loanService) payments(ctx context.Context, agreementID int64, asOf time.Time, groups ...string) ([]domain.AgreementPayment, error) {
	names := s.categories.NamesInGroups(groups...)
	if len(names) == 0 {
		return nil, nil
	}
	txs, err := s.txRepo.ListTransactions(ctx, domain.TransactionFilter{
		AgreementID: &agreementID,
		Categories:  names,
		To:          &asOf,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load agreement payments", slog.Int64("agreement_id", agreementID))
		return nil, err
	}
	out := make([]domain.AgreementPayment, 0, len(txs))
	for _, t := range txs {
		out = append(out, domain.AgreementPayment{Date: t.Date, Amount: t.Amount.Abs()})
	}
	return out, nil
}
