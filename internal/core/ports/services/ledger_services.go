package services

import (
	"context"
	"time"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// LedgerSvc reconstructs ledgers from the transaction log. Nothing is cached between calls.
type LedgerSvc interface {
	// CustomerLedger is the receivable history of one customer.
	CustomerLedger(ctx context.Context, customerID int64, window domain.Window) (*domain.LedgerSnapshot, error)

	// EntityLedger is the payable history of one supplier or lender.
	EntityLedger(ctx context.Context, entityID int64, window domain.Window) (*domain.LedgerSnapshot, error)

	// CashLedger is the cash book for a window (a single day for a day book).
	CashLedger(ctx context.Context, window domain.Window) (*domain.LedgerSnapshot, error)

	// BankLedger is the bank book for a window.
	BankLedger(ctx context.Context, window domain.Window) (*domain.LedgerSnapshot, error)

	// AgreementLedger is the party-ledger history of the transactions linked to an agreement.
	AgreementLedger(ctx context.Context, agreementID int64, window domain.Window) (*domain.LedgerSnapshot, error)
}

// LoanSvc computes interest accruals for financing agreements.
type LoanSvc interface {
	// AccrueInterest derives the interest position of an agreement as of a date from the live log.
	AccrueInterest(ctx context.Context, agreementID int64, asOf time.Time) (*domain.AccrualResult, error)
}
