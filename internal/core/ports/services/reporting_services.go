package services

import (
	"context"
	"time"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// ReportingSvc defines the interface for financial reporting operations
type ReportingSvc interface {
	// ProfitAndLoss groups income and expense effects of a period by category group.
	ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet summarises assets and liabilities as of a date.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// Valuation values stock at cost and at sale price alongside cash, bank and loan positions.
	Valuation(ctx context.Context, asOf time.Time) (*domain.ValuationSnapshot, error)

	// Receivables lists what every customer owes as of a date.
	Receivables(ctx context.Context, asOf time.Time) (*domain.PartySummary, error)

	// Payables lists what the business owes every external entity as of a date.
	Payables(ctx context.Context, asOf time.Time) (*domain.PartySummary, error)

	// StockAudit recomputes every product's stock from the log and reports disagreements.
	StockAudit(ctx context.Context) ([]domain.StockDiscrepancy, error)
}
