package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
)

func seedTrading(t *testing.T, f *fixture) {
	t.Helper()
	f.post(t, domain.TransactionDraft{Date: "2024-01-01", Category: "Opening Balance (Cash)", Amount: dec("0")})
	f.post(t, domain.TransactionDraft{Date: "2024-01-05", Category: "Sale to Customer (Cash)", Amount: dec("2200"),
		LineItems: []domain.LineItem{{ProductID: f.product.ID, Quantity: 2, UnitPrice: dec("1100")}}})
	f.post(t, domain.TransactionDraft{Date: "2024-01-06", Category: "Sale to Customer (Credit)", Amount: dec("1100"), PartyUserID: &f.customer.ID,
		LineItems: []domain.LineItem{{ProductID: f.product.ID, Quantity: 1, UnitPrice: dec("1100")}}})
	f.post(t, domain.TransactionDraft{Date: "2024-01-07", Category: "Purchase from Supplier (Credit)", Amount: dec("2700"), PartyLenderID: &f.supplier.ID,
		LineItems: []domain.LineItem{{ProductID: f.product.ID, Quantity: 3, UnitPrice: dec("900")}}})
	f.post(t, domain.TransactionDraft{Date: "2024-01-10", Category: "Rent Expense (Bank)", Amount: dec("-500")})
	f.post(t, domain.TransactionDraft{Date: "2024-02-01", Category: "Salary Expense (Cash)", Amount: dec("-300")})
}

func TestProfitAndLoss(t *testing.T) {
	f := newFixture(t)
	seedTrading(t, f)

	report, err := f.svc.Reporting.ProfitAndLoss(f.ctx, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, report.TotalIncome.Equal(dec("3300")), "got %s", report.TotalIncome)
	assert.True(t, report.TotalExpenses.Equal(dec("3200")), "got %s", report.TotalExpenses)
	assert.True(t, report.NetProfit.Equal(dec("100")))
	require.Len(t, report.Income, 2)
	assert.Equal(t, "product_sale", report.Income[0].Group)

	_, err = f.svc.Reporting.ProfitAndLoss(f.ctx, day("2024-02-01"), day("2024-01-01"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPartySummaries(t *testing.T) {
	f := newFixture(t)
	seedTrading(t, f)

	receivables, err := f.svc.Reporting.Receivables(f.ctx, day("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, receivables.Parties, 1)
	assert.True(t, receivables.Total.Equal(dec("1100")))

	early, err := f.svc.Reporting.Receivables(f.ctx, day("2024-01-05"))
	require.NoError(t, err)
	assert.True(t, early.Total.IsZero())

	payables, err := f.svc.Reporting.Payables(f.ctx, day("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, payables.Parties, 2, "every entity is listed")
	assert.True(t, payables.Total.Equal(dec("2700")))
}

func TestBalanceSheetAndValuation(t *testing.T) {
	f := newFixture(t)
	seedTrading(t, f)

	sheet, err := f.svc.Reporting.BalanceSheet(f.ctx, day("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, sheet.Cash.Equal(dec("3200")))
	assert.True(t, sheet.Bank.Equal(dec("4500")))
	assert.True(t, sheet.Inventory.Equal(dec("9000")), "10 units at cost 900")
	assert.True(t, sheet.TotalAssets.Equal(dec("17800")))
	assert.True(t, sheet.Equity.Equal(dec("15100")))

	snap, err := f.svc.Reporting.Valuation(f.ctx, day("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, snap.StockAtSalePrice.Equal(dec("11000")))
	assert.True(t, snap.NetWorthAtCost.Equal(sheet.Equity))
	assert.True(t, snap.LoansOutstanding.IsZero())
}

func TestStockAudit(t *testing.T) {
	f := newFixture(t)
	seedTrading(t, f)

	discrepancies, err := f.svc.Reporting.StockAudit(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, discrepancies)

	err = f.store.RunInUnitOfWork(f.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		_, err := uow.AdjustProductStock(ctx, f.product.ID, 4)
		return err
	})
	require.NoError(t, err)

	discrepancies, err = f.svc.Reporting.StockAudit(f.ctx)
	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	assert.Equal(t, int64(14), discrepancies[0].CurrentStock)
	assert.Equal(t, int64(10), discrepancies[0].ExpectedStock)
}
