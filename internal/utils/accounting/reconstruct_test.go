package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	"github.com/SscSPs/bizbooks/internal/core/taxonomy"
)

func day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReconstruct_DailyCashLedger(t *testing.T) {
	r := NewResolver(taxonomy.Default())
	snap, err := r.Reconstruct(ReconstructRequest{
		View:        domain.ViewCash,
		BaseBalance: dec("1000"),
		Transactions: []domain.Transaction{
			tx(2, "2024-01-10", "Payment Made to Supplier (Cash)", "-150"),
			tx(1, "2024-01-10", "Sale to Customer (Cash)", "200"),
			tx(3, "2024-01-10", "Sale to Customer (Bank)", "999"),
		},
		Window: domain.Window{Start: day("2024-01-10"), End: day("2024-01-10")},
	})
	require.NoError(t, err)

	assert.True(t, dec("1000").Equal(snap.OpeningBalance))
	assert.True(t, dec("1050").Equal(snap.ClosingBalance), "got %s", snap.ClosingBalance)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, int64(1), snap.Entries[0].TransactionID)
	assert.True(t, dec("200").Equal(snap.Entries[0].Debit))
	assert.True(t, dec("150").Equal(snap.Entries[1].Credit))
	assert.True(t, dec("200").Equal(snap.TotalDebits))
	assert.True(t, dec("150").Equal(snap.TotalCredits))
	require.Len(t, snap.DailyTotals, 1)
	assert.True(t, dec("1050").Equal(snap.DailyTotals[0].ClosingBalance))
}

func TestReconstruct_OpeningBalanceCarriesForward(t *testing.T) {
	r := NewResolver(taxonomy.Default())
	snap, err := r.Reconstruct(ReconstructRequest{
		View: domain.ViewCash,
		Transactions: []domain.Transaction{
			tx(1, "2024-01-01", "Opening Balance (Cash)", "500"),
			tx(2, "2024-01-05", "Sale to Customer (Cash)", "100"),
			tx(3, "2024-01-06", "Rent Expense (Cash)", "-50"),
			tx(4, "2024-01-08", "Sale to Customer (Cash)", "70"),
		},
		Window: domain.Window{Start: day("2024-01-06"), End: day("2024-01-06")},
	})
	require.NoError(t, err)
	assert.True(t, dec("600").Equal(snap.OpeningBalance), "got %s", snap.OpeningBalance)
	require.Len(t, snap.Entries, 1)
	assert.True(t, dec("550").Equal(snap.ClosingBalance))
	require.NotNil(t, snap.WindowStart)
	require.NotNil(t, snap.WindowEnd)
}

func TestReconstruct_DeterministicOrdering(t *testing.T) {
	r := NewResolver(taxonomy.Default())
	a := tx(7, "2024-03-01", "Sale to Customer (Credit)", "100")
	b := tx(5, "2024-03-01", "Payment Received from Customer (Cash)", "40")

	for _, order := range [][]domain.Transaction{{a, b}, {b, a}} {
		snap, err := r.Reconstruct(ReconstructRequest{View: domain.ViewPartyLedger, Transactions: order})
		require.NoError(t, err)
		require.Len(t, snap.Entries, 2)
		assert.Equal(t, int64(5), snap.Entries[0].TransactionID)
		assert.Equal(t, int64(7), snap.Entries[1].TransactionID)
		assert.True(t, dec("-40").Equal(snap.Entries[0].RunningBalance))
		assert.True(t, dec("60").Equal(snap.ClosingBalance))
	}
}

func TestReconstruct_OpeningBalanceSortsFirst(t *testing.T) {
	r := NewResolver(taxonomy.Default())
	snap, err := r.Reconstruct(ReconstructRequest{
		View: domain.ViewBank,
		Transactions: []domain.Transaction{
			tx(1, "2024-01-01", "Bank Charges (Bank)", "-10"),
			tx(2, "2024-01-03", "Opening Balance (Bank)", "1000"),
		},
	})
	require.NoError(t, err)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, int64(2), snap.Entries[0].TransactionID)
	assert.True(t, dec("990").Equal(snap.ClosingBalance))
	assert.Nil(t, snap.WindowStart)
}

func TestReconstruct_FailsWholeWindow(t *testing.T) {
	r := NewResolver(taxonomy.Default())

	_, err := r.Reconstruct(ReconstructRequest{
		View: domain.ViewCash,
		Transactions: []domain.Transaction{
			tx(1, "2024-01-01", "Sale to Customer (Cash)", "10"),
			{ID: 2, Category: "Sale to Customer (Cash)", Amount: dec("5")},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrMalformedTransaction)

	_, err = r.Reconstruct(ReconstructRequest{
		View: domain.ViewCash,
		Transactions: []domain.Transaction{
			tx(1, "2024-01-01", "Sale to Customer (Cash)", "10"),
			tx(2, "2023-01-01", "Removed Category", "10"),
		},
		Window: domain.Window{Start: day("2024-01-01")},
	})
	assert.ErrorIs(t, err, apperrors.ErrUnknownCategory, "unknown categories outside the window still abort")
}

func TestSum(t *testing.T) {
	r := NewResolver(taxonomy.Default())
	total, err := r.Sum(domain.ViewPartyLedger, []domain.Transaction{
		tx(1, "2024-01-01", "Sale to Customer (Credit)", "1000"),
		tx(2, "2024-01-02", "Payment Received from Customer (Bank)", "400"),
		tx(3, "2024-01-03", "Sale to Customer (Cash)", "50"),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600).Equal(total))
}
