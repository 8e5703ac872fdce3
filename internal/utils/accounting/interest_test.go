package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
)

func TestAccrue_ExplicitRateNoPayments(t *testing.T) {
	agreement := domain.Agreement{
		ID:                          1,
		Principal:                   dec("12000"),
		InterestRatePercentPerMonth: dec("2"),
		StartDate:                   day("2024-01-01"),
	}
	res, err := Accrue(agreement, nil, nil, day("2024-04-01"))
	require.NoError(t, err)

	assert.Equal(t, domain.AccrualExplicitRate, res.Mode)
	require.Len(t, res.MonthlyBreakdown, 4)
	for _, m := range res.MonthlyBreakdown {
		assert.True(t, dec("240").Equal(m.InterestDue), "%s: got %s", m.Month, m.InterestDue)
	}
	assert.Equal(t, "2024-01", res.MonthlyBreakdown[0].Month)
	assert.Equal(t, domain.AccrualSkipped, res.MonthlyBreakdown[0].Status)
	assert.Equal(t, domain.AccrualPending, res.MonthlyBreakdown[3].Status)
	assert.True(t, dec("960").Equal(res.InterestPayable), "got %s", res.InterestPayable)
	assert.True(t, dec("12000").Equal(res.OutstandingPrincipal))
}

func TestAccrue_ExplicitRateWithPayments(t *testing.T) {
	agreement := domain.Agreement{
		Principal:                   dec("10000"),
		InterestRatePercentPerMonth: dec("1"),
		StartDate:                   day("2024-01-15"),
	}
	principal := []domain.AgreementPayment{
		{Date: day("2024-01-20"), Amount: dec("4000")},
		{Date: day("2024-06-01"), Amount: dec("1000")}, // after asOf
	}
	interest := []domain.AgreementPayment{{Date: day("2024-02-05"), Amount: dec("100")}}

	res, err := Accrue(agreement, principal, interest, day("2024-03-10"))
	require.NoError(t, err)
	require.Len(t, res.MonthlyBreakdown, 3)

	// January accrues on the full principal; the repayment lowers February onwards
	assert.True(t, dec("100").Equal(res.MonthlyBreakdown[0].InterestDue))
	assert.True(t, dec("60").Equal(res.MonthlyBreakdown[1].InterestDue))
	assert.True(t, dec("60").Equal(res.MonthlyBreakdown[2].InterestDue))
	assert.Equal(t, domain.AccrualSkipped, res.MonthlyBreakdown[0].Status)
	assert.Equal(t, domain.AccrualPaid, res.MonthlyBreakdown[1].Status)
	assert.Equal(t, domain.AccrualPending, res.MonthlyBreakdown[2].Status)

	assert.True(t, dec("220").Equal(res.TotalInterestDue))
	assert.True(t, dec("100").Equal(res.TotalInterestPaid))
	assert.True(t, dec("120").Equal(res.InterestPayable))
	assert.True(t, dec("6000").Equal(res.OutstandingPrincipal))
}

func TestAccrue_EMIReverse(t *testing.T) {
	agreement := domain.Agreement{
		Principal: dec("12000"),
		StartDate: day("2024-01-01"),
		Details:   "Bike loan, EMI Rs. 1,000 for 12 months",
	}
	res, err := Accrue(agreement, nil, nil, day("2024-03-15"))
	require.NoError(t, err)

	assert.Equal(t, domain.AccrualEMIReverse, res.Mode)
	p, _ := res.EffectivePrincipal.Float64()
	assert.InDelta(t, 10907.51, p, 0.02)
	require.Len(t, res.MonthlyBreakdown, 3)
	perMonth, _ := res.MonthlyBreakdown[0].InterestDue.Float64()
	assert.InDelta(t, 91.04, perMonth, 0.01)
	assert.True(t, res.OutstandingPrincipal.Equal(res.EffectivePrincipal))
}

func TestAccrue_EMIWithRealPrincipal(t *testing.T) {
	agreement := domain.Agreement{
		Principal: dec("9600"),
		StartDate: day("2024-01-01"),
		Details:   "emi: 1000, tenure: 12",
	}
	res, err := Accrue(agreement, nil, nil, day("2025-06-01"))
	require.NoError(t, err)
	assert.True(t, dec("9600").Equal(res.EffectivePrincipal))
	require.Len(t, res.MonthlyBreakdown, 12, "breakdown stops after the last installment")
	assert.True(t, dec("2400").Equal(res.TotalInterestDue), "got %s", res.TotalInterestDue)
}

func TestAccrue_InterestFree(t *testing.T) {
	res, err := Accrue(domain.Agreement{Principal: dec("5000"), StartDate: day("2024-01-01")},
		[]domain.AgreementPayment{{Date: day("2024-02-01"), Amount: dec("-500")}}, nil, day("2024-05-01"))
	require.NoError(t, err)
	assert.Equal(t, domain.AccrualInterestFree, res.Mode)
	assert.Empty(t, res.MonthlyBreakdown)
	assert.True(t, res.InterestPayable.IsZero())
	assert.True(t, dec("4500").Equal(res.OutstandingPrincipal))
}

func TestAccrue_Validation(t *testing.T) {
	_, err := Accrue(domain.Agreement{Principal: dec("1")}, nil, nil, day("2024-01-01"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseEMIDetails(t *testing.T) {
	tests := []struct {
		in     string
		emi    string
		months int
		ok     bool
	}{
		{"EMI Rs. 2,500 for 12 months", "2500", 12, true},
		{"emi: 1800, tenure: 24", "1800", 24, true},
		{"EMI of ₹999.50 x 6 installments", "999.50", 6, true},
		{"monthly emi 3000", "", 0, false},
		{"no terms here", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEMIDetails(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, dec(tt.emi).Equal(got.EMI), "got %s", got.EMI)
				assert.Equal(t, tt.months, got.Months)
			}
		})
	}
}
