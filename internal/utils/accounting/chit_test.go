package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
)

func TestSettlementFigures(t *testing.T) {
	group := domain.ChitGroup{
		ID:                  1,
		ChitValue:           dec("100000"),
		MonthlyContribution: dec("5000"),
		CommissionPercent:   dec("5"),
		MemberCustomerIDs:   []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
	}
	f, err := SettlementFigures(group, dec("25000"))
	require.NoError(t, err)

	assert.True(t, dec("5000").Equal(f.ForemanCommission))
	assert.True(t, dec("1000").Equal(f.DividendPerMember))
	assert.True(t, dec("4000").Equal(f.NetContribution))
	assert.True(t, dec("75000").Equal(f.Payout))
}

func TestSettlementFigures_Validation(t *testing.T) {
	group := domain.ChitGroup{ChitValue: dec("1000"), CommissionPercent: dec("5"), MemberCustomerIDs: []int64{1, 2}}

	_, err := SettlementFigures(group, dec("10"))
	assert.ErrorIs(t, err, apperrors.ErrValidation, "bid below commission")

	_, err = SettlementFigures(group, dec("1000"))
	assert.ErrorIs(t, err, apperrors.ErrValidation, "bid equal to chit value")

	group.MemberCustomerIDs = nil
	_, err = SettlementFigures(group, dec("100"))
	assert.ErrorIs(t, err, apperrors.ErrValidation, "no members")
}
