package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// ChitFigures are the money figures of one auction round.
type ChitFigures struct {
	ForemanCommission decimal.Decimal
	DividendPerMember decimal.Decimal
	NetContribution   decimal.Decimal
	Payout            decimal.Decimal
}

// SettlementFigures computes commission, dividend, net contribution and payout for an auction
// won at the given discount. The commission is paid out of the discount, so a bid below the
// commission is rejected.
func SettlementFigures(group domain.ChitGroup, winningBidDiscount decimal.Decimal) (ChitFigures, error) {
	members := len(group.MemberCustomerIDs)
	if members == 0 {
		return ChitFigures{}, apperrors.NewValidationError("chit group %d has no members", group.ID)
	}
	if !group.ChitValue.IsPositive() {
		return ChitFigures{}, apperrors.NewValidationError("chit group %d has no chit value", group.ID)
	}
	commission := percentOf(group.ChitValue, group.CommissionPercent)
	if winningBidDiscount.LessThan(commission) {
		return ChitFigures{}, apperrors.NewValidationError("winning bid discount %s is below the foreman commission %s",
			winningBidDiscount.StringFixed(2), commission.StringFixed(2))
	}
	if winningBidDiscount.GreaterThanOrEqual(group.ChitValue) {
		return ChitFigures{}, apperrors.NewValidationError("winning bid discount %s must be below the chit value %s",
			winningBidDiscount.StringFixed(2), group.ChitValue.StringFixed(2))
	}

	dividend := winningBidDiscount.Sub(commission).Div(decimal.NewFromInt(int64(members))).Round(2)
	return ChitFigures{
		ForemanCommission: commission,
		DividendPerMember: dividend,
		NetContribution:   group.MonthlyContribution.Sub(dividend),
		Payout:            group.ChitValue.Sub(winningBidDiscount),
	}, nil
}
