package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChitGroup is a rotating savings pool run by the business as foreman.
type ChitGroup struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	ChitValue           decimal.Decimal `json:"chitValue"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	CommissionPercent   decimal.Decimal `json:"commissionPercent"`
	MemberCustomerIDs   []int64         `json:"memberCustomerIDs"`
	AuditFields
}

// ChitAuction records one settled auction round.
type ChitAuction struct {
	ID                 int64           `json:"id"`
	GroupID            int64           `json:"groupID"`
	Round              int             `json:"round"`
	AuctionDate        time.Time       `json:"auctionDate"`
	PrizedMemberID     int64           `json:"prizedMemberID"`
	WinningBidDiscount decimal.Decimal `json:"winningBidDiscount"`
	BatchID            string          `json:"batchID"`
}

// ChitSettlement is the computed outcome of one auction.
type ChitSettlement struct {
	Auction           ChitAuction     `json:"auction"`
	ForemanCommission decimal.Decimal `json:"foremanCommission"`
	DividendPerMember decimal.Decimal `json:"dividendPerMember"`
	NetContribution   decimal.Decimal `json:"netContribution"`
	Payout            decimal.Decimal `json:"payout"`
	Transactions      []Transaction   `json:"transactions"`
}

// AuctionDraft is the caller-supplied input for settling one auction round.
type AuctionDraft struct {
	GroupID            int64           `json:"groupID"`
	AuctionDate        string          `json:"auctionDate"` // YYYY-MM-DD
	PrizedMemberID     int64           `json:"prizedMemberID"`
	WinningBidDiscount decimal.Decimal `json:"winningBidDiscount"`
}
