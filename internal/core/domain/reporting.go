package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessProfile carries the business-level settings the engine needs.
type BusinessProfile struct {
	State              string          `json:"state"`
	OpeningCashBalance decimal.Decimal `json:"openingCashBalance"`
	OpeningBankBalance decimal.Decimal `json:"openingBankBalance"`
}

// PnLLine is the net contribution of one category group to profit.
type PnLLine struct {
	Group  string          `json:"group"`
	Amount decimal.Decimal `json:"amount"`
}

// PAndLReport represents a profit and loss report
type PAndLReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Income        []PnLLine       `json:"income"`
	Expenses      []PnLLine       `json:"expenses"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// PartyBalance is one row of a receivable or payable summary.
type PartyBalance struct {
	PartyID int64           `json:"partyID"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// PartySummary lists party balances with their total.
type PartySummary struct {
	AsOf    time.Time       `json:"asOf"`
	Parties []PartyBalance  `json:"parties"`
	Total   decimal.Decimal `json:"total"`
}

// BalanceSheetReport represents a balance sheet report
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Cash             decimal.Decimal `json:"cash"`
	Bank             decimal.Decimal `json:"bank"`
	Receivables      decimal.Decimal `json:"receivables"`
	Inventory        decimal.Decimal `json:"inventory"`
	Payables         decimal.Decimal `json:"payables"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	Equity           decimal.Decimal `json:"equity"`
}

// ProductValuation values one product's current stock.
type ProductValuation struct {
	ProductID    int64           `json:"productID"`
	Name         string          `json:"name"`
	CurrentStock int64           `json:"currentStock"`
	AtCost       decimal.Decimal `json:"atCost"`
	AtSalePrice  decimal.Decimal `json:"atSalePrice"`
}

// ValuationSnapshot is the business position as of a date.
type ValuationSnapshot struct {
	AsOf             time.Time          `json:"asOf"`
	Products         []ProductValuation `json:"products"`
	StockAtCost      decimal.Decimal    `json:"stockAtCost"`
	StockAtSalePrice decimal.Decimal    `json:"stockAtSalePrice"`
	Cash             decimal.Decimal    `json:"cash"`
	Bank             decimal.Decimal    `json:"bank"`
	Receivables      decimal.Decimal    `json:"receivables"`
	Payables         decimal.Decimal    `json:"payables"`
	LoansOutstanding decimal.Decimal    `json:"loansOutstanding"` // principal owed by the business
	LoansReceivable  decimal.Decimal    `json:"loansReceivable"`  // principal owed to the business
	InterestPayable  decimal.Decimal    `json:"interestPayable"`
	NetWorthAtCost   decimal.Decimal    `json:"netWorthAtCost"`
}

// StockDiscrepancy reports a product whose CurrentStock disagrees with the log.
type StockDiscrepancy struct {
	ProductID     int64  `json:"productID"`
	Name          string `json:"name"`
	CurrentStock  int64  `json:"currentStock"`
	ExpectedStock int64  `json:"expectedStock"`
}
