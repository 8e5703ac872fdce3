package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ViewKind selects which effect of a transaction a ledger view aggregates.
type ViewKind string

const (
	ViewPartyLedger ViewKind = "partyLedger"
	ViewCash        ViewKind = "cash"
	ViewBank        ViewKind = "bank"
	ViewPnL         ViewKind = "pnlBucket"
)

// LedgerEntry is one line of a reconstructed ledger.
type LedgerEntry struct {
	TransactionID  int64           `json:"transactionID"`
	Date           time.Time       `json:"date"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Effect         decimal.Decimal `json:"effect"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// DayTotal aggregates the entries of one calendar day inside a window.
type DayTotal struct {
	Date           time.Time       `json:"date"`
	Debits         decimal.Decimal `json:"debits"`
	Credits        decimal.Decimal `json:"credits"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// LedgerSnapshot is a derived, never-persisted ledger for one view and window.
type LedgerSnapshot struct {
	View           ViewKind        `json:"view"`
	WindowStart    *time.Time      `json:"windowStart,omitempty"`
	WindowEnd      *time.Time      `json:"windowEnd,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Entries        []LedgerEntry   `json:"entries"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	TotalDebits    decimal.Decimal `json:"totalDebits"`
	TotalCredits   decimal.Decimal `json:"totalCredits"`
	DailyTotals    []DayTotal      `json:"dailyTotals"`
}

// Window bounds a ledger request. Zero times are open bounds.
type Window struct {
	Start time.Time
	End   time.Time
}
