package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgreementType classifies financing agreements.
type AgreementType string

const (
	LoanTakenByBiz AgreementType = "loan_taken_by_biz"
	LoanGivenByBiz AgreementType = "loan_given_by_biz"
	HirePurchase   AgreementType = "hire_purchase"
	OtherFinancing AgreementType = "other"
)

// Agreement is a financing agreement. It stores no running totals; all paid figures
// are derived from the transaction log on read.
type Agreement struct {
	ID                          int64           `json:"id"`
	PartyID                     int64           `json:"partyID"`
	AgreementType               AgreementType   `json:"agreementType"`
	Principal                   decimal.Decimal `json:"principal"`
	InterestRatePercentPerMonth decimal.Decimal `json:"interestRatePercentPerMonth"`
	StartDate                   time.Time       `json:"startDate"`
	Details                     string          `json:"details"`
	AuditFields
}

// AccrualStatus is the payment status of one accrual month.
type AccrualStatus string

const (
	AccrualPending AccrualStatus = "Pending"
	AccrualPaid    AccrualStatus = "Paid"
	AccrualSkipped AccrualStatus = "Skipped"
)

// AccrualMode tells which computation produced an AccrualResult.
type AccrualMode string

const (
	AccrualExplicitRate AccrualMode = "explicit_rate"
	AccrualEMIReverse   AccrualMode = "emi_reverse"
	AccrualInterestFree AccrualMode = "interest_free"
)

// MonthlyAccrual is one month of an accrual breakdown.
type MonthlyAccrual struct {
	Month       string          `json:"month"` // YYYY-MM
	InterestDue decimal.Decimal `json:"interestDue"`
	Status      AccrualStatus   `json:"status"`
}

// AccrualResult is the derived interest position of an agreement as of a date.
type AccrualResult struct {
	AgreementID          int64            `json:"agreementID"`
	Mode                 AccrualMode      `json:"mode"`
	EffectivePrincipal   decimal.Decimal  `json:"effectivePrincipal"`
	OutstandingPrincipal decimal.Decimal  `json:"outstandingPrincipal"`
	InterestPayable      decimal.Decimal  `json:"interestPayable"`
	TotalInterestDue     decimal.Decimal  `json:"totalInterestDue"`
	TotalInterestPaid    decimal.Decimal  `json:"totalInterestPaid"`
	MonthlyBreakdown     []MonthlyAccrual `json:"monthlyBreakdown"`
}

// AgreementPayment is a principal or interest payment read from the log.
type AgreementPayment struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"` // magnitude
}
