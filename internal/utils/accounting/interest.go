package accounting

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// AssumedEMIMonthlyRate is the fallback monthly rate used to back-solve the principal of an
// EMI loan whose recorded principal is really the total repayment. It is a guess, not a
// validated business figure; results computed with it are flagged as AccrualEMIReverse.
var AssumedEMIMonthlyRate = decimal.RequireFromString("0.015")

// totalRepaymentTolerance is how close EMI × months must be to the recorded principal for the
// principal to be treated as the total repayment.
var totalRepaymentTolerance = decimal.NewFromInt(1)

var (
	hundred = decimal.NewFromInt(100)

	emiPattern      = regexp.MustCompile(`(?i)\bemi\b\s*(?:amount)?\s*(?:of|is|[:=@-])?\s*(?:rs\.?|inr|₹)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	durationPattern = regexp.MustCompile(`(?i)\b([0-9]{1,3})\s*(?:months?|mths?|mos?|installments?|instalments?|emis)\b`)
	tenurePattern   = regexp.MustCompile(`(?i)\b(?:duration|tenure|term|period)\b\s*(?:of|is|[:=-])?\s*([0-9]{1,3})\b`)
)

// EMITerms is an installment amount and a count of monthly installments.
type EMITerms struct {
	EMI    decimal.Decimal
	Months int
}

// ParseEMIDetails extracts EMI terms from an agreement's free-text details, e.g.
// "EMI Rs. 2,500 for 12 months" or "emi: 1800, tenure: 24".
func ParseEMIDetails(details string) (EMITerms, bool) {
	m := emiPattern.FindStringSubmatch(details)
	if m == nil {
		return EMITerms{}, false
	}
	emi, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || !emi.IsPositive() {
		return EMITerms{}, false
	}

	d := durationPattern.FindStringSubmatch(details)
	if d == nil {
		d = tenurePattern.FindStringSubmatch(details)
	}
	if d == nil {
		return EMITerms{}, false
	}
	months, err := strconv.Atoi(d[1])
	if err != nil || months <= 0 {
		return EMITerms{}, false
	}
	return EMITerms{EMI: emi, Months: months}, true
}

// AmortizedPrincipal solves P = EMI × (1 − (1+r)^−n) / r.
func AmortizedPrincipal(emi decimal.Decimal, months int, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return emi.Mul(decimal.NewFromInt(int64(months)))
	}
	one := decimal.NewFromInt(1)
	growth := one
	for i := 0; i < months; i++ {
		growth = growth.Mul(one.Add(rate))
	}
	return emi.Mul(one.Sub(one.Div(growth))).Div(rate).Round(2)
}

// Accrue computes the interest position of an agreement as of a date.
//
// principalPayments and interestPayments carry payment magnitudes read from the live transaction
// log; payments dated after asOf are ignored.
func Accrue(agreement domain.Agreement, principalPayments, interestPayments []domain.AgreementPayment, asOf time.Time) (*domain.AccrualResult, error) {
	if agreement.StartDate.IsZero() {
		return nil, apperrors.NewValidationError("agreement %d has no start date", agreement.ID)
	}
	if agreement.Principal.IsNegative() {
		return nil, apperrors.NewValidationError("agreement %d has a negative principal", agreement.ID)
	}
	asOf = domain.DateOnly(asOf)
	principalPayments = paymentsUpTo(principalPayments, asOf)
	interestPayments = paymentsUpTo(interestPayments, asOf)

	res := &domain.AccrualResult{
		AgreementID:        agreement.ID,
		EffectivePrincipal: agreement.Principal,
		TotalInterestDue:   decimal.Zero,
		TotalInterestPaid:  sumPayments(interestPayments),
		MonthlyBreakdown:   []domain.MonthlyAccrual{},
	}

	switch {
	case agreement.InterestRatePercentPerMonth.IsPositive():
		res.Mode = domain.AccrualExplicitRate
		rate := agreement.InterestRatePercentPerMonth.Div(hundred)
		for _, month := range monthsBetween(agreement.StartDate, asOf, 0) {
			next := month.AddDate(0, 1, 0)
			running := agreement.Principal.Sub(sumPaymentsBefore(principalPayments, month))
			if running.IsNegative() {
				running = decimal.Zero
			}
			due := running.Mul(rate).Round(2)
			res.MonthlyBreakdown = append(res.MonthlyBreakdown, domain.MonthlyAccrual{
				Month:       month.Format("2006-01"),
				InterestDue: due,
				Status:      monthStatus(month, next, asOf, interestPayments),
			})
			res.TotalInterestDue = res.TotalInterestDue.Add(due)
		}

	default:
		terms, ok := ParseEMIDetails(agreement.Details)
		if !ok {
			res.Mode = domain.AccrualInterestFree
			break
		}
		res.Mode = domain.AccrualEMIReverse
		months := decimal.NewFromInt(int64(terms.Months))
		totalRepayment := terms.EMI.Mul(months)
		if totalRepayment.Sub(agreement.Principal).Abs().LessThanOrEqual(totalRepaymentTolerance) {
			res.EffectivePrincipal = AmortizedPrincipal(terms.EMI, terms.Months, AssumedEMIMonthlyRate)
		}
		totalInterest := totalRepayment.Sub(res.EffectivePrincipal)
		if totalInterest.IsNegative() {
			totalInterest = decimal.Zero
		}
		perMonth := totalInterest.Div(months).Round(2)
		for _, month := range monthsBetween(agreement.StartDate, asOf, terms.Months) {
			res.MonthlyBreakdown = append(res.MonthlyBreakdown, domain.MonthlyAccrual{
				Month:       month.Format("2006-01"),
				InterestDue: perMonth,
				Status:      monthStatus(month, month.AddDate(0, 1, 0), asOf, interestPayments),
			})
			res.TotalInterestDue = res.TotalInterestDue.Add(perMonth)
		}
	}

	res.OutstandingPrincipal = res.EffectivePrincipal.Sub(sumPayments(principalPayments))
	res.InterestPayable = res.TotalInterestDue.Sub(res.TotalInterestPaid)
	return res, nil
}

// monthsBetween lists the first day of every month from start's month through end's month,
// capped at limit entries when limit > 0.
func monthsBetween(start, end time.Time, limit int) []time.Time {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []time.Time
	for !cur.After(end) {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

func monthStatus(month, next, asOf time.Time, interestPayments []domain.AgreementPayment) domain.AccrualStatus {
	for _, p := range interestPayments {
		d := domain.DateOnly(p.Date)
		if !d.Before(month) && d.Before(next) {
			return domain.AccrualPaid
		}
	}
	if !asOf.Before(next) {
		return domain.AccrualSkipped
	}
	return domain.AccrualPending
}

func paymentsUpTo(payments []domain.AgreementPayment, asOf time.Time) []domain.AgreementPayment {
	out := make([]domain.AgreementPayment, 0, len(payments))
	for _, p := range payments {
		if !domain.DateOnly(p.Date).After(asOf) {
			out = append(out, p)
		}
	}
	return out
}

func sumPayments(payments []domain.AgreementPayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount.Abs())
	}
	return total
}

func sumPaymentsBefore(payments []domain.AgreementPayment, before time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if domain.DateOnly(p.Date).Before(before) {
			total = total.Add(p.Amount.Abs())
		}
	}
	return total
}
