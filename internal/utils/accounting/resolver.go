// Package accounting holds the pure computations behind every ledger view: sign resolution,
// ledger reconstruction, stock deltas, interest accrual, invoice tax and chit settlement.
package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// CategoryLookup is the part of the taxonomy the resolver depends on.
type CategoryLookup interface {
	Lookup(name string) (domain.Category, error)
}

// Resolver turns stored transactions into signed per-view effects.
type Resolver struct {
	categories CategoryLookup
}

// NewResolver creates a Resolver over the given category table.
func NewResolver(categories CategoryLookup) *Resolver {
	return &Resolver{categories: categories}
}

// Category looks up the category of a transaction.
func (r *Resolver) Category(t domain.Transaction) (domain.Category, error) {
	c, err := r.categories.Lookup(t.Category)
	if err != nil {
		return domain.Category{}, fmt.Errorf("transaction %d: %w", t.ID, err)
	}
	return c, nil
}

// ResolveEffect returns the signed amount the given view must add for t, and whether the
// view is affected by t at all.
func (r *Resolver) ResolveEffect(t domain.Transaction, view domain.ViewKind) (decimal.Decimal, bool, error) {
	c, err := r.Category(t)
	if err != nil {
		return decimal.Zero, false, err
	}
	return EffectFor(c, t.Amount, view)
}

// EffectFor applies the sign convention of category c to a stored amount.
//
// The stored amount is signed from the perspective of the party ledger the category is relevant
// to. customer_payment is the exception: it is stored as a positive magnitude, so the receivable
// effect is negated, and the cash/bank effect (the negation of the receivable effect for customer
// categories) ends up equal to the stored sign.
func EffectFor(c domain.Category, amount decimal.Decimal, view domain.ViewKind) (decimal.Decimal, bool, error) {
	switch view {
	case domain.ViewPartyLedger:
		if c.RelevantTo == domain.RelevantNone {
			return decimal.Zero, false, nil
		}
		return partyEffect(c, amount), true, nil

	case domain.ViewCash, domain.ViewBank:
		switch c.LedgerEffect {
		case domain.EffectCashOutBankIn:
			if view == domain.ViewCash {
				return amount.Neg(), true, nil
			}
			return amount, true, nil
		case domain.EffectCashInBankOut:
			if view == domain.ViewCash {
				return amount, true, nil
			}
			return amount.Neg(), true, nil
		case domain.EffectCash:
			if view != domain.ViewCash {
				return decimal.Zero, false, nil
			}
		case domain.EffectBank:
			if view != domain.ViewBank {
				return decimal.Zero, false, nil
			}
		default:
			return decimal.Zero, false, nil
		}
		return moneyEffect(c, amount), true, nil

	case domain.ViewPnL:
		if c.Group == domain.GroupOpeningBalance {
			return decimal.Zero, false, nil
		}
		switch c.NatureHint {
		case domain.NatureIncome:
			return amount.Abs(), true, nil
		case domain.NatureExpense:
			return amount.Abs().Neg(), true, nil
		}
		return decimal.Zero, false, nil

	default:
		return decimal.Zero, false, fmt.Errorf("unknown ledger view %q", view)
	}
}

// partyEffect is the receivable (customer) or payable (lender) change.
func partyEffect(c domain.Category, amount decimal.Decimal) decimal.Decimal {
	if c.RelevantTo == domain.RelevantCustomer && c.Group == domain.GroupCustomerPayment {
		return amount.Neg()
	}
	return amount
}

// moneyEffect is the cash or bank change for a single-bucket category.
func moneyEffect(c domain.Category, amount decimal.Decimal) decimal.Decimal {
	switch c.RelevantTo {
	case domain.RelevantCustomer:
		// money handed to a customer raises what they owe and vice versa
		return partyEffect(c, amount).Neg()
	case domain.RelevantLender:
		return partyEffect(c, amount)
	default:
		return amount
	}
}
