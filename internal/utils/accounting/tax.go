package accounting

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

var two = decimal.NewFromInt(2)

// TaxableValue is quantity × unit price less the line discount.
func TaxableValue(l domain.InvoiceLine) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)).Sub(l.DiscountAmount)
}

// ComputeTotals prices an invoice. Lines with a negative quantity are embedded returns: they are
// kept out of the taxable subtotal and deducted from the grand total untaxed. A positive IGST rate
// excludes CGST and SGST. The returned lines carry their derived TaxableValue.
func ComputeTotals(lines []domain.InvoiceLine, rates domain.TaxRates, lumpDiscount decimal.Decimal) (domain.InvoiceTotals, []domain.InvoiceLine) {
	priced := make([]domain.InvoiceLine, len(lines))
	subtotal, returns := decimal.Zero, decimal.Zero
	for i, l := range lines {
		l.TaxableValue = TaxableValue(l)
		priced[i] = l
		if l.Quantity >= 0 {
			subtotal = subtotal.Add(l.TaxableValue)
		} else {
			returns = returns.Add(l.TaxableValue)
		}
	}
	if returns.IsPositive() {
		// a return line with a discount larger than its value must not add to the total
		returns = decimal.Zero
	}

	t := domain.InvoiceTotals{
		Subtotal:     subtotal.Round(2),
		ReturnsValue: returns.Round(2),
		CGST:         decimal.Zero,
		SGST:         decimal.Zero,
		IGST:         decimal.Zero,
		LumpDiscount: lumpDiscount.Round(2),
	}
	if rates.IGST.IsPositive() {
		t.IGST = percentOf(t.Subtotal, rates.IGST)
	} else {
		t.CGST = percentOf(t.Subtotal, rates.CGST)
		t.SGST = percentOf(t.Subtotal, rates.SGST)
	}
	t.GrandTotal = t.Subtotal.Add(t.CGST).Add(t.SGST).Add(t.IGST).Sub(t.LumpDiscount).Sub(t.ReturnsValue.Abs())
	t.AmountInWords = AmountInWords(t.GrandTotal)
	return t, priced
}

// SelectRates splits a GST rate by place of supply: the same state (or an unknown customer state)
// is intra-state CGST + SGST, anything else is IGST.
func SelectRates(businessState, customerState string, gstRate decimal.Decimal) domain.TaxRates {
	b := strings.TrimSpace(businessState)
	c := strings.TrimSpace(customerState)
	if c == "" || strings.EqualFold(b, c) {
		half := gstRate.Div(two)
		return domain.TaxRates{CGST: half, SGST: half, IGST: decimal.Zero}
	}
	return domain.TaxRates{CGST: decimal.Zero, SGST: decimal.Zero, IGST: gstRate}
}

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred).Round(2)
}
