package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
)

func TestDefault_LoadsEmbeddedTable(t *testing.T) {
	tax := Default()
	require.NotNil(t, tax)
	assert.Equal(t, 3, tax.Version())
	assert.NotEmpty(t, tax.All())
	assert.Same(t, tax, Default(), "Default should be loaded once")
}

func TestLookup(t *testing.T) {
	tax := Default()

	c, err := tax.Lookup("Sale to Customer (Credit)")
	require.NoError(t, err)
	assert.Equal(t, domain.RelevantCustomer, c.RelevantTo)
	assert.Equal(t, domain.EffectNone, c.LedgerEffect)
	assert.True(t, c.IsProductSale)
	assert.True(t, c.IsProductRelated())

	c, err = tax.Lookup("Sale to Customer (Cash)")
	require.NoError(t, err)
	assert.Equal(t, domain.RelevantNone, c.RelevantTo, "paid sales never touch the party ledger")
	assert.Equal(t, domain.EffectCash, c.LedgerEffect)

	c, err = tax.Lookup("Payment Made to Supplier (Bank)")
	require.NoError(t, err)
	assert.Equal(t, domain.RelevantLender, c.RelevantTo)
	assert.Equal(t, domain.SignNegative, c.AmountSign)

	_, err = tax.Lookup("Sale to Martians (Cash)")
	assert.ErrorIs(t, err, apperrors.ErrUnknownCategory)
}

func TestEmbeddedTableInvariants(t *testing.T) {
	for _, c := range Default().All() {
		switch c.LedgerEffect {
		case domain.EffectCashOutBankIn, domain.EffectCashInBankOut:
			assert.Equal(t, domain.RelevantNone, c.RelevantTo, "%s: transfers have no party", c.Name)
		}
		if c.Group == domain.GroupOpeningBalance {
			assert.Equal(t, domain.NatureNeutral, c.NatureHint, "%s: opening balances are not P&L", c.Name)
		}
		if c.IsProductSale || c.IsProductPurchase {
			assert.True(t, c.IsProductRelated(), "%s: product categories need a stock movement", c.Name)
		}
	}
}

func TestNamesInGroups(t *testing.T) {
	names := Default().NamesInGroups(domain.GroupLenderLoanRepay, domain.GroupLenderLoanInterest)
	assert.ElementsMatch(t, []string{
		"Loan Principal Repaid to Lender (Cash)",
		"Loan Principal Repaid to Lender (Bank)",
		"Loan Interest Paid to Lender (Cash)",
		"Loan Interest Paid to Lender (Bank)",
	}, names)
	assert.Empty(t, Default().NamesInGroups("no_such_group"))
}

func TestParseAndFormatKey(t *testing.T) {
	tests := []struct {
		name string
		want domain.CategoryKey
	}{
		{"Sale to Customer (Cash)", domain.CategoryKey{Base: "Sale to Customer", PaymentMode: domain.ModeCash}},
		{"Purchase from Supplier (Credit)", domain.CategoryKey{Base: "Purchase from Supplier", PaymentMode: domain.ModeCredit}},
		{"Bank Charges (Bank)", domain.CategoryKey{Base: "Bank Charges", PaymentMode: domain.ModeBank}},
		{"Cash Deposited to Bank", domain.CategoryKey{Base: "Cash Deposited to Bank", PaymentMode: domain.ModeNone}},
		{"Stock Increase (Adjustment)", domain.CategoryKey{Base: "Stock Increase (Adjustment)", PaymentMode: domain.ModeNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKey(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, FormatKey(got))
		})
	}

	c, err := Default().Resolve(domain.CategoryKey{Base: "Payment Received from Customer", PaymentMode: domain.ModeBank})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupCustomerPayment, c.Group)
}

func TestLoad_Rejects(t *testing.T) {
	_, err := Load([]byte("version: 1\ncategories: []\n"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = Load([]byte(`version: 1
categories:
  - {name: A, group: g, ledgerEffect: sideways, relevantTo: none, natureHint: neutral}
`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = Load([]byte(`version: 1
categories:
  - {name: A, group: g, ledgerEffect: cash, relevantTo: none, natureHint: neutral}
  - {name: A, group: g, ledgerEffect: bank, relevantTo: none, natureHint: neutral}
`))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	tax, err := Load([]byte(`version: 7
categories:
  - {name: A, group: g, ledgerEffect: cash, relevantTo: none, natureHint: neutral}
`))
	require.NoError(t, err)
	c, err := tax.Lookup("A")
	require.NoError(t, err)
	assert.Equal(t, domain.SignAny, c.AmountSign, "missing amountSign defaults to any")
}
