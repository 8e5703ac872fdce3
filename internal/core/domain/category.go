package domain

// LedgerEffect names the cash/bank bucket(s) a category touches.
type LedgerEffect string

const (
	EffectCash          LedgerEffect = "cash"
	EffectBank          LedgerEffect = "bank"
	EffectNone          LedgerEffect = "none"
	EffectCashOutBankIn LedgerEffect = "both_cash_out_bank_in"
	EffectCashInBankOut LedgerEffect = "both_cash_in_bank_out"
)

// RelevantTo names the party ledger a category's stored amount is signed for.
type RelevantTo string

const (
	RelevantCustomer RelevantTo = "customer"
	RelevantLender   RelevantTo = "lender"
	RelevantNone     RelevantTo = "none"
)

// NatureHint classifies the economic nature of a category.
type NatureHint string

const (
	NatureIncome             NatureHint = "income"
	NatureExpense            NatureHint = "expense"
	NatureReceivableIncrease NatureHint = "receivable_increase"
	NatureReceivableDecrease NatureHint = "receivable_decrease"
	NaturePayableIncrease    NatureHint = "payable_increase"
	NaturePayableDecrease    NatureHint = "payable_decrease"
	NatureNeutral            NatureHint = "neutral"
)

// AmountSign is the stored-sign rule a category imposes on Transaction.Amount.
type AmountSign string

const (
	SignPositive AmountSign = "positive"
	SignNegative AmountSign = "negative"
	SignNonZero  AmountSign = "nonzero"
	SignAny      AmountSign = "any"
)

// StockMovement keys the stock delta table.
type StockMovement string

const (
	MovementNone               StockMovement = ""
	MovementSale               StockMovement = "sale"
	MovementPurchase           StockMovement = "purchase"
	MovementReturnFromCustomer StockMovement = "return_from_customer"
	MovementReturnToSupplier   StockMovement = "return_to_supplier"
	MovementStockIncrease      StockMovement = "stock_increase"
	MovementStockDecrease      StockMovement = "stock_decrease"
)

// Well-known category groups the engine branches on.
const (
	GroupOpeningBalance       = "opening_balance"
	GroupCustomerPayment      = "customer_payment"
	GroupChitPayout           = "chit_payout"
	GroupChitContribution     = "chit_contribution"
	GroupLenderLoanIn         = "lender_loan_in"
	GroupLenderLoanRepay      = "lender_loan_repay"
	GroupLenderLoanInterest   = "lender_loan_interest"
	GroupCustomerLoanOut      = "customer_loan_out"
	GroupCustomerLoanRepay    = "customer_loan_repay"
	GroupCustomerLoanInterest = "customer_loan_interest"
)

// Category is one immutable entry of the category taxonomy.
type Category struct {
	Name              string        `json:"name" yaml:"name"`
	Group             string        `json:"group" yaml:"group"`
	LedgerEffect      LedgerEffect  `json:"ledgerEffect" yaml:"ledgerEffect"`
	RelevantTo        RelevantTo    `json:"relevantTo" yaml:"relevantTo"`
	IsProductSale     bool          `json:"isProductSale" yaml:"isProductSale"`
	IsProductPurchase bool          `json:"isProductPurchase" yaml:"isProductPurchase"`
	NatureHint        NatureHint    `json:"natureHint" yaml:"natureHint"`
	StockMovement     StockMovement `json:"stockMovement,omitempty" yaml:"stockMovement"`
	AmountSign        AmountSign    `json:"amountSign" yaml:"amountSign"`
}

// IsProductRelated reports whether line items on this category move stock.
func (c Category) IsProductRelated() bool {
	return c.StockMovement != MovementNone
}

// PaymentMode is the settlement channel embedded in a category name.
type PaymentMode string

const (
	ModeCash   PaymentMode = "cash"
	ModeBank   PaymentMode = "bank"
	ModeCredit PaymentMode = "credit"
	ModeNone   PaymentMode = ""
)

// CategoryKey is the structured form of a category name: a base category plus a payment mode.
type CategoryKey struct {
	Base        string      `json:"base"`
	PaymentMode PaymentMode `json:"paymentMode,omitempty"`
}
