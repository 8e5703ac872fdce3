package dto

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// LineItemRequest is one product line of a transaction.
type LineItemRequest struct {
	ProductID int64           `json:"productID" binding:"required,gt=0"`
	Quantity  int64           `json:"quantity" binding:"required,ne=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CreateTransactionRequest defines the data needed to create or update a transaction.
type CreateTransactionRequest struct {
	Date             string            `json:"date" binding:"required,isodate"`
	Category         string            `json:"category" binding:"required"`
	Amount           decimal.Decimal   `json:"amount"`
	Description      string            `json:"description" binding:"max=500"`
	PartyUserID      *int64            `json:"partyUserID" binding:"omitempty,gt=0,excluded_with=PartyLenderID"`
	PartyLenderID    *int64            `json:"partyLenderID" binding:"omitempty,gt=0"`
	AgreementID      *int64            `json:"agreementID" binding:"omitempty,gt=0"`
	RelatedInvoiceID *int64            `json:"relatedInvoiceID" binding:"omitempty,gt=0"`
	LineItems        []LineItemRequest `json:"lineItems" binding:"omitempty,dive"`
}

// ToDraft converts the request into the engine's input.
func (r CreateTransactionRequest) ToDraft() domain.TransactionDraft {
	d := domain.TransactionDraft{
		Date:             r.Date,
		Category:         r.Category,
		Amount:           r.Amount,
		Description:      r.Description,
		PartyUserID:      r.PartyUserID,
		PartyLenderID:    r.PartyLenderID,
		AgreementID:      r.AgreementID,
		RelatedInvoiceID: r.RelatedInvoiceID,
	}
	for _, li := range r.LineItems {
		d.LineItems = append(d.LineItems, domain.LineItem{ProductID: li.ProductID, Quantity: li.Quantity, UnitPrice: li.UnitPrice})
	}
	return d
}

// CreateTransactionBatchRequest creates several transactions atomically.
type CreateTransactionBatchRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=1,max=500,dive"`
}

// TransactionResponse is a stored transaction plus any warnings raised while storing it.
type TransactionResponse struct {
	domain.Transaction
	Warnings []string `json:"warnings,omitempty"`
}

// ToTransactionResponse converts an engine result to its response.
func ToTransactionResponse(res *domain.CreateResult) TransactionResponse {
	return TransactionResponse{Transaction: res.Transaction, Warnings: res.Warnings}
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	PartyUserID      *int64 `form:"partyUserID"`
	PartyLenderID    *int64 `form:"partyLenderID"`
	AgreementID      *int64 `form:"agreementID"`
	RelatedInvoiceID *int64 `form:"relatedInvoiceID"`
	From             string `form:"from" binding:"omitempty,isodate"`
	To               string `form:"to" binding:"omitempty,isodate"`
	Category         string `form:"category"`
	Limit            int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken        string `form:"nextToken"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}
