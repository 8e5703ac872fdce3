package mapping

import (
	"github.com/SscSPs/bizbooks/internal/core/domain"
	"github.com/SscSPs/bizbooks/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction. Line items are mapped
// separately with ToModelLineItems.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:    d.ID,
		TxDate:           domain.DateOnly(d.Date),
		Category:         d.Category,
		Amount:           d.Amount,
		Description:      d.Description,
		PartyUserID:      d.PartyUserID,
		PartyLenderID:    d.PartyLenderID,
		AgreementID:      d.AgreementID,
		RelatedInvoiceID: d.RelatedInvoiceID,
		BatchID:          d.BatchID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction and its line item rows to a domain Transaction.
func ToDomainTransaction(m models.Transaction, lines []models.TransactionLineItem) domain.Transaction {
	return domain.Transaction{
		ID:               m.TransactionID,
		Date:             domain.DateOnly(m.TxDate),
		Category:         m.Category,
		Amount:           m.Amount,
		Description:      m.Description,
		PartyUserID:      m.PartyUserID,
		PartyLenderID:    m.PartyLenderID,
		AgreementID:      m.AgreementID,
		RelatedInvoiceID: m.RelatedInvoiceID,
		LineItems:        ToDomainLineItems(lines),
		BatchID:          m.BatchID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItems numbers the line items of a transaction from 1.
func ToModelLineItems(transactionID int64, items []domain.LineItem) []models.TransactionLineItem {
	ms := make([]models.TransactionLineItem, len(items))
	for i, li := range items {
		ms[i] = models.TransactionLineItem{
			TransactionID: transactionID,
			LineNo:        i + 1,
			ProductID:     li.ProductID,
			Quantity:      li.Quantity,
			UnitPrice:     li.UnitPrice,
		}
	}
	return ms
}

// ToDomainLineItems returns nil for no rows so that transactions without products stay comparable.
func ToDomainLineItems(ms []models.TransactionLineItem) []domain.LineItem {
	if len(ms) == 0 {
		return nil
	}
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = domain.LineItem{ProductID: m.ProductID, Quantity: m.Quantity, UnitPrice: m.UnitPrice}
	}
	return ds
}
