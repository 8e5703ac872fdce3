package mapping

import (
	"github.com/SscSPs/bizbooks/internal/core/domain"
	"github.com/SscSPs/bizbooks/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:    d.ID,
		Number:       d.Number,
		CustomerID:   d.CustomerID,
		InvoiceDate:  domain.DateOnly(d.InvoiceDate),
		CGSTRate:     d.CGSTRate,
		SGSTRate:     d.SGSTRate,
		IGSTRate:     d.IGSTRate,
		LumpDiscount: d.LumpDiscount,
		GrandTotal:   d.GrandTotal,
		PaidAmount:   d.PaidAmount,
		Status:       string(d.Status),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice and its line rows to a domain Invoice
func ToDomainInvoice(m models.Invoice, lines []models.InvoiceLine) domain.Invoice {
	items := make([]domain.InvoiceLine, len(lines))
	for i, l := range lines {
		items[i] = domain.InvoiceLine{
			ProductID:      l.ProductID,
			Description:    l.Description,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			DiscountAmount: l.DiscountAmount,
			TaxableValue:   l.TaxableValue,
		}
	}
	return domain.Invoice{
		ID:           m.InvoiceID,
		Number:       m.Number,
		CustomerID:   m.CustomerID,
		InvoiceDate:  domain.DateOnly(m.InvoiceDate),
		LineItems:    items,
		CGSTRate:     m.CGSTRate,
		SGSTRate:     m.SGSTRate,
		IGSTRate:     m.IGSTRate,
		LumpDiscount: m.LumpDiscount,
		GrandTotal:   m.GrandTotal,
		PaidAmount:   m.PaidAmount,
		Status:       domain.InvoiceStatus(m.Status),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLines numbers the lines of an invoice from 1.
func ToModelInvoiceLines(invoiceID int64, lines []domain.InvoiceLine) []models.InvoiceLine {
	ms := make([]models.InvoiceLine, len(lines))
	for i, l := range lines {
		ms[i] = models.InvoiceLine{
			InvoiceID:      invoiceID,
			LineNo:         i + 1,
			ProductID:      l.ProductID,
			Description:    l.Description,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			DiscountAmount: l.DiscountAmount,
			TaxableValue:   l.TaxableValue,
		}
	}
	return ms
}
