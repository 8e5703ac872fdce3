package domain

import "github.com/shopspring/decimal"

// Customer is a party the business sells to or lends to.
type Customer struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	State          string          `json:"state,omitempty"` // GST state, drives IGST vs CGST+SGST
	GSTIN          string          `json:"gstin,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	AuditFields
}

// EntityType classifies external entities.
type EntityType string

const (
	EntitySupplier  EntityType = "Supplier"
	EntityLender    EntityType = "Lender"
	EntityFinancial EntityType = "Financial"
	EntityGeneral   EntityType = "General"
)

// ExternalEntity is a supplier, lender or other non-customer party.
type ExternalEntity struct {
	ID                    int64           `json:"id"`
	Name                  string          `json:"name"`
	EntityType            EntityType      `json:"entityType"`
	OpeningPayableBalance decimal.Decimal `json:"openingPayableBalance"` // suppliers only
	AuditFields
}
