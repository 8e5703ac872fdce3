package domain

import "github.com/shopspring/decimal"

// Product is a stocked item. CurrentStock is mutated only by the transaction engine.
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	OpeningStock int64           `json:"openingStock"`
	CurrentStock int64           `json:"currentStock"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SalePrice    decimal.Decimal `json:"salePrice"`
	AuditFields
}
