package dto

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// CreateCustomerRequest defines the data needed to create a customer.
type CreateCustomerRequest struct {
	Name           string          `json:"name" binding:"required,max=200"`
	Phone          string          `json:"phone" binding:"max=20"`
	State          string          `json:"state" binding:"max=100"`
	GSTIN          string          `json:"gstin" binding:"omitempty,len=15,alphanum"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// CreateEntityRequest defines the data needed to create a supplier, lender or other entity.
type CreateEntityRequest struct {
	Name                  string            `json:"name" binding:"required,max=200"`
	EntityType            domain.EntityType `json:"entityType" binding:"required,oneof=Supplier Lender Financial General"`
	OpeningPayableBalance decimal.Decimal   `json:"openingPayableBalance"`
}

// CreateProductRequest defines the data needed to create a product.
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	OpeningStock int64           `json:"openingStock" binding:"min=0"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SalePrice    decimal.Decimal `json:"salePrice"`
}

// CreateAgreementRequest defines the data needed to create a financing agreement.
type CreateAgreementRequest struct {
	PartyID                     int64                `json:"partyID" binding:"required,gt=0"`
	AgreementType               domain.AgreementType `json:"agreementType" binding:"required,oneof=loan_taken_by_biz loan_given_by_biz hire_purchase other"`
	Principal                   decimal.Decimal      `json:"principal"`
	InterestRatePercentPerMonth decimal.Decimal      `json:"interestRatePercentPerMonth"`
	StartDate                   string               `json:"startDate" binding:"required,isodate"`
	Details                     string               `json:"details" binding:"max=1000"`
}

// CreateChitGroupRequest defines the data needed to create a chit group.
type CreateChitGroupRequest struct {
	Name                string          `json:"name" binding:"required,max=200"`
	ChitValue           decimal.Decimal `json:"chitValue"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	CommissionPercent   decimal.Decimal `json:"commissionPercent"`
	MemberCustomerIDs   []int64         `json:"memberCustomerIDs" binding:"required,min=2,unique,dive,gt=0"`
}
