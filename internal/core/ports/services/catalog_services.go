package services

import (
	"context"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	"github.com/SscSPs/bizbooks/internal/dto"
)

// PartySvc manages customers and external entities
type PartySvc interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	CreateEntity(ctx context.Context, req dto.CreateEntityRequest, userID string) (*domain.ExternalEntity, error)
	GetEntity(ctx context.Context, id int64) (*domain.ExternalEntity, error)
	ListEntities(ctx context.Context) ([]domain.ExternalEntity, error)
}

// ProductSvc manages products. Stock changes only through transactions.
type ProductSvc interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// AgreementSvc manages financing agreements
type AgreementSvc interface {
	CreateAgreement(ctx context.Context, req dto.CreateAgreementRequest, userID string) (*domain.Agreement, error)
	GetAgreement(ctx context.Context, id int64) (*domain.Agreement, error)
	ListAgreements(ctx context.Context) ([]domain.Agreement, error)
}

// ChitGroupSvc manages chit groups
type ChitGroupSvc interface {
	CreateChitGroup(ctx context.Context, req dto.CreateChitGroupRequest, userID string) (*domain.ChitGroup, error)
	GetChitGroup(ctx context.Context, id int64) (*domain.ChitGroup, error)
}

// CategorySvc exposes the category taxonomy
type CategorySvc interface {
	ListCategories(ctx context.Context) []domain.Category
}

// CatalogSvcFacade combines the master-data services
type CatalogSvcFacade interface {
	PartySvc
	ProductSvc
	AgreementSvc
	ChitGroupSvc
	CategorySvc
}
