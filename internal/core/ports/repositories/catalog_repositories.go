package repositories

import (
	"context"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// PartyReader defines read operations for customers and external entities
type PartyReader interface {
	FindCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	FindEntityByID(ctx context.Context, id int64) (*domain.ExternalEntity, error)
	ListEntities(ctx context.Context) ([]domain.ExternalEntity, error)
}

// PartyWriter defines write operations for customers and external entities
type PartyWriter interface {
	SaveCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
	SaveEntity(ctx context.Context, e domain.ExternalEntity) (domain.ExternalEntity, error)
}

// PartyRepositoryFacade combines all party-related repository interfaces
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}

// ProductReader defines read operations for products
type ProductReader interface {
	FindProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductWriter defines write operations for products. Stock is only changed through a UnitOfWork.
type ProductWriter interface {
	// SaveProduct creates a product whose current stock starts at its opening stock.
	SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error)
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}

// AgreementReader defines read operations for financing agreements
type AgreementReader interface {
	FindAgreementByID(ctx context.Context, id int64) (*domain.Agreement, error)
	ListAgreements(ctx context.Context) ([]domain.Agreement, error)
}

// AgreementWriter defines write operations for financing agreements
type AgreementWriter interface {
	SaveAgreement(ctx context.Context, a domain.Agreement) (domain.Agreement, error)
}

// AgreementRepositoryFacade combines all agreement-related repository interfaces
type AgreementRepositoryFacade interface {
	AgreementReader
	AgreementWriter
}

// InvoiceReader defines read operations for invoices. Invoices are written through a UnitOfWork.
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error)
	// ListInvoices lists invoices, optionally for one customer.
	ListInvoices(ctx context.Context, customerID *int64) ([]domain.Invoice, error)
}

// ChitReader defines read operations for chit groups and their auctions
type ChitReader interface {
	FindChitGroupByID(ctx context.Context, id int64) (*domain.ChitGroup, error)
	ListChitAuctions(ctx context.Context, groupID int64) ([]domain.ChitAuction, error)
}

// ChitWriter defines write operations for chit groups. Auctions are written through a UnitOfWork.
type ChitWriter interface {
	SaveChitGroup(ctx context.Context, g domain.ChitGroup) (domain.ChitGroup, error)
}

// ChitRepositoryFacade combines all chit-related repository interfaces
type ChitRepositoryFacade interface {
	ChitReader
	ChitWriter
}
