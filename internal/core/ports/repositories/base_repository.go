package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// UnitOfWork is the set of writes the transaction engine performs atomically. Everything done
// through one UnitOfWork is committed together or not at all.
type UnitOfWork interface {
	TransactionReader

	// FindCustomerByID, FindEntityByID, FindAgreementByID and FindInvoiceByID read inside the unit of work
	// so references can be checked against the same snapshot that is being written.
	FindCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	FindEntityByID(ctx context.Context, id int64) (*domain.ExternalEntity, error)
	FindAgreementByID(ctx context.Context, id int64) (*domain.Agreement, error)
	FindInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error)

	// FindTransactionForUpdate fetches a transaction and locks it until the unit of work ends.
	FindTransactionForUpdate(ctx context.Context, id int64) (*domain.Transaction, error)

	// InsertTransaction stores a new transaction and returns it with its assigned ID.
	InsertTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error)

	// UpdateTransaction rewrites the stored fields of an existing transaction.
	UpdateTransaction(ctx context.Context, t domain.Transaction) error

	// DeleteTransaction removes a transaction record.
	DeleteTransaction(ctx context.Context, id int64) error

	// AdjustProductStock adds delta to a product's current stock and returns the new value.
	AdjustProductStock(ctx context.Context, productID int64, delta int64) (int64, error)

	// AdjustInvoicePaid adds delta to an invoice's paid amount, re-derives its status and returns it.
	AdjustInvoicePaid(ctx context.Context, invoiceID int64, delta decimal.Decimal) (*domain.Invoice, error)

	// InsertInvoice stores a new invoice and returns it with its assigned ID.
	InsertInvoice(ctx context.Context, inv domain.Invoice) (domain.Invoice, error)

	// InsertChitAuction stores a settled auction round.
	InsertChitAuction(ctx context.Context, a domain.ChitAuction) (domain.ChitAuction, error)

	// LockParty serialises writers of the same party ledger for the rest of the unit of work.
	LockParty(ctx context.Context, key string) error
}

// UnitOfWorkRunner opens units of work.
type UnitOfWorkRunner interface {
	// RunInUnitOfWork calls fn inside a fresh unit of work, committing if fn returns nil
	// and rolling back otherwise.
	RunInUnitOfWork(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
