package services

import (
	"context"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
)

// TransactionReaderSvc defines read operations over the transaction log
type TransactionReaderSvc interface {
	// GetTransaction retrieves one transaction by id.
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)

	// ListTransactions lists transactions matching the filter.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines the mutating operations of the side-effect engine.
// Every call is atomic: the transaction record, stock deltas and invoice paid amounts change together.
type TransactionWriterSvc interface {
	// CreateTransaction validates and stores a transaction, applying its stock and invoice effects.
	CreateTransaction(ctx context.Context, draft domain.TransactionDraft, userID string) (*domain.CreateResult, error)

	// CreateTransactionBatch stores several transactions in one unit of work.
	CreateTransactionBatch(ctx context.Context, drafts []domain.TransactionDraft, userID string) ([]domain.CreateResult, error)

	// UpdateTransaction rewrites a transaction without line items. Product transactions must be
	// deleted and recreated instead.
	UpdateTransaction(ctx context.Context, id int64, draft domain.TransactionDraft, userID string) (*domain.CreateResult, error)

	// DeleteTransaction reverses every side effect of a transaction and removes it.
	DeleteTransaction(ctx context.Context, id int64, userID string) error
}

// TransactionEngine lets other workflows create transactions inside their own unit of work.
type TransactionEngine interface {
	CreateWithin(ctx context.Context, uow portsrepo.UnitOfWork, draft domain.TransactionDraft, userID string) (*domain.CreateResult, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionEngine
}
