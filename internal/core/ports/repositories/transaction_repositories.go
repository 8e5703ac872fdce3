package repositories

import (
	"context"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// TransactionReader defines read operations over the transaction log
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its line items.
	FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error)

	// ListTransactions returns the transactions matching filter, ordered by date then id.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
}
