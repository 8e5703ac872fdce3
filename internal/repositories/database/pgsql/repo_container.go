package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		PartyRepo:       newPgxPartyRepository(dbPool),
		ProductRepo:     newPgxProductRepository(dbPool),
		AgreementRepo:   newPgxAgreementRepository(dbPool),
		InvoiceRepo:     newPgxInvoiceRepository(dbPool),
		ChitRepo:        newPgxChitRepository(dbPool),
		UnitOfWork:      newPgxUnitOfWorkRunner(dbPool),
	}
}
