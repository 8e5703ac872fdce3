package services

import (
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/utils/accounting"
)

// CategoryCatalog is the read view of the category taxonomy the services depend on.
type CategoryCatalog interface {
	accounting.CategoryLookup
	All() []domain.Category
	NamesInGroups(groups ...string) []string
	Resolve(key domain.CategoryKey) (domain.Category, error)
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	repos portsrepo.RepositoryProvider,
	categories CategoryCatalog,
	profile domain.BusinessProfile,
	txOptions ...TransactionServiceOption,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// the transaction engine is shared by every workflow that posts transactions
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.UnitOfWork, categories, txOptions...)

	container.Catalog = NewCatalogService(repos, categories)
	container.Ledger = NewLedgerService(repos.TransactionRepo, repos.PartyRepo, repos.AgreementRepo, categories, profile)
	container.Loan = NewLoanService(repos.TransactionRepo, repos.AgreementRepo, categories)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.PartyRepo, repos.UnitOfWork, container.Transaction, categories, profile)
	container.Chit = NewChitService(repos.ChitRepo, repos.UnitOfWork, container.Transaction)
	container.Reporting = NewReportingService(repos, container.Loan, categories, profile)

	return container
}
