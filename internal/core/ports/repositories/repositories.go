package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TransactionRepo TransactionReader
	PartyRepo       PartyRepositoryFacade
	ProductRepo     ProductRepositoryFacade
	AgreementRepo   AgreementRepositoryFacade
	InvoiceRepo     InvoiceReader
	ChitRepo        ChitRepositoryFacade
	UnitOfWork      UnitOfWorkRunner
}
