// Package memory is an in-process implementation of every repository port. It backs the test
// suites and the STORAGE_DRIVER=memory mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
)

type state struct {
	seq          int64
	transactions map[int64]domain.Transaction
	customers    map[int64]domain.Customer
	entities     map[int64]domain.ExternalEntity
	products     map[int64]domain.Product
	agreements   map[int64]domain.Agreement
	invoices     map[int64]domain.Invoice
	chitGroups   map[int64]domain.ChitGroup
	chitAuctions map[int64]domain.ChitAuction
}

func newState() *state {
	return &state{
		transactions: map[int64]domain.Transaction{},
		customers:    map[int64]domain.Customer{},
		entities:     map[int64]domain.ExternalEntity{},
		products:     map[int64]domain.Product{},
		agreements:   map[int64]domain.Agreement{},
		invoices:     map[int64]domain.Invoice{},
		chitGroups:   map[int64]domain.ChitGroup{},
		chitAuctions: map[int64]domain.ChitAuction{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies the maps. Stored values are never mutated in place, so sharing their slices is safe.
func (s *state) clone() *state {
	return &state{
		seq:          s.seq,
		transactions: cloneMap(s.transactions),
		customers:    cloneMap(s.customers),
		entities:     cloneMap(s.entities),
		products:     cloneMap(s.products),
		agreements:   cloneMap(s.agreements),
		invoices:     cloneMap(s.invoices),
		chitGroups:   cloneMap(s.chitGroups),
		chitAuctions: cloneMap(s.chitAuctions),
	}
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store holds all data in memory. Units of work are serialised; each one runs against a private
// copy of the state that replaces the shared state only when the unit of work succeeds.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: store,
		PartyRepo:       store,
		ProductRepo:     store,
		AgreementRepo:   store,
		InvoiceRepo:     store,
		ChitRepo:        store,
		UnitOfWork:      store,
	}
}

var (
	_ portsrepo.TransactionReader         = (*Store)(nil)
	_ portsrepo.PartyRepositoryFacade     = (*Store)(nil)
	_ portsrepo.ProductRepositoryFacade   = (*Store)(nil)
	_ portsrepo.AgreementRepositoryFacade = (*Store)(nil)
	_ portsrepo.InvoiceReader             = (*Store)(nil)
	_ portsrepo.ChitRepositoryFacade      = (*Store)(nil)
	_ portsrepo.UnitOfWorkRunner          = (*Store)(nil)
	_ portsrepo.UnitOfWork                = (*unitOfWork)(nil)
)

func (s *Store) read() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// RunInUnitOfWork runs fn against a copy of the state and publishes the copy if fn succeeds.
// fn must not call back into the Store's own reader methods.
func (s *Store) RunInUnitOfWork(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := &unitOfWork{state: s.state.clone()}
	if err := fn(ctx, work); err != nil {
		return err
	}
	s.state = work.state
	return nil
}

func notFound(kind string, id int64) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s %d not found", kind, id))
}

func copyTransaction(t domain.Transaction) *domain.Transaction {
	t.LineItems = append([]domain.LineItem(nil), t.LineItems...)
	return &t
}

func (s *state) findTransaction(id int64) (*domain.Transaction, error) {
	t, ok := s.transactions[id]
	if !ok {
		return nil, notFound("transaction", id)
	}
	return copyTransaction(t), nil
}

func (s *state) listTransactions(filter domain.TransactionFilter) []domain.Transaction {
	var categories map[string]struct{}
	if len(filter.Categories) > 0 {
		categories = make(map[string]struct{}, len(filter.Categories))
		for _, c := range filter.Categories {
			categories[c] = struct{}{}
		}
	}
	out := make([]domain.Transaction, 0)
	for _, t := range s.transactions {
		if !matches(t, filter, categories) {
			continue
		}
		out = append(out, *copyTransaction(t))
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := domain.DateOnly(out[i].Date), domain.DateOnly(out[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func matches(t domain.Transaction, f domain.TransactionFilter, categories map[string]struct{}) bool {
	if f.PartyUserID != nil && (t.PartyUserID == nil || *t.PartyUserID != *f.PartyUserID) {
		return false
	}
	if f.PartyLenderID != nil && (t.PartyLenderID == nil || *t.PartyLenderID != *f.PartyLenderID) {
		return false
	}
	if f.AgreementID != nil && (t.AgreementID == nil || *t.AgreementID != *f.AgreementID) {
		return false
	}
	if f.RelatedInvoiceID != nil && (t.RelatedInvoiceID == nil || *t.RelatedInvoiceID != *f.RelatedInvoiceID) {
		return false
	}
	day := domain.DateOnly(t.Date)
	if f.From != nil && day.Before(domain.DateOnly(*f.From)) {
		return false
	}
	if f.To != nil && day.After(domain.DateOnly(*f.To)) {
		return false
	}
	if categories != nil {
		if _, ok := categories[t.Category]; !ok {
			return false
		}
	}
	if f.After != nil && !f.After.Precedes(t) {
		return false
	}
	return true
}

func (s *Store) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.read().findTransaction(id)
}

func (s *Store) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	return s.read().listTransactions(filter), nil
}

func (s *Store) FindCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c, ok := s.read().customers[id]
	if !ok {
		return nil, notFound("customer", id)
	}
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return sortedValues(s.read().customers, func(c domain.Customer) int64 { return c.ID }), nil
}

func (s *Store) FindEntityByID(ctx context.Context, id int64) (*domain.ExternalEntity, error) {
	e, ok := s.read().entities[id]
	if !ok {
		return nil, notFound("entity", id)
	}
	return &e, nil
}

func (s *Store) ListEntities(ctx context.Context) ([]domain.ExternalEntity, error) {
	return sortedValues(s.read().entities, func(e domain.ExternalEntity) int64 { return e.ID }), nil
}

func (s *Store) SaveCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	err := s.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		st := uow.(*unitOfWork).state
		c.ID = st.nextID()
		st.customers[c.ID] = c
		return nil
	})
	return c, err
}

func (s *Store) SaveEntity(ctx context.Context, e domain.ExternalEntity) (domain.ExternalEntity, error) {
	err := s.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		st := uow.(*unitOfWork).state
		e.ID = st.nextID()
		st.entities[e.ID] = e
		return nil
	})
	return e, err
}

func (s *Store) FindProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := s.read().products[id]
	if !ok {
		return nil, notFound("product", id)
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return sortedValues(s.read().products, func(p domain.Product) int64 { return p.ID }), nil
}

func (s *Store) SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := s.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		st := uow.(*unitOfWork).state
		p.ID = st.nextID()
		p.CurrentStock = p.OpeningStock
		st.products[p.ID] = p
		return nil
	})
	return p, err
}

func (s *Store) FindAgreementByID(ctx context.Context, id int64) (*domain.Agreement, error) {
	a, ok := s.read().agreements[id]
	if !ok {
		return nil, notFound("agreement", id)
	}
	return &a, nil
}

func (s *Store) ListAgreements(ctx context.Context) ([]domain.Agreement, error) {
	return sortedValues(s.read().agreements, func(a domain.Agreement) int64 { return a.ID }), nil
}

func (s *Store) SaveAgreement(ctx context.Context, a domain.Agreement) (domain.Agreement, error) {
	err := s.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		st := uow.(*unitOfWork).state
		a.ID = st.nextID()
		st.agreements[a.ID] = a
		return nil
	})
	return a, err
}

func (s *Store) FindInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, ok := s.read().invoices[id]
	if !ok {
		return nil, notFound("invoice", id)
	}
	return &inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, customerID *int64) ([]domain.Invoice, error) {
	all := sortedValues(s.read().invoices, func(inv domain.Invoice) int64 { return inv.ID })
	if customerID == nil {
		return all, nil
	}
	out := make([]domain.Invoice, 0, len(all))
	for _, inv := range all {
		if inv.CustomerID == *customerID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *Store) FindChitGroupByID(ctx context.Context, id int64) (*domain.ChitGroup, error) {
	g, ok := s.read().chitGroups[id]
	if !ok {
		return nil, notFound("chit group", id)
	}
	return &g, nil
}

func (s *Store) ListChitAuctions(ctx context.Context, groupID int64) ([]domain.ChitAuction, error) {
	out := make([]domain.ChitAuction, 0)
	for _, a := range sortedValues(s.read().chitAuctions, func(a domain.ChitAuction) int64 { return int64(a.Round) }) {
		if a.GroupID == groupID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) SaveChitGroup(ctx context.Context, g domain.ChitGroup) (domain.ChitGroup, error) {
	err := s.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		st := uow.(*unitOfWork).state
		g.ID = st.nextID()
		g.MemberCustomerIDs = append([]int64(nil), g.MemberCustomerIDs...)
		st.chitGroups[g.ID] = g
		return nil
	})
	return g, err
}

func sortedValues[V any](m map[int64]V, key func(V) int64) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

// unitOfWork works on a private state copy owned by one RunInUnitOfWork call.
type unitOfWork struct {
	state *state
}

func (u *unitOfWork) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	return u.state.findTransaction(id)
}

func (u *unitOfWork) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	return u.state.listTransactions(filter), nil
}

func (u *unitOfWork) FindCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c, ok := u.state.customers[id]
	if !ok {
		return nil, notFound("customer", id)
	}
	return &c, nil
}

func (u *unitOfWork) FindEntityByID(ctx context.Context, id int64) (*domain.ExternalEntity, error) {
	e, ok := u.state.entities[id]
	if !ok {
		return nil, notFound("entity", id)
	}
	return &e, nil
}

func (u *unitOfWork) FindAgreementByID(ctx context.Context, id int64) (*domain.Agreement, error) {
	a, ok := u.state.agreements[id]
	if !ok {
		return nil, notFound("agreement", id)
	}
	return &a, nil
}

func (u *unitOfWork) FindInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, ok := u.state.invoices[id]
	if !ok {
		return nil, notFound("invoice", id)
	}
	return &inv, nil
}

func (u *unitOfWork) FindTransactionForUpdate(ctx context.Context, id int64) (*domain.Transaction, error) {
	return u.state.findTransaction(id)
}

func (u *unitOfWork) InsertTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	t.ID = u.state.nextID()
	t.LineItems = append([]domain.LineItem(nil), t.LineItems...)
	u.state.transactions[t.ID] = t
	return *copyTransaction(t), nil
}

func (u *unitOfWork) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	if _, ok := u.state.transactions[t.ID]; !ok {
		return notFound("transaction", t.ID)
	}
	t.LineItems = append([]domain.LineItem(nil), t.LineItems...)
	u.state.transactions[t.ID] = t
	return nil
}

func (u *unitOfWork) DeleteTransaction(ctx context.Context, id int64) error {
	if _, ok := u.state.transactions[id]; !ok {
		return notFound("transaction", id)
	}
	delete(u.state.transactions, id)
	return nil
}

func (u *unitOfWork) AdjustProductStock(ctx context.Context, productID int64, delta int64) (int64, error) {
	p, ok := u.state.products[productID]
	if !ok {
		return 0, notFound("product", productID)
	}
	p.CurrentStock += delta
	u.state.products[productID] = p
	return p.CurrentStock, nil
}

func (u *unitOfWork) AdjustInvoicePaid(ctx context.Context, invoiceID int64, delta decimal.Decimal) (*domain.Invoice, error) {
	inv, ok := u.state.invoices[invoiceID]
	if !ok {
		return nil, notFound("invoice", invoiceID)
	}
	inv.PaidAmount = inv.PaidAmount.Add(delta)
	inv.Status = domain.InvoiceStatusFor(inv.PaidAmount, inv.GrandTotal)
	u.state.invoices[invoiceID] = inv
	return &inv, nil
}

func (u *unitOfWork) InsertInvoice(ctx context.Context, inv domain.Invoice) (domain.Invoice, error) {
	for _, existing := range u.state.invoices {
		if existing.Number == inv.Number {
			return domain.Invoice{}, fmt.Errorf("%w: invoice number %q already exists", apperrors.ErrDuplicate, inv.Number)
		}
	}
	inv.ID = u.state.nextID()
	inv.LineItems = append([]domain.InvoiceLine(nil), inv.LineItems...)
	u.state.invoices[inv.ID] = inv
	return inv, nil
}

func (u *unitOfWork) InsertChitAuction(ctx context.Context, a domain.ChitAuction) (domain.ChitAuction, error) {
	for _, existing := range u.state.chitAuctions {
		if existing.GroupID == a.GroupID && (existing.Round == a.Round || existing.PrizedMemberID == a.PrizedMemberID) {
			return domain.ChitAuction{}, fmt.Errorf("%w: group %d already has round %d or member %d prized",
				apperrors.ErrDuplicate, a.GroupID, a.Round, a.PrizedMemberID)
		}
	}
	a.ID = u.state.nextID()
	u.state.chitAuctions[a.ID] = a
	return a, nil
}

// LockParty is a no-op: the whole unit of work already holds the store lock.
func (u *unitOfWork) LockParty(ctx context.Context, key string) error {
	return nil
}
