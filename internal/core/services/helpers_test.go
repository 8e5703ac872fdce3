package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/core/services"
	"github.com/SscSPs/bizbooks/internal/core/taxonomy"
	"github.com/SscSPs/bizbooks/internal/repositories/database/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T {
	return &v
}

// MockPartyLocker is a mock type for the PartyLocker interface
type MockPartyLocker struct {
	mock.Mock
}

func (m *MockPartyLocker) Acquire(ctx context.Context, key string) (func(context.Context), error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context)), args.Error(1)
}

// missingProductRunner wraps a runner so that every stock adjustment reports a missing product.
type missingProductRunner struct {
	portsrepo.UnitOfWorkRunner
	err error
}

type missingProductUoW struct {
	portsrepo.UnitOfWork
	err error
}

func (r missingProductRunner) RunInUnitOfWork(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	return r.UnitOfWorkRunner.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return fn(ctx, missingProductUoW{UnitOfWork: uow, err: r.err})
	})
}

func (u missingProductUoW) AdjustProductStock(ctx context.Context, productID int64, delta int64) (int64, error) {
	return 0, u.err
}

// failingInsertRunner wraps a runner so that transaction inserts fail once allowed inserts have succeeded.
type failingInsertRunner struct {
	portsrepo.UnitOfWorkRunner
	allowed int
	err     error
}

type failingInsertUoW struct {
	portsrepo.UnitOfWork
	remaining *int
	err       error
}

func (r failingInsertRunner) RunInUnitOfWork(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	remaining := r.allowed
	return r.UnitOfWorkRunner.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return fn(ctx, failingInsertUoW{UnitOfWork: uow, remaining: &remaining, err: r.err})
	})
}

func (u failingInsertUoW) InsertTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	if *u.remaining == 0 {
		return domain.Transaction{}, u.err
	}
	*u.remaining--
	return u.UnitOfWork.InsertTransaction(ctx, t)
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	svc       *portssvc.ServiceContainer
	customer  domain.Customer
	supplier  domain.ExternalEntity
	lender    domain.ExternalEntity
	product   domain.Product
	profile   domain.BusinessProfile
	userID    string
	createdTx []domain.Transaction
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: memory.NewStore(),
		profile: domain.BusinessProfile{
			State:              "Karnataka",
			OpeningCashBalance: dec("1000"),
			OpeningBankBalance: dec("5000"),
		},
		userID: "user-1",
	}
	f.svc = services.NewServiceContainer(memory.NewRepositoryProvider(f.store), taxonomy.Default(), f.profile)

	var err error
	f.customer, err = f.store.SaveCustomer(f.ctx, domain.Customer{Name: "Asha Traders", State: "Karnataka", OpeningBalance: dec("0")})
	require.NoError(t, err)
	f.supplier, err = f.store.SaveEntity(f.ctx, domain.ExternalEntity{Name: "Wholesale Co", EntityType: domain.EntitySupplier, OpeningPayableBalance: dec("0")})
	require.NoError(t, err)
	f.lender, err = f.store.SaveEntity(f.ctx, domain.ExternalEntity{Name: "Town Finance", EntityType: domain.EntityLender, OpeningPayableBalance: dec("0")})
	require.NoError(t, err)
	f.product, err = f.store.SaveProduct(f.ctx, domain.Product{Name: "Rice 25kg", OpeningStock: 10, CostPrice: dec("900"), SalePrice: dec("1100")})
	require.NoError(t, err)
	return f
}

func (f *fixture) post(t *testing.T, draft domain.TransactionDraft) domain.Transaction {
	t.Helper()
	res, err := f.svc.Transaction.CreateTransaction(f.ctx, draft, f.userID)
	require.NoError(t, err)
	f.createdTx = append(f.createdTx, res.Transaction)
	return res.Transaction
}
