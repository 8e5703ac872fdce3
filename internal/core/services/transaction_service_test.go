package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/core/services"
	"github.com/SscSPs/bizbooks/internal/core/taxonomy"
	"github.com/SscSPs/bizbooks/internal/repositories/database/memory"
)

const testUser = "user-1"

type TransactionServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	service  portssvc.TransactionSvcFacade
	customer domain.Customer
	supplier domain.ExternalEntity
	product  domain.Product
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.service = services.NewTransactionService(suite.store, suite.store, taxonomy.Default())

	var err error
	suite.customer, err = suite.store.SaveCustomer(suite.ctx, domain.Customer{Name: "Asha Traders", OpeningBalance: dec("0")})
	suite.Require().NoError(err)
	suite.supplier, err = suite.store.SaveEntity(suite.ctx, domain.ExternalEntity{Name: "Wholesale Co", EntityType: domain.EntitySupplier})
	suite.Require().NoError(err)
	suite.product, err = suite.store.SaveProduct(suite.ctx, domain.Product{Name: "Rice 25kg", OpeningStock: 10, CostPrice: dec("900"), SalePrice: dec("1100")})
	suite.Require().NoError(err)
}

func (suite *TransactionServiceTestSuite) customerKey() string {
	return fmt.Sprintf("customer:%d", suite.customer.ID)
}

func (suite *TransactionServiceTestSuite) stock() int64 {
	p, err := suite.store.FindProductByID(suite.ctx, suite.product.ID)
	suite.Require().NoError(err)
	return p.CurrentStock
}

func (suite *TransactionServiceTestSuite) insertInvoice(total string) domain.Invoice {
	var inv domain.Invoice
	err := suite.store.RunInUnitOfWork(suite.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		inv, err = uow.InsertInvoice(ctx, domain.Invoice{
			Number: "INV-" + total, CustomerID: suite.customer.ID, GrandTotal: dec(total),
			PaidAmount: dec("0"), Status: domain.InvoiceUnpaid,
		})
		return err
	})
	suite.Require().NoError(err)
	return inv
}

func (suite *TransactionServiceTestSuite) creditSale(qty int64) domain.TransactionDraft {
	return domain.TransactionDraft{
		Date:        "2024-02-01",
		Category:    "Sale to Customer (Credit)",
		Amount:      dec("1100").Mul(decimal.NewFromInt(qty)),
		PartyUserID: &suite.customer.ID,
		LineItems:   []domain.LineItem{{ProductID: suite.product.ID, Quantity: qty, UnitPrice: dec("1100")}},
	}
}

func (suite *TransactionServiceTestSuite) TestCreateAndDelete_RestoresStock() {
	res, err := suite.service.CreateTransaction(suite.ctx, suite.creditSale(3), testUser)
	suite.Require().NoError(err)
	suite.Empty(res.Warnings)
	suite.NotZero(res.Transaction.ID)
	suite.Equal(testUser, res.Transaction.CreatedBy)
	suite.Equal(int64(7), suite.stock())

	purchase, err := suite.service.CreateTransaction(suite.ctx, domain.TransactionDraft{
		Date:          "2024-02-02",
		Category:      "Purchase from Supplier (Credit)",
		Amount:        dec("4500"),
		PartyLenderID: &suite.supplier.ID,
		LineItems: []domain.LineItem{
			{ProductID: suite.product.ID, Quantity: 2, UnitPrice: dec("900")},
			{ProductID: suite.product.ID, Quantity: 3, UnitPrice: dec("900")},
		},
	}, testUser)
	suite.Require().NoError(err)
	suite.Equal(int64(12), suite.stock())

	suite.Require().NoError(suite.service.DeleteTransaction(suite.ctx, purchase.Transaction.ID, testUser))
	suite.Require().NoError(suite.service.DeleteTransaction(suite.ctx, res.Transaction.ID, testUser))
	suite.Equal(int64(10), suite.stock(), "create then delete must leave stock unchanged")

	_, err = suite.service.GetTransaction(suite.ctx, res.Transaction.ID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestCreate_NegativeStockIsAWarning() {
	res, err := suite.service.CreateTransaction(suite.ctx, suite.creditSale(12), testUser)
	suite.Require().NoError(err)
	suite.Require().Len(res.Warnings, 1)
	suite.Contains(res.Warnings[0], apperrors.ErrStockInconsistency.Error())
	suite.Equal(int64(-2), suite.stock())
}

func (suite *TransactionServiceTestSuite) TestCreate_Rejects() {
	tests := []struct {
		name  string
		draft domain.TransactionDraft
		want  error
	}{
		{"unknown category", domain.TransactionDraft{Date: "2024-02-01", Category: "Sale to Customer (Crypto)", Amount: dec("10")}, apperrors.ErrUnknownCategory},
		{"bad date", domain.TransactionDraft{Date: "01/02/2024", Category: "Rent Expense (Cash)", Amount: dec("-10")}, apperrors.ErrValidation},
		{"wrong sign", domain.TransactionDraft{Date: "2024-02-01", Category: "Rent Expense (Cash)", Amount: dec("10")}, apperrors.ErrValidation},
		{"missing customer", domain.TransactionDraft{Date: "2024-02-01", Category: "Payment Received from Customer (Cash)", Amount: dec("10")}, apperrors.ErrValidation},
		{"both parties", domain.TransactionDraft{Date: "2024-02-01", Category: "Payment Received from Customer (Cash)", Amount: dec("10"),
			PartyUserID: &suite.customer.ID, PartyLenderID: &suite.supplier.ID}, apperrors.ErrValidation},
		{"line items on a non-product category", domain.TransactionDraft{Date: "2024-02-01", Category: "Rent Expense (Cash)", Amount: dec("-10"),
			LineItems: []domain.LineItem{{ProductID: suite.product.ID, Quantity: 1}}}, apperrors.ErrValidation},
		{"stock adjustment without lines", domain.TransactionDraft{Date: "2024-02-01", Category: "Stock Decrease (Adjustment)", Amount: dec("0")}, apperrors.ErrValidation},
		{"unknown product", domain.TransactionDraft{Date: "2024-02-01", Category: "Stock Decrease (Adjustment)", Amount: dec("0"),
			LineItems: []domain.LineItem{{ProductID: 9999, Quantity: 1}}}, apperrors.ErrValidation},
		{"unknown customer", domain.TransactionDraft{Date: "2024-02-01", Category: "Sale to Customer (Credit)", Amount: dec("1000"),
			PartyUserID: ptr(int64(99999))}, apperrors.ErrValidation},
		{"unknown external entity", domain.TransactionDraft{Date: "2024-02-01", Category: "Payment Made to Supplier (Cash)", Amount: dec("-10"),
			PartyLenderID: ptr(int64(99999))}, apperrors.ErrValidation},
		{"unknown agreement", domain.TransactionDraft{Date: "2024-02-01", Category: "Loan Interest Paid to Lender (Cash)", Amount: dec("-240"),
			AgreementID: ptr(int64(99999))}, apperrors.ErrValidation},
		{"unknown invoice", domain.TransactionDraft{Date: "2024-02-01", Category: "Payment Received from Customer (Cash)", Amount: dec("10"),
			PartyUserID: &suite.customer.ID, RelatedInvoiceID: ptr(int64(99999))}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateTransaction(suite.ctx, tt.draft, testUser)
			suite.ErrorIs(err, tt.want)
		})
	}
	txs, err := suite.service.ListTransactions(suite.ctx, domain.TransactionFilter{})
	suite.Require().NoError(err)
	suite.Empty(txs, "rejected drafts must not be stored")
}

func (suite *TransactionServiceTestSuite) TestInvoicePayment_UpdatesPaidAmount() {
	inv := suite.insertInvoice("1000")
	payment := domain.TransactionDraft{
		Date:             "2024-02-05",
		Category:         "Payment Received from Customer (Bank)",
		Amount:           dec("400"),
		PartyUserID:      &suite.customer.ID,
		RelatedInvoiceID: &inv.ID,
	}
	res, err := suite.service.CreateTransaction(suite.ctx, payment, testUser)
	suite.Require().NoError(err)

	got, err := suite.store.FindInvoiceByID(suite.ctx, inv.ID)
	suite.Require().NoError(err)
	suite.True(got.PaidAmount.Equal(dec("400")))
	suite.Equal(domain.InvoicePartial, got.Status)

	payment.Amount = dec("1000")
	_, err = suite.service.UpdateTransaction(suite.ctx, res.Transaction.ID, payment, testUser)
	suite.Require().NoError(err)
	got, err = suite.store.FindInvoiceByID(suite.ctx, inv.ID)
	suite.Require().NoError(err)
	suite.True(got.PaidAmount.Equal(dec("1000")), "update replaces the old paid delta, got %s", got.PaidAmount)
	suite.Equal(domain.InvoicePaid, got.Status)

	suite.Require().NoError(suite.service.DeleteTransaction(suite.ctx, res.Transaction.ID, testUser))
	got, err = suite.store.FindInvoiceByID(suite.ctx, inv.ID)
	suite.Require().NoError(err)
	suite.True(got.PaidAmount.IsZero())
	suite.Equal(domain.InvoiceUnpaid, got.Status)
}

func (suite *TransactionServiceTestSuite) TestInvoicePayment_RejectsAnotherCustomersInvoice() {
	inv := suite.insertInvoice("1000")
	other, err := suite.store.SaveCustomer(suite.ctx, domain.Customer{Name: "Bala Stores", OpeningBalance: dec("0")})
	suite.Require().NoError(err)

	payment := domain.TransactionDraft{
		Date:             "2024-02-05",
		Category:         "Payment Received from Customer (Cash)",
		Amount:           dec("1000"),
		PartyUserID:      &other.ID,
		RelatedInvoiceID: &inv.ID,
	}
	_, err = suite.service.CreateTransaction(suite.ctx, payment, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	payment.RelatedInvoiceID = nil
	res, err := suite.service.CreateTransaction(suite.ctx, payment, testUser)
	suite.Require().NoError(err, "the same payment without the foreign invoice is fine")

	payment.RelatedInvoiceID = &inv.ID
	_, err = suite.service.UpdateTransaction(suite.ctx, res.Transaction.ID, payment, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	got, err := suite.store.FindInvoiceByID(suite.ctx, inv.ID)
	suite.Require().NoError(err)
	suite.True(got.PaidAmount.IsZero(), "paid amount must stay untouched, got %s", got.PaidAmount)
	suite.Equal(domain.InvoiceUnpaid, got.Status)

	stored, err := suite.service.GetTransaction(suite.ctx, res.Transaction.ID)
	suite.Require().NoError(err)
	suite.Nil(stored.RelatedInvoiceID)
}

func (suite *TransactionServiceTestSuite) TestUpdate_RejectsUnknownReferences() {
	res, err := suite.service.CreateTransaction(suite.ctx, domain.TransactionDraft{
		Date: "2024-02-01", Category: "Payment Received from Customer (Cash)", Amount: dec("10"), PartyUserID: &suite.customer.ID,
	}, testUser)
	suite.Require().NoError(err)

	_, err = suite.service.UpdateTransaction(suite.ctx, res.Transaction.ID, domain.TransactionDraft{
		Date: "2024-02-01", Category: "Payment Received from Customer (Cash)", Amount: dec("10"), PartyUserID: ptr(int64(99999)),
	}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	stored, err := suite.service.GetTransaction(suite.ctx, res.Transaction.ID)
	suite.Require().NoError(err)
	suite.Equal(suite.customer.ID, *stored.PartyUserID)
}

func (suite *TransactionServiceTestSuite) TestUpdate_LineItemsUnsupported() {
	res, err := suite.service.CreateTransaction(suite.ctx, suite.creditSale(1), testUser)
	suite.Require().NoError(err)

	_, err = suite.service.UpdateTransaction(suite.ctx, res.Transaction.ID, suite.creditSale(2), testUser)
	suite.ErrorIs(err, apperrors.ErrUnsupported)

	draft := suite.creditSale(1)
	draft.LineItems = nil
	_, err = suite.service.UpdateTransaction(suite.ctx, res.Transaction.ID, draft, testUser)
	suite.ErrorIs(err, apperrors.ErrUnsupported, "the stored transaction carries line items")
	suite.Equal(int64(9), suite.stock())
}

func (suite *TransactionServiceTestSuite) TestBatch_IsAtomic() {
	good := domain.TransactionDraft{Date: "2024-02-01", Category: "Rent Expense (Cash)", Amount: dec("-500")}
	bad := domain.TransactionDraft{Date: "2024-02-01", Category: "Rent Expense (Cash)", Amount: dec("500")}

	_, err := suite.service.CreateTransactionBatch(suite.ctx, []domain.TransactionDraft{good, suite.creditSale(2), bad}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(int64(10), suite.stock())
	txs, err := suite.service.ListTransactions(suite.ctx, domain.TransactionFilter{})
	suite.Require().NoError(err)
	suite.Empty(txs)

	results, err := suite.service.CreateTransactionBatch(suite.ctx, []domain.TransactionDraft{good, suite.creditSale(2)}, testUser)
	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	suite.NotEmpty(results[0].Transaction.BatchID)
	suite.Equal(results[0].Transaction.BatchID, results[1].Transaction.BatchID)
}

func (suite *TransactionServiceTestSuite) TestDelete_MissingProductIsReversalMismatch() {
	res, err := suite.service.CreateTransaction(suite.ctx, suite.creditSale(1), testUser)
	suite.Require().NoError(err)

	broken := services.NewTransactionService(suite.store,
		missingProductRunner{UnitOfWorkRunner: suite.store, err: apperrors.NewNotFoundError("product gone")},
		taxonomy.Default())
	err = broken.DeleteTransaction(suite.ctx, res.Transaction.ID, testUser)
	suite.ErrorIs(err, apperrors.ErrReversalMismatch)

	_, err = suite.service.GetTransaction(suite.ctx, res.Transaction.ID)
	suite.NoError(err, "a failed delete leaves the transaction in place")
}

func (suite *TransactionServiceTestSuite) TestPartyLocker() {
	locker := new(MockPartyLocker)
	released := 0
	svc := services.NewTransactionService(suite.store, suite.store, taxonomy.Default(), services.WithPartyLocker(locker))

	locker.On("Acquire", mock.Anything, suite.customerKey()).Return(func(context.Context) { released++ }, nil).Once()
	_, err := svc.CreateTransaction(suite.ctx, suite.creditSale(1), testUser)
	suite.Require().NoError(err)
	suite.Equal(1, released)

	locker.On("Acquire", mock.Anything, suite.customerKey()).Return(nil, apperrors.ErrLocked).Once()
	_, err = svc.CreateTransaction(suite.ctx, suite.creditSale(1), testUser)
	suite.ErrorIs(err, apperrors.ErrLocked)

	locker.On("Acquire", mock.Anything, suite.customerKey()).Return(nil, errors.New("connection refused")).Once()
	_, err = svc.CreateTransaction(suite.ctx, suite.creditSale(1), testUser)
	suite.NoError(err, "an unreachable lock server does not block writes")

	locker.AssertExpectations(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
