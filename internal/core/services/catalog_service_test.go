package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	"github.com/SscSPs/bizbooks/internal/dto"
)

func TestCatalog_Products(t *testing.T) {
	f := newFixture(t)
	p, err := f.svc.Catalog.CreateProduct(f.ctx, dto.CreateProductRequest{Name: " Sugar 1kg ", OpeningStock: 40, CostPrice: dec("38"), SalePrice: dec("45")}, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "Sugar 1kg", p.Name)
	assert.Equal(t, int64(40), p.CurrentStock, "current stock starts at the opening stock")
	assert.Equal(t, f.userID, p.CreatedBy)

	_, err = f.svc.Catalog.CreateProduct(f.ctx, dto.CreateProductRequest{Name: "Salt", CostPrice: dec("-1")}, f.userID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	products, err := f.svc.Catalog.ListProducts(f.ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestCatalog_Entities(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Catalog.CreateEntity(f.ctx, dto.CreateEntityRequest{Name: "Bank", EntityType: domain.EntityLender, OpeningPayableBalance: dec("100")}, f.userID)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "only suppliers carry an opening payable")

	e, err := f.svc.Catalog.CreateEntity(f.ctx, dto.CreateEntityRequest{Name: "Mill", EntityType: domain.EntitySupplier, OpeningPayableBalance: dec("100")}, f.userID)
	require.NoError(t, err)
	got, err := f.svc.Catalog.GetEntity(f.ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.OpeningPayableBalance.Equal(dec("100")))
}

func TestCatalog_AgreementCounterparty(t *testing.T) {
	f := newFixture(t)
	req := dto.CreateAgreementRequest{
		PartyID:                     f.lender.ID,
		AgreementType:               domain.LoanTakenByBiz,
		Principal:                   dec("50000"),
		InterestRatePercentPerMonth: dec("1.5"),
		StartDate:                   "2024-01-01",
	}
	a, err := f.svc.Catalog.CreateAgreement(f.ctx, req, f.userID)
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-01"), a.StartDate)

	req.AgreementType = domain.LoanGivenByBiz
	_, err = f.svc.Catalog.CreateAgreement(f.ctx, req, f.userID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "a loan given by the business needs a customer")

	req.PartyID = f.customer.ID
	_, err = f.svc.Catalog.CreateAgreement(f.ctx, req, f.userID)
	require.NoError(t, err)

	agreements, err := f.svc.Catalog.ListAgreements(f.ctx)
	require.NoError(t, err)
	assert.Len(t, agreements, 2)
}

func TestCatalog_ChitGroupMembersMustExist(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Catalog.CreateChitGroup(f.ctx, dto.CreateChitGroupRequest{
		Name: "Pongal Chit", ChitValue: dec("50000"), MonthlyContribution: dec("5000"), CommissionPercent: dec("5"),
		MemberCustomerIDs: []int64{f.customer.ID, 999},
	}, f.userID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.Catalog.CreateChitGroup(f.ctx, dto.CreateChitGroupRequest{
		Name: "Pongal Chit", ChitValue: dec("50000"), MonthlyContribution: dec("5000"), CommissionPercent: dec("100"),
		MemberCustomerIDs: []int64{f.customer.ID, f.customer.ID},
	}, f.userID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCatalog_Categories(t *testing.T) {
	f := newFixture(t)
	categories := f.svc.Catalog.ListCategories(f.ctx)
	require.NotEmpty(t, categories)
	assert.Equal(t, "Opening Balance (Cash)", categories[0].Name)
}
