package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/dto"
)

// catalogService manages master data: parties, products, agreements and chit groups.
type catalogService struct {
	BaseService
	partyRepo     portsrepo.PartyRepositoryFacade
	productRepo   portsrepo.ProductRepositoryFacade
	agreementRepo portsrepo.AgreementRepositoryFacade
	chitRepo      portsrepo.ChitRepositoryFacade
	categories    CategoryCatalog
	now           func() time.Time
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repos portsrepo.RepositoryProvider, categories CategoryCatalog) portssvc.CatalogSvcFacade {
	return &catalogService{
		partyRepo:     repos.PartyRepo,
		productRepo:   repos.ProductRepo,
		agreementRepo: repos.AgreementRepo,
		chitRepo:      repos.ChitRepo,
		categories:    categories,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) audit(userID string) domain.AuditFields {
	now := s.now()
	return domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
}

func (s *catalogService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("customer name is required")
	}
	c, err := s.partyRepo.SaveCustomer(ctx, domain.Customer{
		Name:           strings.TrimSpace(req.Name),
		Phone:          req.Phone,
		State:          strings.TrimSpace(req.State),
		GSTIN:          strings.ToUpper(req.GSTIN),
		OpeningBalance: req.OpeningBalance,
		AuditFields:    s.audit(userID),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create customer")
		return nil, err
	}
	s.LogInfo(ctx, "Customer created", slog.Int64("customer_id", c.ID))
	return &c, nil
}

func (s *catalogService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.partyRepo.FindCustomerByID(ctx, id)
}

func (s *catalogService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.partyRepo.ListCustomers(ctx)
}

func (s *catalogService) CreateEntity(ctx context.Context, req dto.CreateEntityRequest, userID string) (*domain.ExternalEntity, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("entity name is required")
	}
	switch req.EntityType {
	case domain.EntitySupplier, domain.EntityLender, domain.EntityFinancial, domain.EntityGeneral:
	default:
		return nil, apperrors.NewValidationError("unknown entity type %q", req.EntityType)
	}
	opening := req.OpeningPayableBalance
	if req.EntityType != domain.EntitySupplier && !opening.IsZero() {
		return nil, apperrors.NewValidationError("only suppliers carry an opening payable balance")
	}
	e, err := s.partyRepo.SaveEntity(ctx, domain.ExternalEntity{
		Name:                  strings.TrimSpace(req.Name),
		EntityType:            req.EntityType,
		OpeningPayableBalance: opening,
		AuditFields:           s.audit(userID),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create entity")
		return nil, err
	}
	s.LogInfo(ctx, "Entity created", slog.Int64("entity_id", e.ID), slog.String("entity_type", string(e.EntityType)))
	return &e, nil
}

func (s *catalogService) GetEntity(ctx context.Context, id int64) (*domain.ExternalEntity, error) {
	return s.partyRepo.FindEntityByID(ctx, id)
}

func (s *catalogService) ListEntities(ctx context.Context) ([]domain.ExternalEntity, error) {
	return s.partyRepo.ListEntities(ctx)
}

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("product name is required")
	}
	if req.OpeningStock < 0 || req.CostPrice.IsNegative() || req.SalePrice.IsNegative() {
		return nil, apperrors.NewValidationError("opening stock and prices cannot be negative")
	}
	p, err := s.productRepo.SaveProduct(ctx, domain.Product{
		Name:         strings.TrimSpace(req.Name),
		OpeningStock: req.OpeningStock,
		CurrentStock: req.OpeningStock,
		CostPrice:    req.CostPrice,
		SalePrice:    req.SalePrice,
		AuditFields:  s.audit(userID),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create product")
		return nil, err
	}
	s.LogInfo(ctx, "Product created", slog.Int64("product_id", p.ID))
	return &p, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindProductByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.ListProducts(ctx)
}

// CreateAgreement checks that the counterparty exists: a customer for loans the business gives,
// an external entity otherwise.
func (s *catalogService) CreateAgreement(ctx context.Context, req dto.CreateAgreementRequest, userID string) (*domain.Agreement, error) {
	start, err := time.Parse(domain.DateLayout, req.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("malformed start date %q, expected YYYY-MM-DD", req.StartDate)
	}
	if req.Principal.IsNegative() || req.InterestRatePercentPerMonth.IsNegative() {
		return nil, apperrors.NewValidationError("principal and interest rate cannot be negative")
	}
	switch req.AgreementType {
	case domain.LoanGivenByBiz:
		_, err = s.partyRepo.FindCustomerByID(ctx, req.PartyID)
	case domain.LoanTakenByBiz, domain.HirePurchase, domain.OtherFinancing:
		_, err = s.partyRepo.FindEntityByID(ctx, req.PartyID)
	default:
		return nil, apperrors.NewValidationError("unknown agreement type %q", req.AgreementType)
	}
	if err != nil {
		return nil, err
	}

	a, err := s.agreementRepo.SaveAgreement(ctx, domain.Agreement{
		PartyID:                     req.PartyID,
		AgreementType:               req.AgreementType,
		Principal:                   req.Principal,
		InterestRatePercentPerMonth: req.InterestRatePercentPerMonth,
		StartDate:                   start,
		Details:                     req.Details,
		AuditFields:                 s.audit(userID),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create agreement")
		return nil, err
	}
	s.LogInfo(ctx, "Agreement created", slog.Int64("agreement_id", a.ID), slog.String("agreement_type", string(a.AgreementType)))
	return &a, nil
}

func (s *catalogService) GetAgreement(ctx context.Context, id int64) (*domain.Agreement, error) {
	return s.agreementRepo.FindAgreementByID(ctx, id)
}

func (s *catalogService) ListAgreements(ctx context.Context) ([]domain.Agreement, error) {
	return s.agreementRepo.ListAgreements(ctx)
}

func (s *catalogService) CreateChitGroup(ctx context.Context, req dto.CreateChitGroupRequest, userID string) (*domain.ChitGroup, error) {
	if !req.ChitValue.IsPositive() || !req.MonthlyContribution.IsPositive() {
		return nil, apperrors.NewValidationError("chit value and monthly contribution must be positive")
	}
	if req.CommissionPercent.IsNegative() || req.CommissionPercent.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return nil, apperrors.NewValidationError("commission percent must be in [0, 100)")
	}
	if len(req.MemberCustomerIDs) < 2 {
		return nil, apperrors.NewValidationError("a chit group needs at least two members")
	}
	seen := make(map[int64]struct{}, len(req.MemberCustomerIDs))
	for _, id := range req.MemberCustomerIDs {
		if _, dup := seen[id]; dup {
			return nil, apperrors.NewValidationError("customer %d is listed twice", id)
		}
		seen[id] = struct{}{}
		if _, err := s.partyRepo.FindCustomerByID(ctx, id); err != nil {
			return nil, err
		}
	}

	g, err := s.chitRepo.SaveChitGroup(ctx, domain.ChitGroup{
		Name:                strings.TrimSpace(req.Name),
		ChitValue:           req.ChitValue,
		MonthlyContribution: req.MonthlyContribution,
		CommissionPercent:   req.CommissionPercent,
		MemberCustomerIDs:   req.MemberCustomerIDs,
		AuditFields:         s.audit(userID),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create chit group")
		return nil, err
	}
	s.LogInfo(ctx, "Chit group created", slog.Int64("group_id", g.ID), slog.Int("members", len(g.MemberCustomerIDs)))
	return &g, nil
}

func (s *catalogService) GetChitGroup(ctx context.Context, id int64) (*domain.ChitGroup, error) {
	return s.chitRepo.FindChitGroupByID(ctx, id)
}

func (s *catalogService) ListCategories(ctx context.Context) []domain.Category {
	return s.categories.All()
}
