package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/utils/accounting"
)

// reportingService provides financial reports derived from the transaction log.
type reportingService struct {
	BaseService
	txRepo        portsrepo.TransactionReader
	partyRepo     portsrepo.PartyReader
	productRepo   portsrepo.ProductReader
	agreementRepo portsrepo.AgreementReader
	loans         portssvc.LoanSvc
	resolver      *accounting.Resolver
	profile       domain.BusinessProfile
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	repos portsrepo.RepositoryProvider,
	loans portssvc.LoanSvc,
	categories accounting.CategoryLookup,
	profile domain.BusinessProfile,
) portssvc.ReportingSvc {
	return &reportingService{
		txRepo:        repos.TransactionRepo,
		partyRepo:     repos.PartyRepo,
		productRepo:   repos.ProductRepo,
		agreementRepo: repos.AgreementRepo,
		loans:         loans,
		resolver:      accounting.NewResolver(categories),
		profile:       profile,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperrors.NewValidationError("window end %s is before its start %s", to.Format(domain.DateLayout), from.Format(domain.DateLayout))
	}
	filter := domain.TransactionFilter{}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}
	txs, err := s.txRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for profit and loss")
		return nil, err
	}

	income := map[string]decimal.Decimal{}
	expenses := map[string]decimal.Decimal{}
	for _, t := range txs {
		c, err := s.resolver.Category(t)
		if err != nil {
			return nil, err
		}
		effect, ok, err := accounting.EffectFor(c, t.Amount, domain.ViewPnL)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if effect.IsNegative() {
			expenses[c.Group] = expenses[c.Group].Add(effect.Neg())
		} else {
			income[c.Group] = income[c.Group].Add(effect)
		}
	}

	report := &domain.PAndLReport{From: from, To: to}
	report.Income, report.TotalIncome = pnlLines(income)
	report.Expenses, report.TotalExpenses = pnlLines(expenses)
	report.NetProfit = report.TotalIncome.Sub(report.TotalExpenses)
	return report, nil
}

func pnlLines(byGroup map[string]decimal.Decimal) ([]domain.PnLLine, decimal.Decimal) {
	lines := make([]domain.PnLLine, 0, len(byGroup))
	total := decimal.Zero
	for g, amt := range byGroup {
		lines = append(lines, domain.PnLLine{Group: g, Amount: amt})
		total = total.Add(amt)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Group < lines[j].Group })
	return lines, total
}

func (s *reportingService) Receivables(ctx context.Context, asOf time.Time) (*domain.PartySummary, error) {
	customers, err := s.partyRepo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.upTo(ctx, asOf)
	if err != nil {
		return nil, err
	}
	byParty := make(map[int64][]domain.Transaction)
	for _, t := range txs {
		if t.PartyUserID != nil {
			byParty[*t.PartyUserID] = append(byParty[*t.PartyUserID], t)
		}
	}

	summary := &domain.PartySummary{AsOf: asOf, Parties: []domain.PartyBalance{}, Total: decimal.Zero}
	for _, c := range customers {
		sum, err := s.resolver.Sum(domain.ViewPartyLedger, byParty[c.ID])
		if err != nil {
			return nil, err
		}
		balance := c.OpeningBalance.Add(sum)
		summary.Parties = append(summary.Parties, domain.PartyBalance{PartyID: c.ID, Name: c.Name, Balance: balance})
		summary.Total = summary.Total.Add(balance)
	}
	return summary, nil
}

func (s *reportingService) Payables(ctx context.Context, asOf time.Time) (*domain.PartySummary, error) {
	entities, err := s.partyRepo.ListEntities(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.upTo(ctx, asOf)
	if err != nil {
		return nil, err
	}
	byParty := make(map[int64][]domain.Transaction)
	for _, t := range txs {
		if t.PartyLenderID != nil {
			byParty[*t.PartyLenderID] = append(byParty[*t.PartyLenderID], t)
		}
	}

	summary := &domain.PartySummary{AsOf: asOf, Parties: []domain.PartyBalance{}, Total: decimal.Zero}
	for _, e := range entities {
		sum, err := s.resolver.Sum(domain.ViewPartyLedger, byParty[e.ID])
		if err != nil {
			return nil, err
		}
		balance := e.OpeningPayableBalance.Add(sum)
		summary.Parties = append(summary.Parties, domain.PartyBalance{PartyID: e.ID, Name: e.Name, Balance: balance})
		summary.Total = summary.Total.Add(balance)
	}
	return summary, nil
}

// BalanceSheet values inventory at cost from current stock; stock has no history to roll back.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	cash, bank, err := s.moneyPosition(ctx, asOf)
	if err != nil {
		return nil, err
	}
	receivables, err := s.Receivables(ctx, asOf)
	if err != nil {
		return nil, err
	}
	payables, err := s.Payables(ctx, asOf)
	if err != nil {
		return nil, err
	}
	_, atCost, _, err := s.stockValuation(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:        asOf,
		Cash:        cash,
		Bank:        bank,
		Receivables: receivables.Total,
		Inventory:   atCost,
		Payables:    payables.Total,
	}
	report.TotalAssets = cash.Add(bank).Add(receivables.Total).Add(atCost)
	report.TotalLiabilities = payables.Total
	report.Equity = report.TotalAssets.Sub(report.TotalLiabilities)
	return report, nil
}

func (s *reportingService) Valuation(ctx context.Context, asOf time.Time) (*domain.ValuationSnapshot, error) {
	cash, bank, err := s.moneyPosition(ctx, asOf)
	if err != nil {
		return nil, err
	}
	receivables, err := s.Receivables(ctx, asOf)
	if err != nil {
		return nil, err
	}
	payables, err := s.Payables(ctx, asOf)
	if err != nil {
		return nil, err
	}
	products, atCost, atSale, err := s.stockValuation(ctx)
	if err != nil {
		return nil, err
	}

	snap := &domain.ValuationSnapshot{
		AsOf:             asOf,
		Products:         products,
		StockAtCost:      atCost,
		StockAtSalePrice: atSale,
		Cash:             cash,
		Bank:             bank,
		Receivables:      receivables.Total,
		Payables:         payables.Total,
		LoansOutstanding: decimal.Zero,
		LoansReceivable:  decimal.Zero,
		InterestPayable:  decimal.Zero,
	}

	agreements, err := s.agreementRepo.ListAgreements(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range agreements {
		if a.StartDate.After(asOf) {
			continue
		}
		accrual, err := s.loans.AccrueInterest(ctx, a.ID, asOf)
		if err != nil {
			return nil, err
		}
		if a.AgreementType == domain.LoanGivenByBiz {
			snap.LoansReceivable = snap.LoansReceivable.Add(accrual.OutstandingPrincipal)
			continue
		}
		snap.LoansOutstanding = snap.LoansOutstanding.Add(accrual.OutstandingPrincipal)
		if accrual.InterestPayable.IsPositive() {
			snap.InterestPayable = snap.InterestPayable.Add(accrual.InterestPayable)
		}
	}

	// loan principal already sits in the party ledgers, only unpaid interest is extra
	snap.NetWorthAtCost = cash.Add(bank).Add(receivables.Total).Add(atCost).
		Sub(payables.Total).Sub(snap.InterestPayable)
	return snap, nil
}

// StockAudit replays every line item in the log over the opening stock and compares the result
// with the stored current stock.
func (s *reportingService) StockAudit(ctx context.Context) ([]domain.StockDiscrepancy, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.txRepo.ListTransactions(ctx, domain.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	replayed := make(map[int64]int64)
	for _, t := range txs {
		if len(t.LineItems) == 0 {
			continue
		}
		c, err := s.resolver.Category(t)
		if err != nil {
			return nil, err
		}
		for _, d := range accounting.StockDeltas(c, t.LineItems) {
			replayed[d.ProductID] += d.Delta
		}
	}

	out := []domain.StockDiscrepancy{}
	for _, p := range products {
		expected := p.OpeningStock + replayed[p.ID]
		if expected != p.CurrentStock {
			s.LogWarn(ctx, "Stock disagrees with the log",
				slog.Int64("product_id", p.ID),
				slog.Int64("current_stock", p.CurrentStock),
				slog.Int64("expected_stock", expected))
			out = append(out, domain.StockDiscrepancy{
				ProductID:     p.ID,
				Name:          p.Name,
				CurrentStock:  p.CurrentStock,
				ExpectedStock: expected,
			})
		}
	}
	return out, nil
}

func (s *reportingService) upTo(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	filter := domain.TransactionFilter{}
	if !asOf.IsZero() {
		filter.To = &asOf
	}
	txs, err := s.txRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for report")
		return nil, err
	}
	return txs, nil
}

func (s *reportingService) moneyPosition(ctx context.Context, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	txs, err := s.upTo(ctx, asOf)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	cash, err := s.resolver.Sum(domain.ViewCash, txs)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	bank, err := s.resolver.Sum(domain.ViewBank, txs)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return s.profile.OpeningCashBalance.Add(cash), s.profile.OpeningBankBalance.Add(bank), nil
}

func (s *reportingService) stockValuation(ctx context.Context) ([]domain.ProductValuation, decimal.Decimal, decimal.Decimal, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	out := make([]domain.ProductValuation, 0, len(products))
	atCost, atSale := decimal.Zero, decimal.Zero
	for _, p := range products {
		qty := decimal.NewFromInt(p.CurrentStock)
		v := domain.ProductValuation{
			ProductID:    p.ID,
			Name:         p.Name,
			CurrentStock: p.CurrentStock,
			AtCost:       p.CostPrice.Mul(qty),
			AtSalePrice:  p.SalePrice.Mul(qty),
		}
		out = append(out, v)
		atCost = atCost.Add(v.AtCost)
		atSale = atSale.Add(v.AtSalePrice)
	}
	return out, atCost, atSale, nil
}
