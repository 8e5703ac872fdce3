package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/utils/accounting"
)

const (
	chitPayoutCategory       = "Chit Prize Payout"
	chitContributionCategory = "Chit Contribution Due"
)

type chitService struct {
	BaseService
	chitRepo portsrepo.ChitReader
	uow      portsrepo.UnitOfWorkRunner
	engine   portssvc.TransactionEngine
}

// NewChitService creates a new chit settlement service.
func NewChitService(chitRepo portsrepo.ChitReader, uow portsrepo.UnitOfWorkRunner, engine portssvc.TransactionEngine) portssvc.ChitSvcFacade {
	return &chitService{
		chitRepo: chitRepo,
		uow:      uow,
		engine:   engine,
	}
}

var _ portssvc.ChitSvcFacade = (*chitService)(nil)

func (s *chitService) ListAuctions(ctx context.Context, groupID int64) ([]domain.ChitAuction, error) {
	if _, err := s.chitRepo.FindChitGroupByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.chitRepo.ListChitAuctions(ctx, groupID)
}

// SettleAuction posts the prize payout to the winner and the round's net contribution to every
// other member, and records the round. A member can win only once per group.
func (s *chitService) SettleAuction(ctx context.Context, draft domain.AuctionDraft, userID string) (*domain.ChitSettlement, error) {
	group, err := s.chitRepo.FindChitGroupByID(ctx, draft.GroupID)
	if err != nil {
		return nil, err
	}
	auctionDate, err := time.Parse(domain.DateLayout, draft.AuctionDate)
	if err != nil {
		return nil, apperrors.NewValidationError("malformed auction date %q, expected YYYY-MM-DD", draft.AuctionDate)
	}
	if !slices.Contains(group.MemberCustomerIDs, draft.PrizedMemberID) {
		return nil, apperrors.NewValidationError("customer %d is not a member of chit group %d", draft.PrizedMemberID, group.ID)
	}
	figures, err := accounting.SettlementFigures(*group, draft.WinningBidDiscount)
	if err != nil {
		return nil, err
	}

	past, err := s.chitRepo.ListChitAuctions(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range past {
		if a.PrizedMemberID == draft.PrizedMemberID {
			return nil, apperrors.NewValidationError("customer %d already won round %d", a.PrizedMemberID, a.Round)
		}
	}

	settlement := &domain.ChitSettlement{
		Auction: domain.ChitAuction{
			GroupID:            group.ID,
			Round:              len(past) + 1,
			AuctionDate:        auctionDate,
			PrizedMemberID:     draft.PrizedMemberID,
			WinningBidDiscount: draft.WinningBidDiscount,
			BatchID:            uuid.NewString(),
		},
		ForemanCommission: figures.ForemanCommission,
		DividendPerMember: figures.DividendPerMember,
		NetContribution:   figures.NetContribution,
		Payout:            figures.Payout,
	}

	err = s.uow.RunInUnitOfWork(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		settlement.Transactions = nil
		prized := draft.PrizedMemberID
		payout, err := s.engine.CreateWithin(ctx, uow, domain.TransactionDraft{
			Date:        draft.AuctionDate,
			Category:    chitPayoutCategory,
			Amount:      figures.Payout.Neg(),
			Description: fmt.Sprintf("%s round %d prize", group.Name, settlement.Auction.Round),
			PartyUserID: &prized,
			BatchID:     settlement.Auction.BatchID,
		}, userID)
		if err != nil {
			return err
		}
		settlement.Transactions = append(settlement.Transactions, payout.Transaction)

		for _, member := range group.MemberCustomerIDs {
			if member == draft.PrizedMemberID {
				continue
			}
			contribution, err := s.engine.CreateWithin(ctx, uow, domain.TransactionDraft{
				Date:        draft.AuctionDate,
				Category:    chitContributionCategory,
				Amount:      figures.NetContribution,
				Description: fmt.Sprintf("%s round %d contribution", group.Name, settlement.Auction.Round),
				PartyUserID: &member,
				BatchID:     settlement.Auction.BatchID,
			}, userID)
			if err != nil {
				return fmt.Errorf("contribution for customer %d: %w", member, err)
			}
			settlement.Transactions = append(settlement.Transactions, contribution.Transaction)
		}

		stored, err := uow.InsertChitAuction(ctx, settlement.Auction)
		if err != nil {
			return err
		}
		settlement.Auction = stored
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to settle chit auction", slog.Int64("group_id", group.ID))
		return nil, err
	}

	s.LogInfo(ctx, "Chit auction settled",
		slog.Int64("group_id", group.ID),
		slog.Int("round", settlement.Auction.Round),
		slog.String("payout", settlement.Payout.StringFixed(2)))
	return settlement, nil
}
