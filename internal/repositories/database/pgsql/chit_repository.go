package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
)

type PgxChitRepository struct {
	BaseRepository
}

// newPgxChitRepository creates a new repository for chit groups and auctions.
func newPgxChitRepository(pool *pgxpool.Pool) portsrepo.ChitRepositoryFacade {
	return &PgxChitRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ChitRepositoryFacade = (*PgxChitRepository)(nil)

// SaveChitGroup inserts the group and its members in one database transaction, keeping the
// member order.
func (r *PgxChitRepository) SaveChitGroup(ctx context.Context, g domain.ChitGroup) (domain.ChitGroup, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.ChitGroup{}, err
	}
	defer r.Rollback(ctx, tx)

	err = tx.QueryRow(ctx, `
		INSERT INTO chit_groups (name, chit_value, monthly_contribution, commission_percent, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;`,
		g.Name, g.ChitValue, g.MonthlyContribution, g.CommissionPercent,
		g.CreatedAt, g.CreatedBy, g.LastUpdatedAt, g.LastUpdatedBy,
	).Scan(&g.ID)
	if err != nil {
		return domain.ChitGroup{}, apperrors.NewAppError(500, "failed to insert chit group", err)
	}

	batch := &pgx.Batch{}
	for i, customerID := range g.MemberCustomerIDs {
		batch.Queue(`INSERT INTO chit_group_members (group_id, customer_id, position) VALUES ($1, $2, $3)`, g.ID, customerID, i+1)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return domain.ChitGroup{}, fmt.Errorf("%w: chit group lists a member twice", apperrors.ErrDuplicate)
		}
		return domain.ChitGroup{}, apperrors.NewAppError(500, "failed to insert chit group members", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return domain.ChitGroup{}, err
	}
	return g, nil
}

func (r *PgxChitRepository) FindChitGroupByID(ctx context.Context, id int64) (*domain.ChitGroup, error) {
	var g domain.ChitGroup
	err := r.Pool.QueryRow(ctx, `
		SELECT id, name, chit_value, monthly_contribution, commission_percent, created_at, created_by, last_updated_at, last_updated_by
		FROM chit_groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.ChitValue, &g.MonthlyContribution, &g.CommissionPercent,
		&g.CreatedAt, &g.CreatedBy, &g.LastUpdatedAt, &g.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("chit group", id)
		}
		return nil, fmt.Errorf("failed to find chit group by ID %d: %w", id, err)
	}

	rows, err := r.Pool.Query(ctx, `SELECT customer_id FROM chit_group_members WHERE group_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query chit group members", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan chit group members", err)
	}
	g.MemberCustomerIDs = members
	return &g, nil
}

func (r *PgxChitRepository) ListChitAuctions(ctx context.Context, groupID int64) ([]domain.ChitAuction, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, group_id, round, auction_date, prized_member_id, winning_bid_discount, batch_id
		FROM chit_auctions
		WHERE group_id = $1
		ORDER BY round`, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list chit auctions", err)
	}
	defer rows.Close()
	out := []domain.ChitAuction{}
	for rows.Next() {
		var a domain.ChitAuction
		if err := rows.Scan(&a.ID, &a.GroupID, &a.Round, &a.AuctionDate, &a.PrizedMemberID, &a.WinningBidDiscount, &a.BatchID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan chit auction row", err)
		}
		a.AuctionDate = domain.DateOnly(a.AuctionDate)
		out = append(out, a)
	}
	return out, rows.Err()
}
