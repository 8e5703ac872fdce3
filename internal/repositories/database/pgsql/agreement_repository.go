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

const agreementColumns = `id, party_id, agreement_type, principal, interest_rate_percent_per_month, start_date, details,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAgreementRepository struct {
	BaseRepository
}

// newPgxAgreementRepository creates a new repository for financing agreements.
func newPgxAgreementRepository(pool *pgxpool.Pool) portsrepo.AgreementRepositoryFacade {
	return &PgxAgreementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AgreementRepositoryFacade = (*PgxAgreementRepository)(nil)

func scanAgreement(row pgx.Row) (domain.Agreement, error) {
	var a domain.Agreement
	err := row.Scan(&a.ID, &a.PartyID, &a.AgreementType, &a.Principal, &a.InterestRatePercentPerMonth, &a.StartDate, &a.Details,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
	a.StartDate = domain.DateOnly(a.StartDate)
	return a, err
}

func (r *PgxAgreementRepository) SaveAgreement(ctx context.Context, a domain.Agreement) (domain.Agreement, error) {
	query := `
		INSERT INTO agreements (party_id, agreement_type, principal, interest_rate_percent_per_month, start_date, details,
		                        created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id;
	`
	err := r.Pool.QueryRow(ctx, query,
		a.PartyID, a.AgreementType, a.Principal, a.InterestRatePercentPerMonth, domain.DateOnly(a.StartDate), a.Details,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
	).Scan(&a.ID)
	if err != nil {
		return domain.Agreement{}, apperrors.NewAppError(500, "failed to insert agreement", err)
	}
	return a, nil
}

func (r *PgxAgreementRepository) FindAgreementByID(ctx context.Context, id int64) (*domain.Agreement, error) {
	return findAgreement(ctx, r.Pool, id)
}

func findAgreement(ctx context.Context, q querier, id int64) (*domain.Agreement, error) {
	a, err := scanAgreement(q.QueryRow(ctx, `SELECT `+agreementColumns+` FROM agreements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("agreement", id)
		}
		return nil, fmt.Errorf("failed to find agreement by ID %d: %w", id, err)
	}
	return &a, nil
}

func (r *PgxAgreementRepository) ListAgreements(ctx context.Context) ([]domain.Agreement, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+agreementColumns+` FROM agreements ORDER BY id`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list agreements", err)
	}
	defer rows.Close()
	out := []domain.Agreement{}
	for rows.Next() {
		a, err := scanAgreement(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan agreement row", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
