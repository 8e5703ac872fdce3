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

const (
	customerColumns = `id, name, phone, state, gstin, opening_balance, created_at, created_by, last_updated_at, last_updated_by`
	entityColumns   = `id, name, entity_type, opening_payable_balance, created_at, created_by, last_updated_at, last_updated_by`
)

type PgxPartyRepository struct {
	BaseRepository
}

// newPgxPartyRepository creates a new repository for customers and external entities.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.State, &c.GSTIN, &c.OpeningBalance,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	return c, err
}

func scanEntity(row pgx.Row) (domain.ExternalEntity, error) {
	var e domain.ExternalEntity
	err := row.Scan(&e.ID, &e.Name, &e.EntityType, &e.OpeningPayableBalance,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy)
	return e, err
}

func (r *PgxPartyRepository) SaveCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	query := `
		INSERT INTO customers (name, phone, state, gstin, opening_balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`
	err := r.Pool.QueryRow(ctx, query,
		c.Name, c.Phone, c.State, c.GSTIN, c.OpeningBalance,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy,
	).Scan(&c.ID)
	if err != nil {
		return domain.Customer{}, apperrors.NewAppError(500, "failed to insert customer", err)
	}
	return c, nil
}

func (r *PgxPartyRepository) FindCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return findCustomer(ctx, r.Pool, id)
}

func findCustomer(ctx context.Context, q querier, id int64) (*domain.Customer, error) {
	c, err := scanCustomer(q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("customer", id)
		}
		return nil, fmt.Errorf("failed to find customer by ID %d: %w", id, err)
	}
	return &c, nil
}

func (r *PgxPartyRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list customers", err)
	}
	defer rows.Close()
	out := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan customer row", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PgxPartyRepository) SaveEntity(ctx context.Context, e domain.ExternalEntity) (domain.ExternalEntity, error) {
	query := `
		INSERT INTO external_entities (name, entity_type, opening_payable_balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	err := r.Pool.QueryRow(ctx, query,
		e.Name, e.EntityType, e.OpeningPayableBalance,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
	).Scan(&e.ID)
	if err != nil {
		return domain.ExternalEntity{}, apperrors.NewAppError(500, "failed to insert entity", err)
	}
	return e, nil
}

func (r *PgxPartyRepository) FindEntityByID(ctx context.Context, id int64) (*domain.ExternalEntity, error) {
	return findEntity(ctx, r.Pool, id)
}

func findEntity(ctx context.Context, q querier, id int64) (*domain.ExternalEntity, error) {
	e, err := scanEntity(q.QueryRow(ctx, `SELECT `+entityColumns+` FROM external_entities WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("entity", id)
		}
		return nil, fmt.Errorf("failed to find entity by ID %d: %w", id, err)
	}
	return &e, nil
}

func (r *PgxPartyRepository) ListEntities(ctx context.Context) ([]domain.ExternalEntity, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+entityColumns+` FROM external_entities ORDER BY id`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list entities", err)
	}
	defer rows.Close()
	out := []domain.ExternalEntity{}
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entity row", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
