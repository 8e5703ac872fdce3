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

const productColumns = `id, name, opening_stock, current_stock, cost_price, sale_price, created_at, created_by, last_updated_at, last_updated_by`

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for products.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.OpeningStock, &p.CurrentStock, &p.CostPrice, &p.SalePrice,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	return p, err
}

// SaveProduct inserts a product whose current stock starts at its opening stock.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	query := `
		INSERT INTO products (name, opening_stock, current_stock, cost_price, sale_price, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, current_stock;
	`
	err := r.Pool.QueryRow(ctx, query,
		p.Name, p.OpeningStock, p.CostPrice, p.SalePrice,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	).Scan(&p.ID, &p.CurrentStock)
	if err != nil {
		return domain.Product{}, apperrors.NewAppError(500, "failed to insert product", err)
	}
	return p, nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.Pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("product", id)
		}
		return nil, fmt.Errorf("failed to find product by ID %d: %w", id, err)
	}
	return &p, nil
}

func (r *PgxProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list products", err)
	}
	defer rows.Close()
	out := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
