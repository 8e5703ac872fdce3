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
	"github.com/SscSPs/bizbooks/internal/models"
	"github.com/SscSPs/bizbooks/internal/utils/mapping"
)

const invoiceColumns = `id, number, customer_id, invoice_date, cgst_rate, sgst_rate, igst_rate, lump_discount,
	grand_total, paid_amount, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for reading invoices.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceReader {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceReader = (*PgxInvoiceRepository)(nil)

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	return findInvoice(ctx, r.Pool, id)
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, customerID *int64) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	var args []any
	if customerID != nil {
		query += ` WHERE customer_id = $1`
		args = append(args, *customerID)
	}
	query += ` ORDER BY invoice_date, id`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list invoices", err)
	}
	defer rows.Close()
	var ms []models.Invoice
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}

	ids := make([]int64, len(ms))
	for i, m := range ms {
		ids[i] = m.InvoiceID
	}
	lines, err := loadInvoiceLines(ctx, r.Pool, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainInvoice(m, lines[m.InvoiceID])
	}
	return out, nil
}

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.Number,
		&m.CustomerID,
		&m.InvoiceDate,
		&m.CGSTRate,
		&m.SGSTRate,
		&m.IGSTRate,
		&m.LumpDiscount,
		&m.GrandTotal,
		&m.PaidAmount,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findInvoice(ctx context.Context, q querier, id int64) (*domain.Invoice, error) {
	m, err := scanInvoice(q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("invoice", id)
		}
		return nil, fmt.Errorf("failed to find invoice by ID %d: %w", id, err)
	}
	lines, err := loadInvoiceLines(ctx, q, []int64{id})
	if err != nil {
		return nil, err
	}
	inv := mapping.ToDomainInvoice(m, lines[id])
	return &inv, nil
}

func loadInvoiceLines(ctx context.Context, q querier, ids []int64) (map[int64][]models.InvoiceLine, error) {
	out := make(map[int64][]models.InvoiceLine)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT invoice_id, line_no, product_id, description, quantity, unit_price, discount_amount, taxable_value
		FROM invoice_lines
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, line_no`, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoice lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l models.InvoiceLine
		if err := rows.Scan(&l.InvoiceID, &l.LineNo, &l.ProductID, &l.Description, &l.Quantity,
			&l.UnitPrice, &l.DiscountAmount, &l.TaxableValue); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice line", err)
		}
		out[l.InvoiceID] = append(out[l.InvoiceID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice lines", err)
	}
	return out, nil
}
