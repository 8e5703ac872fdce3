package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	"github.com/SscSPs/bizbooks/internal/models"
	"github.com/SscSPs/bizbooks/internal/utils/mapping"
)

const transactionColumns = `id, tx_date, category, amount, description, party_user_id, party_lender_id,
	agreement_id, related_invoice_id, batch_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for reading the transaction log.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionReader {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionReader = (*PgxTransactionRepository)(nil)

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	return findTransaction(ctx, r.Pool, id, false)
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	return listTransactions(ctx, r.Pool, filter)
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TxDate,
		&m.Category,
		&m.Amount,
		&m.Description,
		&m.PartyUserID,
		&m.PartyLenderID,
		&m.AgreementID,
		&m.RelatedInvoiceID,
		&m.BatchID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findTransaction(ctx context.Context, q querier, id int64, forUpdate bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanTransaction(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("transaction", id)
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find transaction %d", id), err)
	}
	lines, err := loadLineItems(ctx, q, []int64{id})
	if err != nil {
		return nil, err
	}
	t := mapping.ToDomainTransaction(m, lines[id])
	return &t, nil
}

func listTransactions(ctx context.Context, q querier, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var p placeholders
	var where []string
	if filter.PartyUserID != nil {
		where = append(where, "party_user_id = "+p.add(*filter.PartyUserID))
	}
	if filter.PartyLenderID != nil {
		where = append(where, "party_lender_id = "+p.add(*filter.PartyLenderID))
	}
	if filter.AgreementID != nil {
		where = append(where, "agreement_id = "+p.add(*filter.AgreementID))
	}
	if filter.RelatedInvoiceID != nil {
		where = append(where, "related_invoice_id = "+p.add(*filter.RelatedInvoiceID))
	}
	if filter.From != nil {
		where = append(where, "tx_date >= "+p.add(domain.DateOnly(*filter.From)))
	}
	if filter.To != nil {
		where = append(where, "tx_date <= "+p.add(domain.DateOnly(*filter.To)))
	}
	if filter.Categories != nil {
		where = append(where, "category = ANY("+p.add(filter.Categories)+")")
	}
	if filter.After != nil {
		// Tuple comparison keeps keyset pagination on the (tx_date, id) index
		where = append(where, fmt.Sprintf("(tx_date, id) > (%s, %s)", p.add(domain.DateOnly(filter.After.Date)), p.add(filter.After.ID)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY tx_date, id"
	if filter.Limit > 0 {
		query += " LIMIT " + p.add(filter.Limit)
	}

	rows, err := q.Query(ctx, query, p.args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	ids := make([]int64, len(ms))
	for i, m := range ms {
		ids[i] = m.TransactionID
	}
	lines, err := loadLineItems(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	txs := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		txs[i] = mapping.ToDomainTransaction(m, lines[m.TransactionID])
	}
	return txs, nil
}

// loadLineItems fetches the line items of the given transactions, keyed by transaction id.
func loadLineItems(ctx context.Context, q querier, ids []int64) (map[int64][]models.TransactionLineItem, error) {
	out := make(map[int64][]models.TransactionLineItem)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT transaction_id, line_no, product_id, quantity, unit_price
		FROM transaction_line_items
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, line_no`, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transaction line items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var li models.TransactionLineItem
		if err := rows.Scan(&li.TransactionID, &li.LineNo, &li.ProductID, &li.Quantity, &li.UnitPrice); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction line item", err)
		}
		out[li.TransactionID] = append(out[li.TransactionID], li)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction line items", err)
	}
	return out, nil
}

// insertLineItems queues every line item insert in one batch.
func insertLineItems(ctx context.Context, q querier, lines []models.TransactionLineItem) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, li := range lines {
		batch.Queue(`
			INSERT INTO transaction_line_items (transaction_id, line_no, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			li.TransactionID, li.LineNo, li.ProductID, li.Quantity, li.UnitPrice)
	}
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction line items", err)
	}
	return nil
}
