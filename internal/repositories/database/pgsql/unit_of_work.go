package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	"github.com/SscSPs/bizbooks/internal/utils/mapping"
)

// PgxUnitOfWorkRunner runs each unit of work in its own database transaction.
type PgxUnitOfWorkRunner struct {
	BaseRepository
}

// newPgxUnitOfWorkRunner creates a runner over the pool.
func newPgxUnitOfWorkRunner(pool *pgxpool.Pool) portsrepo.UnitOfWorkRunner {
	return &PgxUnitOfWorkRunner{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWorkRunner = (*PgxUnitOfWorkRunner)(nil)

func (r *PgxUnitOfWorkRunner) RunInUnitOfWork(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	if err := fn(ctx, &pgxUnitOfWork{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

type pgxUnitOfWork struct {
	tx pgx.Tx
}

var _ portsrepo.UnitOfWork = (*pgxUnitOfWork)(nil)

func (u *pgxUnitOfWork) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	return findTransaction(ctx, u.tx, id, false)
}

func (u *pgxUnitOfWork) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	return listTransactions(ctx, u.tx, filter)
}

func (u *pgxUnitOfWork) FindCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return findCustomer(ctx, u.tx, id)
}

func (u *pgxUnitOfWork) FindEntityByID(ctx context.Context, id int64) (*domain.ExternalEntity, error) {
	return findEntity(ctx, u.tx, id)
}

func (u *pgxUnitOfWork) FindAgreementByID(ctx context.Context, id int64) (*domain.Agreement, error) {
	return findAgreement(ctx, u.tx, id)
}

func (u *pgxUnitOfWork) FindInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	return findInvoice(ctx, u.tx, id)
}

func (u *pgxUnitOfWork) FindTransactionForUpdate(ctx context.Context, id int64) (*domain.Transaction, error) {
	return findTransaction(ctx, u.tx, id, true)
}

func (u *pgxUnitOfWork) InsertTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	m := mapping.ToModelTransaction(t)
	query := `
		INSERT INTO transactions (tx_date, category, amount, description, party_user_id, party_lender_id,
		                          agreement_id, related_invoice_id, batch_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id;
	`
	err := u.tx.QueryRow(ctx, query,
		m.TxDate, m.Category, m.Amount, m.Description, m.PartyUserID, m.PartyLenderID,
		m.AgreementID, m.RelatedInvoiceID, m.BatchID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&t.ID)
	if err != nil {
		return domain.Transaction{}, apperrors.NewAppError(500, "failed to insert transaction", err)
	}
	if err := insertLineItems(ctx, u.tx, mapping.ToModelLineItems(t.ID, t.LineItems)); err != nil {
		return domain.Transaction{}, err
	}
	t.Date = m.TxDate
	return t, nil
}

// UpdateTransaction rewrites the row and replaces its line items.
func (u *pgxUnitOfWork) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	m := mapping.ToModelTransaction(t)
	tag, err := u.tx.Exec(ctx, `
		UPDATE transactions
		SET tx_date = $2, category = $3, amount = $4, description = $5, party_user_id = $6, party_lender_id = $7,
		    agreement_id = $8, related_invoice_id = $9, batch_id = $10, last_updated_at = $11, last_updated_by = $12
		WHERE id = $1`,
		m.TransactionID, m.TxDate, m.Category, m.Amount, m.Description, m.PartyUserID, m.PartyLenderID,
		m.AgreementID, m.RelatedInvoiceID, m.BatchID, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to update transaction %d", t.ID), err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("transaction", t.ID)
	}
	if _, err := u.tx.Exec(ctx, `DELETE FROM transaction_line_items WHERE transaction_id = $1`, t.ID); err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to clear line items of transaction %d", t.ID), err)
	}
	return insertLineItems(ctx, u.tx, mapping.ToModelLineItems(t.ID, t.LineItems))
}

// DeleteTransaction removes the row; its line items go with it through ON DELETE CASCADE.
func (u *pgxUnitOfWork) DeleteTransaction(ctx context.Context, id int64) error {
	tag, err := u.tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to delete transaction %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("transaction", id)
	}
	return nil
}

func (u *pgxUnitOfWork) AdjustProductStock(ctx context.Context, productID int64, delta int64) (int64, error) {
	var stock int64
	err := u.tx.QueryRow(ctx, `
		UPDATE products SET current_stock = current_stock + $2, last_updated_at = NOW()
		WHERE id = $1
		RETURNING current_stock`, productID, delta).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound("product", productID)
		}
		return 0, apperrors.NewAppError(500, fmt.Sprintf("failed to adjust stock of product %d", productID), err)
	}
	return stock, nil
}

func (u *pgxUnitOfWork) AdjustInvoicePaid(ctx context.Context, invoiceID int64, delta decimal.Decimal) (*domain.Invoice, error) {
	var paid, grandTotal decimal.Decimal
	err := u.tx.QueryRow(ctx, `
		UPDATE invoices SET paid_amount = paid_amount + $2, last_updated_at = NOW()
		WHERE id = $1
		RETURNING paid_amount, grand_total`, invoiceID, delta).Scan(&paid, &grandTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("invoice", invoiceID)
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to adjust paid amount of invoice %d", invoiceID), err)
	}
	status := domain.InvoiceStatusFor(paid, grandTotal)
	if _, err := u.tx.Exec(ctx, `UPDATE invoices SET status = $2 WHERE id = $1`, invoiceID, string(status)); err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to update status of invoice %d", invoiceID), err)
	}
	return findInvoice(ctx, u.tx, invoiceID)
}

func (u *pgxUnitOfWork) InsertInvoice(ctx context.Context, inv domain.Invoice) (domain.Invoice, error) {
	m := mapping.ToModelInvoice(inv)
	err := u.tx.QueryRow(ctx, `
		INSERT INTO invoices (number, customer_id, invoice_date, cgst_rate, sgst_rate, igst_rate, lump_discount,
		                      grand_total, paid_amount, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;`,
		m.Number, m.CustomerID, m.InvoiceDate, m.CGSTRate, m.SGSTRate, m.IGSTRate, m.LumpDiscount,
		m.GrandTotal, m.PaidAmount, m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&inv.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Invoice{}, fmt.Errorf("%w: invoice number %q already exists", apperrors.ErrDuplicate, inv.Number)
		}
		return domain.Invoice{}, apperrors.NewAppError(500, "failed to insert invoice", err)
	}

	lines := mapping.ToModelInvoiceLines(inv.ID, inv.LineItems)
	if len(lines) > 0 {
		batch := &pgx.Batch{}
		for _, l := range lines {
			batch.Queue(`
				INSERT INTO invoice_lines (invoice_id, line_no, product_id, description, quantity, unit_price, discount_amount, taxable_value)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				l.InvoiceID, l.LineNo, l.ProductID, l.Description, l.Quantity, l.UnitPrice, l.DiscountAmount, l.TaxableValue)
		}
		if err := u.tx.SendBatch(ctx, batch).Close(); err != nil {
			return domain.Invoice{}, apperrors.NewAppError(500, "failed to insert invoice lines for "+inv.Number, err)
		}
	}
	return inv, nil
}

func (u *pgxUnitOfWork) InsertChitAuction(ctx context.Context, a domain.ChitAuction) (domain.ChitAuction, error) {
	err := u.tx.QueryRow(ctx, `
		INSERT INTO chit_auctions (group_id, round, auction_date, prized_member_id, winning_bid_discount, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		a.GroupID, a.Round, domain.DateOnly(a.AuctionDate), a.PrizedMemberID, a.WinningBidDiscount, a.BatchID,
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ChitAuction{}, fmt.Errorf("%w: group %d already has round %d or member %d prized",
				apperrors.ErrDuplicate, a.GroupID, a.Round, a.PrizedMemberID)
		}
		return domain.ChitAuction{}, apperrors.NewAppError(500, "failed to insert chit auction", err)
	}
	return a, nil
}

// LockParty takes a transaction-scoped advisory lock, released on commit or rollback.
func (u *pgxUnitOfWork) LockParty(ctx context.Context, key string) error {
	if _, err := u.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return apperrors.NewAppError(500, "failed to lock party "+key, err)
	}
	return nil
}
