package accounting

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// ReconstructRequest describes one ledger to rebuild from the transaction log.
type ReconstructRequest struct {
	View        domain.ViewKind
	BaseBalance decimal.Decimal
	// Transactions may arrive in any order and may include entries outside the window;
	// those before Window.Start roll into the opening balance.
	Transactions []domain.Transaction
	Window       domain.Window
}

type resolved struct {
	tx        domain.Transaction
	day       time.Time
	effect    decimal.Decimal
	isOpening bool
}

// Reconstruct folds the transactions of one view into a running-balance ledger.
// Any transaction that cannot be resolved fails the whole request.
func (r *Resolver) Reconstruct(req ReconstructRequest) (*domain.LedgerSnapshot, error) {
	rows := make([]resolved, 0, len(req.Transactions))
	for _, t := range req.Transactions {
		if t.Date.IsZero() {
			return nil, fmt.Errorf("%w: transaction %d has no date", apperrors.ErrMalformedTransaction, t.ID)
		}
		c, err := r.Category(t)
		if err != nil {
			return nil, err
		}
		effect, ok, err := EffectFor(c, t.Amount, req.View)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		rows = append(rows, resolved{
			tx:        t,
			day:       domain.DateOnly(t.Date),
			effect:    effect,
			isOpening: c.Group == domain.GroupOpeningBalance,
		})
	}
	sortForLedger(rows)

	start, end := windowBounds(req.Window)
	snap := &domain.LedgerSnapshot{
		View:           req.View,
		OpeningBalance: req.BaseBalance,
		Entries:        []domain.LedgerEntry{},
		TotalDebits:    decimal.Zero,
		TotalCredits:   decimal.Zero,
		DailyTotals:    []domain.DayTotal{},
	}
	if !start.IsZero() {
		snap.WindowStart = &start
	}
	if !end.IsZero() {
		snap.WindowEnd = &end
	}

	// rows before the window roll into the opening balance, rows after it are dropped
	inWindow := make([]resolved, 0, len(rows))
	for _, row := range rows {
		switch {
		case !start.IsZero() && row.day.Before(start):
			snap.OpeningBalance = snap.OpeningBalance.Add(row.effect)
		case !end.IsZero() && row.day.After(end):
		default:
			inWindow = append(inWindow, row)
		}
	}

	running := snap.OpeningBalance
	days := make(map[time.Time]*domain.DayTotal)
	for _, row := range inWindow {
		running = running.Add(row.effect)
		entry := domain.LedgerEntry{
			TransactionID:  row.tx.ID,
			Date:           row.day,
			Category:       row.tx.Category,
			Description:    row.tx.Description,
			Effect:         row.effect,
			Debit:          decimal.Zero,
			Credit:         decimal.Zero,
			RunningBalance: running,
		}
		if row.effect.IsNegative() {
			entry.Credit = row.effect.Neg()
			snap.TotalCredits = snap.TotalCredits.Add(entry.Credit)
		} else {
			entry.Debit = row.effect
			snap.TotalDebits = snap.TotalDebits.Add(entry.Debit)
		}
		snap.Entries = append(snap.Entries, entry)

		dt, ok := days[row.day]
		if !ok {
			dt = &domain.DayTotal{Date: row.day, Debits: decimal.Zero, Credits: decimal.Zero}
			days[row.day] = dt
		}
		dt.Debits = dt.Debits.Add(entry.Debit)
		dt.Credits = dt.Credits.Add(entry.Credit)
		dt.ClosingBalance = running
	}
	snap.ClosingBalance = running

	for _, dt := range days {
		snap.DailyTotals = append(snap.DailyTotals, *dt)
	}
	sort.Slice(snap.DailyTotals, func(i, j int) bool {
		return snap.DailyTotals[i].Date.Before(snap.DailyTotals[j].Date)
	})
	return snap, nil
}

// sortForLedger orders rows deterministically: opening balances first, then by date, then by id.
func sortForLedger(rows []resolved) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.isOpening != b.isOpening {
			return a.isOpening
		}
		if !a.day.Equal(b.day) {
			return a.day.Before(b.day)
		}
		return a.tx.ID < b.tx.ID
	})
}

// Sum adds up the effects of the given transactions on one view. It is Reconstruct without entries,
// used by summaries that only need a closing figure.
func (r *Resolver) Sum(view domain.ViewKind, txs []domain.Transaction) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range txs {
		if t.Date.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: transaction %d has no date", apperrors.ErrMalformedTransaction, t.ID)
		}
		effect, ok, err := r.ResolveEffect(t, view)
		if err != nil {
			return decimal.Zero, err
		}
		if ok {
			total = total.Add(effect)
		}
	}
	return total, nil
}

func windowBounds(w domain.Window) (time.Time, time.Time) {
	var start, end time.Time
	if !w.Start.IsZero() {
		start = domain.DateOnly(w.Start)
	}
	if !w.End.IsZero() {
		end = domain.DateOnly(w.End)
	}
	return start, end
}
