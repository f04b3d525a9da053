// Package register produces the ordered, running-balance view of one
// account's journal lines, and renders it as CSV.
package register

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks-dev/openbooks/internal/model"
	"github.com/openbooks-dev/openbooks/internal/store"
)

// Options scope a register query. Zero times mean unbounded; Opening is
// the balance carried into the period (zero for a full-history view).
type Options struct {
	Start   time.Time
	End     time.Time
	Opening decimal.Decimal
}

// Register is the account register read model. Pure reads; no side
// effects.
type Register struct {
	store *store.Store
}

// New creates a Register backed by the given store.
func New(st *store.Store) *Register {
	return &Register{store: st}
}

// Lines returns the account's journal lines in (date, line id) order
// with the running balance after each: balance[i] = balance[i-1] +
// debit[i] - credit[i], starting from opts.Opening.
func (r *Register) Lines(ctx context.Context, accountID int64, opts Options) ([]model.RegisterLine, error) {
	rows, err := r.store.EntryLinesForAccount(ctx, accountID, opts.Start, opts.End)
	if err != nil {
		return nil, fmt.Errorf("reading register for account %d: %w", accountID, err)
	}

	lines := make([]model.RegisterLine, 0, len(rows))
	balance := opts.Opening
	for _, row := range rows {
		balance = balance.Add(row.Debit).Sub(row.Credit)
		lines = append(lines, model.RegisterLine{
			LineID:      row.LineID,
			Date:        row.Date,
			Description: row.Description,
			Debit:       row.Debit,
			Credit:      row.Credit,
			Balance:     balance,
		})
	}
	return lines, nil
}

// Balance returns the account's balance after its last journal line.
func (r *Register) Balance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	lines, err := r.Lines(ctx, accountID, Options{})
	if err != nil {
		return decimal.Zero, err
	}
	if len(lines) == 0 {
		return decimal.Zero, nil
	}
	return lines[len(lines)-1].Balance, nil
}
