// Package reconcile matches journal lines against bank-reported
// periods. A review fetches candidates without writing anything; a
// commit persists the reconciliation and its cleared lines atomically
// and is terminal — there is no un-commit.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks-dev/openbooks/internal/errs"
	"github.com/openbooks-dev/openbooks/internal/model"
	"github.com/openbooks-dev/openbooks/internal/store"
)

// Engine drives the review/commit reconciliation workflow.
type Engine struct {
	store *store.Store
	now   func() time.Time
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st, now: time.Now}
}

// Candidate is one journal line offered for clearing, shown as a
// signed amount (debit minus credit).
type Candidate struct {
	LineID      int64
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Cleared     bool // already claimed by a prior reconciliation
}

// Review returns the account's journal lines in the period as
// candidates for clearing. Nothing is persisted.
func (e *Engine) Review(ctx context.Context, accountID int64, start, end time.Time) ([]Candidate, error) {
	rows, err := e.store.EntryLinesForAccount(ctx, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("reviewing account %d: %w", accountID, err)
	}

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		_, cleared, err := e.store.ClearedBy(ctx, row.LineID)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{
			LineID:      row.LineID,
			Date:        row.Date,
			Description: row.Description,
			Amount:      row.Signed(),
			Cleared:     cleared,
		})
	}
	return candidates, nil
}

// CommitParams describe one reconciliation commit.
type CommitParams struct {
	AccountID int64
	Start     time.Time
	End       time.Time
	Opening   decimal.Decimal
	Ending    decimal.Decimal
	LineIDs   []int64
}

// CommitResult reports a committed reconciliation. A non-zero
// Difference is a warning for the caller, not a failure: the commit
// has already succeeded.
type CommitResult struct {
	ReconciliationID int64
	ClearedTotal     decimal.Decimal
	Difference       decimal.Decimal
}

// Commit persists the reconciliation header and one cleared line per
// selected journal line in a single storage transaction. A selected
// line already cleared by a prior reconciliation fails the whole
// commit with AlreadyReconciledError; any persistence failure rolls
// everything back, so a header never exists without its lines.
func (e *Engine) Commit(ctx context.Context, params CommitParams) (CommitResult, error) {
	if params.AccountID == 0 {
		return CommitResult{}, &errs.ValidationError{Field: "account_id", Reason: "required"}
	}
	if params.Start.IsZero() || params.End.IsZero() {
		return CommitResult{}, &errs.ValidationError{Field: "period", Reason: "start and end dates required"}
	}
	if params.End.Before(params.Start) {
		return CommitResult{}, &errs.ValidationError{Field: "period", Reason: "end date precedes start date"}
	}

	// A line selected twice clears once and counts once.
	lineIDs := make([]int64, 0, len(params.LineIDs))
	seen := make(map[int64]struct{}, len(params.LineIDs))
	for _, lid := range params.LineIDs {
		if _, dup := seen[lid]; dup {
			continue
		}
		seen[lid] = struct{}{}
		lineIDs = append(lineIDs, lid)
	}

	selected, err := e.store.EntryLinesByID(ctx, lineIDs)
	if err != nil {
		return CommitResult{}, err
	}
	if len(selected) != len(lineIDs) {
		return CommitResult{}, &errs.ValidationError{Field: "line_ids", Reason: "unknown journal line selected"}
	}

	cleared := decimal.Zero
	for _, line := range selected {
		if line.AccountID != params.AccountID {
			return CommitResult{}, &errs.ValidationError{
				Field:  "line_ids",
				Reason: fmt.Sprintf("journal line %d belongs to another account", line.LineID),
			}
		}
		cleared = cleared.Add(line.Signed())
	}

	rec := &model.Reconciliation{
		AccountID: params.AccountID,
		Start:     params.Start,
		End:       params.End,
		Opening:   params.Opening,
		Ending:    params.Ending,
		CreatedAt: e.now(),
	}

	if err := e.store.CommitReconciliation(ctx, rec, lineIDs, e.now()); err != nil {
		return CommitResult{}, err
	}

	difference := params.Ending.Sub(params.Opening.Add(cleared))
	return CommitResult{
		ReconciliationID: rec.ID,
		ClearedTotal:     cleared,
		Difference:       difference,
	}, nil
}

// ClearedLines returns the candidates cleared by a committed
// reconciliation, for reporting.
func (e *Engine) ClearedLines(ctx context.Context, recID int64) ([]Candidate, error) {
	links, err := e.store.ReconciledLines(ctx, recID)
	if err != nil {
		return nil, err
	}

	lineIDs := make([]int64, len(links))
	for i, link := range links {
		lineIDs[i] = link.JournalLineID
	}

	rows, err := e.store.EntryLinesByID(ctx, lineIDs)
	if err != nil {
		return nil, err
	}

	cleared := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		cleared = append(cleared, Candidate{
			LineID:      row.LineID,
			Date:        row.Date,
			Description: row.Description,
			Amount:      row.Signed(),
			Cleared:     true,
		})
	}
	return cleared, nil
}
