package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openbooks-dev/openbooks/internal/errs"
	"github.com/openbooks-dev/openbooks/internal/model"
)

// CommitReconciliation persists a reconciliation header and one cleared
// line per selected journal line as a single unit. Each selected line
// is re-checked inside the transaction; a line already cleared by a
// prior reconciliation aborts the whole commit with
// AlreadyReconciledError. The UNIQUE index on
// reconciled_lines.journal_line_id backs the check at schema level.
func (s *Store) CommitReconciliation(ctx context.Context, rec *model.Reconciliation, lineIDs []int64, clearedAt time.Time) error {
	return s.withTx(ctx, "commit reconciliation", func(tx *sql.Tx) error {
		for _, lid := range lineIDs {
			var prior int64
			err := tx.QueryRowContext(ctx,
				`SELECT reconciliation_id FROM reconciled_lines WHERE journal_line_id = ?`, lid).Scan(&prior)
			if err == nil {
				return &errs.AlreadyReconciledError{JournalLineID: lid, ReconciliationID: prior}
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return &errs.PersistenceError{Op: "check cleared line", Err: err}
			}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO reconciliations (account_id, start_date, end_date, opening_balance, ending_balance, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.AccountID, rec.Start.Format(dateFormat), rec.End.Format(dateFormat),
			rec.Opening.StringFixed(2), rec.Ending.StringFixed(2), rec.CreatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return &errs.PersistenceError{Op: "insert reconciliation", Err: err}
		}
		if rec.ID, err = res.LastInsertId(); err != nil {
			return &errs.PersistenceError{Op: "insert reconciliation", Err: err}
		}

		for _, lid := range lineIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO reconciled_lines (reconciliation_id, journal_line_id, cleared_at)
				 VALUES (?, ?, ?)`,
				rec.ID, lid, clearedAt.UTC().Format(time.RFC3339)); err != nil {
				return &errs.PersistenceError{Op: "insert reconciled line", Err: err}
			}
		}

		return nil
	})
}

// GetReconciliation returns a reconciliation header by id.
func (s *Store) GetReconciliation(ctx context.Context, recID int64) (model.Reconciliation, bool, error) {
	var rec model.Reconciliation
	var start, end, opening, ending, created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, start_date, end_date, opening_balance, ending_balance, created_at
		 FROM reconciliations WHERE id = ?`, recID).
		Scan(&rec.ID, &rec.AccountID, &start, &end, &opening, &ending, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reconciliation{}, false, nil
	}
	if err != nil {
		return model.Reconciliation{}, false, fmt.Errorf("querying reconciliation %d: %w", recID, err)
	}

	if rec.Start, err = parseDate(start); err != nil {
		return model.Reconciliation{}, false, err
	}
	if rec.End, err = parseDate(end); err != nil {
		return model.Reconciliation{}, false, err
	}
	if rec.Opening, err = parseAmount(opening); err != nil {
		return model.Reconciliation{}, false, err
	}
	if rec.Ending, err = parseAmount(ending); err != nil {
		return model.Reconciliation{}, false, err
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return model.Reconciliation{}, false, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	return rec, true, nil
}

// ReconciledLines returns the cleared-line links of one reconciliation
// ordered by journal line id.
func (s *Store) ReconciledLines(ctx context.Context, recID int64) ([]model.ReconciledLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reconciliation_id, journal_line_id, cleared_at
		 FROM reconciled_lines WHERE reconciliation_id = ? ORDER BY journal_line_id ASC`, recID)
	if err != nil {
		return nil, fmt.Errorf("querying reconciled lines: %w", err)
	}
	defer rows.Close()

	var links []model.ReconciledLine
	for rows.Next() {
		var rl model.ReconciledLine
		var cleared string
		if err := rows.Scan(&rl.ID, &rl.ReconciliationID, &rl.JournalLineID, &cleared); err != nil {
			return nil, fmt.Errorf("scanning reconciled line: %w", err)
		}
		if rl.ClearedAt, err = time.Parse(time.RFC3339, cleared); err != nil {
			return nil, fmt.Errorf("parsing cleared_at %q: %w", cleared, err)
		}
		links = append(links, rl)
	}
	return links, rows.Err()
}

// ClearedBy returns the id of the reconciliation that cleared a journal
// line, if any.
func (s *Store) ClearedBy(ctx context.Context, lineID int64) (int64, bool, error) {
	var recID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT reconciliation_id FROM reconciled_lines WHERE journal_line_id = ?`, lineID).Scan(&recID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying cleared state of line %d: %w", lineID, err)
	}
	return recID, true, nil
}
