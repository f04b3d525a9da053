package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/openbooks-dev/openbooks/internal/model"
)

// EntryLine scanning shared by the register and reconciliation reads.
// Lines come back in (date ASC, line id ASC) order; the id tie-break
// keeps same-day entries stable, deposits before later withdrawals.
const entryLineColumns = `l.id, l.entry_id, l.account_id, e.date, l.description, l.debit, l.credit`

// EntryLinesForAccount returns the journal lines touching one account,
// optionally bounded to [start, end] inclusive. Zero times mean
// unbounded. Pure read; repeated calls yield identical results absent
// new postings.
func (s *Store) EntryLinesForAccount(ctx context.Context, accountID int64, start, end time.Time) ([]model.EntryLine, error) {
	q := `SELECT ` + entryLineColumns + `
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE l.account_id = ?`
	args := []any{accountID}

	if !start.IsZero() {
		q += ` AND e.date >= ?`
		args = append(args, start.Format(dateFormat))
	}
	if !end.IsZero() {
		q += ` AND e.date <= ?`
		args = append(args, end.Format(dateFormat))
	}
	q += ` ORDER BY e.date ASC, l.id ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal lines for account %d: %w", accountID, err)
	}
	defer rows.Close()

	return scanEntryLines(rows)
}

// EntryLinesByID returns the lines with the given ids in (date, id)
// order. Missing ids are simply absent from the result.
func (s *Store) EntryLinesByID(ctx context.Context, lineIDs []int64) ([]model.EntryLine, error) {
	if len(lineIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(lineIDs)), ",")
	q := `SELECT ` + entryLineColumns + `
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE l.id IN (` + placeholders + `)
		ORDER BY e.date ASC, l.id ASC`

	args := make([]any, len(lineIDs))
	for i, lid := range lineIDs {
		args[i] = lid
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal lines by id: %w", err)
	}
	defer rows.Close()

	return scanEntryLines(rows)
}

// LinesForEntry returns all lines of one journal entry ordered by id.
func (s *Store) LinesForEntry(ctx context.Context, entryID int64) ([]model.EntryLine, error) {
	q := `SELECT ` + entryLineColumns + `
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE l.entry_id = ?
		ORDER BY l.id ASC`

	rows, err := s.db.QueryContext(ctx, q, entryID)
	if err != nil {
		return nil, fmt.Errorf("querying lines for entry %d: %w", entryID, err)
	}
	defer rows.Close()

	return scanEntryLines(rows)
}

func scanEntryLines(rows *sql.Rows) ([]model.EntryLine, error) {
	var lines []model.EntryLine
	for rows.Next() {
		var l model.EntryLine
		var date, debit, credit string
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &date, &l.Description, &debit, &credit); err != nil {
			return nil, fmt.Errorf("scanning journal line: %w", err)
		}

		var err error
		if l.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if l.Debit, err = parseAmount(debit); err != nil {
			return nil, err
		}
		if l.Credit, err = parseAmount(credit); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
