package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks-dev/openbooks/internal/errs"
	"github.com/openbooks-dev/openbooks/internal/id"
	"github.com/openbooks-dev/openbooks/internal/model"
)

// Posting is the full write set of one posted transaction: the
// transaction row, its splits, and the balanced journal entry with its
// lines. CreatePosting persists it as one unit.
type Posting struct {
	Transaction *model.Transaction
	Splits      []model.Split
	Entry       *model.JournalEntry
	Lines       []model.JournalLine

	// SkipIfDuplicate makes CreatePosting a no-op when a transaction
	// with the same date, amount, and description already exists. The
	// check runs inside the write transaction, after the writer lock is
	// held, so concurrent duplicates cannot both pass it. Skipped
	// reports the outcome.
	SkipIfDuplicate bool
	Skipped         bool
}

// CreatePosting persists a posting atomically. On any failure nothing
// is written. IDs and the entry ref are assigned on the way in.
func (s *Store) CreatePosting(ctx context.Context, p *Posting) error {
	return s.withTx(ctx, "create posting", func(tx *sql.Tx) error {
		txn := p.Transaction

		if p.SkipIfDuplicate {
			exists, err := transactionExists(ctx, tx, txn.Date, txn.Amount, txn.Description)
			if err != nil {
				return &errs.PersistenceError{Op: "check duplicate transaction", Err: err}
			}
			if exists {
				p.Skipped = true
				return nil
			}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (date, type, description, amount, cash_account_id, offset_account_id, category_id, notes, reference)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.Date.Format(dateFormat), string(txn.Type), txn.Description, txn.Amount.StringFixed(2),
			txn.CashAccountID, nullID(txn.OffsetAccountID), nullID(txn.CategoryID), txn.Notes, txn.Reference)
		if err != nil {
			return &errs.PersistenceError{Op: "insert transaction", Err: err}
		}
		if txn.ID, err = res.LastInsertId(); err != nil {
			return &errs.PersistenceError{Op: "insert transaction", Err: err}
		}

		for i := range p.Splits {
			sp := &p.Splits[i]
			sp.TransactionID = txn.ID
			res, err := tx.ExecContext(ctx,
				`INSERT INTO splits (transaction_id, amount, category_id, offset_account_id, notes)
				 VALUES (?, ?, ?, ?, ?)`,
				sp.TransactionID, sp.Amount.StringFixed(2), nullID(sp.CategoryID), sp.OffsetAccountID, sp.Notes)
			if err != nil {
				return &errs.PersistenceError{Op: "insert split", Err: err}
			}
			if sp.ID, err = res.LastInsertId(); err != nil {
				return &errs.PersistenceError{Op: "insert split", Err: err}
			}
		}

		entry := p.Entry
		entry.TransactionID = txn.ID

		seq, err := nextEntrySeq(ctx, tx, entry.Date)
		if err != nil {
			return err
		}
		entry.Ref = id.FormatEntryRef(entry.Date.Year(), int(entry.Date.Month()), seq)

		res, err = tx.ExecContext(ctx,
			`INSERT INTO journal_entries (transaction_id, date, ref, memo) VALUES (?, ?, ?, ?)`,
			entry.TransactionID, entry.Date.Format(dateFormat), entry.Ref, entry.Memo)
		if err != nil {
			return &errs.PersistenceError{Op: "insert journal entry", Err: err}
		}
		if entry.ID, err = res.LastInsertId(); err != nil {
			return &errs.PersistenceError{Op: "insert journal entry", Err: err}
		}

		for i := range p.Lines {
			line := &p.Lines[i]
			line.EntryID = entry.ID
			res, err := tx.ExecContext(ctx,
				`INSERT INTO journal_lines (entry_id, account_id, description, debit, credit)
				 VALUES (?, ?, ?, ?, ?)`,
				line.EntryID, line.AccountID, line.Description,
				line.Debit.StringFixed(2), line.Credit.StringFixed(2))
			if err != nil {
				return &errs.PersistenceError{Op: "insert journal line", Err: err}
			}
			if line.ID, err = res.LastInsertId(); err != nil {
				return &errs.PersistenceError{Op: "insert journal line", Err: err}
			}
		}

		return nil
	})
}

// nextEntrySeq returns the next entry sequence for the month of date,
// derived from the highest existing ref so deleted entries never cause
// a reused reference.
func nextEntrySeq(ctx context.Context, tx *sql.Tx, date time.Time) (int, error) {
	prefix := id.FormatEntryRef(date.Year(), int(date.Month()), 0)
	prefix = prefix[:len(prefix)-4] // strip the 4-digit sequence

	rows, err := tx.QueryContext(ctx, `SELECT ref FROM journal_entries WHERE ref LIKE ?`, prefix+"%")
	if err != nil {
		return 0, &errs.PersistenceError{Op: "query entry refs", Err: err}
	}
	defer rows.Close()

	maxSeq := 0
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return 0, &errs.PersistenceError{Op: "scan entry ref", Err: err}
		}
		_, _, seq, err := id.ParseEntryRef(ref)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	if err := rows.Err(); err != nil {
		return 0, &errs.PersistenceError{Op: "query entry refs", Err: err}
	}
	return maxSeq + 1, nil
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx, letting the
// duplicate check run standalone or inside a write transaction.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TransactionExists reports whether a transaction with the same date,
// amount, and description is already recorded (the duplicate check).
func (s *Store) TransactionExists(ctx context.Context, date time.Time, amount decimal.Decimal, description string) (bool, error) {
	exists, err := transactionExists(ctx, s.db, date, amount, description)
	if err != nil {
		return false, fmt.Errorf("checking for duplicate transaction: %w", err)
	}
	return exists, nil
}

func transactionExists(ctx context.Context, q rowQuerier, date time.Time, amount decimal.Decimal, description string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM transactions WHERE date = ? AND amount = ? AND description = ? LIMIT 1`,
		date.Format(dateFormat), amount.StringFixed(2), description).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetTransaction returns a transaction row by id.
func (s *Store) GetTransaction(ctx context.Context, txnID int64) (model.Transaction, bool, error) {
	var t model.Transaction
	var date, typ, amount string
	var offset, category sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, type, description, amount, cash_account_id, offset_account_id, category_id, notes, reference
		 FROM transactions WHERE id = ?`, txnID).
		Scan(&t.ID, &date, &typ, &t.Description, &amount, &t.CashAccountID, &offset, &category, &t.Notes, &t.Reference)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, false, nil
	}
	if err != nil {
		return model.Transaction{}, false, fmt.Errorf("querying transaction %d: %w", txnID, err)
	}

	if t.Date, err = parseDate(date); err != nil {
		return model.Transaction{}, false, err
	}
	if t.Amount, err = parseAmount(amount); err != nil {
		return model.Transaction{}, false, err
	}
	t.Type = model.TxnType(typ)
	t.OffsetAccountID = scanID(offset)
	t.CategoryID = scanID(category)
	return t, true, nil
}

// SplitsForTransaction returns a transaction's splits ordered by id.
func (s *Store) SplitsForTransaction(ctx context.Context, txnID int64) ([]model.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, transaction_id, amount, category_id, offset_account_id, notes
		 FROM splits WHERE transaction_id = ? ORDER BY id ASC`, txnID)
	if err != nil {
		return nil, fmt.Errorf("querying splits: %w", err)
	}
	defer rows.Close()

	var splits []model.Split
	for rows.Next() {
		var sp model.Split
		var amount string
		var category sql.NullInt64
		if err := rows.Scan(&sp.ID, &sp.TransactionID, &amount, &category, &sp.OffsetAccountID, &sp.Notes); err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		if sp.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		sp.CategoryID = scanID(category)
		splits = append(splits, sp)
	}
	return splits, rows.Err()
}
