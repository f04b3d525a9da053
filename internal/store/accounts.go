package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openbooks-dev/openbooks/internal/errs"
	"github.com/openbooks-dev/openbooks/internal/model"
)

// InsertAccount adds an account to the chart. A non-zero ID is honored,
// which lets callers seed charts with stable account numbers.
func (s *Store) InsertAccount(ctx context.Context, a *model.Account) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger_accounts (id, number, name, type, active) VALUES (?, ?, ?, ?, ?)`,
		nullID(a.ID), a.Number, a.Name, string(a.Type), a.Active)
	if err != nil {
		return &errs.PersistenceError{Op: "insert account", Err: err}
	}
	if a.ID == 0 {
		a.ID, err = res.LastInsertId()
		if err != nil {
			return &errs.PersistenceError{Op: "insert account", Err: err}
		}
	}
	return nil
}

// GetAccount returns the account with the given id.
func (s *Store) GetAccount(ctx context.Context, id int64) (model.Account, bool, error) {
	var a model.Account
	var typ string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, number, name, type, active FROM ledger_accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Number, &a.Name, &typ, &a.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, false, nil
	}
	if err != nil {
		return model.Account{}, false, fmt.Errorf("querying account %d: %w", id, err)
	}
	a.Type = model.AccountType(typ)
	return a, true, nil
}

// ListAccounts returns the full chart of accounts ordered by id.
func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, number, name, type, active FROM ledger_accounts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		var typ string
		if err := rows.Scan(&a.ID, &a.Number, &a.Name, &typ, &a.Active); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		a.Type = model.AccountType(typ)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// DeactivateAccount marks an account inactive. Accounts referenced by
// journal lines are never deleted.
func (s *Store) DeactivateAccount(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE ledger_accounts SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return &errs.PersistenceError{Op: "deactivate account", Err: err}
	}
	return nil
}

// InsertCategory adds a transaction category, optionally mapped to an
// offset ledger account.
func (s *Store) InsertCategory(ctx context.Context, c *model.Category) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transaction_categories (id, name, account_id) VALUES (?, ?, ?)`,
		nullID(c.ID), c.Name, nullID(c.AccountID))
	if err != nil {
		return &errs.PersistenceError{Op: "insert category", Err: err}
	}
	if c.ID == 0 {
		c.ID, err = res.LastInsertId()
		if err != nil {
			return &errs.PersistenceError{Op: "insert category", Err: err}
		}
	}
	return nil
}

// ListCategories returns all transaction categories ordered by id.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, account_id FROM transaction_categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var acct sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &acct); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.AccountID = scanID(acct)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
