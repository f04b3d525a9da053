package store

import (
	"database/sql"
	"fmt"
)

// schemaVersion is bumped whenever the DDL below changes. The schema is
// resolved once at Open; no query branches on column existence.
const schemaVersion = 1

const schemaDDL = `
CREATE TABLE ledger_accounts (
	id      INTEGER PRIMARY KEY,
	number  TEXT NOT NULL DEFAULT '',
	name    TEXT NOT NULL,
	type    TEXT NOT NULL,
	active  INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE transaction_categories (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	account_id INTEGER REFERENCES ledger_accounts(id)
);

CREATE TABLE transactions (
	id                INTEGER PRIMARY KEY,
	date              TEXT NOT NULL,
	type              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	amount            TEXT NOT NULL,
	cash_account_id   INTEGER NOT NULL REFERENCES ledger_accounts(id),
	offset_account_id INTEGER REFERENCES ledger_accounts(id),
	category_id       INTEGER REFERENCES transaction_categories(id),
	notes             TEXT NOT NULL DEFAULT '',
	reference         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX idx_transactions_dup ON transactions(date, amount, description);

CREATE TABLE splits (
	id                INTEGER PRIMARY KEY,
	transaction_id    INTEGER NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
	amount            TEXT NOT NULL,
	category_id       INTEGER REFERENCES transaction_categories(id),
	offset_account_id INTEGER NOT NULL REFERENCES ledger_accounts(id),
	notes             TEXT NOT NULL DEFAULT ''
);
CREATE INDEX idx_splits_transaction ON splits(transaction_id);

CREATE TABLE journal_entries (
	id             INTEGER PRIMARY KEY,
	transaction_id INTEGER REFERENCES transactions(id),
	date           TEXT NOT NULL,
	ref            TEXT NOT NULL UNIQUE,
	memo           TEXT NOT NULL DEFAULT ''
);

CREATE TABLE journal_lines (
	id          INTEGER PRIMARY KEY,
	entry_id    INTEGER NOT NULL REFERENCES journal_entries(id) ON DELETE CASCADE,
	account_id  INTEGER NOT NULL REFERENCES ledger_accounts(id),
	description TEXT NOT NULL DEFAULT '',
	debit       TEXT NOT NULL DEFAULT '0.00',
	credit      TEXT NOT NULL DEFAULT '0.00'
);
CREATE INDEX idx_journal_lines_account ON journal_lines(account_id);

CREATE TABLE reconciliations (
	id              INTEGER PRIMARY KEY,
	account_id      INTEGER NOT NULL REFERENCES ledger_accounts(id),
	start_date      TEXT NOT NULL,
	end_date        TEXT NOT NULL,
	opening_balance TEXT NOT NULL,
	ending_balance  TEXT NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE TABLE reconciled_lines (
	id                INTEGER PRIMARY KEY,
	reconciliation_id INTEGER NOT NULL REFERENCES reconciliations(id) ON DELETE CASCADE,
	journal_line_id   INTEGER NOT NULL UNIQUE REFERENCES journal_lines(id),
	cleared_at        TEXT NOT NULL
);
`

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion)
	case version != 0:
		return fmt.Errorf("unsupported schema version %d", version)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}
	return nil
}
