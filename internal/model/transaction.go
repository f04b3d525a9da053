package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType is the business-level kind of a transaction.
type TxnType string

const (
	TxnIncome   TxnType = "income"
	TxnExpense  TxnType = "expense"
	TxnTransfer TxnType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TxnType) Valid() bool {
	return t == TxnIncome || t == TxnExpense || t == TxnTransfer
}

// Transaction is a single business event: money in, money out, or a
// move between two accounts. Amounts are immutable once posted;
// corrections are new transactions.
type Transaction struct {
	ID              int64
	Date            time.Time
	Type            TxnType
	Description     string
	Amount          decimal.Decimal // always positive
	CashAccountID   int64
	OffsetAccountID int64 // 0 when splits carry their own offsets
	CategoryID      int64
	Notes           string
	Reference       string
}

// Split allocates part of a transaction's amount to one category and
// offset account. A transaction's splits must sum to its amount.
type Split struct {
	ID              int64
	TransactionID   int64
	Amount          decimal.Decimal // always positive
	CategoryID      int64
	OffsetAccountID int64 // resolved before posting, never 0 in storage
	Notes           string
}
