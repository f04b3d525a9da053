package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one atomic, balanced set of debit/credit movements.
// Its lines always sum to equal debits and credits, exactly.
type JournalEntry struct {
	ID            int64
	TransactionID int64
	Date          time.Time
	Ref           string // human-readable reference, e.g. "JE-2024-01-0001"
	Memo          string
}

// JournalLine is one account-level movement within an entry. Exactly
// one of Debit/Credit is strictly positive; the other is zero.
type JournalLine struct {
	ID          int64
	EntryID     int64
	AccountID   int64
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Signed returns the line's amount as debit minus credit.
func (l JournalLine) Signed() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// EntryLine is a journal line joined with its entry's date, the shape
// read paths (register, reconciliation review) work with.
type EntryLine struct {
	LineID      int64
	EntryID     int64
	AccountID   int64
	Date        time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Signed returns the line's amount as debit minus credit.
func (l EntryLine) Signed() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// RegisterLine is one row of an account register view: a journal line
// plus the running balance after it.
type RegisterLine struct {
	LineID      int64
	Date        time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// Balanced reports whether lines sum to equal debits and credits.
func Balanced(lines []JournalLine) bool {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	return totalDebit.Equal(totalCredit)
}
