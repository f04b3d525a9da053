// Package errs defines the error taxonomy shared by the posting and
// reconciliation paths. Validation and balance errors are rejected
// before any write and carry enough context to fix the input;
// persistence errors roll back the enclosing unit and surface as an
// opaque failure with driver detail reachable via errors.Unwrap.
package errs

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports a malformed or missing required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// BalanceError reports an input that is well-formed but cannot produce
// a balanced entry: a split sum that misses the transaction amount, a
// self-referencing cash/offset pair, or an unresolvable offset account.
// Row is the offending split or batch row index, -1 when the error is
// not row-scoped.
type BalanceError struct {
	Row      int
	Reason   string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *BalanceError) Error() string {
	msg := e.Reason
	if !e.Expected.Equal(e.Actual) || !e.Expected.IsZero() {
		msg = fmt.Sprintf("%s (expected %s, got %s)", e.Reason, e.Expected.StringFixed(2), e.Actual.StringFixed(2))
	}
	if e.Row >= 0 {
		return fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	return msg
}

// AlreadyReconciledError reports an attempt to clear a journal line
// that a prior reconciliation already cleared.
type AlreadyReconciledError struct {
	JournalLineID    int64
	ReconciliationID int64
}

func (e *AlreadyReconciledError) Error() string {
	return fmt.Sprintf("journal line %d already cleared by reconciliation %d", e.JournalLineID, e.ReconciliationID)
}

// PersistenceError reports a storage failure mid-write. The message is
// deliberately generic; the wrapped driver error carries the detail.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage failure during %s", e.Op)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
