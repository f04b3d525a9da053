package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceError_Messages(t *testing.T) {
	mismatch := &BalanceError{
		Row:      -1,
		Reason:   "split amounts do not sum to the transaction amount",
		Expected: decimal.NewFromInt(500),
		Actual:   decimal.RequireFromString("499.99"),
	}
	assert.Equal(t,
		"split amounts do not sum to the transaction amount (expected 500.00, got 499.99)",
		mismatch.Error())

	rowScoped := &BalanceError{Row: 2, Reason: "split offset account could not be resolved"}
	assert.Equal(t, "row 2: split offset account could not be resolved", rowScoped.Error())

	plain := &BalanceError{Row: -1, Reason: "cash and offset accounts are the same"}
	assert.Equal(t, "cash and offset accounts are the same", plain.Error())
}

func TestPersistenceError_OpaqueWithUnwrap(t *testing.T) {
	cause := fmt.Errorf("database is locked")
	err := &PersistenceError{Op: "insert journal entry", Err: cause}

	assert.Equal(t, "storage failure during insert journal entry", err.Error())
	assert.NotContains(t, err.Error(), "locked")
	assert.ErrorIs(t, err, cause)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "amount", Reason: "must be positive"}
	assert.Equal(t, "invalid amount: must be positive", err.Error())
}

func TestAlreadyReconciledError_Message(t *testing.T) {
	err := &AlreadyReconciledError{JournalLineID: 12, ReconciliationID: 3}
	assert.Equal(t, "journal line 12 already cleared by reconciliation 3", err.Error())

	var target *AlreadyReconciledError
	assert.True(t, errors.As(fmt.Errorf("commit: %w", err), &target))
}
