package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation records one completed review of an account against a
// bank-reported period. Immutable after commit.
type Reconciliation struct {
	ID        int64
	AccountID int64
	Start     time.Time
	End       time.Time
	Opening   decimal.Decimal
	Ending    decimal.Decimal
	CreatedAt time.Time
}

// ReconciledLine links a reconciliation to one cleared journal line.
// A journal line may be cleared by at most one reconciliation.
type ReconciledLine struct {
	ID               int64
	ReconciliationID int64
	JournalLineID    int64
	ClearedAt        time.Time
}
