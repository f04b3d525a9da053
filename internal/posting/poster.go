// Package posting converts transaction requests into balanced journal
// entries. It is the only write path into the journal: one request
// becomes one transaction row, its splits, and one journal entry whose
// debits and credits are equal, persisted as a single atomic unit.
package posting

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks-dev/openbooks/internal/errs"
	"github.com/openbooks-dev/openbooks/internal/model"
	"github.com/openbooks-dev/openbooks/internal/store"
)

// SplitTolerance is how far the sum of a transaction's splits may drift
// from the transaction amount before the posting is rejected.
var SplitTolerance = decimal.New(5, -3) // 0.005

// Registry is the account lookup the poster validates against.
type Registry interface {
	Get(id int64) (model.Account, bool)
	OffsetForCategory(categoryID int64) (int64, bool)
}

// Poster is the transaction posting engine.
type Poster struct {
	store    *store.Store
	accounts Registry
}

// NewPoster creates a Poster backed by the given store and registry.
func NewPoster(st *store.Store, accounts Registry) *Poster {
	return &Poster{store: st, accounts: accounts}
}

// SplitInput is one caller-supplied allocation of a transaction amount.
// The offset account may be explicit, category-mapped, or left to the
// request's default.
type SplitInput struct {
	Amount          decimal.Decimal
	CategoryID      int64
	OffsetAccountID int64
	Notes           string
}

// Request describes one transaction to post.
type Request struct {
	Date            time.Time
	Type            model.TxnType
	Amount          decimal.Decimal
	Description     string
	Notes           string
	Reference       string
	CashAccountID   int64
	OffsetAccountID int64 // transfer destination, or explicit income/expense offset
	CategoryID      int64
	Splits          []SplitInput

	// DefaultOffsetAccountID is the fallback offset when neither the
	// request nor a split names one (directly or via category).
	DefaultOffsetAccountID int64

	// SkipDuplicates makes a same-date/amount/description match a
	// silent no-op instead of a second posting.
	SkipDuplicates bool
}

// Result reports a successful (or skipped) posting.
type Result struct {
	TransactionID int64
	EntryID       int64
	EntryRef      string
	Skipped       bool
}

// Post validates the request, constructs a balanced journal entry, and
// persists everything in one storage transaction. The duplicate check,
// when requested, runs inside that same transaction, so two concurrent
// duplicate posts serialize on the writer lock and only one lands. On
// any error nothing is written.
func (p *Poster) Post(ctx context.Context, req Request) (Result, error) {
	resolved, err := p.validate(req)
	if err != nil {
		return Result{}, err
	}

	posting := p.build(req, resolved)
	if err := p.store.CreatePosting(ctx, posting); err != nil {
		return Result{}, err
	}
	if posting.Skipped {
		return Result{Skipped: true}, nil
	}

	return Result{
		TransactionID: posting.Transaction.ID,
		EntryID:       posting.Entry.ID,
		EntryRef:      posting.Entry.Ref,
	}, nil
}

// resolvedOffsets carries the outcome of offset-account resolution and
// split-amount normalization.
type resolvedOffsets struct {
	offset       int64             // non-split offset (or transfer destination)
	splitOffsets []int64           // one per split, same order
	splitAmounts []decimal.Decimal // one per split, rounded to cents
}

// validate checks the request in the documented order: field shape
// first, then account resolution, then split balance. It never writes.
func (p *Poster) validate(req Request) (resolvedOffsets, error) {
	var res resolvedOffsets

	if !req.Amount.IsPositive() {
		return res, &errs.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if req.Amount.Round(2).IsZero() {
		return res, &errs.ValidationError{Field: "amount", Reason: "must be at least 0.01"}
	}
	if req.Date.IsZero() {
		return res, &errs.ValidationError{Field: "date", Reason: "required"}
	}
	if !req.Type.Valid() {
		return res, &errs.ValidationError{Field: "type", Reason: "must be income, expense, or transfer"}
	}
	if err := p.checkAccount("cash_account_id", req.CashAccountID); err != nil {
		return res, err
	}

	switch req.Type {
	case model.TxnTransfer:
		if len(req.Splits) > 0 {
			return res, &errs.ValidationError{Field: "splits", Reason: "not allowed on transfers"}
		}
		if req.OffsetAccountID == 0 {
			return res, &errs.ValidationError{Field: "offset_account_id", Reason: "destination required for transfer"}
		}
		if err := p.checkAccount("offset_account_id", req.OffsetAccountID); err != nil {
			return res, err
		}
		if req.OffsetAccountID == req.CashAccountID {
			return res, &errs.BalanceError{Row: -1, Reason: "transfer source and destination are the same account"}
		}
		res.offset = req.OffsetAccountID
		return res, nil

	case model.TxnIncome, model.TxnExpense:
		if len(req.Splits) > 0 {
			return p.validateSplits(req)
		}

		offset, ok := p.resolveOffset(req.OffsetAccountID, req.CategoryID, req.DefaultOffsetAccountID)
		if !ok {
			return res, &errs.BalanceError{Row: -1, Reason: "offset account could not be resolved"}
		}
		if err := p.checkAccount("offset_account_id", offset); err != nil {
			return res, err
		}
		if offset == req.CashAccountID {
			return res, &errs.BalanceError{Row: -1, Reason: "cash and offset accounts are the same"}
		}
		res.offset = offset
		return res, nil
	}

	return res, &errs.ValidationError{Field: "type", Reason: "must be income, expense, or transfer"}
}

// validateSplits resolves every split's offset account, checks the
// split-sum invariant, and normalizes the amounts to cents. Any
// unresolved split rejects the whole request before a single write.
func (p *Poster) validateSplits(req Request) (resolvedOffsets, error) {
	res := resolvedOffsets{
		splitOffsets: make([]int64, len(req.Splits)),
		splitAmounts: make([]decimal.Decimal, len(req.Splits)),
	}

	sum := decimal.Zero
	roundedSum := decimal.Zero
	for i, sp := range req.Splits {
		if !sp.Amount.IsPositive() {
			return res, &errs.ValidationError{Field: "splits", Reason: "split amounts must be positive"}
		}
		if sp.Amount.Round(2).IsZero() {
			return res, &errs.ValidationError{Field: "splits", Reason: "split amounts must be at least 0.01"}
		}

		offset, ok := p.resolveOffset(sp.OffsetAccountID, sp.CategoryID, req.DefaultOffsetAccountID)
		if !ok {
			return res, &errs.BalanceError{Row: i, Reason: "split offset account could not be resolved"}
		}
		if err := p.checkAccount("splits", offset); err != nil {
			return res, err
		}
		if offset == req.CashAccountID {
			return res, &errs.BalanceError{Row: i, Reason: "split offset equals the cash account"}
		}

		res.splitOffsets[i] = offset
		res.splitAmounts[i] = sp.Amount.Round(2)
		sum = sum.Add(sp.Amount)
		roundedSum = roundedSum.Add(res.splitAmounts[i])
	}

	if sum.Sub(req.Amount).Abs().GreaterThan(SplitTolerance) {
		return res, &errs.BalanceError{
			Row:      -1,
			Reason:   "split amounts do not sum to the transaction amount",
			Expected: req.Amount,
			Actual:   sum,
		}
	}

	// Lines are stored in cents while the cash line carries the full
	// amount, so per-split rounding residue must land somewhere: the last
	// split absorbs it, keeping the stored entry's debits equal to its
	// credits exactly.
	last := len(res.splitAmounts) - 1
	res.splitAmounts[last] = res.splitAmounts[last].Add(req.Amount.Round(2).Sub(roundedSum))
	if !res.splitAmounts[last].IsPositive() {
		return res, &errs.BalanceError{Row: last, Reason: "rounding leaves the last split non-positive"}
	}
	return res, nil
}

// resolveOffset applies the resolution order: explicit account, then
// category mapping, then the caller-supplied default.
func (p *Poster) resolveOffset(explicit, categoryID, fallback int64) (int64, bool) {
	if explicit != 0 {
		return explicit, true
	}
	if categoryID != 0 {
		if acct, ok := p.accounts.OffsetForCategory(categoryID); ok {
			return acct, true
		}
	}
	if fallback != 0 {
		return fallback, true
	}
	return 0, false
}

func (p *Poster) checkAccount(field string, accountID int64) error {
	acct, ok := p.accounts.Get(accountID)
	if !ok {
		return &errs.ValidationError{Field: field, Reason: "unknown account"}
	}
	if !acct.Active {
		return &errs.ValidationError{Field: field, Reason: "account is inactive"}
	}
	return nil
}

// build constructs the journal entry for a validated request. The cash
// line carries the full amount; income debits cash and credits the
// offsets, expense is the inverse, and a transfer debits the
// destination and credits the source.
func (p *Poster) build(req Request, resolved resolvedOffsets) *store.Posting {
	amount := req.Amount.Round(2)
	txn := &model.Transaction{
		Date:          req.Date,
		Type:          req.Type,
		Description:   req.Description,
		Amount:        amount,
		CashAccountID: req.CashAccountID,
		CategoryID:    req.CategoryID,
		Notes:         req.Notes,
		Reference:     req.Reference,
	}

	entry := &model.JournalEntry{Date: req.Date, Memo: req.Description}

	cashDebit := req.Type == model.TxnIncome // income increases cash on the debit side
	cash := model.JournalLine{AccountID: req.CashAccountID, Description: req.Description}
	if cashDebit {
		cash.Debit = amount
	} else {
		cash.Credit = amount
	}
	lines := []model.JournalLine{cash}

	var splits []model.Split
	if len(req.Splits) > 0 {
		for i, sp := range req.Splits {
			splits = append(splits, model.Split{
				Amount:          resolved.splitAmounts[i],
				CategoryID:      sp.CategoryID,
				OffsetAccountID: resolved.splitOffsets[i],
				Notes:           sp.Notes,
			})
			lines = append(lines, offsetLine(resolved.splitOffsets[i], req.Description, resolved.splitAmounts[i], !cashDebit))
		}
	} else {
		txn.OffsetAccountID = resolved.offset
		lines = append(lines, offsetLine(resolved.offset, req.Description, amount, !cashDebit))
	}

	return &store.Posting{Transaction: txn, Splits: splits, Entry: entry, Lines: lines, SkipIfDuplicate: req.SkipDuplicates}
}

func offsetLine(accountID int64, description string, amount decimal.Decimal, debit bool) model.JournalLine {
	line := model.JournalLine{AccountID: accountID, Description: description}
	if debit {
		line.Debit = amount
	} else {
		line.Credit = amount
	}
	return line
}

// RowError ties a batch error to the request row that caused it.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return e.Err.Error() }

func (e RowError) Unwrap() error { return e.Err }

// BatchResult summarizes a PostBatch run.
type BatchResult struct {
	Posted    []Result
	Skipped   int
	RowErrors []RowError
}

// PostBatch posts each request in order. Validation and balance errors
// are collected per row and do not stop the batch; a persistence
// failure aborts it, since later results could not be trusted.
func (p *Poster) PostBatch(ctx context.Context, reqs []Request) (BatchResult, error) {
	var batch BatchResult
	for i, req := range reqs {
		result, err := p.Post(ctx, req)
		if err != nil {
			var pErr *errs.PersistenceError
			if errors.As(err, &pErr) {
				return batch, err
			}
			batch.RowErrors = append(batch.RowErrors, RowError{Row: i, Err: err})
			continue
		}
		if result.Skipped {
			batch.Skipped++
			continue
		}
		batch.Posted = append(batch.Posted, result)
	}
	return batch, nil
}
