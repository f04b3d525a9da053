package reconcile

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks-dev/openbooks/internal/accounts"
	"github.com/openbooks-dev/openbooks/internal/errs"
	"github.com/openbooks-dev/openbooks/internal/model"
	"github.com/openbooks-dev/openbooks/internal/posting"
	"github.com/openbooks-dev/openbooks/internal/store"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

var testChart = []model.Account{
	{ID: 101, Number: "1010", Name: "Checking", Type: model.AccountTypeAsset, Active: true},
	{ID: 102, Number: "1020", Name: "Savings", Type: model.AccountTypeAsset, Active: true},
	{ID: 401, Number: "4010", Name: "Service Revenue", Type: model.AccountTypeIncome, Active: true},
	{ID: 601, Number: "6010", Name: "Utilities", Type: model.AccountTypeExpense, Active: true},
}

func newTestEngine(t *testing.T) (*Engine, *posting.Poster, *store.Store) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	for _, a := range testChart {
		acct := a
		require.NoError(t, st.InsertAccount(ctx, &acct))
	}

	registry := accounts.NewService(testChart, nil)
	return NewEngine(st), posting.NewPoster(st, registry), st
}

func postExpense(t *testing.T, poster *posting.Poster, day int, amount, desc string) {
	t.Helper()
	_, err := poster.Post(context.Background(), posting.Request{
		Date:            date(2024, 1, day),
		Type:            model.TxnExpense,
		Amount:          dec(amount),
		Description:     desc,
		CashAccountID:   101,
		OffsetAccountID: 601,
	})
	require.NoError(t, err)
}

func TestReview_SignedAmounts(t *testing.T) {
	engine, poster, _ := newTestEngine(t)

	postExpense(t, poster, 5, "100.00", "Electric bill")
	postExpense(t, poster, 9, "50.00", "Water bill")

	candidates, err := engine.Review(context.Background(), 101, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Cash was credited, so the signed amounts are negative.
	assert.True(t, candidates[0].Amount.Equal(dec("-100.00")))
	assert.True(t, candidates[1].Amount.Equal(dec("-50.00")))
	assert.False(t, candidates[0].Cleared)
}

func TestCommit_ZeroDifference(t *testing.T) {
	engine, poster, _ := newTestEngine(t)

	postExpense(t, poster, 5, "100.00", "Electric bill")
	postExpense(t, poster, 9, "50.00", "Water bill")

	candidates, err := engine.Review(context.Background(), 101, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	result, err := engine.Commit(context.Background(), CommitParams{
		AccountID: 101,
		Start:     date(2024, 1, 1),
		End:       date(2024, 1, 31),
		Opening:   dec("1000.00"),
		Ending:    dec("850.00"),
		LineIDs:   []int64{candidates[0].LineID, candidates[1].LineID},
	})
	require.NoError(t, err)
	assert.NotZero(t, result.ReconciliationID)
	assert.True(t, result.ClearedTotal.Equal(dec("-150.00")))
	assert.True(t, result.Difference.IsZero(), "difference was %s", result.Difference)
}

func TestCommit_NonZeroDifferenceIsWarningOnly(t *testing.T) {
	engine, poster, st := newTestEngine(t)

	postExpense(t, poster, 5, "100.00", "Electric bill")

	candidates, err := engine.Review(context.Background(), 101, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)

	result, err := engine.Commit(context.Background(), CommitParams{
		AccountID: 101,
		Start:     date(2024, 1, 1),
		End:       date(2024, 1, 31),
		Opening:   dec("1000.00"),
		Ending:    dec("850.00"),
		LineIDs:   []int64{candidates[0].LineID},
	})
	require.NoError(t, err, "an unreconciled difference must not block the commit")
	assert.True(t, result.Difference.Equal(dec("-50.00")))

	// The commit really persisted.
	_, ok, err := st.GetReconciliation(context.Background(), result.ReconciliationID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCommit_AlreadyReconciledRejected(t *testing.T) {
	engine, poster, _ := newTestEngine(t)

	postExpense(t, poster, 5, "100.00", "Electric bill")

	candidates, err := engine.Review(context.Background(), 101, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	lineID := candidates[0].LineID

	params := CommitParams{
		AccountID: 101,
		Start:     date(2024, 1, 1),
		End:       date(2024, 1, 31),
		Opening:   dec("1000.00"),
		Ending:    dec("900.00"),
		LineIDs:   []int64{lineID},
	}
	first, err := engine.Commit(context.Background(), params)
	require.NoError(t, err)

	_, err = engine.Commit(context.Background(), params)
	var alreadyErr *errs.AlreadyReconciledError
	require.ErrorAs(t, err, &alreadyErr)
	assert.Equal(t, lineID, alreadyErr.JournalLineID)
	assert.Equal(t, first.ReconciliationID, alreadyErr.ReconciliationID)

	// Review now shows the line as cleared.
	candidates, err = engine.Review(context.Background(), 101, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	assert.True(t, candidates[0].Cleared)
}

func TestCommit_DuplicateLineIDsClearOnce(t *testing.T) {
	engine, poster, st := newTestEngine(t)

	postExpense(t, poster, 5, "100.00", "Electric bill")

	candidates, err := engine.Review(context.Background(), 101, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	lineID := candidates[0].LineID

	result, err := engine.Commit(context.Background(), CommitParams{
		AccountID: 101,
		Start:     date(2024, 1, 1),
		End:       date(2024, 1, 31),
		Opening:   dec("1000.00"),
		Ending:    dec("900.00"),
		LineIDs:   []int64{lineID, lineID},
	})
	require.NoError(t, err)

	// Counted once, cleared once.
	assert.True(t, result.ClearedTotal.Equal(dec("-100.00")))
	links, err := st.ReconciledLines(context.Background(), result.ReconciliationID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestCommit_ValidationFailures(t *testing.T) {
	engine, poster, _ := newTestEngine(t)

	postExpense(t, poster, 5, "100.00", "Electric bill")
	candidates, err := engine.Review(context.Background(), 101, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)

	// Unknown line id.
	_, err = engine.Commit(context.Background(), CommitParams{
		AccountID: 101,
		Start:     date(2024, 1, 1), End: date(2024, 1, 31),
		Opening: dec("0"), Ending: dec("0"),
		LineIDs: []int64{9999},
	})
	var valErr *errs.ValidationError
	require.ErrorAs(t, err, &valErr)

	// Line belonging to another account. The expense posting also wrote
	// a line against 601; find it through its own review.
	other, err := engine.Review(context.Background(), 601, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	require.Len(t, other, 1)

	_, err = engine.Commit(context.Background(), CommitParams{
		AccountID: 101,
		Start:     date(2024, 1, 1), End: date(2024, 1, 31),
		Opening: dec("0"), Ending: dec("0"),
		LineIDs: []int64{candidates[0].LineID, other[0].LineID},
	})
	require.ErrorAs(t, err, &valErr)

	// Inverted period.
	_, err = engine.Commit(context.Background(), CommitParams{
		AccountID: 101,
		Start:     date(2024, 1, 31), End: date(2024, 1, 1),
		Opening: dec("0"), Ending: dec("0"),
		LineIDs: []int64{candidates[0].LineID},
	})
	require.ErrorAs(t, err, &valErr)
}

func TestWriteCSV_Report(t *testing.T) {
	engine, poster, st := newTestEngine(t)

	postExpense(t, poster, 5, "100.00", "Electric bill")
	postExpense(t, poster, 9, "50.00", "Water bill")

	candidates, err := engine.Review(context.Background(), 101, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)

	result, err := engine.Commit(context.Background(), CommitParams{
		AccountID: 101,
		Start:     date(2024, 1, 1),
		End:       date(2024, 1, 31),
		Opening:   dec("1000.00"),
		Ending:    dec("850.00"),
		LineIDs:   []int64{candidates[0].LineID, candidates[1].LineID},
	})
	require.NoError(t, err)

	rec, ok, err := st.GetReconciliation(context.Background(), result.ReconciliationID)
	require.NoError(t, err)
	require.True(t, ok)

	cleared, err := engine.ClearedLines(context.Background(), result.ReconciliationID)
	require.NoError(t, err)
	require.Len(t, cleared, 2)

	var buf bytes.Buffer
	account := model.Account{ID: 101, Name: "Checking"}
	generated := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, WriteCSV(&buf, account, rec, cleared, generated))

	rows := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "Report,Reconciliation Report", rows[0])
	assert.Equal(t, "Account,Checking", rows[1])
	assert.Equal(t, "Period,2024-01-01 to 2024-01-31", rows[2])
	assert.Equal(t, "Opening,1000.00", rows[3])
	assert.Equal(t, "Ending,850.00", rows[4])
	assert.Equal(t, "Generated,2024-02-01T09:00:00Z", rows[5])
	assert.Equal(t, "", rows[6])
	assert.Equal(t, "Date,Description,Amount", rows[7])
	assert.Equal(t, "2024-01-05,Electric bill,-100.00", rows[8])
	assert.Equal(t, "2024-01-09,Water bill,-50.00", rows[9])
	assert.Equal(t, "Cleared total,-150.00", rows[10])
	assert.Equal(t, "Opening + Cleared,850.00", rows[11])
	assert.Equal(t, "Difference vs Ending,0.00", rows[12])
}
