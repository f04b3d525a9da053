package register

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
	{ID: 401, Number: "4010", Name: "Service Revenue", Type: model.AccountTypeIncome, Active: true},
	{ID: 601, Number: "6010", Name: "Utilities", Type: model.AccountTypeExpense, Active: true},
}

func newTestRegister(t *testing.T) (*Register, *posting.Poster) {
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
	return New(st), posting.NewPoster(st, registry)
}

func post(t *testing.T, poster *posting.Poster, day int, typ model.TxnType, amount, desc string, offset int64) {
	t.Helper()
	_, err := poster.Post(context.Background(), posting.Request{
		Date:            date(2024, 1, day),
		Type:            typ,
		Amount:          dec(amount),
		Description:     desc,
		CashAccountID:   101,
		OffsetAccountID: offset,
	})
	require.NoError(t, err)
}

func TestLines_RunningBalance(t *testing.T) {
	reg, poster := newTestRegister(t)

	post(t, poster, 2, model.TxnIncome, "1000.00", "Invoice paid", 401)
	post(t, poster, 5, model.TxnExpense, "150.00", "Electric bill", 601)
	post(t, poster, 9, model.TxnExpense, "50.00", "Water bill", 601)

	lines, err := reg.Lines(context.Background(), 101, Options{})
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.True(t, lines[0].Balance.Equal(dec("1000.00")))
	assert.True(t, lines[1].Balance.Equal(dec("850.00")))
	assert.True(t, lines[2].Balance.Equal(dec("800.00")))

	// balance[i] = balance[i-1] + debit[i] - credit[i].
	for i := 1; i < len(lines); i++ {
		want := lines[i-1].Balance.Add(lines[i].Debit).Sub(lines[i].Credit)
		assert.True(t, lines[i].Balance.Equal(want), "line %d balance", i)
	}
}

func TestLines_Repeatable(t *testing.T) {
	reg, poster := newTestRegister(t)

	post(t, poster, 2, model.TxnIncome, "1000.00", "Invoice paid", 401)
	post(t, poster, 5, model.TxnExpense, "150.00", "Electric bill", 601)

	first, err := reg.Lines(context.Background(), 101, Options{})
	require.NoError(t, err)
	second, err := reg.Lines(context.Background(), 101, Options{})
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].LineID, second[i].LineID)
		assert.True(t, first[i].Balance.Equal(second[i].Balance))
	}
}

func TestLines_SameDayOrderedByLineID(t *testing.T) {
	reg, poster := newTestRegister(t)

	// Deposit posted before the withdrawal on the same day: the line id
	// tie-break keeps that order, so the balance never dips negative.
	post(t, poster, 2, model.TxnIncome, "500.00", "Deposit", 401)
	post(t, poster, 2, model.TxnExpense, "200.00", "Withdrawal", 601)

	lines, err := reg.Lines(context.Background(), 101, Options{})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Deposit", lines[0].Description)
	assert.Equal(t, "Withdrawal", lines[1].Description)
	assert.True(t, lines[1].Balance.Equal(dec("300.00")))
}

func TestLines_ScopedPeriodWithOpening(t *testing.T) {
	reg, poster := newTestRegister(t)

	post(t, poster, 2, model.TxnIncome, "1000.00", "January income", 401)
	post(t, poster, 5, model.TxnExpense, "150.00", "Electric bill", 601)

	opts := Options{
		Start:   date(2024, 1, 3),
		End:     date(2024, 1, 31),
		Opening: dec("1000.00"),
	}
	lines, err := reg.Lines(context.Background(), 101, opts)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Electric bill", lines[0].Description)
	assert.True(t, lines[0].Balance.Equal(dec("850.00")))
}

func TestLines_EmptyAccount(t *testing.T) {
	reg, _ := newTestRegister(t)

	lines, err := reg.Lines(context.Background(), 101, Options{})
	require.NoError(t, err)
	assert.Empty(t, lines)

	balance, err := reg.Balance(context.Background(), 101)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestWriteCSV(t *testing.T) {
	reg, poster := newTestRegister(t)

	post(t, poster, 5, model.TxnExpense, "150.00", "Electric bill", 601)

	opts := Options{Start: date(2024, 1, 1), End: date(2024, 1, 31)}
	lines, err := reg.Lines(context.Background(), 101, opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	account := model.Account{ID: 101, Name: "Checking"}
	generated := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, WriteCSV(&buf, account, lines, opts, generated))

	out := buf.String()
	rows := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "Report,Account Register", rows[0])
	assert.Equal(t, "Account,Checking (#101)", rows[1])
	assert.Equal(t, "Period,2024-01-01 to 2024-01-31", rows[2])
	assert.Equal(t, "Generated,2024-02-01T09:00:00Z", rows[3])
	assert.Equal(t, "", rows[4])
	assert.Equal(t, "Date,Description,Debit,Credit,Running Balance", rows[5])
	assert.Equal(t, "2024-01-05,Electric bill,0.00,150.00,-150.00", rows[6])
}
