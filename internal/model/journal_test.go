package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestJournalLine_Signed(t *testing.T) {
	debit := JournalLine{Debit: dec("150.00")}
	assert.True(t, debit.Signed().Equal(dec("150.00")))

	credit := JournalLine{Credit: dec("150.00")}
	assert.True(t, credit.Signed().Equal(dec("-150.00")))
}

func TestBalanced(t *testing.T) {
	balanced := []JournalLine{
		{AccountID: 601, Debit: dec("150.00")},
		{AccountID: 101, Credit: dec("150.00")},
	}
	assert.True(t, Balanced(balanced))

	split := []JournalLine{
		{AccountID: 101, Debit: dec("500.00")},
		{AccountID: 401, Credit: dec("300.00")},
		{AccountID: 402, Credit: dec("200.00")},
	}
	assert.True(t, Balanced(split))

	offByOneCent := []JournalLine{
		{AccountID: 601, Debit: dec("150.00")},
		{AccountID: 101, Credit: dec("149.99")},
	}
	assert.False(t, Balanced(offByOneCent), "a cent of drift is an imbalance")

	assert.True(t, Balanced(nil))
}

func TestAccountType_Valid(t *testing.T) {
	for _, at := range []AccountType{
		AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeIncome, AccountTypeExpense,
	} {
		assert.True(t, at.Valid(), "type %q", at)
	}
	assert.False(t, AccountType("cash").Valid())
	assert.False(t, AccountType("").Valid())
}

func TestAccountType_DebitNormal(t *testing.T) {
	assert.True(t, AccountTypeAsset.DebitNormal())
	assert.True(t, AccountTypeExpense.DebitNormal())
	assert.False(t, AccountTypeLiability.DebitNormal())
	assert.False(t, AccountTypeEquity.DebitNormal())
	assert.False(t, AccountTypeIncome.DebitNormal())
}

func TestTxnType_Valid(t *testing.T) {
	for _, tt := range []TxnType{TxnIncome, TxnExpense, TxnTransfer} {
		assert.True(t, tt.Valid(), "type %q", tt)
	}
	assert.False(t, TxnType("refund").Valid())
	assert.False(t, TxnType("").Valid())
}
