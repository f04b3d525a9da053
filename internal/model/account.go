package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether a debit increases the balance of this
// account type. Assets and expenses are debit-normal; liabilities,
// equity, and income are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account is one row in the chart of accounts. Accounts referenced by a
// journal line are never deleted, only deactivated.
type Account struct {
	ID     int64
	Number string
	Name   string
	Type   AccountType
	Active bool
}

// Category is a reporting bucket for transactions. A category may map
// to a ledger account, which then serves as the offset side of a
// simple income/expense posting.
type Category struct {
	ID        int64
	Name      string
	AccountID int64 // mapped offset ledger account, 0 = unmapped
}
