package accounts

import "github.com/openbooks-dev/openbooks/internal/model"

// DefaultChart returns the default chart of accounts for an entity type.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "sole_proprietor", "llc_single_member":
		return smallBusinessChart()
	default:
		return smallBusinessChart()
	}
}

func smallBusinessChart() []model.Account {
	return []model.Account{
		{ID: 101, Number: "1010", Name: "Business Checking", Type: model.AccountTypeAsset, Active: true},
		{ID: 102, Number: "1020", Name: "Business Savings", Type: model.AccountTypeAsset, Active: true},
		{ID: 201, Number: "2010", Name: "Credit Card", Type: model.AccountTypeLiability, Active: true},
		{ID: 301, Number: "3010", Name: "Owner's Equity", Type: model.AccountTypeEquity, Active: true},
		{ID: 401, Number: "4010", Name: "Service Revenue", Type: model.AccountTypeIncome, Active: true},
		{ID: 402, Number: "4020", Name: "Product Revenue", Type: model.AccountTypeIncome, Active: true},
		{ID: 501, Number: "5010", Name: "Advertising & Marketing", Type: model.AccountTypeExpense, Active: true},
		{ID: 502, Number: "5020", Name: "Software & SaaS", Type: model.AccountTypeExpense, Active: true},
		{ID: 503, Number: "5030", Name: "Office Supplies", Type: model.AccountTypeExpense, Active: true},
		{ID: 504, Number: "5040", Name: "Professional Services", Type: model.AccountTypeExpense, Active: true},
		{ID: 601, Number: "6010", Name: "Utilities", Type: model.AccountTypeExpense, Active: true},
	}
}

// DefaultCategories returns categories mapped onto the default chart.
func DefaultCategories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Services", AccountID: 401},
		{ID: 2, Name: "Products", AccountID: 402},
		{ID: 3, Name: "Advertising", AccountID: 501},
		{ID: 4, Name: "Software", AccountID: 502},
		{ID: 5, Name: "Supplies", AccountID: 503},
		{ID: 6, Name: "Professional Fees", AccountID: 504},
		{ID: 7, Name: "Utilities", AccountID: 601},
	}
}
