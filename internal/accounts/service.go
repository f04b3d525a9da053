// Package accounts provides read-only lookup over the chart of
// accounts and transaction categories. The posting, register, and
// reconciliation components use it to validate account references and
// to resolve category-mapped offset accounts.
package accounts

import (
	"context"
	"fmt"

	"github.com/openbooks-dev/openbooks/internal/model"
	"github.com/openbooks-dev/openbooks/internal/store"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts   []model.Account
	byID       map[int64]model.Account
	categories map[int64]model.Category
}

// NewService creates a Service from slices of accounts and categories.
func NewService(accounts []model.Account, categories []model.Category) *Service {
	byID := make(map[int64]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	byCat := make(map[int64]model.Category, len(categories))
	for _, c := range categories {
		byCat[c.ID] = c
	}
	return &Service{accounts: accounts, byID: byID, categories: byCat}
}

// Load reads the chart of accounts and categories from the store.
func Load(ctx context.Context, st *store.Store) (*Service, error) {
	accts, err := st.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}
	cats, err := st.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	return NewService(accts, cats), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int64) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int64) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns the active accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType && a.Active {
			result = append(result, a)
		}
	}
	return result
}

// Category returns a category by ID.
func (s *Service) Category(id int64) (model.Category, bool) {
	c, ok := s.categories[id]
	return c, ok
}

// OffsetForCategory resolves a category to its mapped offset ledger
// account. Returns false when the category is unknown or unmapped.
func (s *Service) OffsetForCategory(categoryID int64) (int64, bool) {
	c, ok := s.categories[categoryID]
	if !ok || c.AccountID == 0 {
		return 0, false
	}
	return c.AccountID, true
}
