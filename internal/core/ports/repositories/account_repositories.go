package repositories

import (
	"context"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
)

// AccountReader is the read side of the accounts registry.
type AccountReader interface {
	// FindAccountByID retrieves an account of a branch.
	FindAccountByID(ctx context.Context, branchID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves the accounts of a branch that exist among accountIDs, keyed by id.
	FindAccountsByIDs(ctx context.Context, branchID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts of a branch ordered by code.
	ListAccounts(ctx context.Context, branchID string) ([]domain.Account, error)
}

// AccountWriter is used to seed the registry.
type AccountWriter interface {
	// SaveAccount inserts or updates an account's metadata. Running balances are never overwritten.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
