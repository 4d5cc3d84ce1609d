package services

import (
	"context"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/SscSPs/branch_ledger/internal/dto"
)

// AccountReaderSvc defines read operations on the accounts registry.
type AccountReaderSvc interface {
	GetAccount(ctx context.Context, branchID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, branchID string) ([]domain.Account, error)
	// BalanceSummary totals running balances by account type for a branch.
	BalanceSummary(ctx context.Context, branchID string) (*domain.AccountBalanceSummary, error)
}

// AccountSeederSvc loads a chart of accounts into the registry.
type AccountSeederSvc interface {
	// SeedChart saves the branches and accounts of chart and returns the number of accounts written.
	SeedChart(ctx context.Context, chart dto.ChartOfAccounts, actorID string) (int, error)
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountSeederSvc
}
