package repositories

import (
	"context"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
)

// BranchReader defines read operations for branches.
type BranchReader interface {
	FindBranchByID(ctx context.Context, branchID string) (*domain.Branch, error)
}

// BranchWriter defines write operations for branches.
type BranchWriter interface {
	SaveBranch(ctx context.Context, branch domain.Branch) error
}

// BranchRepositoryFacade combines all branch repository interfaces.
type BranchRepositoryFacade interface {
	BranchReader
	BranchWriter
}
