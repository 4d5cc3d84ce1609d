package pgsql

import (
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/branch_ledger/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	branchRepo := newPgxBranchRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		BranchRepo:  branchRepo,
		JournalRepo: journalRepo,
		Close:       func() { database.ClosePgxPool(dbPool) },
	}
}
