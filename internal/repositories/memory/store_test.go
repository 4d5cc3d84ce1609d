package memory_test

import (
	"testing"

	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/branch_ledger/internal/repositories/memory"
	"github.com/SscSPs/branch_ledger/internal/repositories/storetest"
	"github.com/stretchr/testify/suite"
)

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &storetest.StoreSuite{
		NewProvider: func() portsrepo.RepositoryProvider { return memory.NewRepositoryProvider() },
		SetSequence: func(repos portsrepo.RepositoryProvider, branchID string, year int, last int64) error {
			repos.JournalRepo.(*memory.Store).SetSequence(branchID, year, last)
			return nil
		},
	})
}
