package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/branch_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/branch_ledger/internal/repositories/storetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &storetest.StoreSuite{
		NewProvider: func() portsrepo.RepositoryProvider {
			s, err := sqlite.Open(filepath.Join(t.TempDir(), "ledger.db"))
			require.NoError(t, err)
			return sqlite.NewRepositoryProvider(s)
		},
		SetSequence: func(repos portsrepo.RepositoryProvider, branchID string, year int, last int64) error {
			_, err := repos.JournalRepo.(*sqlite.Store).DB().Exec(`
				INSERT INTO journal_entry_sequences (branch_id, year, last_value) VALUES (?, ?, ?)
				ON CONFLICT (branch_id, year) DO UPDATE SET last_value = excluded.last_value`, branchID, year, last)
			return err
		},
	})
}

func TestSQLiteSchemaCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.db")
	s, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type IN ('table', 'index')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	for _, name := range []string{"branches", "accounts", "journal_entries", "journal_entry_lines", "journal_entry_sequences", "uq_journal_entries_live_reference"} {
		assert.True(t, found[name], name)
	}
}

func TestSQLiteReopenKeepsSequence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	actor := domain.Actor{ID: "u1", Name: "U One"}

	s, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveBranch(ctx, domain.Branch{BranchID: "b1", Code: "B1", Name: "B1", IsActive: true}))
	for _, a := range []domain.Account{
		{AccountID: "a1", BranchID: "b1", Code: "1100", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true},
		{AccountID: "a2", BranchID: "b1", Code: "4000", Name: "Sales", AccountType: domain.Revenue, NormalBalance: domain.NormalCredit, IsActive: true},
	} {
		require.NoError(t, s.SaveAccount(ctx, a))
	}

	newEntry := func(id string) domain.NewEntry {
		return domain.NewEntry{
			EntryID: id, BranchID: "b1", EntryDate: now, Description: "sale", ReferenceType: domain.RefManual,
			Lines: []domain.JournalEntryLine{
				{LineID: id + "-1", EntryID: id, LineNumber: 1, AccountID: "a1", DebitAmount: decimal.NewFromInt(5)},
				{LineID: id + "-2", EntryID: id, LineNumber: 2, AccountID: "a2", CreditAmount: decimal.NewFromInt(5)},
			},
			TotalDebit: decimal.NewFromInt(5), TotalCredit: decimal.NewFromInt(5),
			Actor: actor, CreatedAt: now, AutoPost: true,
		}
	}

	ref, err := s.CreateEntryAtomic(ctx, newEntry("e1"))
	require.NoError(t, err)
	assert.Equal(t, "JE-2025-000001", ref.EntryNumber)
	require.NoError(t, s.Close())

	s, err = sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ref, err = s.CreateEntryAtomic(ctx, newEntry("e2"))
	require.NoError(t, err)
	assert.Equal(t, "JE-2025-000002", ref.EntryNumber)

	cash, err := s.FindAccountByID(ctx, "b1", "a1")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(decimal.NewFromInt(10)), cash.Balance.String())
}
