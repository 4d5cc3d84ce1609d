//go:build integration

package pgsql_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/branch_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/branch_ledger/internal/repositories/storetest"
	"github.com/SscSPs/branch_ledger/pkg/database"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts a disposable PostgreSQL container, applies the migrations and
// returns its connection string. The container is terminated on test cleanup.
func setupPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("ledger"),
		tcpostgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrations, err := filepath.Abs(filepath.Join("..", "..", "..", "..", "migrations"))
	require.NoError(t, err)
	_, err = database.Migrate(dsn, "file://"+migrations, database.MigrateUp, slog.Default())
	require.NoError(t, err)
	return dsn
}

func TestIntegration_PostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Postgres container in short mode")
	}
	ctx := context.Background()
	dsn := setupPostgresContainer(t)

	admin, err := database.NewPgxPool(ctx, dsn, true)
	require.NoError(t, err)
	t.Cleanup(func() { database.ClosePgxPool(admin) })

	suite.Run(t, &storetest.StoreSuite{
		NewProvider: func() portsrepo.RepositoryProvider {
			_, err := admin.Exec(ctx, `TRUNCATE journal_entry_lines, journal_entries, journal_entry_sequences, accounts, branches CASCADE`)
			require.NoError(t, err)
			pool, err := database.NewPgxPool(ctx, dsn, true)
			require.NoError(t, err)
			return pgsql.NewRepositoryProvider(pool)
		},
		SetSequence: func(_ portsrepo.RepositoryProvider, branchID string, year int, last int64) error {
			_, err := admin.Exec(ctx, `
				INSERT INTO journal_entry_sequences (branch_id, year, last_value) VALUES ($1, $2, $3)
				ON CONFLICT (branch_id, year) DO UPDATE SET last_value = EXCLUDED.last_value`, branchID, year, last)
			return err
		},
	})
}
