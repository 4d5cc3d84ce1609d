package cli

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/branch_ledger/internal/platform/config"
	"github.com/SscSPs/branch_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/branch_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/branch_ledger/internal/repositories/memory"
	"github.com/SscSPs/branch_ledger/pkg/database"
)

// openStore opens the repositories selected by cfg.StoreDriver. Postgres is migrated first when
// cfg.RunMigrations is set; the SQLite schema is always applied on open.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if cfg.RunMigrations {
			logger.Info("Running database migrations...")
			if _, err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp, logger); err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool), nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("SQLite store opened.", slog.String("path", cfg.SQLitePath))
		return sqlite.NewRepositoryProvider(store), nil

	case config.DriverMemory:
		logger.Warn("Using the in-memory store, data is lost on exit.")
		return memory.NewRepositoryProvider(), nil

	default:
		return portsrepo.RepositoryProvider{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
