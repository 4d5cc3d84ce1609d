package cli

import (
	"fmt"

	"github.com/SscSPs/branch_ledger/internal/platform/config"
	"github.com/SscSPs/branch_ledger/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back the PostgreSQL schema",
		Long: `Runs the SQL migrations under MIGRATIONS_PATH against PGSQL_URL.
The direction defaults to up.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := database.MigrateUp
			if len(args) == 1 {
				direction = database.MigrateDirection(args[0])
			}
			if direction != database.MigrateUp && direction != database.MigrateDown {
				return fmt.Errorf("unknown direction %q, expected up or down", args[0])
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.StoreDriver != config.DriverPostgres {
				return fmt.Errorf("migrate only applies to STORE_DRIVER=%s, got %s", config.DriverPostgres, cfg.StoreDriver)
			}
			logger := newLogger(cfg.LogLevel)

			changed, err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, direction, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: changed=%t\n", direction, changed)
			return nil
		},
	}
}
