package cli

import (
	"context"
	"fmt"
	"os"

	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/core/services"
	"github.com/SscSPs/branch_ledger/internal/dto"
	"github.com/SscSPs/branch_ledger/internal/platform/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedActorID is stamped as the creator of seeded branches and accounts.
const seedActorID = "system"

func newSeedAccountsCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-accounts",
		Short: "Load branches and a chart of accounts from a YAML file",
		Long: `Reads branches and their accounts from a YAML file and saves them into the
configured store. Existing accounts keep their running balance.

Example:
  ledger_backend seed-accounts --file chart.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger := newLogger(cfg.LogLevel)

			repos, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer repos.Close()

			n, err := seedFromFile(cmd.Context(), services.NewAccountService(repos.AccountRepo, repos.BranchRepo), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d accounts from %s\n", n, file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the chart of accounts YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// loadChart parses a chart of accounts seed file.
func loadChart(path string) (dto.ChartOfAccounts, error) {
	var chart dto.ChartOfAccounts
	raw, err := os.ReadFile(path)
	if err != nil {
		return chart, fmt.Errorf("read seed file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &chart); err != nil {
		return chart, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if len(chart.Branches) == 0 {
		return chart, fmt.Errorf("seed file %s has no branches", path)
	}
	return chart, nil
}

func seedFromFile(ctx context.Context, seeder portssvc.AccountSeederSvc, path string) (int, error) {
	chart, err := loadChart(path)
	if err != nil {
		return 0, err
	}
	n, err := seeder.SeedChart(ctx, chart, seedActorID)
	if err != nil {
		return n, fmt.Errorf("seed accounts: %w", err)
	}
	return n, nil
}
