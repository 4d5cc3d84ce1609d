package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the ledger_backend command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledger_backend",
		Short: "Double-entry journal ledger for multi-branch businesses",
		Long: `ledger_backend records balanced journal entries per branch, posts them to
account balances and reverses them on void.

Configuration is read from the environment (and a .env file when present).
STORE_DRIVER selects postgres, sqlite or memory.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newSeedAccountsCommand())
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// newLogger creates the process logger as a JSON handler at level and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
