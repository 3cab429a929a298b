package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "init",
	Short: "Create the migrations directory and ledger table",
	Long: `Create the migrations directory and the schema_migrations ledger table
with its index. Both steps are idempotent, so init is safe to run
repeatedly and on every deploy.`,
	RunE: runInit,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for command registration
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if err := os.MkdirAll(cfg.MigrationsDir, 0o755); err != nil {
		return fmt.Errorf("creating migrations directory %s: %w", cfg.MigrationsDir, err)
	}

	// newRunner initializes the ledger as part of connecting.
	_, cleanup, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s and the schema_migrations ledger.\n", cfg.MigrationsDir)

	return nil
}
