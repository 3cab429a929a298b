package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply every pending migration in version order. Each migration runs in
its own transaction and is recorded in the schema_migrations ledger. A
checksum mismatch between a migration file and its ledger entry stops
the run before anything newer is applied.`,
	RunE: runUp,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for command registration
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, _ []string) error {
	r, cleanup, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	applied, err := r.Migrate(commandContext(cmd))
	reportVersions(cmd.OutOrStdout(), "Applied", applied)

	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date.")
	}

	return nil
}
