package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show applied, pending, and conflicting migrations",
	Long: `Compare the schema_migrations ledger against the migration directory and
report each migration as applied, pending, or in conflict when the file
on disk no longer matches the checksum recorded at apply time.`,
	RunE: runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for command registration
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	r, cleanup, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := r.Status(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if err := printStatus(out, status); err != nil {
		return err
	}

	if status.UpToDate() {
		fmt.Fprintln(out, "Database is up to date.")
	} else {
		fmt.Fprintf(out, "%d pending, %d conflicting.\n", len(status.Pending), len(status.Conflicts))
	}

	return nil
}
