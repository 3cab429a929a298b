package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "down",
	Short: "Roll back applied migrations",
	Long: `Roll back the most recently applied migration, or with --target every
migration whose version is above the target, newest first. Migrations
without a -- DOWN section cannot be rolled back.`,
	RunE: runDown,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for command registration
	downCmd.Flags().String("target", "", "roll back every migration above this version")
	rootCmd.AddCommand(downCmd)
}

func runDown(cmd *cobra.Command, _ []string) error {
	target, _ := cmd.Flags().GetString("target")

	r, cleanup, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rolledBack, err := r.Rollback(commandContext(cmd), target)
	reportVersions(cmd.OutOrStdout(), "Rolled back", rolledBack)

	if err != nil {
		return err
	}

	if len(rolledBack) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to roll back.")
	}

	return nil
}
