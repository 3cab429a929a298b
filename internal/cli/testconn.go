package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rungdb/rung/internal/config"
	"github.com/rungdb/rung/internal/database"
)

var testCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "test",
	Short: "Verify database connectivity",
	Long: `Open the configured database, ping it, and run a trivial query. Exits
non-zero when the database is unreachable.`,
	RunE: runTest,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for command registration
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	ctx := commandContext(cmd)

	db, dialect, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	defer func() {
		_ = db.Close() //nolint:errcheck // nothing to do with a close error on exit
	}()

	start := time.Now()

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("running test query: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Connection OK: %s (%s, round trip %s)\n",
		config.RedactURL(cfg.DatabaseURL), dialect, time.Since(start).Round(time.Millisecond))

	return nil
}
