package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rungdb/rung/internal/migration"
)

const migrationTemplate = `-- SQL applied by "rung up" goes here.

-- DOWN
-- SQL applied by "rung down" goes here.
`

var generateCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "generate <name>",
	Short: "Create a new migration file",
	Long: `Create a numbered migration file in the migrations directory. The version
is one past the highest numeric version already present, zero-padded to
three digits.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for command registration
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := AppConfig

	migrations, err := migration.LoadFromDir(cfg.MigrationsDir)
	if err != nil {
		return err
	}

	next := 1

	for _, mig := range migrations {
		if n, err := strconv.Atoi(mig.Version); err == nil && n >= next {
			next = n + 1
		}
	}

	name := strings.ReplaceAll(strings.TrimSpace(args[0]), " ", "_")
	path := filepath.Join(cfg.MigrationsDir, fmt.Sprintf("%03d_%s.sql", next, name))

	if err := os.MkdirAll(cfg.MigrationsDir, 0o755); err != nil {
		return fmt.Errorf("creating migrations directory %s: %w", cfg.MigrationsDir, err)
	}

	if err := os.WriteFile(path, []byte(migrationTemplate), 0o644); err != nil { //nolint:gosec // migration files are world-readable source
		return fmt.Errorf("writing migration file %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)

	return nil
}
