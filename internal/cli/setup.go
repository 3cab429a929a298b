package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rungdb/rung/internal/config"
	"github.com/rungdb/rung/internal/database"
	"github.com/rungdb/rung/internal/migrator"
	"github.com/rungdb/rung/internal/runner"
)

var errDatabaseURLRequired = errors.New(
	"database URL is required (set --database-url, RUNG_DATABASE_URL, or database_url in config)")

// commandContext returns the command's context, falling back to
// context.Background when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return ctx
}

// newRunner connects to the configured database, ensures the ledger
// exists, and returns a Runner loaded with the migration directory.
// The returned cleanup func closes the connection.
func newRunner(cmd *cobra.Command) (*runner.Runner, func(), error) {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return nil, nil, errDatabaseURLRequired
	}

	ctx := commandContext(cmd)

	slog.Debug("connecting to database", "url", config.RedactURL(cfg.DatabaseURL))

	db, dialectName, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	cleanup := func() {
		_ = db.Close() //nolint:errcheck // nothing to do with a close error on exit
	}

	dialect, err := migrator.DialectFor(dialectName)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	m := migrator.New(db, dialect)

	slog.Debug("database connected", "dialect", m.Dialect().Name())

	r := runner.New(m)

	if err := r.Load(cfg.MigrationsDir); err != nil {
		cleanup()
		return nil, nil, err
	}

	if err := r.Initialize(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}

	return r, cleanup, nil
}

// reportVersions prints one line per version, prefixed with the verb.
func reportVersions(out io.Writer, verb string, versions []string) {
	for _, v := range versions {
		fmt.Fprintf(out, "%s %s\n", verb, v)
	}
}
