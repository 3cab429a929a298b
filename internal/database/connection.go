package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	//nolint:revive,nolintlint // Idiomatic way of loading DB drivers.
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const defaultMaxConns = 5

// Open connects to the database named by databaseURL and returns the
// handle together with the resolved dialect name. postgres:// and
// postgresql:// URLs go through the pgx driver; sqlite:// URLs and bare
// file paths go through the embedded SQLite driver. The connection is
// pinged to verify connectivity before returning.
func Open(ctx context.Context, databaseURL string) (*sql.DB, string, error) {
	driver, dsn, dialect, err := resolve(databaseURL)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	if isMemoryDSN(dsn) {
		// A single connection keeps every query on the same in-memory database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(defaultMaxConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return db, dialect, nil
}

// resolve maps a database URL onto a registered driver, its DSN, and
// the dialect name understood by the migrator.
func resolve(databaseURL string) (driver, dsn, dialect string, err error) {
	switch {
	case databaseURL == "":
		return "", "", "", fmt.Errorf("%w: URL is empty", ErrInvalidDatabaseURL)
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"):
		return "pgx", databaseURL, "postgres", nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return "sqlite", strings.TrimPrefix(databaseURL, "sqlite://"), "sqlite", nil
	default:
		// Bare paths are treated as SQLite database files.
		return "sqlite", databaseURL, "sqlite", nil
	}
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
