package migrator

import "fmt"

// Dialect supplies the backend-specific pieces of the ledger: its DDL
// and the parameter placeholder style. Statement execution goes through
// the shared database/sql handle, so adapters stay declarative and the
// orchestration above them is dialect-agnostic.
type Dialect interface {
	// Name identifies the dialect, e.g. "postgres" or "sqlite".
	Name() string

	// CreateLedgerSQL returns idempotent DDL for the schema_migrations table.
	CreateLedgerSQL() string

	// CreateLedgerIndexSQL returns idempotent DDL for the executed_at index.
	CreateLedgerIndexSQL() string

	// Placeholder returns the parameter marker for the 1-based position n.
	Placeholder(n int) string
}

// DialectFor returns the Dialect registered under the given name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case "postgres":
		return Postgres(), nil
	case "sqlite":
		return SQLite(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, name)
	}
}
