package migrator

import "strconv"

// createLedgerPostgres is the DDL for the schema_migrations ledger on PostgreSQL.
const createLedgerPostgres = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version            TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    checksum           TEXT NOT NULL,
    executed_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    execution_time_ms  INTEGER NOT NULL
)`

const createLedgerIndexPostgres = `CREATE INDEX IF NOT EXISTS idx_schema_migrations_executed_at
    ON schema_migrations (executed_at)`

// Postgres returns the Dialect for PostgreSQL databases.
func Postgres() Dialect {
	return postgresDialect{}
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) CreateLedgerSQL() string { return createLedgerPostgres }

func (postgresDialect) CreateLedgerIndexSQL() string { return createLedgerIndexPostgres }

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }
