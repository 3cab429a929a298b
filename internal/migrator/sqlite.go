package migrator

// createLedgerSQLite is the DDL for the schema_migrations ledger on SQLite.
const createLedgerSQLite = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version            TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    checksum           TEXT NOT NULL,
    executed_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    execution_time_ms  INTEGER NOT NULL
)`

const createLedgerIndexSQLite = `CREATE INDEX IF NOT EXISTS idx_schema_migrations_executed_at
    ON schema_migrations (executed_at)`

// SQLite returns the Dialect for SQLite databases.
func SQLite() Dialect {
	return sqliteDialect{}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) CreateLedgerSQL() string { return createLedgerSQLite }

func (sqliteDialect) CreateLedgerIndexSQL() string { return createLedgerIndexSQLite }

func (sqliteDialect) Placeholder(int) string { return "?" }
