package migrator

import "errors"

// ErrNoRollback indicates the migration file has no down section to execute.
var ErrNoRollback = errors.New("no rollback script")

// ErrMigrationNotFound indicates no record exists for the given migration version.
var ErrMigrationNotFound = errors.New("migration not found in schema_migrations")

// ErrLedgerCreation indicates the schema_migrations table could not be created.
var ErrLedgerCreation = errors.New("creating schema_migrations table")

// ErrUnknownDialect indicates a database URL resolved to a backend with no dialect.
var ErrUnknownDialect = errors.New("unknown database dialect")
