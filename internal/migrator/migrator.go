package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rungdb/rung/internal/migration"
	"github.com/rungdb/rung/internal/sqlparse"
)

// Entry is one row of the schema_migrations ledger.
type Entry struct {
	Version         string
	Name            string
	Checksum        string
	ExecutedAt      time.Time
	ExecutionTimeMs int
}

// Migrator owns the schema_migrations ledger for a single database handle
// and applies or rolls back one migration at a time, transactionally.
type Migrator struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithLogger sets the logger used for per-statement debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Migrator) { m.logger = logger }
}

// New creates a Migrator for the given database handle and dialect.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Migrator {
	m := &Migrator{
		db:      db,
		dialect: dialect,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Dialect returns the dialect this Migrator was built with.
func (m *Migrator) Dialect() Dialect {
	return m.dialect
}

// Initialize creates the ledger table and its index if absent.
// Idempotent; safe to call on every startup.
func (m *Migrator) Initialize(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, m.dialect.CreateLedgerSQL()); err != nil {
		return fmt.Errorf("%w: %w", ErrLedgerCreation, err)
	}

	if _, err := m.db.ExecContext(ctx, m.dialect.CreateLedgerIndexSQL()); err != nil {
		return fmt.Errorf("%w: %w", ErrLedgerCreation, err)
	}

	return nil
}

// Applied returns all ledger entries ordered by executed_at ascending,
// with version as the tiebreaker.
func (m *Migrator) Applied(ctx context.Context) ([]Entry, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT version, name, checksum, executed_at, execution_time_ms
		 FROM schema_migrations
		 ORDER BY executed_at, version`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}
	defer rows.Close()

	var applied []Entry

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Version, &e.Name, &e.Checksum, &e.ExecutedAt, &e.ExecutionTimeMs); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}

		applied = append(applied, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger rows: %w", err)
	}

	return applied, nil
}

// Exists checks whether a ledger entry exists for the given version.
func (m *Migrator) Exists(ctx context.Context, version string) (bool, error) {
	query := fmt.Sprintf(
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = %s)`,
		m.dialect.Placeholder(1),
	)

	var exists bool

	err := m.db.QueryRowContext(ctx, query, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking migration %s: %w", version, err)
	}

	return exists, nil
}

// Apply executes a migration's up body statement by statement and inserts
// the matching ledger entry, all inside one transaction. Commits only if
// every statement and the insert succeed; on any failure the schema and
// the ledger are left untouched. Returns the elapsed execution time in
// milliseconds.
func (m *Migrator) Apply(ctx context.Context, mig *migration.Migration) (int64, error) {
	var elapsedMs int64

	err := m.inTransaction(ctx, func(tx *sql.Tx) error {
		start := time.Now()

		if err := m.execStatements(ctx, tx, mig.UpSQL); err != nil {
			return err
		}

		elapsedMs = time.Since(start).Milliseconds()

		return m.insertEntry(ctx, tx, mig, elapsedMs)
	})
	if err != nil {
		return 0, fmt.Errorf("applying migration %s: %w", mig.Version, err)
	}

	return elapsedMs, nil
}

// Rollback executes a migration's down body and deletes the matching
// ledger entry, inside one transaction with the same all-or-nothing
// guarantee as Apply. Fails without touching schema or ledger if the
// file has no down section.
func (m *Migrator) Rollback(ctx context.Context, mig *migration.Migration) error {
	if !mig.HasDown() {
		return fmt.Errorf("migration %s: %w", mig.Version, ErrNoRollback)
	}

	err := m.inTransaction(ctx, func(tx *sql.Tx) error {
		if err := m.execStatements(ctx, tx, mig.DownSQL); err != nil {
			return err
		}

		return m.deleteEntry(ctx, tx, mig.Version)
	})
	if err != nil {
		return fmt.Errorf("rolling back migration %s: %w", mig.Version, err)
	}

	return nil
}

// execStatements splits body into statements and executes each in order
// on the given transaction. Errors carry the offending statement text.
func (m *Migrator) execStatements(ctx context.Context, tx *sql.Tx, body string) error {
	for _, stmt := range sqlparse.Split(body) {
		if !sqlparse.Executable(stmt) {
			continue
		}

		m.logger.Debug("executing statement", "dialect", m.dialect.Name(), "statement", stmt)

		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt, err)
		}
	}

	return nil
}

func (m *Migrator) insertEntry(ctx context.Context, tx *sql.Tx, mig *migration.Migration, elapsedMs int64) error {
	query := fmt.Sprintf(
		`INSERT INTO schema_migrations (version, name, checksum, executed_at, execution_time_ms)
		 VALUES (%s, %s, %s, %s, %s)`,
		m.dialect.Placeholder(1),
		m.dialect.Placeholder(2),
		m.dialect.Placeholder(3),
		m.dialect.Placeholder(4),
		m.dialect.Placeholder(5),
	)

	_, err := tx.ExecContext(ctx, query, mig.Version, mig.Name, mig.Checksum, time.Now().UTC(), elapsedMs)
	if err != nil {
		return fmt.Errorf("inserting ledger entry: %w", err)
	}

	return nil
}

func (m *Migrator) deleteEntry(ctx context.Context, tx *sql.Tx, version string) error {
	query := fmt.Sprintf(
		`DELETE FROM schema_migrations WHERE version = %s`,
		m.dialect.Placeholder(1),
	)

	res, err := tx.ExecContext(ctx, query, version)
	if err != nil {
		return fmt.Errorf("deleting ledger entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting ledger entry: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("migration %s: %w", version, ErrMigrationNotFound)
	}

	return nil
}

// inTransaction runs fn inside a transaction. On success the transaction
// is committed; on error it is rolled back.
func (m *Migrator) inTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck // rollback on a committed tx returns ErrTxDone

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
