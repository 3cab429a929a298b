package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/rungdb/rung/internal/migration"
	"github.com/rungdb/rung/internal/migrator"
)

// Backend abstracts the migrator operations the Runner drives.
type Backend interface {
	Initialize(ctx context.Context) error
	Applied(ctx context.Context) ([]migrator.Entry, error)
	Apply(ctx context.Context, mig *migration.Migration) (int64, error)
	Rollback(ctx context.Context, mig *migration.Migration) error
}

// Runner orchestrates the loader and a backend: it computes the pending
// set, applies and rolls back migrations strictly in order, and
// aggregates status. One Runner drives one database; migrations within
// a single call run sequentially, never in parallel.
type Runner struct {
	backend Backend
	logger  *slog.Logger

	migrations []migration.Migration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for per-migration progress output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// New creates a Runner on top of the given backend.
func New(backend Backend, opts ...Option) *Runner {
	r := &Runner{
		backend: backend,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Load scans dir and populates the in-memory migration list, sorted by
// version. A missing directory yields an empty list, not an error.
func (r *Runner) Load(dir string) error {
	migrations, err := migration.LoadFromDir(dir)
	if err != nil {
		return err
	}

	r.migrations = migrations

	return nil
}

// Initialize creates the ledger via the backend. Idempotent.
func (r *Runner) Initialize(ctx context.Context) error {
	return r.backend.Initialize(ctx)
}

// Migrate applies every pending migration in ascending version order and
// returns the versions applied by this call. Files already in the ledger
// are verified against their recorded checksum as the walk reaches them;
// a mismatch halts the run. On any failure the returned list still names
// the versions that committed before it, and those stay applied.
func (r *Runner) Migrate(ctx context.Context) ([]string, error) {
	entries, err := r.backend.Applied(ctx)
	if err != nil {
		return nil, err
	}

	recorded := make(map[string]migrator.Entry, len(entries))
	for _, e := range entries {
		recorded[e.Version] = e
	}

	var applied []string

	for i := range r.migrations {
		mig := &r.migrations[i]

		if entry, ok := recorded[mig.Version]; ok {
			if entry.Checksum != mig.Checksum {
				return applied, fmt.Errorf(
					"migration %s: %w: stored=%s computed=%s",
					mig.Version, ErrChecksumMismatch, entry.Checksum, mig.Checksum,
				)
			}

			r.logger.Debug("migration already applied", "version", mig.Version)

			continue
		}

		elapsedMs, err := r.backend.Apply(ctx, mig)
		if err != nil {
			return applied, err
		}

		r.logger.Info("applied migration",
			"version", mig.Version, "name", mig.Name, "elapsed_ms", elapsedMs)

		applied = append(applied, mig.Version)
	}

	return applied, nil
}

// Rollback reverses applied migrations and returns the versions rolled
// back by this call. With a target version it rolls back every applied
// migration whose version is strictly greater, in descending version
// order; with an empty target it rolls back only the most recently
// applied migration. A ledger entry whose source file is no longer on
// disk is skipped with a warning, not a failure. Stops on the first
// rollback error, returning the versions reversed before it.
func (r *Runner) Rollback(ctx context.Context, target string) ([]string, error) {
	entries, err := r.backend.Applied(ctx)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	byVersion := make(map[string]*migration.Migration, len(r.migrations))
	for i := range r.migrations {
		byVersion[r.migrations[i].Version] = &r.migrations[i]
	}

	var candidates []migrator.Entry

	if target == "" {
		candidates = entries[len(entries)-1:]
	} else {
		for _, e := range entries {
			if e.Version > target {
				candidates = append(candidates, e)
			}
		}

		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Version > candidates[j].Version
		})
	}

	var rolledBack []string

	for _, entry := range candidates {
		mig, ok := byVersion[entry.Version]
		if !ok {
			r.logger.Warn("migration file missing, skipping rollback",
				"version", entry.Version, "name", entry.Name)

			continue
		}

		if err := r.backend.Rollback(ctx, mig); err != nil {
			return rolledBack, err
		}

		r.logger.Info("rolled back migration", "version", entry.Version, "name", entry.Name)

		rolledBack = append(rolledBack, entry.Version)
	}

	return rolledBack, nil
}
