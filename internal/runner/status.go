package runner

import (
	"context"

	"github.com/rungdb/rung/internal/migration"
	"github.com/rungdb/rung/internal/migrator"
)

// Status is the consolidated state of a migration set against one
// database. Computed on demand; never persisted.
type Status struct {
	// Applied holds the ledger contents in executed_at order.
	Applied []migrator.Entry
	// Pending holds loaded files absent from the ledger, in version order.
	Pending []migration.Migration
	// Conflicts holds versions whose file content no longer matches the
	// checksum recorded at apply time.
	Conflicts []string
}

// UpToDate reports whether nothing is pending and nothing conflicts.
func (s *Status) UpToDate() bool {
	return len(s.Pending) == 0 && len(s.Conflicts) == 0
}

// Status diffs the ledger against the loaded file set.
func (r *Runner) Status(ctx context.Context) (*Status, error) {
	entries, err := r.backend.Applied(ctx)
	if err != nil {
		return nil, err
	}

	recorded := make(map[string]migrator.Entry, len(entries))
	for _, e := range entries {
		recorded[e.Version] = e
	}

	status := &Status{Applied: entries}

	for _, mig := range r.migrations {
		entry, ok := recorded[mig.Version]
		if !ok {
			status.Pending = append(status.Pending, mig)

			continue
		}

		if entry.Checksum != mig.Checksum {
			status.Conflicts = append(status.Conflicts, mig.Version)
		}
	}

	return status, nil
}
