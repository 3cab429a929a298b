package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// filenamePattern matches migration files named <version>_<name>.sql, where
// the version is everything up to the first underscore:
//
//	001_create_users.sql
//	20240101120000_add_index.sql
var filenamePattern = regexp.MustCompile( //nolint:gochecknoglobals // compiled once, used by LoadFromDir
	`^([^_]+)_(.+)\.sql$`,
)

// downMarker separates the up and down sections of a migration file. The
// marker must occupy a line of its own.
const downMarker = "-- DOWN"

// LoadFromDir scans a directory (non-recursively) for migration files and
// returns them sorted by version in plain string order. Files that do not
// match the expected naming pattern are skipped. A missing directory yields
// an empty slice, not an error; any other read failure is surfaced.
func LoadFromDir(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}

	var migrations []Migration

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matches := filenamePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}

		m, err := readMigration(dir, entry.Name(), matches[1], matches[2])
		if err != nil {
			return nil, err
		}

		migrations = append(migrations, m)
	}

	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// readMigration reads one migration file and builds a Migration from it.
func readMigration(dir, filename, version, name string) (Migration, error) {
	path := filepath.Join(dir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return Migration{}, fmt.Errorf("reading migration file %s: %w", path, err)
	}

	upSQL, downSQL := splitSections(string(data))

	return Migration{
		Version:  version,
		Name:     strings.ReplaceAll(name, "_", " "),
		UpSQL:    upSQL,
		DownSQL:  downSQL,
		Checksum: ComputeChecksum(data),
		FilePath: path,
	}, nil
}

// splitSections splits file content on the first line equal to the -- DOWN
// marker. Everything before the marker is the up script; everything after it
// is the down script. Without a marker the whole file is the up script.
func splitSections(content string) (upSQL, downSQL string) {
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) == downMarker {
			up := strings.Join(lines[:i], "\n")
			down := strings.Join(lines[i+1:], "\n")

			return strings.TrimSpace(up), strings.TrimSpace(down)
		}
	}

	return strings.TrimSpace(content), ""
}
