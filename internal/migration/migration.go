package migration

import (
	"crypto/sha256"
	"encoding/hex"
)

// Migration represents a single database migration loaded from disk.
type Migration struct {
	Version  string // Filename text up to the first underscore, e.g. "001"
	Name     string // Remainder of the filename with underscores replaced, e.g. "create users"
	UpSQL    string // Statements executed on apply
	DownSQL  string // Statements executed on rollback (empty if the file has no -- DOWN section)
	Checksum string // SHA-256 hex digest of the full, unsplit file content
	FilePath string // Path to the .sql file
}

// HasDown reports whether the migration carries a rollback script.
func (m *Migration) HasDown() bool {
	return m.DownSQL != ""
}

// ComputeChecksum returns the SHA-256 hex digest of raw file content.
// The digest covers the entire file, up and down sections included, so
// editing either side of the -- DOWN marker changes the checksum.
func ComputeChecksum(content []byte) string {
	h := sha256.Sum256(content)

	return hex.EncodeToString(h[:])
}
