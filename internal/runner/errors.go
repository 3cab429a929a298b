package runner

import "errors"

// ErrChecksumMismatch indicates a migration file changed after it was applied.
var ErrChecksumMismatch = errors.New("migration checksum mismatch")
