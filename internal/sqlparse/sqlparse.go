package sqlparse

import "strings"

// Split breaks a blob of SQL text into individual statements.
// Statements are separated by ';' and returned trimmed, with the
// separator removed. A ';' inside a quoted string literal does not
// end a statement. Uses a small state machine rather than a full
// parser so the same splitting rules apply to every dialect.
func Split(sql string) []string {
	var statements []string
	var current strings.Builder

	inString := false
	var quote byte

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		if inString {
			// A backslash escapes the next character; copy both
			// verbatim so an escaped quote does not close the string.
			if ch == '\\' && i+1 < len(sql) {
				current.WriteByte(ch)
				current.WriteByte(sql[i+1])
				i++

				continue
			}

			current.WriteByte(ch)

			if ch == quote {
				inString = false
			}

			continue
		}

		switch ch {
		case '\'', '"':
			inString = true
			quote = ch
			current.WriteByte(ch)
		case ';':
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	// Trailing text without a terminating ';' is still a statement.
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// Executable reports whether stmt contains anything to send to the
// database. A statement whose non-blank lines all start with "--" is
// a pure comment and is skipped on both the apply and rollback paths.
func Executable(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}

		return true
	}

	return false
}
