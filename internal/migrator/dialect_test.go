package migrator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rungdb/rung/internal/migrator"
)

func TestDialectFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wantName string
		wantErr  error
	}{
		{name: "postgres", wantName: "postgres"},
		{name: "sqlite", wantName: "sqlite"},
		{name: "mysql", wantErr: migrator.ErrUnknownDialect},
		{name: "", wantErr: migrator.ErrUnknownDialect},
	}

	for _, tt := range tests {
		t.Run("name "+tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := migrator.DialectFor(tt.name)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, d.Name())
		})
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	pg := migrator.Postgres()
	assert.Equal(t, "$1", pg.Placeholder(1))
	assert.Equal(t, "$5", pg.Placeholder(5))

	lite := migrator.SQLite()
	assert.Equal(t, "?", lite.Placeholder(1))
	assert.Equal(t, "?", lite.Placeholder(5))
}

func TestLedgerDDL_idempotentForm(t *testing.T) {
	t.Parallel()

	for _, d := range []migrator.Dialect{migrator.Postgres(), migrator.SQLite()} {
		assert.Contains(t, d.CreateLedgerSQL(), "IF NOT EXISTS")
		assert.Contains(t, d.CreateLedgerIndexSQL(), "IF NOT EXISTS")
	}
}
