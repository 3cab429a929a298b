//go:build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rungdb/rung/internal/database"
	"github.com/rungdb/rung/internal/migrator"
	"github.com/rungdb/rung/internal/runner"
)

const (
	postgresImage = "postgres:16-alpine"
	testDB        = "rung_test"
	testUser      = "rung"
	testPassword  = "rung"
)

// SetupPostgres starts a PostgreSQL 16 container and returns its
// connection URL. The container is terminated when the test completes.
func SetupPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       testDB,
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return "postgres://" + testUser + ":" + testPassword + "@" + host + ":" + port.Port() + "/" + testDB + "?sslmode=disable"
}

// NewRunner connects to the container database and returns a Runner
// loaded from dir, plus the underlying handle for assertions. The
// connection is closed when the test completes.
func NewRunner(t *testing.T, databaseURL, dir string) (*runner.Runner, *sql.DB) {
	t.Helper()

	ctx := context.Background()

	db, dialectName, err := database.Open(ctx, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	dialect, err := migrator.DialectFor(dialectName)
	require.NoError(t, err)

	r := runner.New(migrator.New(db, dialect))
	require.NoError(t, r.Load(dir))
	require.NoError(t, r.Initialize(ctx))

	return r, db
}

func writeMigration(t *testing.T, dir, filename, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o600))
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var exists bool
	err := db.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
		name,
	).Scan(&exists)
	require.NoError(t, err)

	return exists
}
