package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rungdb/rung/internal/config"
	"github.com/rungdb/rung/internal/database"
)

// setTestConfig points AppConfig at a file-backed SQLite database and a
// fresh migrations directory, restoring the previous config afterwards.
func setTestConfig(t *testing.T) (string, string) {
	t.Helper()

	old := AppConfig
	t.Cleanup(func() { AppConfig = old })

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rung.db")
	migrationsDir := filepath.Join(dir, "migrations")
	require.NoError(t, os.MkdirAll(migrationsDir, 0o755))

	AppConfig = &config.Config{
		DatabaseURL:   "sqlite://" + dbPath,
		MigrationsDir: migrationsDir,
		LogLevel:      "error",
	}

	return dbPath, migrationsDir
}

func newOutputCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	cmd.Flags().String("target", "", "")

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	return cmd, buf
}

func writeMigrationFile(t *testing.T, dir, filename, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o600))
}

func tableMigration(table string) string {
	return fmt.Sprintf("CREATE TABLE %s (id INTEGER PRIMARY KEY);\n-- DOWN\nDROP TABLE %s;\n", table, table)
}

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()

	db, _, err := database.Open(context.Background(), "sqlite://"+dbPath)
	require.NoError(t, err)

	defer db.Close()

	var n int
	err = db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&n)
	require.NoError(t, err)

	return n == 1
}

// --- up ---

func TestRunUp_appliesPendingMigrations(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dbPath, migrationsDir := setTestConfig(t)
	writeMigrationFile(t, migrationsDir, "001_create_users.sql", tableMigration("users"))
	writeMigrationFile(t, migrationsDir, "002_create_orders.sql", tableMigration("orders"))

	cmd, buf := newOutputCommand()
	require.NoError(t, runUp(cmd, nil))

	assert.Contains(t, buf.String(), "Applied 001")
	assert.Contains(t, buf.String(), "Applied 002")
	assert.True(t, tableExists(t, dbPath, "users"))
	assert.True(t, tableExists(t, dbPath, "orders"))
}

func TestRunUp_secondRun_reportsUpToDate(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	_, migrationsDir := setTestConfig(t)
	writeMigrationFile(t, migrationsDir, "001_create_users.sql", tableMigration("users"))

	cmd, _ := newOutputCommand()
	require.NoError(t, runUp(cmd, nil))

	cmd, buf := newOutputCommand()
	require.NoError(t, runUp(cmd, nil))

	assert.Contains(t, buf.String(), "Database is up to date.")
	assert.NotContains(t, buf.String(), "Applied")
}

func TestRunUp_missingDatabaseURL_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setTestConfig(t)

	AppConfig.DatabaseURL = ""

	cmd, _ := newOutputCommand()
	err := runUp(cmd, nil)
	require.ErrorIs(t, err, errDatabaseURLRequired)
}

// --- down ---

func TestRunDown_rollsBackLatestOnly(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dbPath, migrationsDir := setTestConfig(t)
	writeMigrationFile(t, migrationsDir, "001_create_users.sql", tableMigration("users"))
	writeMigrationFile(t, migrationsDir, "002_create_orders.sql", tableMigration("orders"))

	cmd, _ := newOutputCommand()
	require.NoError(t, runUp(cmd, nil))

	cmd, buf := newOutputCommand()
	require.NoError(t, runDown(cmd, nil))

	assert.Contains(t, buf.String(), "Rolled back 002")
	assert.NotContains(t, buf.String(), "Rolled back 001")
	assert.True(t, tableExists(t, dbPath, "users"))
	assert.False(t, tableExists(t, dbPath, "orders"))
}

func TestRunDown_target_rollsBackAboveIt(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dbPath, migrationsDir := setTestConfig(t)
	writeMigrationFile(t, migrationsDir, "001_create_users.sql", tableMigration("users"))
	writeMigrationFile(t, migrationsDir, "002_create_orders.sql", tableMigration("orders"))
	writeMigrationFile(t, migrationsDir, "003_create_items.sql", tableMigration("items"))

	cmd, _ := newOutputCommand()
	require.NoError(t, runUp(cmd, nil))

	cmd, buf := newOutputCommand()
	require.NoError(t, cmd.Flags().Set("target", "001"))
	require.NoError(t, runDown(cmd, nil))

	assert.Contains(t, buf.String(), "Rolled back 003")
	assert.Contains(t, buf.String(), "Rolled back 002")
	assert.True(t, tableExists(t, dbPath, "users"))
	assert.False(t, tableExists(t, dbPath, "orders"))
	assert.False(t, tableExists(t, dbPath, "items"))
}

func TestRunDown_emptyLedger_reportsNothing(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setTestConfig(t)

	cmd, buf := newOutputCommand()
	require.NoError(t, runDown(cmd, nil))

	assert.Contains(t, buf.String(), "Nothing to roll back.")
}

// --- status ---

func TestRunStatus_listsAppliedAndPending(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	_, migrationsDir := setTestConfig(t)
	writeMigrationFile(t, migrationsDir, "001_create_users.sql", tableMigration("users"))

	cmd, _ := newOutputCommand()
	require.NoError(t, runUp(cmd, nil))

	writeMigrationFile(t, migrationsDir, "002_create_orders.sql", tableMigration("orders"))

	cmd, buf := newOutputCommand()
	require.NoError(t, runStatus(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "001")
	assert.Contains(t, out, "applied")
	assert.Contains(t, out, "002")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "1 pending, 0 conflicting.")
}

func TestRunStatus_upToDate(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	_, migrationsDir := setTestConfig(t)
	writeMigrationFile(t, migrationsDir, "001_create_users.sql", tableMigration("users"))

	cmd, _ := newOutputCommand()
	require.NoError(t, runUp(cmd, nil))

	cmd, buf := newOutputCommand()
	require.NoError(t, runStatus(cmd, nil))

	assert.Contains(t, buf.String(), "Database is up to date.")
}

func TestRunStatus_driftedFile_reportsConflict(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	_, migrationsDir := setTestConfig(t)
	writeMigrationFile(t, migrationsDir, "001_create_users.sql", tableMigration("users"))

	cmd, _ := newOutputCommand()
	require.NoError(t, runUp(cmd, nil))

	writeMigrationFile(t, migrationsDir, "001_create_users.sql",
		"CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT);\n-- DOWN\nDROP TABLE users;\n")

	cmd, buf := newOutputCommand()
	require.NoError(t, runStatus(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "conflict")
	assert.Contains(t, out, "0 pending, 1 conflicting.")
}

// --- init ---

func TestRunInit_createsDirectoryAndLedger(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dbPath, migrationsDir := setTestConfig(t)
	require.NoError(t, os.RemoveAll(migrationsDir))

	cmd, buf := newOutputCommand()
	require.NoError(t, runInit(cmd, nil))

	assert.Contains(t, buf.String(), "Initialized")
	assert.DirExists(t, migrationsDir)
	assert.True(t, tableExists(t, dbPath, "schema_migrations"))
}

// --- generate ---

func TestRunGenerate_numbersSequentially(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	_, migrationsDir := setTestConfig(t)

	cmd, buf := newOutputCommand()
	require.NoError(t, runGenerate(cmd, []string{"create users"}))

	first := filepath.Join(migrationsDir, "001_create_users.sql")
	assert.Contains(t, buf.String(), first)
	require.FileExists(t, first)

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- DOWN")

	cmd, _ = newOutputCommand()
	require.NoError(t, runGenerate(cmd, []string{"create orders"}))
	require.FileExists(t, filepath.Join(migrationsDir, "002_create_orders.sql"))
}

func TestRunGenerate_continuesFromHighestVersion(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	_, migrationsDir := setTestConfig(t)
	writeMigrationFile(t, migrationsDir, "007_existing.sql", tableMigration("existing"))

	cmd, _ := newOutputCommand()
	require.NoError(t, runGenerate(cmd, []string{"next step"}))

	require.FileExists(t, filepath.Join(migrationsDir, "008_next_step.sql"))
}

// --- test ---

func TestRunTest_reachableDatabase(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setTestConfig(t)

	cmd, buf := newOutputCommand()
	require.NoError(t, runTest(cmd, nil))

	assert.Contains(t, buf.String(), "Connection OK")
}

func TestRunTest_missingDatabaseURL_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setTestConfig(t)

	AppConfig.DatabaseURL = ""

	cmd, _ := newOutputCommand()
	err := runTest(cmd, nil)
	require.ErrorIs(t, err, errDatabaseURLRequired)
}
