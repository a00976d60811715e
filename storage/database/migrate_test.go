package database_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/storage/database"
)

const lastVersion = 21

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tables(t *testing.T, db *sqlx.DB) []string {
	t.Helper()
	var names []string
	err := db.Select(&names, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'goose_db_version' ORDER BY name`)
	require.NoError(t, err)
	return names
}

func version(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, database.RunMigration(context.Background(), db, &out, "version"))
	return out.String()
}

func TestOpenSQLite(t *testing.T) {
	_, err := database.OpenSQLite(" ")
	assert.Error(t, err)

	db := openDB(t)
	assert.Equal(t, core.EngineSQLite, database.Dialect(db))
	var fk int
	require.NoError(t, db.Get(&fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk)
}

func TestMigrate_UpDown(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	require.NoError(t, database.Migrate(ctx, db))
	assert.Equal(t, "version 21\n", version(t, db))
	assert.Len(t, tables(t, db), lastVersion-1) // 00002 alters users
	assert.Contains(t, tables(t, db), "student_parent")

	// idempotent
	require.NoError(t, database.Migrate(ctx, db))

	var out bytes.Buffer
	require.NoError(t, database.RunMigration(ctx, db, &out, "reset"))
	assert.Contains(t, out.String(), "00001_create_users.sql")
	assert.Empty(t, tables(t, db))
	assert.Equal(t, "version 0\n", version(t, db))

	out.Reset()
	require.NoError(t, database.RunMigration(ctx, db, &out, "up-to", "2"))
	assert.Equal(t, []string{"users"}, tables(t, db))
	var cols []string
	require.NoError(t, db.Select(&cols, "SELECT name FROM pragma_table_info('users') ORDER BY cid"))
	assert.Contains(t, cols, "role")
	assert.Contains(t, cols, "is_active")

	out.Reset()
	require.NoError(t, database.RunMigration(ctx, db, &out, "down"))
	cols = nil
	require.NoError(t, db.Select(&cols, "SELECT name FROM pragma_table_info('users') ORDER BY cid"))
	assert.NotContains(t, cols, "role")
	assert.NotContains(t, cols, "is_active")
	assert.Contains(t, cols, "last_login")

	out.Reset()
	require.NoError(t, database.RunMigration(ctx, db, &out, "up"))
	assert.Equal(t, "version 21\n", version(t, db))

	out.Reset()
	require.NoError(t, database.RunMigration(ctx, db, &out, "up"))
	assert.Equal(t, "no migrations to run\n", out.String())

	out.Reset()
	require.NoError(t, database.RunMigration(ctx, db, &out, "redo"))
	assert.Contains(t, out.String(), "00021_create_employees.sql")
	assert.Equal(t, "version 21\n", version(t, db))

	out.Reset()
	require.NoError(t, database.RunMigration(ctx, db, &out, "status"))
	assert.Contains(t, out.String(), "Applied At")
	assert.NotContains(t, out.String(), "Pending")
}

func TestRunMigration_Errors(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	var out bytes.Buffer

	tests := []struct {
		command string
		args    []string
		wantErr string
	}{
		{"sideways", nil, `"sideways": no such command`},
		{"up-to", nil, "up-to must be of form: migrate up-to VERSION"},
		{"down-to", []string{"one"}, "version must be a number (got 'one')"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			err := database.RunMigration(ctx, db, &out, tt.command, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
