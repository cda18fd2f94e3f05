package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/vocablog/migrations"
	"github.com/pkordes/vocablog/testutil"
)

// TestMigrations verifies the full migration round-trip against a real
// Postgres database:
//
//  1. Apply all migrations (goose up).
//  2. Assert the words table exists.
//  3. Roll back all migrations (goose reset).
//  4. Assert the table has been removed.
//
// The test is skipped automatically when TEST_DATABASE_URL is not set.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Another package's TestMain may have already applied migrations against
	// this shared test DB. Reset to version 0 first so this test is
	// order-independent.
	if _, err := provider.DownTo(ctx, 0); err != nil {
		t.Fatalf("TestMigrations: initial reset: %v", err)
	}

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results, "expected at least one migration to be applied")
	assertTablePresence(t, db, "words", true)

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")
	assertTablePresence(t, db, "words", false)

	// leave the schema in place for packages that run afterwards
	_, err = provider.Up(ctx)
	require.NoError(t, err, "goose up again")
}

func TestMigrations_SQLite(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	var name string
	err := db.QueryRowContext(context.Background(),
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'words'`).Scan(&name)

	require.NoError(t, err)
	assert.Equal(t, "words", name)

	// a second Up is a no-op
	n, err := migrations.Up(context.Background(), goose.DialectSQLite3, db)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func assertTablePresence(t *testing.T, db *sql.DB, table string, shouldExist bool) {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			AND   table_name   = $1
		)`
	var exists bool
	err := db.QueryRowContext(context.Background(), q, table).Scan(&exists)
	require.NoError(t, err, "check table existence for %q", table)

	if shouldExist {
		assert.True(t, exists, "expected table %q to exist", table)
	} else {
		assert.False(t, exists, "expected table %q to not exist", table)
	}
}
