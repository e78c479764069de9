package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	content := `-- header comment
CREATE TABLE a (
    id INTEGER
);

-- second
CREATE INDEX idx_a ON a (id);
INSERT INTO a (id) VALUES (1)`

	stmts := SplitStatements(content)
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (\n    id INTEGER\n)", stmts[0])
	assert.Equal(t, "CREATE INDEX idx_a ON a (id)", stmts[1])
	assert.Equal(t, "INSERT INTO a (id) VALUES (1)", stmts[2])
}

func TestSplitStatementsEmpty(t *testing.T) {
	assert.Empty(t, SplitStatements("-- nothing here\n\n"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "postgres://localhost/db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported db driver")
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(DriverSQLite, "  ")
	require.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	assert.Equal(t,
		"root:secret@tcp(db:3306)/booking?charset=utf8mb4&parseTime=true&loc=UTC",
		MySQLDSN("root", "secret", "db", "3306", "booking"))
	assert.Equal(t,
		"root@tcp(db:3306)/booking?charset=utf8mb4&parseTime=true&loc=UTC",
		MySQLDSN("root", "", "db", "3306", "booking"))
}

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(DriverSQLite, SQLiteDSN(filepath.Join(t.TempDir(), "booking.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applied, err := Migrate(ctx, db, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_directory.sql"}, applied)

	applied, err = Migrate(ctx, db, DriverSQLite)
	require.NoError(t, err)
	assert.Empty(t, applied)

	for _, table := range []string{"venues", "artists", "shows"} {
		var n int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestMigrateUnknownDriver(t *testing.T) {
	db, err := Open(DriverSQLite, SQLiteDSN(filepath.Join(t.TempDir(), "booking.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = Migrate(context.Background(), db, "oracle")
	require.Error(t, err)
}

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	db, err := Open(DriverSQLite, SQLiteDSN(filepath.Join(t.TempDir(), "booking.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cases := map[string]string{
		"École Hall": "école hall",
		"ÑANDÚ":      "ñandú",
		"plain":      "plain",
	}
	for in, want := range cases {
		var got string
		require.NoError(t, db.QueryRowContext(context.Background(), "SELECT LOWER(?)", in).Scan(&got))
		assert.Equal(t, want, got, in)
	}

	var null sql.NullString
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT LOWER(NULL)").Scan(&null))
	assert.False(t, null.Valid)
}
