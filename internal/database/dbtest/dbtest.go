// Package dbtest opens throwaway SQLite databases with the directory
// schema applied, for use in tests of packages above the database layer.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking/internal/database"
)

// Open returns a migrated SQLite database living in t.TempDir.  The
// handle is closed when the test finishes.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, database.SQLiteDSN(filepath.Join(t.TempDir(), "directory.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.Migrate(context.Background(), db, database.DriverSQLite)
	require.NoError(t, err)
	return db
}
