// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers to distinguish
// between different failure scenarios without knowing which SQL driver
// produced them. Driver errors are classified in classify so that a MySQL
// 1062 and a SQLite UNIQUE violation both surface as ErrDuplicate.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrDuplicate is returned when an insert or update violates a unique
// constraint, e.g. a second venue with an existing name.
var ErrDuplicate = errors.New("duplicate key")

// ErrForeignKey is returned when a write references a row that does not
// exist, or a delete would orphan dependent rows.
var ErrForeignKey = errors.New("foreign key violation")

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// ErrArtistNotFound is returned when an artist cannot be found in the DB.
var ErrArtistNotFound = errors.New("artist not found")

// MySQL server error numbers used by classify.
const (
	mysqlDupEntry        = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// classify maps driver specific constraint errors onto the package
// sentinels.  The original error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
		return err
	}
	var liteErr *msqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
	}
	return err
}
