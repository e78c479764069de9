package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is the subset of *sql.DB and *sql.Tx used by the repositories.
// Binding a repository to a *sql.Tx makes every call participate in that
// transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns the connection pool.  It never exposes repositories bound to
// the pool directly; callers obtain a Tx through InTx for every operation.
type Store struct {
	db *sql.DB
}

// NewStore constructs a Store with the provided DB handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying sql.DB, e.g. for migrations and health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Tx bundles the repositories bound to a single transaction.
type Tx struct {
	Venues  *VenueRepo
	Artists *ArtistRepo
	Shows   *ShowRepo
}

// InTx runs fn inside a transaction.  The transaction is committed when fn
// returns nil and rolled back when fn returns an error or panics; the
// connection is released on every path.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
			return
		}
		if cerr := sqlTx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", classify(cerr))
		}
	}()
	return fn(&Tx{
		Venues:  NewVenueRepo(sqlTx),
		Artists: NewArtistRepo(sqlTx),
		Shows:   NewShowRepo(sqlTx),
	})
}
