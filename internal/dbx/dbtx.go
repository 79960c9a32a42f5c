// Package dbx provides tiny database/sql abstractions shared by the local
// repositories: the DBTX subset implemented by both *sql.DB and *sql.Tx,
// a transaction helper and Source, a lazily opened database handle.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Source yields the database a repository should talk to. Implementations
// may open the database on first use.
type Source interface {
	DB(ctx context.Context) (*sql.DB, error)
}

// Static adapts an already opened *sql.DB to Source.
func Static(db *sql.DB) Source {
	return staticSource{db: db}
}

type staticSource struct {
	db *sql.DB
}

func (s staticSource) DB(context.Context) (*sql.DB, error) {
	return s.db, nil
}

// WithTx begins a transaction, runs fn with the transactional handle and
// commits on success. It rolls back on error or panic; panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
