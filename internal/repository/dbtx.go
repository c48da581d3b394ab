package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx so read helpers can run
// inside or outside an aggregate transaction.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// withTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()
	return fn(tx)
}
