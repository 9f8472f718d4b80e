package postgres

import (
	"context"
	"database/sql"
	"fmt"

	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/types"
	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// Tx is a transaction carried in the context. Nested WithTx calls reuse it
// through savepoints.
type Tx struct {
	*sqlx.Tx
	ID    string
	depth int
}

// GetTx returns the transaction bound to ctx, if any
func GetTx(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*Tx)
	return tx, ok
}

func (tx *Tx) savepoint() string {
	return fmt.Sprintf("sp_%d", tx.depth)
}

// BeginTx opens a transaction, or a savepoint when ctx already carries one
func (db *DB) BeginTx(ctx context.Context) (context.Context, *Tx, error) {
	if tx, ok := GetTx(ctx); ok {
		tx.depth++
		if err := db.execSavepoint(ctx, tx, "SAVEPOINT"); err != nil {
			tx.depth--
			return ctx, nil, err
		}
		return ctx, tx, nil
	}

	sqlxTx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return ctx, nil, ierr.WithError(err).
			WithHint("Failed to begin transaction").
			Mark(ierr.ErrDatabase)
	}

	tx := &Tx{Tx: sqlxTx, ID: types.GenerateUUID()}
	db.logger.Debugw("transaction started", "tx_id", tx.ID)
	return context.WithValue(ctx, txKey{}, tx), tx, nil
}

// CommitTx commits the innermost level of the transaction in ctx
func (db *DB) CommitTx(ctx context.Context) error {
	return db.endTx(ctx, "RELEASE SAVEPOINT", func(tx *Tx) error { return tx.Commit() })
}

// RollbackTx rolls back the innermost level of the transaction in ctx
func (db *DB) RollbackTx(ctx context.Context) error {
	return db.endTx(ctx, "ROLLBACK TO SAVEPOINT", func(tx *Tx) error { return tx.Rollback() })
}

func (db *DB) endTx(ctx context.Context, savepointStmt string, finish func(*Tx) error) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return ierr.NewError("no transaction in context").
			WithHint("Database transaction is missing").
			Mark(ierr.ErrSystem)
	}

	if tx.depth > 0 {
		err := db.execSavepoint(ctx, tx, savepointStmt)
		tx.depth--
		return err
	}

	db.logger.Debugw("transaction finished", "tx_id", tx.ID, "statement", savepointStmt)
	if err := finish(tx); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to finish transaction").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (db *DB) execSavepoint(ctx context.Context, tx *Tx, stmt string) error {
	db.logger.Debugw("savepoint", "tx_id", tx.ID, "statement", stmt, "savepoint", tx.savepoint())
	if _, err := tx.ExecContext(ctx, stmt+" "+tx.savepoint()); err != nil {
		return ierr.WithError(err).
			WithMessagef("%s %s", stmt, tx.savepoint()).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// WithTx runs fn inside a transaction. fn's error rolls the level back; a
// panic rolls back and is re-raised.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			db.logger.Errorw("panic in transaction", "tx_id", tx.ID, "panic", r)
			_ = db.RollbackTx(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		db.logger.Errorw("transaction rolled back", "tx_id", tx.ID, "error", err)
		if rbErr := db.RollbackTx(ctx); rbErr != nil {
			db.logger.Errorw("rollback failed", "tx_id", tx.ID, "error", rbErr)
		}
		return err
	}

	return db.CommitTx(ctx)
}
