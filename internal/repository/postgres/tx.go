package postgres

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jmoiron/sqlx"

	"gstbill/internal/port"
)

type txContextKey struct{}

// txFromContext returns the open transaction carried on ctx, if any.
func txFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txContextKey{}).(*sqlx.Tx)
	return tx
}

func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// runner resolves the statement executor for ctx: the carried
// transaction when one is open, the pool otherwise.
func runner(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

type txManager struct {
	db *sqlx.DB
	// savepoint names must be unique within a transaction; a global
	// counter is more than enough.
	seq atomic.Int64
}

// NewTxManager creates a sqlx-backed port.TxManager with savepoint
// support for nested scopes.
func NewTxManager(db *sqlx.DB) port.TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		// Already inside a transaction; join it.
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("txManager.WithinTx begin: %w", err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("txManager.WithinTx rollback after %v: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txManager.WithinTx commit: %w", err)
	}
	return nil
}

func (m *txManager) WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := txFromContext(ctx)
	if tx == nil {
		// No surrounding transaction; a plain transaction gives the
		// same isolation.
		return m.WithinTx(ctx, fn)
	}

	name := fmt.Sprintf("sp_%d", m.seq.Add(1))
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("txManager.WithinSavepoint create: %w", err)
	}

	if err := fn(ctx); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("txManager.WithinSavepoint rollback after %v: %w", err, rbErr)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("txManager.WithinSavepoint release: %w", err)
	}
	return nil
}
