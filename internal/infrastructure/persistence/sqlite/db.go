// Package sqlite adapts pkg/database to the application's TransactionManager
// by carrying the open transaction in the context.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/pkg/database"
)

type txKey struct{}

// DB implements port.TransactionManager over a cabinet database
type DB struct {
	base *database.DB
}

// NewDB wraps an open database
func NewDB(base *database.DB) *DB {
	return &DB{base: base}
}

// WithTransaction runs fn with a transaction in its context. Nested calls
// join the outer transaction.
func (db *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	return db.base.WithTransaction(ctx, func(tx *sql.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Executor returns the transaction carried by ctx, or the database itself.
// Repositories use it so their statements join an open WithTransaction.
func (db *DB) Executor(ctx context.Context) Executor {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return db.base.DB
}

func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// Executor covers both *sql.DB and *sql.Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ port.TransactionManager = (*DB)(nil)
