package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Transactor defines the interface for managing transactions
type Transactor interface {
	// WithTransaction executes fn within a transaction
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// DBTransactor implements Transactor on a pgx pool
type DBTransactor struct {
	db *pgxpool.Pool
}

func NewDBTransactor(db *pgxpool.Pool) *DBTransactor {
	return &DBTransactor{db: db}
}

// WithTransaction executes the given function within a transaction. The
// transaction is committed only if fn succeeds; constraint checks deferred to
// commit time surface as the returned error.
func (t *DBTransactor) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	// Store transaction in context
	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %w, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// txKey is used to store transaction in context
type txKey struct{}

// QueriesFor binds q to the transaction carried by ctx, if any.
func (q *Queries) QueriesFor(ctx context.Context) *Queries {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return q.WithTx(tx)
	}
	return q
}
