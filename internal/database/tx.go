package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/repertoire/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so
// repositories work the same inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner starts transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTransaction runs fn inside one transaction.
//
// The transaction commits when fn returns nil and rolls back otherwise. A
// failed commit (for example a constraint the database only checks at commit
// time) is returned to the caller after the rollback, never retried.
func (db *Database) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return RunInTransaction(ctx, db.Pool, db.log, fn)
}

// RunInTransaction is WithTransaction over any Beginner. A panic in fn rolls
// the transaction back before it is re-raised.
func RunInTransaction(ctx context.Context, conn Beginner, log *zerolog.Logger, fn func(tx pgx.Tx) error) (err error) {
	start := time.Now()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(ctx, tx, log)
			metrics.RecordTransaction(metrics.OutcomeRolledBack, time.Since(start))
			panic(p)
		}

		if err == nil {
			metrics.RecordTransaction(metrics.OutcomeCommitted, time.Since(start))
			return
		}

		rollback(ctx, tx, log)
		metrics.RecordTransaction(metrics.OutcomeRolledBack, time.Since(start))
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// rollback ends tx. A failed Commit already ended the transaction; Rollback
// then reports ErrTxClosed, which is not worth surfacing.
func rollback(ctx context.Context, tx pgx.Tx, log *zerolog.Logger) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Error().Err(err).Msg("failed to roll back transaction")
	}
}
