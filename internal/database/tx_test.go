package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestRunInTransactionCommits(t *testing.T) {
	mock := newMockPool(t)
	logger := zerolog.Nop()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM piece`).WithArgs(1).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := RunInTransaction(context.Background(), mock, &logger, func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(), `DELETE FROM piece WHERE id = $1`, 1)
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	mock := newMockPool(t)
	logger := zerolog.Nop()
	failure := errors.New("composer missing")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := RunInTransaction(context.Background(), mock, &logger, func(tx pgx.Tx) error {
		return failure
	})

	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransactionWrapsCommitFailure(t *testing.T) {
	mock := newMockPool(t)
	logger := zerolog.Nop()
	commitErr := errors.New("check constraint violated at commit")

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(commitErr)
	mock.ExpectRollback()

	err := RunInTransaction(context.Background(), mock, &logger, func(tx pgx.Tx) error { return nil })

	assert.ErrorIs(t, err, commitErr)
	assert.ErrorContains(t, err, "failed to commit transaction")
}

func TestRunInTransactionRollsBackOnPanic(t *testing.T) {
	mock := newMockPool(t)
	logger := zerolog.Nop()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTransaction(context.Background(), mock, &logger, func(tx pgx.Tx) error {
			panic("boom")
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransactionBeginFailure(t *testing.T) {
	mock := newMockPool(t)
	logger := zerolog.Nop()

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	called := false
	err := RunInTransaction(context.Background(), mock, &logger, func(tx pgx.Tx) error {
		called = true
		return nil
	})

	assert.ErrorContains(t, err, "failed to begin transaction")
	assert.False(t, called)
}
