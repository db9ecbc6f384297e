package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/repertoire/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handled(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(HandleError(err), &httpErr))
	return httpErr
}

func TestHandleErrorCheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23514",
		Message:        `new row for relation "piece" violates check constraint "piece_difficulty_check"`,
		TableName:      "piece",
		ConstraintName: ConstraintPieceDifficulty,
	}

	httpErr := handled(t, fmt.Errorf("failed to commit transaction: %w", pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PIECE_INVALID", httpErr.Code)
	assert.Equal(t,
		"Difficulty is limited to the integers of 1 - 10 inclusively. Error: "+pgErr.Message,
		httpErr.Message)
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	httpErr := handled(t, &pgconn.PgError{
		Code:           "23503",
		Message:        `insert or update on table "piece" violates foreign key constraint "piece_composer_id_fkey"`,
		TableName:      "piece",
		ColumnName:     "composer_id",
		ConstraintName: ConstraintPieceComposer,
	})

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PIECE_NOT_FOUND", httpErr.Code)
	assert.Contains(t, httpErr.Message, "The referenced composer does not exist.")
}

func TestHandleErrorNotNull(t *testing.T) {
	httpErr := handled(t, &pgconn.PgError{Code: "23502", TableName: "composer", ColumnName: "home_country"})

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "The Home Country is required.", httpErr.Message)
	assert.Equal(t, []errs.FieldError{{Field: "home_country", Error: "is required"}}, httpErr.Errors)
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	httpErr := handled(t, &pgconn.PgError{Code: "23505", TableName: "composer", ConstraintName: "composer_name_key"})

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "COMPOSER_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Composer with this Name already exists.", httpErr.Message)
}

func TestHandleErrorNoRows(t *testing.T) {
	httpErr := handled(t, fmt.Errorf("table:composer: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Composer not found.", httpErr.Message)

	httpErr = handled(t, pgx.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewNotFoundError("Composer ID: 3 not found.", true, nil)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := handled(t, errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), httpErr.Message)

	httpErr = handled(t, &pgconn.PgError{Code: "53300"})
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, CheckViolation, ErrCode(&pgconn.PgError{Code: "23514"}))
	assert.Equal(t, ForeignKeyViolation, ErrCode(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23503"})))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}
