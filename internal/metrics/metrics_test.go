package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/repertoire/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"http error", errs.NewNotFoundError("Piece name: 'x' not found.", true, nil), http.StatusNotFound},
		{"echo error", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{"check violation", &pgconn.PgError{Code: "23514", TableName: "piece"}, http.StatusBadRequest},
		{"wrapped no rows", fmt.Errorf("table:composer: %w", pgx.ErrNoRows), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, statusFromError(tt.err))
		})
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/composers", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.POST("/pieces", func(c echo.Context) error {
		return errs.NewBadRequestError("bad", true, nil, nil)
	})

	ok := httpRequests.WithLabelValues(http.MethodGet, "/composers", "200")
	bad := httpRequests.WithLabelValues(http.MethodPost, "/pieces", "400")
	okBefore := testutil.ToFloat64(ok)
	badBefore := testutil.ToFloat64(bad)

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/composers", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/composers", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/pieces", nil))

	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	assert.Equal(t, badBefore+1, testutil.ToFloat64(bad))
	assert.Zero(t, testutil.ToFloat64(httpInFlight))
}

func TestRecordTransaction(t *testing.T) {
	committed := transactions.WithLabelValues(OutcomeCommitted)
	before := testutil.ToFloat64(committed)

	RecordTransaction(OutcomeCommitted, 3*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(committed))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordTransaction(OutcomeRolledBack, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `repertoire_store_transactions_total{outcome="rolled_back"}`)
}
