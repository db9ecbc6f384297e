package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/repertoire/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetRequest struct {
	ID    int    `param:"id" json:"-"`
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func (r *widgetRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	if r.Count > 10 {
		return CustomValidationErrors{{Field: "count", Message: "Count is limited to 10."}}
	}
	return nil
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/widgets/3", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("3")
	return c
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidate(t *testing.T) {
	t.Run("binds path and body", func(t *testing.T) {
		req := &widgetRequest{}
		require.NoError(t, BindAndValidate(newContext(`{"name":"bolt","count":2}`), req))
		assert.Equal(t, 3, req.ID)
		assert.Equal(t, "bolt", req.Name)
	})

	t.Run("malformed json", func(t *testing.T) {
		httpErr := asHTTPError(t, BindAndValidate(newContext(`{"name":`), &widgetRequest{}))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.NotEmpty(t, httpErr.Message)
	})

	t.Run("tag violations become field errors", func(t *testing.T) {
		httpErr := asHTTPError(t, BindAndValidate(newContext(`{"count":0}`), &widgetRequest{}))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "Validation failed", httpErr.Message)
		assert.Contains(t, httpErr.Errors, errs.FieldError{Field: "Name", Error: "is required"})
		assert.Contains(t, httpErr.Errors, errs.FieldError{Field: "Count", Error: "must be at least 1"})
	})

	t.Run("single custom error becomes the detail", func(t *testing.T) {
		httpErr := asHTTPError(t, BindAndValidate(newContext(`{"name":"bolt","count":11}`), &widgetRequest{}))
		assert.Equal(t, "Count is limited to 10.", httpErr.Message)
		assert.Equal(t, []errs.FieldError{{Field: "count", Error: "Count is limited to 10."}}, httpErr.Errors)
	})
}

func TestCustomValidationErrorsMessage(t *testing.T) {
	assert.Equal(t, "Validation failed", CustomValidationErrors{}.Error())
	assert.Equal(t, "a.", CustomValidationErrors{{Message: "a."}}.Error())
	assert.Equal(t, "a. b.", CustomValidationErrors{{Message: "a."}, {Message: "b."}}.Error())
}
