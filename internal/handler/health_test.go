package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/repertoire/internal/config"
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func checkHealth(t *testing.T, h *HealthHandler) (int, map[string]any) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)

	require.NoError(t, h.CheckHealth(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestCheckHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandlerWithChecks(newHealthServer(), map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})

		status, body := checkHealth(t, h)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "test", body["environment"])
		checks := body["checks"].(map[string]any)
		assert.Equal(t, "healthy", checks["database"].(map[string]any)["status"])
	})

	t.Run("one failing dependency", func(t *testing.T) {
		h := NewHealthHandlerWithChecks(newHealthServer(), map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})

		status, body := checkHealth(t, h)

		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "unhealthy", body["status"])
		redis := body["checks"].(map[string]any)["redis"].(map[string]any)
		assert.Equal(t, "connection refused", redis["error"])
	})

	t.Run("checks receive a deadline", func(t *testing.T) {
		var hasDeadline bool
		h := NewHealthHandlerWithChecks(newHealthServer(), map[string]HealthCheck{
			"database": func(ctx context.Context) error {
				_, hasDeadline = ctx.Deadline()
				return nil
			},
		})

		checkHealth(t, h)
		assert.True(t, hasDeadline)
	})
}

func TestNewHealthHandlerSkipsUnconfiguredDependencies(t *testing.T) {
	h := NewHealthHandler(newHealthServer())
	assert.Empty(t, h.checks)
}
