package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/repertoire/internal/middleware"
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports whether the service and its dependencies are reachable.
type HealthHandler struct {
	Handler
	checks map[string]HealthCheck
}

// NewHealthHandler registers the database and, when configured, redis
// checks that the observability config enables.
func NewHealthHandler(s *server.Server) *HealthHandler {
	checks := map[string]HealthCheck{}

	if s.DB != nil && s.Config.Observability.HealthCheckEnabled("database") {
		checks["database"] = s.DB.Pool.Ping
	}
	if s.Redis != nil && s.Config.Observability.HealthCheckEnabled("redis") {
		checks["redis"] = func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}
	}

	return NewHealthHandlerWithChecks(s, checks)
}

func NewHealthHandlerWithChecks(s *server.Server, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  checks,
	}
}

// CheckHealth returns 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any, len(h.checks))
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}
	isHealthy := true

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
		checkStart := time.Now()
		err := check(ctx)
		cancel()
		elapsed := time.Since(checkStart)

		if err != nil {
			isHealthy = false
			checks[name] = map[string]any{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Str("check", name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.recordHealthCheckError(map[string]any{
				"check_type":       name,
				"operation":        "health_check",
				"error_type":       name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
			continue
		}

		checks[name] = map[string]any{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}

		logger.Debug().
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check passed")
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

func (h *HealthHandler) recordHealthCheckError(attributes map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attributes)
	}
}
