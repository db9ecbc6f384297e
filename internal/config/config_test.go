package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	for key, value := range map[string]string{
		"REPERTOIRE_PRIMARY__ENV":                 "test",
		"REPERTOIRE_SERVER__PORT":                 "8080",
		"REPERTOIRE_SERVER__READ_TIMEOUT":         "30",
		"REPERTOIRE_SERVER__WRITE_TIMEOUT":        "30",
		"REPERTOIRE_SERVER__IDLE_TIMEOUT":         "60",
		"REPERTOIRE_SERVER__CORS_ALLOWED_ORIGINS": "http://localhost:3000",
		"REPERTOIRE_DATABASE__HOST":               "localhost",
		"REPERTOIRE_DATABASE__PORT":               "5432",
		"REPERTOIRE_DATABASE__USER":               "postgres",
		"REPERTOIRE_DATABASE__PASSWORD":           "p@ss word",
		"REPERTOIRE_DATABASE__NAME":               "repertoire",
		"REPERTOIRE_DATABASE__SSL_MODE":           "disable",
		"REPERTOIRE_DATABASE__MAX_OPEN_CONNS":     "10",
		"REPERTOIRE_DATABASE__MAX_IDLE_CONNS":     "5",
		"REPERTOIRE_DATABASE__CONN_MAX_LIFETIME":  "300",
		"REPERTOIRE_DATABASE__CONN_MAX_IDLE_TIME": "60",
	} {
		t.Setenv(key, value)
	}
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "test", cfg.Observability.Environment)
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)

	assert.Equal(t, "data/composers.json", cfg.Seed.ComposersPath)
	assert.Equal(t, "data/pieces.json", cfg.Seed.PiecesPath)
	assert.Equal(t, float64(20), cfg.RateLimit.Rate)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.Redis.Address)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REPERTOIRE_REDIS__ADDRESS", "localhost:6379")
	t.Setenv("REPERTOIRE_RATE_LIMIT__ENABLED", "true")
	t.Setenv("REPERTOIRE_RATE_LIMIT__RATE", "5")
	t.Setenv("REPERTOIRE_SEED__ENABLED", "true")
	t.Setenv("REPERTOIRE_SEED__PIECES_PATH", "/srv/pieces.json")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, float64(5), cfg.RateLimit.Rate)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, "/srv/pieces.json", cfg.Seed.PiecesPath)
}

func TestLoadConfigFractionalRateKeepsBurst(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REPERTOIRE_RATE_LIMIT__RATE", "0.25")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.RateLimit.Rate)
	assert.Equal(t, 1, cfg.RateLimit.Burst)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REPERTOIRE_DATABASE__HOST", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "config validation failed")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("REPERTOIRE_SERVER__PORT"))
	assert.Equal(t, "server.port", envKey("REPERTOIRE_SERVER.PORT"))
	assert.Equal(t, "observability.new_relic.license_key", envKey("REPERTOIRE_OBSERVABILITY__NEW_RELIC__LICENSE_KEY"))
}

func TestDSNEscapesPassword(t *testing.T) {
	dsn := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss word",
		Name:     "repertoire",
		SSLMode:  "disable",
	}.DSN()

	assert.Equal(t, "postgres://postgres:p%40ss+word@db:5432/repertoire?sslmode=disable", dsn)
}

func TestObservabilityValidate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.Level = ""
	cfg.Environment = "production"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.True(t, cfg.HealthCheckEnabled("database"))
	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HealthCheckEnabled("database"))
}
