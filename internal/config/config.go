// Package config manages environment variables.
//
// It reads variables from the process environment (and an optional `.env`
// file), loads them into structured Go types, and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (observability, seed, rate limit).
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable must carry.
//
// Nesting is expressed either with "." or with "__":
//
//	REPERTOIRE_SERVER.PORT      -> server.port
//	REPERTOIRE_DATABASE__HOST   -> database.host
const EnvPrefix = "REPERTOIRE_"

// ServiceName tags logs, traces and metrics emitted by this service.
const ServiceName = "repertoire"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from and the
// `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Seed          SeedConfig           `koanf:"seed"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
//
// Redis is optional. When Address is empty the service runs without it and
// the rate limiter falls back to an in-process store.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// RateLimitConfig controls the per-client request limiter. Rate is the
// sustained requests per second and Burst the requests admitted at once,
// for both the in-memory and the Redis store.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	Rate    float64 `koanf:"rate" validate:"gte=0"`
	Burst   int     `koanf:"burst" validate:"gte=0"`
}

// SeedConfig points at the JSON collections loaded by the seeder.
type SeedConfig struct {
	// Enabled runs the seeder as part of `serve` startup.
	Enabled       bool   `koanf:"enabled"`
	ComposersPath string `koanf:"composers_path"`
	PiecesPath    string `koanf:"pieces_path"`
}

// DSN builds the postgres URL for this database config.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		d.Name,
		d.SSLMode,
	)
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies defaults, and returns the result.
//
// Behavior summary:
//   - Loads env vars with prefix REPERTOIRE_
//   - Converts env keys into koanf keys using "." nesting
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Fills defaults for observability, seed and rate limit blocks
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config so that
	// logs and traces are consistently tagged.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	mainConfig.Seed.applyDefaults()
	mainConfig.RateLimit.applyDefaults()

	return mainConfig, nil
}

// envKey maps REPERTOIRE_SERVER__PORT (or REPERTOIRE_SERVER.PORT) to server.port.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func (s *SeedConfig) applyDefaults() {
	if s.ComposersPath == "" {
		s.ComposersPath = "data/composers.json"
	}
	if s.PiecesPath == "" {
		s.PiecesPath = "data/pieces.json"
	}
}

func (r *RateLimitConfig) applyDefaults() {
	if r.Rate == 0 {
		r.Rate = 20
	}
	if r.Burst == 0 {
		r.Burst = max(1, int(r.Rate*2))
	}
}
