package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/repertoire/internal/errs"
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RateLimitMessage is the detail of every 429 response.
const RateLimitMessage = "Too many requests, please slow down."

// RateLimitMiddleware limits requests per client IP.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit emits a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint, identifier string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint":   endpoint,
			"identifier": identifier,
		})
	}
}

// Limit returns the rate limiting middleware, or a pass-through when rate
// limiting is disabled. Counters live in Redis when a client is configured
// so that every replica shares them; otherwise they stay in process.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	var store middleware.RateLimiterStore
	if r.server.Redis != nil {
		store = NewRedisRateLimiterStore(r.server.Redis, cfg.Rate, cfg.Burst, r.server.Logger)
	} else {
		store = middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.Rate),
			Burst:     cfg.Burst,
			ExpiresIn: 3 * time.Minute,
		})
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/status", "/metrics":
				return true
			}
			return false
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Could not identify the client.", false, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path(), identifier)
			GetLogger(c).Warn().
				Str("identifier", identifier).
				Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError(RateLimitMessage)
		},
	})
}

// RedisRateLimiterStore is a fixed window counter in Redis. Each window
// admits burst requests and lasts burst/rate seconds, so the long-run rate
// and the burst match the in-memory store.
type RedisRateLimiterStore struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
	logger *zerolog.Logger
	now    func() time.Time
}

var _ middleware.RateLimiterStore = (*RedisRateLimiterStore)(nil)

// NewRedisRateLimiterStore admits burst requests per client every
// burst/perSecond seconds. A burst below one is treated as one.
func NewRedisRateLimiterStore(client *redis.Client, perSecond float64, burst int, logger *zerolog.Logger) *RedisRateLimiterStore {
	limit := max(1, burst)

	window := time.Second
	if perSecond > 0 {
		window = time.Duration(float64(limit) / perSecond * float64(time.Second))
	}

	return &RedisRateLimiterStore{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "repertoire:ratelimit",
		logger: logger,
		now:    time.Now,
	}
}

func (s *RedisRateLimiterStore) key(identifier string) string {
	return fmt.Sprintf("%s:%s:%d", s.prefix, identifier, s.now().UnixNano()/int64(s.window))
}

// Allow implements middleware.RateLimiterStore. Redis failures let the
// request through.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	key := s.key(identifier)

	pipe := s.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*s.window)

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error().Err(err).Str("identifier", identifier).Msg("rate limit store unavailable")
		return true, nil
	}

	return count.Val() <= s.limit, nil
}
