package chowgo

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	token      func() string

	storeDriver   string // "memory" or "redis"
	redisAddrs    []string
	redisPassword string
	ttl           time.Duration
	sweepInterval time.Duration

	sessionID string
	now       func() time.Time

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the backend API base URL (e.g. "http://localhost:3001/api").
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithHTTPClient overrides the HTTP client used for all backend calls.
func WithHTTPClient(h *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = h
	})
}

// WithToken sets a static bearer credential. Requests without one are sent
// unauthenticated; the backend decides whether to reject them.
func WithToken(token string) Option {
	return optionFunc(func(c *clientConfig) {
		c.token = func() string { return token }
	})
}

// WithTokenSource sets a per-request bearer credential source, for tokens
// an external identity provider refreshes.
func WithTokenSource(source func() string) Option {
	return optionFunc(func(c *clientConfig) {
		c.token = source
	})
}

// WithRedis persists session state in Redis instead of process memory.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.storeDriver = "redis"
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithDefaultTTL overrides how long session state outlives its last write.
// Default: 6 hours.
func WithDefaultTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.ttl = ttl
	})
}

// WithSweepInterval overrides how often the memory store sweeps expired
// entries. No effect on the Redis store (expiry is server-side).
func WithSweepInterval(interval time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sweepInterval = interval
	})
}

// WithSessionID pins the chat session identifier instead of minting one.
func WithSessionID(id string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionID = id
	})
}

// WithClock overrides the time source for TTL expiry and the open-now
// filter. Intended for tests.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.now = now
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
