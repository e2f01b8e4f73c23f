package lexsearch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration

	identityURL string
	identityKey string
	token       string

	cacheDriver  string // "valkey" or "redis"
	cacheAddrs   []string
	cachePass    string
	cachePrefix  string
	dateRangeTTL time.Duration
	catalogSize  int
	catalogTTL   time.Duration

	casesDSN      string
	casesMaxConns int32

	pollInterval time.Duration
	pollMax      int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithHTTPClient replaces the HTTP client used for backend calls.
func WithHTTPClient(c *http.Client) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.httpClient = c
	})
}

// WithTimeout sets the backend request timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithIdentity enables Auth() against a GoTrue-compatible identity provider.
// The signed-in session's token is attached to every backend call.
func WithIdentity(url, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.identityURL = url
		c.identityKey = apiKey
	})
}

// WithToken attaches a fixed bearer token to backend calls.
// Ignored when WithIdentity is set.
func WithToken(token string) Option {
	return optionFunc(func(c *clientConfig) {
		c.token = token
	})
}

// WithValkey caches the corpus date range in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePass = password
	})
}

// WithRedis caches the corpus date range in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePass = password
	})
}

// WithCachePrefix namespaces cache keys when several deployments share one
// instance. Default: "lexsearch:".
func WithCachePrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cachePrefix = prefix
	})
}

// WithDateRangeTTL sets how long a cached date range is served. Default: 1h.
func WithDateRangeTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.dateRangeTTL = d
	})
}

// WithCatalogCache sizes the in-process catalog cache. A size of 0 disables it.
// Default: 256 entries for 5m.
func WithCatalogCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogSize = size
		c.catalogTTL = ttl
	})
}

// WithCaseStore enables Cases() backed by a Postgres database.
func WithCaseStore(dsn string, maxConns int32) Option {
	return optionFunc(func(c *clientConfig) {
		c.casesDSN = dsn
		c.casesMaxConns = maxConns
	})
}

// WithPollDefaults sets the batch poll interval and attempt ceiling used when
// PollOptions leaves them unset. Default: 2s, unbounded.
func WithPollDefaults(interval time.Duration, maxAttempts int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pollInterval = interval
		c.pollMax = maxAttempts
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
