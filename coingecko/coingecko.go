// Package coingecko fetches market data from the CoinGecko public REST API.
//
// Every query goes through a Client that caches raw payloads for a short time
// and throttles outbound requests to stay under the public rate limits. A
// failed query returns an error matching ErrUnavailable: callers are expected
// to degrade gracefully rather than fail.
package coingecko

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	// DefaultTTL is how long a payload is served from cache.
	DefaultTTL = 60 * time.Second
	// DefaultRequestsPerMinute is below the public tier limit.
	DefaultRequestsPerMinute = 30
	DefaultTimeout           = 15 * time.Second

	// demoKeyHeader carries the optional CoinGecko demo API key.
	demoKeyHeader = "x-cg-demo-api-key"
)

// Config configures a Client. Zero fields take their default value.
type Config struct {
	BaseURL string
	APIKey  string

	TTL        time.Duration // markets list, default DefaultTTL
	SearchTTL  time.Duration // default 10 minutes
	CoinTTL    time.Duration // coin details, default 5 minutes
	HistoryTTL time.Duration // default 5 minutes
	GlobalTTL  time.Duration // default 2 minutes

	Timeout           time.Duration
	RequestsPerMinute int

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	// Now overrides the cache clock.
	Now    func() time.Time
	Logger logrus.FieldLogger
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.SearchTTL <= 0 {
		c.SearchTTL = 10 * time.Minute
	}
	if c.CoinTTL <= 0 {
		c.CoinTTL = 5 * time.Minute
	}
	if c.HistoryTTL <= 0 {
		c.HistoryTTL = 5 * time.Minute
	}
	if c.GlobalTTL <= 0 {
		c.GlobalTTL = 2 * time.Minute
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// Client queries the CoinGecko API through a Cache.
// It is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	cache   *Cache
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

// New returns a client configured by cfg, with its own empty cache.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	perRequest := time.Minute / time.Duration(cfg.RequestsPerMinute)
	return &Client{
		cfg:     cfg,
		http:    httpClient,
		cache:   NewCache(cfg.Now),
		limiter: rate.NewLimiter(rate.Every(perRequest), cfg.RequestsPerMinute),
		log:     cfg.Logger,
	}
}

// Cache returns the cache owned by the client.
func (c *Client) Cache() *Cache { return c.cache }
