// Package server serves the dashboard JSON API.
//
// Market data is proxied from the upstream API through the client cache.
// Portfolios and watchlists live in per-session memory; clients create a
// session first and address its state by id.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/coins"
	"github.com/etnz/coins/coingecko"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Market is the market data source of the server.
type Market interface {
	coins.MarketFetcher
	Search(ctx context.Context, query string) ([]coins.SearchResult, error)
	Coin(ctx context.Context, id string) (coins.CoinDetails, error)
	History(ctx context.Context, id string, tf coins.Timeframe) (coins.PriceSeries, error)
	HistoryAll(ctx context.Context, ids []string, tf coins.Timeframe) map[string]coingecko.HistoryResult
	Global(ctx context.Context) (coins.GlobalMarket, error)
}

// Options configures the server. Zero fields take their default value.
type Options struct {
	// AllowOrigins lists the CORS origins, any origin when empty or "*".
	AllowOrigins []string
	// Registry collects the server metrics and is served on /metrics,
	// defaults to coingecko.Registry.
	Registry *prometheus.Registry
	Logger   logrus.FieldLogger
}

// Server holds the API handlers.
type Server struct {
	market   Market
	sessions *coins.Sessions
	log      logrus.FieldLogger
	requests *prometheus.CounterVec
}

// New returns the API handler.
func New(m Market, sessions *coins.Sessions, opts Options) *gin.Engine {
	if opts.Registry == nil {
		opts.Registry = coingecko.Registry
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	s := &Server{
		market:   m,
		sessions: sessions,
		log:      opts.Logger,
		requests: register(opts.Registry, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coins",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "API requests by route and status code.",
			},
			[]string{"route", "code"},
		)),
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests)
	router.Use(cors.New(corsConfig(opts.AllowOrigins)))

	api := router.Group("/api")
	{
		api.GET("/coins", s.topCoins)
		api.GET("/coins/:id", s.coin)
		api.GET("/coins/:id/history", s.history)
		api.GET("/search", s.search)
		api.GET("/global", s.global)
		api.GET("/dominance", s.dominance)
		api.GET("/movers", s.movers)

		api.POST("/sessions", s.newSession)
		api.GET("/sessions/:sid", s.session)

		api.GET("/sessions/:sid/portfolio", s.portfolio)
		api.POST("/sessions/:sid/portfolio", s.addHolding)
		api.DELETE("/sessions/:sid/portfolio/:coin", s.removeHolding)
		api.DELETE("/sessions/:sid/portfolio", s.clearPortfolio)

		api.GET("/sessions/:sid/watchlist", s.watchlist)
		api.POST("/sessions/:sid/watchlist", s.watch)
		api.DELETE("/sessions/:sid/watchlist/:coin", s.unwatch)
		api.DELETE("/sessions/:sid/watchlist", s.clearWatchlist)
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	return router
}

// register registers c in reg, or returns the identical collector already registered.
func register(reg *prometheus.Registry, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(err)
	}
	return c
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.ExposeHeaders = []string{"Content-Length"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	return config
}

// SplitOrigins parses a comma separated list of origins.
func SplitOrigins(s string) []string {
	var res []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			res = append(res, o)
		}
	}
	return res
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	s.log.WithFields(logrus.Fields{
		"status":   status,
		"duration": time.Since(start),
	}).Infof("%v %v", c.Request.Method, c.Request.URL.Path)
}

// fail aborts the request with the status matching err.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, coingecko.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, coins.ErrUnknownSession):
		status = http.StatusNotFound
	case errors.Is(err, coins.ErrInvalidAmount),
		errors.Is(err, coins.ErrEmptyCoinID),
		errors.Is(err, coins.ErrAlreadyWatched),
		errors.Is(err, coins.ErrNotWatched),
		errors.Is(err, coins.ErrNotHeld),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

var errBadRequest = errors.New("bad request")
