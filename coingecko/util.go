package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUnavailable is matched by every error caused by the upstream API: network
// errors, non-2xx statuses and malformed payloads. Such failures are transient
// and are never cached.
var ErrUnavailable = errors.New("market data unavailable, try again later")

// FetchError describes a failed upstream query.
type FetchError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("cannot GET %s: %s", e.Endpoint, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("cannot GET %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnavailable}
	}
	return []error{ErrUnavailable, e.Err}
}

// fetch returns the JSON payload of endpoint, from cache when an unexpired
// entry exists, from the network otherwise. Only well-formed 2xx payloads
// are cached, for ttl.
func (c *Client) fetch(ctx context.Context, resource, endpoint string, params url.Values, ttl time.Duration) ([]byte, error) {
	key := cacheKey(endpoint, params)
	if payload, ok := c.cache.Get(key); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return payload, nil
	}
	cacheLookups.WithLabelValues("miss").Inc()

	payload, err := c.get(ctx, resource, endpoint, params)
	if err != nil {
		upstreamRequests.WithLabelValues(resource, "failure").Inc()
		c.log.WithFields(logrus.Fields{"resource": resource, "endpoint": endpoint}).Warn(err)
		return nil, err
	}
	upstreamRequests.WithLabelValues(resource, "success").Inc()
	c.cache.Put(key, payload, ttl)
	return payload, nil
}

// get performs the rate limited GET request.
func (c *Client) get(ctx context.Context, resource, endpoint string, params url.Values) ([]byte, error) {
	fail := func(status int, err error) error {
		return &FetchError{Endpoint: endpoint, StatusCode: status, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fail(0, err)
	}

	addr := strings.TrimSuffix(c.cfg.BaseURL, "/") + endpoint
	if len(params) > 0 {
		addr += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fail(0, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set(demoKeyHeader, c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	upstreamDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fail(0, err)
	}
	defer resp.Body.Close()
	c.log.Debugf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fail(resp.StatusCode, nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(0, err)
	}
	if len(body) == 0 || !json.Valid(body) {
		return nil, fail(0, errors.New("malformed JSON payload"))
	}
	return body, nil
}

// decode unmarshals a payload, reporting errors as upstream failures.
func decode(endpoint string, payload []byte, data any) error {
	if err := json.Unmarshal(payload, data); err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	return nil
}
