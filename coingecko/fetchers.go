package coingecko

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/coins"
	"github.com/shopspring/decimal"
)

// MaxPerPage is the largest page the markets endpoint serves.
const MaxPerPage = 250

// TopCoins returns the first limit coins ranked by market cap.
// limit is clamped to [1, MaxPerPage].
func (c *Client) TopCoins(ctx context.Context, limit int) ([]coins.MarketCoin, error) {
	limit = min(max(limit, 1), MaxPerPage)
	const endpoint = "/coins/markets"
	params := url.Values{
		"vs_currency":             {"usd"},
		"order":                   {"market_cap_desc"},
		"per_page":                {strconv.Itoa(limit)},
		"page":                    {"1"},
		"sparkline":               {"false"},
		"price_change_percentage": {"1h,24h,7d"},
	}
	payload, err := c.fetch(ctx, "markets", endpoint, params, c.cfg.TTL)
	if err != nil {
		return nil, err
	}
	var res []coins.MarketCoin
	if err := decode(endpoint, payload, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Search returns the coins matching query. An empty query returns no result
// without querying upstream.
func (c *Client) Search(ctx context.Context, query string) ([]coins.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	const endpoint = "/search"
	payload, err := c.fetch(ctx, "search", endpoint, url.Values{"query": {query}}, c.cfg.SearchTTL)
	if err != nil {
		return nil, err
	}
	var data struct {
		Coins []coins.SearchResult `json:"coins"`
	}
	if err := decode(endpoint, payload, &data); err != nil {
		return nil, err
	}
	return data.Coins, nil
}

// Coin returns the details of a single coin.
func (c *Client) Coin(ctx context.Context, id string) (coins.CoinDetails, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return coins.CoinDetails{}, coins.ErrEmptyCoinID
	}
	endpoint := "/coins/" + url.PathEscape(id)
	params := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"true"},
		"community_data": {"false"},
		"developer_data": {"false"},
	}
	payload, err := c.fetch(ctx, "coin", endpoint, params, c.cfg.CoinTTL)
	if err != nil {
		return coins.CoinDetails{}, err
	}
	jobj, err := jdecode(endpoint, payload)
	if err != nil {
		return coins.CoinDetails{}, err
	}
	return coins.CoinDetails{
		ID:                jstring(jobj, "$.id"),
		Symbol:            jstring(jobj, "$.symbol"),
		Name:              jstring(jobj, "$.name"),
		Description:       jstring(jobj, "$.description.en"),
		CurrentPrice:      coins.USD(jdecimal(jobj, "$.market_data.current_price.usd")),
		MarketCap:         coins.USD(jdecimal(jobj, "$.market_data.market_cap.usd")),
		TotalVolume:       coins.USD(jdecimal(jobj, "$.market_data.total_volume.usd")),
		AllTimeHigh:       coins.USD(jdecimal(jobj, "$.market_data.ath.usd")),
		CirculatingSupply: jfloat(jobj, "$.market_data.circulating_supply"),
		TotalSupply:       jfloat(jobj, "$.market_data.total_supply"),
		MaxSupply:         jfloat(jobj, "$.market_data.max_supply"),
		PriceChange7d:     coins.Percent(jfloat(jobj, "$.market_data.price_change_percentage_7d")),
		PriceChange30d:    coins.Percent(jfloat(jobj, "$.market_data.price_change_percentage_30d")),
		PriceChange1y:     coins.Percent(jfloat(jobj, "$.market_data.price_change_percentage_1y")),
	}, nil
}

// interval returns the granularity used for a days parameter: daily beyond
// a week, hourly otherwise.
func interval(days string) string {
	if days == string(coins.TimeframeMax) {
		return "daily"
	}
	if n, err := strconv.Atoi(days); err == nil && n > 7 {
		return "daily"
	}
	return "hourly"
}

// History returns the price series of a coin over the timeframe tf.
//
// On failure, or when upstream has no price points, the returned series is
// empty: partial data is never returned.
func (c *Client) History(ctx context.Context, id string, tf coins.Timeframe) (coins.PriceSeries, error) {
	empty := coins.NewPriceSeries(id, nil)
	id = strings.TrimSpace(id)
	if id == "" {
		return empty, coins.ErrEmptyCoinID
	}
	if tf == "" {
		tf = coins.TimeframeDefault
	}
	days := tf.Days()
	if days != string(coins.TimeframeMax) {
		if n, err := strconv.Atoi(days); err != nil || n <= 0 {
			return empty, fmt.Errorf("invalid timeframe %q", tf)
		}
	}

	endpoint := "/coins/" + url.PathEscape(id) + "/market_chart"
	params := url.Values{
		"vs_currency": {"usd"},
		"days":        {days},
		"interval":    {interval(days)},
	}
	payload, err := c.fetch(ctx, "market_chart", endpoint, params, c.cfg.HistoryTTL)
	if err != nil {
		return empty, err
	}
	var data struct {
		Prices [][]json.Number `json:"prices"`
	}
	if err := decode(endpoint, payload, &data); err != nil {
		return empty, err
	}
	points := make([]coins.PricePoint, 0, len(data.Prices))
	for _, p := range data.Prices {
		if len(p) < 2 {
			return empty, &FetchError{Endpoint: endpoint, Err: errors.New("malformed price point")}
		}
		ms, err := p[0].Int64()
		if err != nil {
			// some timestamps come as floats
			f, ferr := p[0].Float64()
			if ferr != nil {
				return empty, &FetchError{Endpoint: endpoint, Err: err}
			}
			ms = int64(f)
		}
		price, err := decimal.NewFromString(p[1].String())
		if err != nil {
			return empty, &FetchError{Endpoint: endpoint, Err: err}
		}
		points = append(points, coins.PricePoint{Time: time.UnixMilli(ms).UTC(), Price: coins.USD(price)})
	}
	return coins.NewPriceSeries(id, points), nil
}

// HistoryResult is the outcome of one coin history in HistoryAll.
type HistoryResult struct {
	Series coins.PriceSeries
	Err    error
}

// HistoryAll fetches the history of every coin in ids concurrently.
// A failure is recorded in the coin's result and does not affect the others.
func (c *Client) HistoryAll(ctx context.Context, ids []string, tf coins.Timeframe) map[string]HistoryResult {
	res := make(map[string]HistoryResult, len(ids))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.History(ctx, id, tf)
			mu.Lock()
			defer mu.Unlock()
			res[id] = HistoryResult{Series: s, Err: err}
		}()
	}
	wg.Wait()
	return res
}

// Global returns the aggregate market totals.
func (c *Client) Global(ctx context.Context) (coins.GlobalMarket, error) {
	const endpoint = "/global"
	payload, err := c.fetch(ctx, "global", endpoint, nil, c.cfg.GlobalTTL)
	if err != nil {
		return coins.GlobalMarket{}, err
	}
	jobj, err := jdecode(endpoint, payload)
	if err != nil {
		return coins.GlobalMarket{}, err
	}
	if _, err := jsonpath.Get("$.data", jobj); err != nil {
		return coins.GlobalMarket{}, &FetchError{Endpoint: endpoint, Err: errors.New("missing data object")}
	}

	g := coins.GlobalMarket{
		ActiveCryptocurrencies: int(jfloat(jobj, "$.data.active_cryptocurrencies")),
		TotalMarketCap:         coins.USD(jdecimal(jobj, "$.data.total_market_cap.usd")),
		TotalVolume:            coins.USD(jdecimal(jobj, "$.data.total_volume.usd")),
		MarketCapChange24h:     coins.Percent(jfloat(jobj, "$.data.market_cap_change_percentage_24h_usd")),
		MarketCapPercentage:    make(map[string]float64),
	}
	if sec := int64(jfloat(jobj, "$.data.updated_at")); sec > 0 {
		g.UpdatedAt = time.Unix(sec, 0).UTC()
	}
	if jval, err := jsonpath.Get("$.data.market_cap_percentage", jobj); err == nil {
		if m, ok := jval.(map[string]any); ok {
			for sym, v := range m {
				if n, ok := v.(json.Number); ok {
					if f, err := n.Float64(); err == nil {
						g.MarketCapPercentage[sym] = f
					}
				}
			}
		}
	}
	return g, nil
}

// jdecode decodes a payload into a generic object, keeping numbers exact.
func jdecode(endpoint string, payload []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	return jobj, nil
}

// jget evaluates path on jobj, nil when the path does not exist.
func jget(jobj any, path string) any {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil
	}
	// jsonpath may return a list of one answer rather than the answer itself
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval
}

func jstring(jobj any, path string) string {
	s, _ := jget(jobj, path).(string)
	return s
}

func jfloat(jobj any, path string) float64 {
	n, ok := jget(jobj, path).(json.Number)
	if !ok {
		return 0
	}
	f, _ := n.Float64()
	return f
}

func jdecimal(jobj any, path string) decimal.Decimal {
	n, ok := jget(jobj, path).(json.Number)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
