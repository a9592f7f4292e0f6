package renderer

import "github.com/etnz/coins"

// HeadlineIDs are the coins summarized at the top of the home page.
var HeadlineIDs = []string{"bitcoin", "ethereum", "binancecoin"}

// MarketTopN is the number of coins listed in the market overview.
const MarketTopN = 20

// historySamples is the maximum number of rows of a price history table.
const historySamples = 10

// CoinView is a coin with its price history over a timeframe.
type CoinView struct {
	Details coins.CoinDetails
	Err     error

	Timeframe  coins.Timeframe
	History    coins.PriceSeries
	HistoryErr error
}

// Low returns the lowest price of the history.
func (v *CoinView) Low() coins.Money {
	low, _ := v.History.Range()
	return low
}

// High returns the highest price of the history.
func (v *CoinView) High() coins.Money {
	_, high := v.History.Range()
	return high
}

// Samples returns at most historySamples evenly spaced points of the history,
// always including the last one.
func (v *CoinView) Samples() []coins.PricePoint {
	points := v.History.Points()
	if len(points) <= historySamples {
		return points
	}
	res := make([]coins.PricePoint, 0, historySamples)
	step := float64(len(points)-1) / float64(historySamples-1)
	for i := range historySamples {
		res = append(res, points[int(float64(i)*step+0.5)])
	}
	return res
}

// Home is the dashboard landing page.
type Home struct {
	Headlines []coins.MarketCoin
	Movers    coins.MoversReport
	Err       error // markets snapshot failure

	Selected *CoinView // nil when no coin is selected
}

// NewHome builds the home page from a markets snapshot.
func NewHome(snapshot []coins.MarketCoin, err error) *Home {
	h := &Home{Err: err}
	for _, id := range HeadlineIDs {
		if c, ok := coins.FindCoin(snapshot, id); ok {
			h.Headlines = append(h.Headlines, c)
		}
	}
	h.Movers = coins.Movers(snapshot)
	return h
}

// Top is the ranked markets list.
type Top struct {
	Coins []coins.MarketCoin
	Err   error
}

// Movers is the top movers page.
type Movers struct {
	Report coins.MoversReport
	Err    error
}

// Market is the market overview page.
type Market struct {
	Global    coins.GlobalMarket
	GlobalErr error
	Buckets   []coins.Bucket

	Top    []coins.MarketCoin
	TopErr error

	Query   string
	Matches []coins.MarketCoin
}

// NewMarket builds the market overview. query filters the snapshot locally
// when not empty.
func NewMarket(global coins.GlobalMarket, globalErr error, snapshot []coins.MarketCoin, snapshotErr error, query string) *Market {
	m := &Market{
		Global:    global,
		GlobalErr: globalErr,
		TopErr:    snapshotErr,
		Query:     query,
	}
	if globalErr == nil {
		m.Buckets = coins.Dominance(global.MarketCapPercentage)
	}
	m.Top = snapshot[:min(MarketTopN, len(snapshot))]
	m.Matches = coins.FilterCoins(snapshot, query)
	return m
}

// Trend is the normalized price change of a watched coin over a timeframe.
type Trend struct {
	Coin      coins.MarketCoin
	Available bool
	Change    coins.Percent // at the end of the timeframe
	Low       coins.Percent
	High      coins.Percent
}

// Watchlist is the watchlist comparison page.
type Watchlist struct {
	Comparison coins.Comparison
	Empty      bool
	Err        error

	Timeframe coins.Timeframe
	Trends    []Trend
}

// NewWatchlist compares w against snapshot.
func NewWatchlist(w coins.Watchlist, snapshot []coins.MarketCoin, err error) *Watchlist {
	return &Watchlist{
		Comparison: coins.CompareWatchlist(w, snapshot),
		Empty:      w.IsEmpty(),
		Err:        err,
	}
}

// WithHistories adds the normalized trend of every compared coin over tf.
// A coin without a series in histories is shown as unavailable.
func (w *Watchlist) WithHistories(tf coins.Timeframe, histories map[string]coins.PriceSeries) *Watchlist {
	w.Timeframe = tf
	w.Trends = make([]Trend, 0, len(w.Comparison.Coins))
	for _, c := range w.Comparison.Coins {
		t := Trend{Coin: c}
		normalized := histories[c.ID].Normalized()
		for i, p := range normalized {
			if i == 0 || p.Change < t.Low {
				t.Low = p.Change
			}
			if i == 0 || p.Change > t.High {
				t.High = p.Change
			}
			t.Change = p.Change
			t.Available = true
		}
		w.Trends = append(w.Trends, t)
	}
	return w
}

// Search is the upstream search results page.
type Search struct {
	Query   string
	Results []coins.SearchResult
	Err     error
}
