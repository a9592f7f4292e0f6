package coins

import (
	"strings"
	"time"
)

// MarketCoin is one entry of the ranked markets list.
//
// Field names follow the upstream payload; missing fields decode as zero.
type MarketCoin struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Image          string  `json:"image"`
	CurrentPrice   Money   `json:"current_price"`
	MarketCap      Money   `json:"market_cap"`
	MarketCapRank  int     `json:"market_cap_rank"`
	TotalVolume    Money   `json:"total_volume"`
	PriceChange1h  Percent `json:"price_change_percentage_1h_in_currency"`
	PriceChange24h Percent `json:"price_change_percentage_24h"`
	PriceChange7d  Percent `json:"price_change_percentage_7d_in_currency"`
}

// Ticker returns the upper-cased symbol, e.g. "BTC".
func (c MarketCoin) Ticker() string { return strings.ToUpper(c.Symbol) }

// Label returns the display label, e.g. "Bitcoin (BTC)".
func (c MarketCoin) Label() string { return c.Name + " (" + c.Ticker() + ")" }

// FindCoin returns the coin with the given id in the snapshot.
func FindCoin(snapshot []MarketCoin, id string) (MarketCoin, bool) {
	for _, c := range snapshot {
		if c.ID == id {
			return c, true
		}
	}
	return MarketCoin{}, false
}

// FilterCoins returns the coins whose name or symbol contains query, ignoring case.
// An empty query matches nothing.
func FilterCoins(snapshot []MarketCoin, query string) []MarketCoin {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var res []MarketCoin
	for _, c := range snapshot {
		if strings.Contains(strings.ToLower(c.Name), query) || strings.Contains(strings.ToLower(c.Symbol), query) {
			res = append(res, c)
		}
	}
	return res
}

// CoinDetails is the extended record of a single coin.
type CoinDetails struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	CurrentPrice      Money   `json:"current_price"`
	MarketCap         Money   `json:"market_cap"`
	TotalVolume       Money   `json:"total_volume"`
	AllTimeHigh       Money   `json:"ath"`
	CirculatingSupply float64 `json:"circulating_supply"`
	// TotalSupply and MaxSupply are zero when the supply is unbounded.
	TotalSupply    float64 `json:"total_supply"`
	MaxSupply      float64 `json:"max_supply"`
	PriceChange7d  Percent `json:"price_change_percentage_7d"`
	PriceChange30d Percent `json:"price_change_percentage_30d"`
	PriceChange1y  Percent `json:"price_change_percentage_1y"`
}

func (d CoinDetails) Ticker() string { return strings.ToUpper(d.Symbol) }

// SearchResult is one coin matching a free-text search.
type SearchResult struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank int    `json:"market_cap_rank"`
	Thumb         string `json:"thumb"`
}

// GlobalMarket holds aggregate totals for the whole crypto market.
type GlobalMarket struct {
	ActiveCryptocurrencies int     `json:"active_cryptocurrencies"`
	TotalMarketCap         Money   `json:"total_market_cap"`
	TotalVolume            Money   `json:"total_volume"`
	MarketCapChange24h     Percent `json:"market_cap_change_percentage_24h"`
	// MarketCapPercentage maps lower-case symbols to their dominance.
	MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// BTCDominance returns the bitcoin share of the total market cap.
func (g GlobalMarket) BTCDominance() Percent {
	return Percent(g.MarketCapPercentage["btc"])
}
