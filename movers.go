package coins

import (
	"cmp"
	"slices"
)

// MoversTopN is the length of the gainers and losers lists.
const MoversTopN = 5

// MoversReport lists the coins that moved the most over 24h.
type MoversReport struct {
	Gainers []MarketCoin `json:"gainers"` // highest change first
	Losers  []MarketCoin `json:"losers"`  // lowest change first
}

// Movers returns the top gainers and losers of snapshot over 24h.
// Coins that did not move are in neither list.
func Movers(snapshot []MarketCoin) MoversReport {
	r := MoversReport{Gainers: []MarketCoin{}, Losers: []MarketCoin{}}
	for _, c := range snapshot {
		switch {
		case c.PriceChange24h > 0:
			r.Gainers = append(r.Gainers, c)
		case c.PriceChange24h < 0:
			r.Losers = append(r.Losers, c)
		}
	}
	slices.SortStableFunc(r.Gainers, func(a, b MarketCoin) int { return cmp.Compare(b.PriceChange24h, a.PriceChange24h) })
	slices.SortStableFunc(r.Losers, func(a, b MarketCoin) int { return cmp.Compare(a.PriceChange24h, b.PriceChange24h) })
	r.Gainers = r.Gainers[:min(len(r.Gainers), MoversTopN)]
	r.Losers = r.Losers[:min(len(r.Losers), MoversTopN)]
	return r
}
