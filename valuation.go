package coins

import (
	"context"
	"slices"
)

// PortfolioSnapshotSize is the number of top coins fetched to price a portfolio.
const PortfolioSnapshotSize = 250

// ValuedHolding is a holding priced against a snapshot.
type ValuedHolding struct {
	Coin      MarketCoin `json:"coin"`
	Amount    Quantity   `json:"amount"`
	Price     Money      `json:"price"`
	Value     Money      `json:"value"`
	Change24h Percent    `json:"price_change_24h"`
	Share     Percent    `json:"share"` // of the total value
}

// Valuation is the value of a portfolio at a snapshot.
type Valuation struct {
	Total    Money           `json:"total_value"`
	Holdings []ValuedHolding `json:"holdings"` // by value, highest first
	// Unpriced lists the holdings whose coin is absent from the snapshot.
	// They are neither in Holdings nor in Total.
	Unpriced []Holding `json:"unpriced,omitempty"`
	// Err is set when the snapshot could not be fetched.
	Err error `json:"-"`
}

// ValuePortfolio values p against snapshot.
//
// Each holding is valued amount × current price; holdings are sorted by value,
// highest first, ties keeping the portfolio order. Holdings of coins missing
// from the snapshot are reported in Unpriced.
func ValuePortfolio(p Portfolio, snapshot []MarketCoin) Valuation {
	prices := make(map[string]MarketCoin, len(snapshot))
	for _, c := range snapshot {
		prices[c.ID] = c
	}

	v := Valuation{Holdings: make([]ValuedHolding, 0, p.Len())}
	for _, h := range p.holdings {
		coin, ok := prices[h.CoinID]
		if !ok {
			v.Unpriced = append(v.Unpriced, h)
			continue
		}
		value := coin.CurrentPrice.Mul(h.Amount)
		v.Total = v.Total.Add(value)
		v.Holdings = append(v.Holdings, ValuedHolding{
			Coin:      coin,
			Amount:    h.Amount,
			Price:     coin.CurrentPrice,
			Value:     value,
			Change24h: coin.PriceChange24h,
		})
	}
	for i := range v.Holdings {
		v.Holdings[i].Share = v.Holdings[i].Value.Share(v.Total)
	}
	slices.SortStableFunc(v.Holdings, func(a, b ValuedHolding) int { return b.Value.Cmp(a.Value) })
	return v
}

// MarketFetcher fetches the ranked markets snapshot.
type MarketFetcher interface {
	TopCoins(ctx context.Context, limit int) ([]MarketCoin, error)
}

// ValueSnapshot fetches a fresh snapshot and values p against it.
//
// An empty portfolio is valued without fetching. If the fetch fails the
// valuation is empty and Err is set.
func ValueSnapshot(ctx context.Context, f MarketFetcher, p Portfolio) Valuation {
	if p.IsEmpty() {
		return Valuation{Holdings: []ValuedHolding{}}
	}
	snapshot, err := f.TopCoins(ctx, PortfolioSnapshotSize)
	if err != nil {
		return Valuation{Holdings: []ValuedHolding{}, Err: err}
	}
	return ValuePortfolio(p, snapshot)
}
