package cmd

import (
	"context"

	"github.com/etnz/coins"
	"github.com/etnz/coins/renderer"
)

// The builders below fetch what a report needs. They never fail: errors are
// carried by the views and rendered as messages.

func homeView(ctx context.Context, m Market, coinID string, tf coins.Timeframe) *renderer.Home {
	snapshot, err := m.TopCoins(ctx, coins.PortfolioSnapshotSize)
	h := renderer.NewHome(snapshot, err)
	if coinID != "" {
		h.Selected = coinView(ctx, m, coinID, tf)
	}
	return h
}

func coinView(ctx context.Context, m Market, coinID string, tf coins.Timeframe) *renderer.CoinView {
	v := &renderer.CoinView{Timeframe: tf}
	v.Details, v.Err = m.Coin(ctx, coinID)
	v.History, v.HistoryErr = m.History(ctx, coinID, tf)
	return v
}

func marketView(ctx context.Context, m Market, query string) *renderer.Market {
	global, globalErr := m.Global(ctx)
	snapshot, err := m.TopCoins(ctx, coins.PortfolioSnapshotSize)
	return renderer.NewMarket(global, globalErr, snapshot, err, query)
}

func watchlistView(ctx context.Context, m Market, w coins.Watchlist, tf coins.Timeframe) *renderer.Watchlist {
	if w.IsEmpty() {
		return renderer.NewWatchlist(w, nil, nil)
	}
	snapshot, err := m.TopCoins(ctx, coins.PortfolioSnapshotSize)
	v := renderer.NewWatchlist(w, snapshot, err)
	if err != nil || tf == "" {
		return v
	}
	histories := make(map[string]coins.PriceSeries)
	for id, r := range m.HistoryAll(ctx, w.IDs(), tf) {
		if r.Err == nil {
			histories[id] = r.Series
		}
	}
	return v.WithHistories(tf, histories)
}
