// Package coins provides the types and the pure aggregation logic behind the
// coins dashboard: a cryptocurrency market tracker fed by the CoinGecko
// public API.
//
// The core functionalities include:
//   - Market Data: immutable snapshots of ranked coins, coin details, price
//     series and global market figures, as fetched by the coingecko package.
//   - Portfolio Valuation: valuing a set of holdings against a snapshot,
//     with allocation shares and an explicit list of unpriced holdings.
//   - Market Views: top movers, global dominance buckets and watchlist
//     comparison.
//   - Sessions: explicit per-session state (portfolio and watchlist) updated
//     through actions that return the new state.
//
// Every aggregation function in this package is a pure function of its
// arguments; fetching and caching live in the coingecko package and
// presentation lives in the renderer package.
package coins
