package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/coins"
	"github.com/etnz/coins/renderer"
	"github.com/google/subcommands"
)

type portfolioCmd struct {
	holdings holdingsFlag
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "value a portfolio at the current prices" }
func (*portfolioCmd) Usage() string {
	return `coins portfolio -holding <coin>=<amount> [-holding <coin>=<amount>...]

  Values the holdings at the current prices, with their allocation. Holdings
  of the same coin are summed. Coins outside the top 250 cannot be priced and
  are listed apart.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.holdings, "holding", "A holding as <coin>=<amount>, e.g. bitcoin=0.25. Repeat for each coin.")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v := coins.ValueSnapshot(ctx, newMarket(), coins.NewPortfolio(c.holdings...))
	printMarkdown(renderer.RenderPortfolio(&v))
	if v.Err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type watchlistCmd struct {
	tf timeframeFlag
}

func (*watchlistCmd) Name() string     { return "watchlist" }
func (*watchlistCmd) Synopsis() string { return "compare coins side by side" }
func (*watchlistCmd) Usage() string {
	return `coins watchlist [-t <timeframe>] <id>...

  Compares the price, changes and market cap of the coins, and their relative
  price change over the timeframe.
`
}

func (c *watchlistCmd) SetFlags(f *flag.FlagSet) {
	c.tf.tf = coins.Timeframe7D
	f.Var(&c.tf, "t", "Timeframe of the price change comparison: a number of days like 30d, or max.")
}

func (c *watchlistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected at least one coin id")
		return subcommands.ExitUsageError
	}
	w := coins.NewWatchlist(f.Args()...)
	printMarkdown(renderer.RenderWatchlist(watchlistView(ctx, newMarket(), w, c.tf.get())))
	return subcommands.ExitSuccess
}
