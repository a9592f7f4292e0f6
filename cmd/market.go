package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/coins"
	"github.com/etnz/coins/renderer"
	"github.com/google/subcommands"
)

// newMarket returns the market data source of the commands.
var newMarket = func() Market { return newClient() }

type homeCmd struct {
	coin string
	tf   timeframeFlag
}

func (*homeCmd) Name() string     { return "home" }
func (*homeCmd) Synopsis() string { return "display the dashboard: headline coins, a coin in detail and the top movers" }
func (*homeCmd) Usage() string {
	return `coins home [-coin <id>] [-t <timeframe>]

  Displays bitcoin, ethereum and BNB headline figures, the details and price
  history of a coin, and the top movers of the last 24h.
`
}

func (c *homeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.coin, "coin", "bitcoin", "Id of the coin to detail, none if empty.")
	f.Var(&c.tf, "t", "Price history timeframe: a number of days like 7d, or max. Defaults to 30d.")
}

func (c *homeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	printMarkdown(renderer.RenderHome(homeView(ctx, newMarket(), strings.TrimSpace(c.coin), c.tf.get())))
	return subcommands.ExitSuccess
}

type topCmd struct {
	limit int
}

func (*topCmd) Name() string     { return "top" }
func (*topCmd) Synopsis() string { return "list the top coins by market cap" }
func (*topCmd) Usage() string {
	return `coins top [-n <count>]

  Lists the top coins ranked by market cap, with their price changes.
`
}

func (c *topCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "Number of coins to list, up to 250.")
}

func (c *topCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	top, err := newMarket().TopCoins(ctx, c.limit)
	printMarkdown(renderer.RenderTop(&renderer.Top{Coins: top, Err: err}))
	return subcommands.ExitSuccess
}

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search coins by name or symbol" }
func (*searchCmd) Usage() string {
	return `coins search <query>

  Searches coins by name or symbol, and prints their ids.
`
}

func (*searchCmd) SetFlags(*flag.FlagSet) {}

func (*searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	res, err := newMarket().Search(ctx, query)
	printMarkdown(renderer.RenderSearch(&renderer.Search{Query: query, Results: res, Err: err}))
	return subcommands.ExitSuccess
}

type coinCmd struct {
	tf timeframeFlag
}

func (*coinCmd) Name() string     { return "coin" }
func (*coinCmd) Synopsis() string { return "display the details of a coin" }
func (*coinCmd) Usage() string {
	return `coins coin [-t <timeframe>] <id>

  Displays the price, market cap, supplies and price changes of a coin, with
  its price history. Use 'coins search' to find a coin id.
`
}

func (c *coinCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.tf, "t", "Price history timeframe: a number of days like 7d, or max. Defaults to 30d.")
}

func (c *coinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one coin id")
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.RenderCoin(coinView(ctx, newMarket(), f.Arg(0), c.tf.get())))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	tf timeframeFlag
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the price history of a coin" }
func (*historyCmd) Usage() string {
	return `coins history [-t <timeframe>] <id>

  Displays the price history of a coin: change, low, high and sampled prices.
  Prices are daily beyond 7 days, hourly otherwise.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.tf, "t", "Timeframe: a number of days like 7d, or max. Defaults to 30d.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one coin id")
		return subcommands.ExitUsageError
	}
	v := &renderer.CoinView{Timeframe: c.tf.get()}
	v.History, v.HistoryErr = newMarket().History(ctx, f.Arg(0), v.Timeframe)
	printMarkdown(renderer.RenderHistory(v))
	return subcommands.ExitSuccess
}

type marketCmd struct {
	query string
}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "display the market overview" }
func (*marketCmd) Usage() string {
	return `coins market [-q <query>]

  Displays the total market cap and volume, the market dominance and the top
  coins. With -q, also lists the top coins matching the query.
`
}

func (c *marketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "Filter the top coins by name or symbol.")
}

func (c *marketCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	printMarkdown(renderer.RenderMarket(marketView(ctx, newMarket(), c.query)))
	return subcommands.ExitSuccess
}

type moversCmd struct{}

func (*moversCmd) Name() string     { return "movers" }
func (*moversCmd) Synopsis() string { return "display the top gainers and losers over 24h" }
func (*moversCmd) Usage() string {
	return `coins movers

  Displays the five top gainers and losers of the last 24h among the top coins.
`
}

func (*moversCmd) SetFlags(*flag.FlagSet) {}

func (*moversCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	snapshot, err := newMarket().TopCoins(ctx, coins.PortfolioSnapshotSize)
	printMarkdown(renderer.RenderMovers(&renderer.Movers{Report: coins.Movers(snapshot), Err: err}))
	return subcommands.ExitSuccess
}
