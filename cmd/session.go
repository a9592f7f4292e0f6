package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/coins"
	"github.com/etnz/coins/renderer"
	"github.com/google/subcommands"
)

type sessionCmd struct{}

func (*sessionCmd) Name() string     { return "session" }
func (*sessionCmd) Synopsis() string { return "start an interactive dashboard session" }
func (*sessionCmd) Usage() string {
	return `coins session

  Starts an interactive session: build a portfolio and a watchlist, and
  display them among the market reports. Type 'help' for the commands.
`
}

func (*sessionCmd) SetFlags(*flag.FlagSet) {}

func (*sessionCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r := newREPL(newMarket(), os.Stdout, os.Stdin)
	r.render = renderMarkdown
	if err := r.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

const sessionHelp = `Commands:

  add <coin> <amount>       add an amount of a coin to the portfolio
  remove <coin>             remove a coin from the portfolio
  clear-portfolio           remove every holding
  watch <coin>              add a coin to the watchlist
  unwatch <coin>            remove a coin from the watchlist
  clear-watchlist           remove every watched coin
  portfolio                 value the portfolio
  watchlist [timeframe]     compare the watched coins, over 7d by default
  market [query]            display the market overview
  home [coin] [timeframe]   display the dashboard
  search <query>            search coins by name or symbol
  help                      print this help
  bye                       exit
`

const sessionPrompt = "coins> "

// repl is an interactive session. Its state lives in memory only.
type repl struct {
	market  Market
	session coins.Session
	w       io.Writer
	r       *bufio.Reader
	// render formats reports before they are printed.
	render func(markdown string) string
}

func newREPL(m Market, w io.Writer, r io.Reader) *repl {
	return &repl{
		market: m,
		w:      w,
		r:      bufio.NewReader(r),
		render: func(md string) string { return md },
	}
}

// Run reads commands until 'bye' or the end of the input.
func (r *repl) Run(ctx context.Context) error {
	fmt.Fprintln(r.w, "Welcome to coins. Type 'help' for the commands, 'bye' to exit.")
	for {
		fmt.Fprint(r.w, sessionPrompt)
		line, err := r.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		quit, xerr := r.exec(ctx, line)
		if xerr != nil {
			fmt.Fprintf(r.w, "Error: %v\n", xerr)
		}
		if quit || err == io.EOF {
			return nil
		}
	}
}

// exec executes a single command line.
func (r *repl) exec(ctx context.Context, line string) (quit bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	name, args := args[0], args[1:]

	switch name {
	case "bye", "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(r.w, sessionHelp)
	case "add":
		if len(args) != 2 {
			return false, errors.New("usage: add <coin> <amount>")
		}
		amount, err := coins.ParseQuantity(args[1])
		if err != nil {
			return false, err
		}
		if err := r.apply(coins.AddHolding{CoinID: args[0], Amount: amount}); err != nil {
			return false, err
		}
		total, _ := r.session.Portfolio.Amount(args[0])
		fmt.Fprintf(r.w, "Portfolio holds %s %s.\n", total, args[0])
	case "remove":
		if len(args) != 1 {
			return false, errors.New("usage: remove <coin>")
		}
		if err := r.apply(coins.RemoveHolding{CoinID: args[0]}); err != nil {
			return false, err
		}
		fmt.Fprintf(r.w, "Removed %s from the portfolio.\n", args[0])
	case "clear-portfolio":
		r.apply(coins.ClearPortfolio{})
		fmt.Fprintln(r.w, "Portfolio cleared.")
	case "watch":
		if len(args) != 1 {
			return false, errors.New("usage: watch <coin>")
		}
		if err := r.apply(coins.Watch{CoinID: args[0]}); err != nil {
			return false, err
		}
		fmt.Fprintf(r.w, "Watching %s.\n", args[0])
	case "unwatch":
		if len(args) != 1 {
			return false, errors.New("usage: unwatch <coin>")
		}
		if err := r.apply(coins.Unwatch{CoinID: args[0]}); err != nil {
			return false, err
		}
		fmt.Fprintf(r.w, "Stopped watching %s.\n", args[0])
	case "clear-watchlist":
		r.apply(coins.ClearWatchlist{})
		fmt.Fprintln(r.w, "Watchlist cleared.")
	case "portfolio":
		v := coins.ValueSnapshot(ctx, r.market, r.session.Portfolio)
		r.print(renderer.RenderPortfolio(&v))
	case "watchlist":
		tf, err := timeframeArg(args, 0, coins.Timeframe7D)
		if err != nil {
			return false, err
		}
		r.print(renderer.RenderWatchlist(watchlistView(ctx, r.market, r.session.Watchlist, tf)))
	case "market":
		r.print(renderer.RenderMarket(marketView(ctx, r.market, strings.Join(args, " "))))
	case "home":
		coinID := "bitcoin"
		if len(args) > 0 {
			coinID = args[0]
		}
		tf, err := timeframeArg(args, 1, coins.TimeframeDefault)
		if err != nil {
			return false, err
		}
		r.print(renderer.RenderHome(homeView(ctx, r.market, coinID, tf)))
	case "search":
		query := strings.Join(args, " ")
		res, err := r.market.Search(ctx, query)
		r.print(renderer.RenderSearch(&renderer.Search{Query: query, Results: res, Err: err}))
	default:
		return false, fmt.Errorf("unknown command %q, type 'help' for the commands", name)
	}
	return false, nil
}

// apply applies a to the session.
func (r *repl) apply(a coins.Action) error {
	s, err := a.Apply(r.session)
	if err != nil {
		return err
	}
	r.session = s
	return nil
}

func (r *repl) print(md string) { fmt.Fprint(r.w, r.render(md)) }

// timeframeArg parses args[i] as a timeframe, def when absent.
func timeframeArg(args []string, i int, def coins.Timeframe) (coins.Timeframe, error) {
	if i >= len(args) {
		return def, nil
	}
	return coins.ParseTimeframe(args[i])
}
