// Package cmd implements the coins command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/coins"
	"github.com/etnz/coins/coingecko"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// Environment variables read when the matching flag is not set.
const (
	EnvAPIURL  = "COINS_API_URL"
	EnvAPIKey  = "COINGECKO_API_KEY"
	EnvTTL     = "COINS_TTL"
	EnvVerbose = "COINS_VERBOSE"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	apiURLFlag  = flag.String("api-url", "", "CoinGecko API base URL.\n If missing it will read the environment variable \""+EnvAPIURL+"\", and default to "+coingecko.DefaultBaseURL)
	apiKeyFlag  = flag.String("api-key", "", "CoinGecko demo API key, optional.\n If missing it will read the environment variable \""+EnvAPIKey+"\". You can get one at https://www.coingecko.com/en/api")
	ttlFlag     = flag.Duration("ttl", 0, "How long market lists are cached, e.g. 90s.\n If missing it will read the environment variable \""+EnvTTL+"\"")
	verboseFlag = flag.Bool("v", false, "Log upstream requests.\n If missing it will read the environment variable \""+EnvVerbose+"\"")
	rawFlag     = flag.Bool("raw", false, "Print markdown as is, instead of rendering it for the terminal.")
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range Groups() {
		for _, cmd := range g.Commands {
			c.Register(cmd, g.Name)
		}
	}
}

// Group is a set of related subcommands.
type Group struct {
	Name     string
	Commands []subcommands.Command
}

// Groups returns the application subcommands by group.
func Groups() []Group {
	return []Group{
		{"market", []subcommands.Command{&homeCmd{}, &topCmd{}, &searchCmd{}, &coinCmd{}, &historyCmd{}, &marketCmd{}, &moversCmd{}}},
		{"portfolio", []subcommands.Command{&portfolioCmd{}, &watchlistCmd{}, &sessionCmd{}}},
		{"app", []subcommands.Command{&serveCmd{}, &assistCmd{}, &topicCmd{}}},
	}
}

func apiURL() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *apiURLFlag == "" {
		*apiURLFlag = os.Getenv(EnvAPIURL)
	}
	return *apiURLFlag
}

func apiKey() string {
	if *apiKeyFlag == "" {
		*apiKeyFlag = os.Getenv(EnvAPIKey)
	}
	return *apiKeyFlag
}

func ttl() time.Duration {
	if *ttlFlag == 0 {
		if d, err := time.ParseDuration(os.Getenv(EnvTTL)); err == nil {
			*ttlFlag = d
		}
	}
	return *ttlFlag
}

func verbose() bool {
	if !*verboseFlag {
		*verboseFlag, _ = strconv.ParseBool(os.Getenv(EnvVerbose))
	}
	return *verboseFlag
}

// newLogger returns the application logger, at debug level in verbose mode.
func newLogger() *logrus.Logger {
	l := logrus.StandardLogger()
	l.SetOutput(os.Stderr)
	if verbose() {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// newClient returns the CoinGecko client configured by the global flags.
func newClient() *coingecko.Client {
	return coingecko.New(coingecko.Config{
		BaseURL: apiURL(),
		APIKey:  apiKey(),
		TTL:     ttl(),
		Logger:  newLogger(),
	})
}

// Market is the market data source of the commands.
type Market interface {
	coins.MarketFetcher
	Search(ctx context.Context, query string) ([]coins.SearchResult, error)
	Coin(ctx context.Context, id string) (coins.CoinDetails, error)
	History(ctx context.Context, id string, tf coins.Timeframe) (coins.PriceSeries, error)
	HistoryAll(ctx context.Context, ids []string, tf coins.Timeframe) map[string]coingecko.HistoryResult
	Global(ctx context.Context) (coins.GlobalMarket, error)
}

// renderMarkdown renders md for the terminal, unless -raw is set.
func renderMarkdown(md string) string {
	if *rawFlag {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

// IsCommand reports whether name is a built-in subcommand.
func IsCommand(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, g := range Groups() {
		for _, c := range g.Commands {
			if c.Name() == name {
				return true
			}
		}
	}
	return false
}
