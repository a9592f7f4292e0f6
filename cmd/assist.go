package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/coins"
	"github.com/etnz/coins/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	holdings holdingsFlag
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `coins assist [-holding <coin>=<amount>...] [question]

  Starts an interactive session with an assistant answering with live market
  data. It needs a Gemini API key in GEMINI_API_KEY or GOOGLE_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.holdings, "holding", "A holding of your portfolio as <coin>=<amount>. Repeat for each coin.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	analyst := agent.NewAnalyst(newMarket(), coins.NewPortfolio(c.holdings...))
	a := agent.New(os.Stdout, os.Stdin, analyst, agent.NewResearcher())
	a.Render = renderMarkdown

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
