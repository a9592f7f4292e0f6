package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/coins"
	"github.com/etnz/coins/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Market is the market data available to the analyst.
type Market interface {
	TopCoins(ctx context.Context, limit int) ([]coins.MarketCoin, error)
	Search(ctx context.Context, query string) ([]coins.SearchResult, error)
	Coin(ctx context.Context, id string) (coins.CoinDetails, error)
	History(ctx context.Context, id string, tf coins.Timeframe) (coins.PriceSeries, error)
	Global(ctx context.Context) (coins.GlobalMarket, error)
}

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They keep context of your previous questions.

			The user follows the crypto markets and may hold a portfolio of coins. Ask the Analyst
			for any figure: prices, market caps, dominance, the portfolio value. Never make up a price.

			Answer in markdown, keep tables when the experts give you tables.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search, for news.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert of the crypto ecosystem, aware of the projects, the exchanges
		and the latest news. Ask the Researcher whenever you need recent or background information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert of the crypto currencies, you can search and find about anything related to
			blockchains, tokens, exchanges and regulations. You leverage Google Search to
			ground your assertions in a solid truth.
			`}}},
		},
	}
}

// NewAnalyst returns an expert answering with live market data and the
// valuation of portfolio.
func NewAnalyst(m Market, portfolio coins.Portfolio) *Expert {
	lib := Tools(m, portfolio)
	return &Expert{
		Name: "Analyst",
		Description: `This is the market Analyst. It reads live market data: top coins, coin details,
		price history, global market figures, and it values the user's portfolio.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a crypto market analyst. Use the available tools to answer with live figures,
			all prices are in USD. Coins are identified by their id, like "bitcoin": search for a
			coin to find its id when you only know its name or symbol.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// stringArg returns the string argument name of a call.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	return strings.TrimSpace(s), nil
}

func objectSchema(required []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

var markdownResponse = &genai.Schema{Type: genai.TypeString, Description: "A markdown report."}

// Tools returns the market functions of the analyst.
func Tools(m Market, portfolio coins.Portfolio) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "MarketOverview",
				Description: "Total market cap, 24h volume, market dominance and the top coins by market cap.",
				Parameters:  objectSchema(nil, map[string]*genai.Schema{}),
				Response:    markdownResponse,
			},
			Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
				global, gerr := m.Global(ctx)
				top, terr := m.TopCoins(ctx, renderer.MarketTopN)
				return output(id, "MarketOverview", renderer.RenderMarket(renderer.NewMarket(global, gerr, top, terr, "")))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "SearchCoins",
				Description: "Search coins by name or symbol, returns their ids.",
				Parameters: objectSchema([]string{"query"}, map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "A coin name or symbol, like 'sol'."},
				}),
				Response: markdownResponse,
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				q, err := stringArg(args, "query")
				if err != nil {
					return failure(id, "SearchCoins", err)
				}
				res, err := m.Search(ctx, q)
				return output(id, "SearchCoins", renderer.RenderSearch(&renderer.Search{Query: q, Results: res, Err: err}))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "CoinDetails",
				Description: "Details of a coin: price, market cap, supplies, changes, and its price history.",
				Parameters: objectSchema([]string{"id"}, map[string]*genai.Schema{
					"id": {Type: genai.TypeString, Description: "The coin id, like 'bitcoin'."},
					"timeframe": {
						Type:        genai.TypeString,
						Description: "The price history window: a number of days like '7d', or 'max'. Defaults to 30d.",
					},
				}),
				Response: markdownResponse,
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				coinID, err := stringArg(args, "id")
				if err != nil {
					return failure(id, "CoinDetails", err)
				}
				tf := coins.TimeframeDefault
				if s, err := stringArg(args, "timeframe"); err == nil && s != "" {
					if tf, err = coins.ParseTimeframe(s); err != nil {
						return failure(id, "CoinDetails", err)
					}
				}
				v := &renderer.CoinView{Timeframe: tf}
				v.Details, v.Err = m.Coin(ctx, coinID)
				v.History, v.HistoryErr = m.History(ctx, coinID, tf)
				return output(id, "CoinDetails", renderer.RenderCoin(v))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Portfolio",
				Description: "The user's portfolio valued at the current market prices.",
				Parameters:  objectSchema(nil, map[string]*genai.Schema{}),
				Response:    markdownResponse,
			},
			Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
				v := coins.ValueSnapshot(ctx, m, portfolio)
				return output(id, "Portfolio", renderer.RenderPortfolio(&v))
			},
		},
	}
}
