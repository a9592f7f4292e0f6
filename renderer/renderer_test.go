package renderer

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/etnz/coins"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// outline is the structure of a rendered markdown document.
type outline struct {
	headings []string
	// tables holds the first cell of every body row, per table.
	tables [][]string
}

// parse parses a rendered report as GitHub flavored markdown.
func parse(t *testing.T, md string) outline {
	t.Helper()
	src := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser().Parse(text.NewReader(src))

	var o outline
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			o.headings = append(o.headings, nodeText(n, src))
		case extast.KindTable:
			o.tables = append(o.tables, []string{})
		case extast.KindTableRow:
			last := len(o.tables) - 1
			o.tables[last] = append(o.tables[last], nodeText(n.FirstChild(), src))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("failed to walk markdown: %v", err)
	}
	return o
}

// nodeText concatenates the text segments below n.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func (o outline) hasHeading(h string) bool {
	for _, x := range o.headings {
		if x == h {
			return true
		}
	}
	return false
}

func coin(id, symbol string, price float64, change24h coins.Percent) coins.MarketCoin {
	return coins.MarketCoin{
		ID:             id,
		Symbol:         symbol,
		Name:           strings.ToUpper(id[:1]) + id[1:],
		CurrentPrice:   coins.USD(price),
		MarketCap:      coins.USD(price * 1e6),
		PriceChange24h: change24h,
	}
}

var errDown = errors.New("upstream down")

func TestTemplatesAreUsed(t *testing.T) {
	used := map[string]bool{
		"home.md": true, "coin.md": true, "history.md": true, "top.md": true, "movers.md": true,
		"market.md": true, "portfolio.md": true, "watchlist.md": true, "search.md": true,
	}
	for _, file := range partials {
		used[file] = true
	}
	files, err := fs.Glob(templates, "*.md")
	if err != nil {
		t.Fatalf("failed to list templates: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no template embedded")
	}
	for _, f := range files {
		if !used[f] {
			t.Errorf("template %s is not rendered by any function", f)
		}
	}
}

func TestRenderPortfolio(t *testing.T) {
	snapshot := []coins.MarketCoin{coin("a", "a", 10, 1), coin("b", "b", 5, -2)}
	p := coins.NewPortfolio(
		coins.Holding{CoinID: "b", Amount: coins.Q(3)},
		coins.Holding{CoinID: "a", Amount: coins.Q(2)},
		coins.Holding{CoinID: "ghost", Amount: coins.Q(7)},
	)
	v := coins.ValuePortfolio(p, snapshot)
	md := RenderPortfolio(&v)

	o := parse(t, md)
	for _, h := range []string{"Portfolio", "Allocation", "Holdings"} {
		if !o.hasHeading(h) {
			t.Errorf("RenderPortfolio() has no %q heading, got %v", h, o.headings)
		}
	}
	if len(o.tables) != 2 {
		t.Fatalf("RenderPortfolio() has %d tables, want 2:\n%s", len(o.tables), md)
	}
	if got := strings.Join(o.tables[0], ","); got != "A,B" {
		t.Errorf("allocation rows = %q, want %q", got, "A,B")
	}
	for _, want := range []string{"**Total value:** $35.00", "57.14%", "42.86%", "- ghost (7)"} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderPortfolio() does not contain %q:\n%s", want, md)
		}
	}
}

func TestRenderPortfolio_Degraded(t *testing.T) {
	tests := []struct {
		name string
		v    coins.Valuation
		want string
	}{
		{"empty", coins.Valuation{}, "Your portfolio is empty. Add coins to get started!"},
		{"failure", coins.Valuation{Err: errDown}, "Failed to fetch portfolio prices. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := RenderPortfolio(&tt.v)
			if !strings.Contains(md, tt.want) {
				t.Errorf("RenderPortfolio() = %q, want it to contain %q", md, tt.want)
			}
			if o := parse(t, md); len(o.tables) != 0 {
				t.Errorf("RenderPortfolio() has %d tables, want none", len(o.tables))
			}
		})
	}
}

func TestRenderMarket(t *testing.T) {
	global := coins.GlobalMarket{
		TotalMarketCap: coins.USD(2_450_000_000_000),
		TotalVolume:    coins.USD(31_200_000_000),
		MarketCapPercentage: map[string]float64{
			"btc": 50, "eth": 15, "usdt": 5, "bnb": 4, "sol": 3, "xrp": 2, "usdc": 2, "ada": 1, "doge": 1, "dot": 1, "trx": 1,
		},
	}
	var snapshot []coins.MarketCoin
	for i := range 30 {
		c := coin("coin"+string(rune('a'+i%26))+string(rune('a'+i/26)), "c", float64(i+1), 0)
		c.MarketCapRank = i + 1
		snapshot = append(snapshot, c)
	}
	snapshot = append(snapshot, coin("bitcoin", "btc", 60000, 1))

	md := RenderMarket(NewMarket(global, nil, snapshot, nil, "bit"))
	o := parse(t, md)
	if len(o.tables) != 4 {
		t.Fatalf("RenderMarket() has %d tables, want 4:\n%s", len(o.tables), md)
	}
	if got := len(o.tables[1]); got != 9 {
		t.Errorf("dominance rows = %d, want 9", got)
	}
	if got := o.tables[1][8]; got != "Others" {
		t.Errorf("last dominance bucket = %q, want Others", got)
	}
	if got := len(o.tables[2]); got != MarketTopN {
		t.Errorf("top rows = %d, want %d", got, MarketTopN)
	}
	if got := len(o.tables[3]); got != 1 {
		t.Errorf("matching rows = %d, want 1", got)
	}
	for _, want := range []string{"$2.45T", "$31.20B", "50.00%"} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderMarket() does not contain %q", want)
		}
	}
}

func TestRenderMarket_Failures(t *testing.T) {
	md := RenderMarket(NewMarket(coins.GlobalMarket{}, errDown, nil, errDown, ""))
	for _, want := range []string{
		"Failed to fetch global market data. Please try again later.",
		"Failed to fetch market data. Please try again later.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderMarket() does not contain %q:\n%s", want, md)
		}
	}
	if o := parse(t, md); len(o.tables) != 0 {
		t.Errorf("RenderMarket() has %d tables, want none", len(o.tables))
	}
}

func TestRenderHome(t *testing.T) {
	snapshot := []coins.MarketCoin{
		coin("bitcoin", "btc", 60000, 2),
		coin("ethereum", "eth", 3000, -1),
		coin("dogecoin", "doge", 0.1, 8),
	}
	h := NewHome(snapshot, nil)
	if len(h.Headlines) != 2 {
		t.Fatalf("NewHome().Headlines = %d coins, want 2", len(h.Headlines))
	}
	h.Selected = &CoinView{
		Details:   coins.CoinDetails{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: coins.USD(60000)},
		Timeframe: coins.Timeframe7D,
		History:   history("bitcoin", 100, 110),
	}

	md := RenderHome(h)
	o := parse(t, md)
	for _, want := range []string{"Crypto Dashboard", "Bitcoin (BTC)", "Price history (7 Days)", "Top gainers (24h)", "Top losers (24h)"} {
		if !o.hasHeading(want) {
			t.Errorf("RenderHome() has no %q heading, got %v", want, o.headings)
		}
	}
	if got := strings.Join(o.tables[0], ","); got != "Bitcoin (BTC),Ethereum (ETH)" {
		t.Errorf("headline rows = %q", got)
	}
	if !strings.Contains(md, "+10.00%") {
		t.Errorf("RenderHome() does not show the history change:\n%s", md)
	}
}

func TestRenderHome_Failure(t *testing.T) {
	md := RenderHome(NewHome(nil, errDown))
	if !strings.Contains(md, "Failed to fetch market data. Please try again later.") {
		t.Errorf("RenderHome() = %q, want a failure message", md)
	}
	if o := parse(t, md); o.hasHeading("Movers") {
		t.Errorf("RenderHome() shows movers on failure")
	}
}

// history returns a daily series starting on 2024-01-01.
func history(id string, prices ...float64) coins.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var points []coins.PricePoint
	for i, p := range prices {
		points = append(points, coins.PricePoint{Time: start.AddDate(0, 0, i), Price: coins.USD(p)})
	}
	return coins.NewPriceSeries(id, points)
}

func TestRenderCoin(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = float64(100 + i)
	}
	v := &CoinView{
		Details: coins.CoinDetails{
			ID: "bitcoin", Symbol: "btc", Name: "Bitcoin",
			CurrentPrice:      coins.USD(124),
			CirculatingSupply: 19_700_000,
			Description:       "Bitcoin is the first\ndecentralized cryptocurrency.\n\nSecond paragraph.",
		},
		Timeframe: coins.Timeframe30D,
		History:   history("bitcoin", prices...),
	}
	md := RenderCoin(v)
	o := parse(t, md)
	if len(o.tables) != 3 {
		t.Fatalf("RenderCoin() has %d tables, want 3:\n%s", len(o.tables), md)
	}
	if got := len(o.tables[2]); got != historySamples {
		t.Errorf("history rows = %d, want %d", got, historySamples)
	}
	if got, want := o.tables[2][historySamples-1], "2024-01-25 00:00"; got != want {
		t.Errorf("last history row = %q, want %q", got, want)
	}
	for _, want := range []string{"19.70M", "Bitcoin is the first decentralized cryptocurrency.", "| Max supply | N/A |", "$100.00", "$124.00"} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderCoin() does not contain %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Second paragraph") {
		t.Errorf("RenderCoin() shows the whole description")
	}
}

func TestRenderHistory_Degraded(t *testing.T) {
	tests := []struct {
		name string
		v    *CoinView
		want string
	}{
		{
			name: "failure",
			v:    &CoinView{Timeframe: coins.Timeframe7D, History: coins.NewPriceSeries("bitcoin", nil), HistoryErr: errDown},
			want: "Failed to fetch price history. Please try again later.",
		},
		{
			name: "empty",
			v:    &CoinView{Timeframe: coins.Timeframe7D, History: coins.NewPriceSeries("bitcoin", nil)},
			want: "No price history available for this timeframe.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := RenderHistory(tt.v)
			if !strings.Contains(md, tt.want) {
				t.Errorf("RenderHistory() = %q, want it to contain %q", md, tt.want)
			}
			if o := parse(t, md); !o.hasHeading("bitcoin") {
				t.Errorf("RenderHistory() headings = %v, want the coin id", o.headings)
			}
		})
	}
}

func TestRenderWatchlist(t *testing.T) {
	snapshot := []coins.MarketCoin{coin("bitcoin", "btc", 60000, 2), coin("ethereum", "eth", 3000, -1)}
	w := coins.NewWatchlist("ethereum", "ghost", "bitcoin")
	view := NewWatchlist(w, snapshot, nil).WithHistories(coins.Timeframe7D, map[string]coins.PriceSeries{
		"bitcoin": history("bitcoin", 100, 90, 120),
	})

	md := RenderWatchlist(view)
	o := parse(t, md)
	if len(o.tables) != 2 {
		t.Fatalf("RenderWatchlist() has %d tables, want 2:\n%s", len(o.tables), md)
	}
	if got := strings.Join(o.tables[1], ","); got != "Ethereum (ETH),Bitcoin (BTC)" {
		t.Errorf("trend rows = %q, want watchlist order", got)
	}
	for _, want := range []string{"No market data for: ghost", "| Bitcoin (BTC) | +20.00% | -10.00% | +20.00% |", "| Ethereum (ETH) | N/A | N/A | N/A |"} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderWatchlist() does not contain %q:\n%s", want, md)
		}
	}
}

func TestRenderWatchlist_Degraded(t *testing.T) {
	tests := []struct {
		name string
		w    *Watchlist
		want string
	}{
		{"empty", NewWatchlist(coins.NewWatchlist(), nil, nil), "Your watchlist is empty. Add coins to compare them!"},
		{"failure", NewWatchlist(coins.NewWatchlist("bitcoin"), nil, errDown), "Failed to fetch watchlist prices. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if md := RenderWatchlist(tt.w); !strings.Contains(md, tt.want) {
				t.Errorf("RenderWatchlist() = %q, want it to contain %q", md, tt.want)
			}
		})
	}
}

func TestRenderSearch(t *testing.T) {
	tests := []struct {
		name string
		s    *Search
		want string
		rows int
	}{
		{"blank", &Search{}, "Type a coin name or symbol to search.", 0},
		{"failure", &Search{Query: "bit", Err: errDown}, "Failed to fetch search results. Please try again later.", 0},
		{"no result", &Search{Query: "zzz"}, `No coin matches "zzz".`, 0},
		{"results", &Search{Query: "bit", Results: []coins.SearchResult{
			{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", MarketCapRank: 1},
			{ID: "bitcoin-cash", Name: "Bitcoin Cash", Symbol: "BCH"},
		}}, "| - | Bitcoin Cash | BCH | bitcoin-cash |", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := RenderSearch(tt.s)
			if !strings.Contains(md, tt.want) {
				t.Errorf("RenderSearch() = %q, want it to contain %q", md, tt.want)
			}
			rows := 0
			for _, table := range parse(t, md).tables {
				rows += len(table)
			}
			if rows != tt.rows {
				t.Errorf("RenderSearch() has %d rows, want %d", rows, tt.rows)
			}
		})
	}
}

func TestRenderTopAndMovers(t *testing.T) {
	snapshot := []coins.MarketCoin{
		coin("a", "a", 1, 5), coin("b", "b", 1, -3), coin("c", "c", 1, 0), coin("d", "d", 1, 1),
	}
	o := parse(t, RenderTop(&Top{Coins: snapshot}))
	if len(o.tables) != 1 || len(o.tables[0]) != 4 {
		t.Errorf("RenderTop() tables = %v, want one table of 4 rows", o.tables)
	}

	o = parse(t, RenderMovers(&Movers{Report: coins.Movers(snapshot)}))
	if len(o.tables) != 2 {
		t.Fatalf("RenderMovers() has %d tables, want 2", len(o.tables))
	}
	if got := strings.Join(o.tables[0], ","); got != "A (A),D (D)" {
		t.Errorf("gainers = %q, want %q", got, "A (A),D (D)")
	}
	if got := strings.Join(o.tables[1], ","); got != "B (B)" {
		t.Errorf("losers = %q, want %q", got, "B (B)")
	}

	md := RenderMovers(&Movers{Report: coins.Movers(nil)})
	for _, want := range []string{"No coin gained over the last 24h.", "No coin lost over the last 24h."} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderMovers(empty) does not contain %q", want)
		}
	}
	if md := RenderTop(&Top{Err: errDown}); !strings.Contains(md, "Failed to fetch market data.") {
		t.Errorf("RenderTop(failure) = %q", md)
	}
}

func TestSupply(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "N/A"},
		{21_000_000, "21.00M"},
		{120_000_000_000, "120.00B"},
		{1_500, "1.50K"},
		{42, "42.00"},
	}
	for _, tt := range tests {
		if got := supply(tt.in); got != tt.want {
			t.Errorf("supply(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
