// Package renderer turns market data into markdown reports.
//
// Every report is a text/template stored in templates/, rendered by a small
// function taking a view struct. Reports never fail: a fetch failure or an
// empty result is rendered as a message in place of the missing section.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/coins"
)

//go:embed templates/*.md
var templateFS embed.FS

var templates, _ = fs.Sub(templateFS, "templates")

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"money":   money,
	"compact": compact,
	"change":  func(p coins.Percent) string { return p.SignedString() },
	"supply":  supply,
	"date":    func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"excerpt": excerpt,
	"join":    strings.Join,
}

// money formats a price, "N/A" when it is absent.
func money(m coins.Money) string {
	if m.IsZero() {
		return "N/A"
	}
	return m.String()
}

// compact formats a large amount like "$1.23T", "N/A" when it is absent.
func compact(m coins.Money) string {
	if m.IsZero() {
		return "N/A"
	}
	return m.Compact()
}

// supply formats a coin supply like "19.70M", "N/A" when it is unknown or unbounded.
func supply(v float64) string {
	switch {
	case v <= 0:
		return "N/A"
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// excerptLength is the maximum length of a description excerpt.
const excerptLength = 400

// excerpt returns the first paragraph of a description on a single line.
func excerpt(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if i := strings.Index(s, "\n\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > excerptLength {
		s = string(r[:excerptLength]) + "…"
	}
	return s
}

// partials shared by several reports.
var partials = map[string]string{
	"failure":      "partial_failure.md",
	"coin_table":   "partial_coin_table.md",
	"coin_details": "partial_coin_details.md",
	"history":      "partial_history.md",
	"movers":       "partial_movers.md",
}

// RenderHome renders the dashboard landing page.
func RenderHome(h *Home) string {
	return renderTemplate("home", "home.md", partials, h)
}

// RenderCoin renders the details and the price history of a coin.
func RenderCoin(v *CoinView) string {
	return renderTemplate("coin", "coin.md", partials, v)
}

// RenderHistory renders only the price history of a coin.
func RenderHistory(v *CoinView) string {
	return renderTemplate("history_page", "history.md", partials, v)
}

// RenderTop renders the ranked markets list.
func RenderTop(t *Top) string {
	return renderTemplate("top", "top.md", partials, t)
}

// RenderMovers renders the top gainers and losers.
func RenderMovers(m *Movers) string {
	return renderTemplate("movers_page", "movers.md", partials, m)
}

// RenderMarket renders the market overview.
func RenderMarket(m *Market) string {
	return renderTemplate("market", "market.md", partials, m)
}

// RenderPortfolio renders a portfolio valuation.
func RenderPortfolio(v *coins.Valuation) string {
	return renderTemplate("portfolio", "portfolio.md", partials, v)
}

// RenderWatchlist renders a watchlist comparison.
func RenderWatchlist(w *Watchlist) string {
	return renderTemplate("watchlist", "watchlist.md", partials, w)
}

// RenderSearch renders upstream search results.
func RenderSearch(s *Search) string {
	return renderTemplate("search", "search.md", partials, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
