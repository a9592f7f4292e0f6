package coins

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// DominanceTopN is the number of coins kept as their own bucket.
	DominanceTopN = 8
	// OthersLabel names the bucket that sums every coin beyond DominanceTopN.
	OthersLabel = "Others"
)

// Bucket is one slice of the market dominance chart.
type Bucket struct {
	Symbol  string  `json:"symbol"`
	Percent Percent `json:"percent"`
}

// Dominance turns a symbol to market cap percentage mapping into chart buckets.
//
// Buckets are sorted by percentage, highest first, and ties by symbol. The
// top DominanceTopN are kept as is, the remaining ones are summed in a final
// OthersLabel bucket. Symbols are upper-cased.
func Dominance(shares map[string]float64) []Bucket {
	buckets := make([]Bucket, 0, len(shares))
	for sym, pct := range shares {
		buckets = append(buckets, Bucket{Symbol: strings.ToUpper(sym), Percent: Percent(pct)})
	}
	slices.SortFunc(buckets, func(a, b Bucket) int {
		if c := cmp.Compare(b.Percent, a.Percent); c != 0 {
			return c
		}
		return strings.Compare(a.Symbol, b.Symbol)
	})
	if len(buckets) <= DominanceTopN {
		return buckets
	}
	var others Percent
	for _, b := range buckets[DominanceTopN:] {
		others += b.Percent
	}
	return append(buckets[:DominanceTopN:DominanceTopN], Bucket{Symbol: OthersLabel, Percent: others})
}
