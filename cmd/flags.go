package cmd

import (
	"fmt"
	"strings"

	"github.com/etnz/coins"
)

// timeframeFlag is a flag.Value parsing a coins.Timeframe.
type timeframeFlag struct{ tf coins.Timeframe }

func (f *timeframeFlag) String() string { return string(f.tf) }
func (f *timeframeFlag) Set(s string) error {
	tf, err := coins.ParseTimeframe(s)
	if err != nil {
		return err
	}
	f.tf = tf
	return nil
}

// get returns the timeframe, the default one when unset.
func (f *timeframeFlag) get() coins.Timeframe {
	if f.tf == "" {
		return coins.TimeframeDefault
	}
	return f.tf
}

// holdingsFlag is a repeatable flag.Value of "<coin>=<amount>" holdings.
type holdingsFlag []coins.Holding

func (f *holdingsFlag) String() string {
	var s []string
	for _, h := range *f {
		s = append(s, h.CoinID+"="+h.Amount.String())
	}
	return strings.Join(s, ",")
}

func (f *holdingsFlag) Set(s string) error {
	h, err := parseHolding(s)
	if err != nil {
		return err
	}
	*f = append(*f, h)
	return nil
}

// parseHolding parses "<coin>=<amount>", e.g. "bitcoin=0.25".
func parseHolding(s string) (coins.Holding, error) {
	id, amount, ok := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return coins.Holding{}, fmt.Errorf("invalid holding %q, want <coin>=<amount>", s)
	}
	q, err := coins.ParseQuantity(strings.TrimSpace(amount))
	if err != nil {
		return coins.Holding{}, fmt.Errorf("invalid holding %q: %w", s, err)
	}
	if !q.IsPositive() {
		return coins.Holding{}, fmt.Errorf("invalid holding %q: %w", s, coins.ErrInvalidAmount)
	}
	return coins.Holding{CoinID: id, Amount: q}, nil
}
