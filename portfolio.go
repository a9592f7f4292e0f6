package coins

import (
	"encoding/json"
	"slices"
)

// Holding is an amount of a given coin.
type Holding struct {
	CoinID string   `json:"coin_id"`
	Amount Quantity `json:"amount"`
}

// Portfolio is a set of holdings, unique per coin id.
//
// Holdings keep their insertion order. Portfolio has value semantics: every
// change returns a new Portfolio and leaves the receiver untouched.
type Portfolio struct {
	holdings []Holding
}

// NewPortfolio returns a portfolio made of holdings. Holdings of the same coin are summed.
func NewPortfolio(holdings ...Holding) Portfolio {
	var p Portfolio
	for _, h := range holdings {
		p = p.add(h.CoinID, h.Amount)
	}
	return p
}

// Len returns the number of distinct coins held.
func (p Portfolio) Len() int { return len(p.holdings) }

// IsEmpty reports whether the portfolio holds nothing.
func (p Portfolio) IsEmpty() bool { return len(p.holdings) == 0 }

// Holdings returns a copy of the holdings in insertion order.
func (p Portfolio) Holdings() []Holding { return slices.Clone(p.holdings) }

// Amount returns the amount held for coinID.
func (p Portfolio) Amount(coinID string) (Quantity, bool) {
	if i := p.index(coinID); i >= 0 {
		return p.holdings[i].Amount, true
	}
	return Quantity{}, false
}

func (p Portfolio) index(coinID string) int {
	return slices.IndexFunc(p.holdings, func(h Holding) bool { return h.CoinID == coinID })
}

// add returns a new portfolio where amount is added to coinID's holding.
func (p Portfolio) add(coinID string, amount Quantity) Portfolio {
	holdings := slices.Clone(p.holdings)
	if i := p.index(coinID); i >= 0 {
		holdings[i].Amount = holdings[i].Amount.Add(amount)
	} else {
		holdings = append(holdings, Holding{CoinID: coinID, Amount: amount})
	}
	return Portfolio{holdings: holdings}
}

// remove returns a new portfolio without coinID, and false if it was not held.
func (p Portfolio) remove(coinID string) (Portfolio, bool) {
	i := p.index(coinID)
	if i < 0 {
		return p, false
	}
	return Portfolio{holdings: slices.Delete(slices.Clone(p.holdings), i, i+1)}, true
}

func (p Portfolio) MarshalJSON() ([]byte, error) {
	if p.holdings == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.holdings)
}

func (p *Portfolio) UnmarshalJSON(data []byte) error {
	var holdings []Holding
	if err := json.Unmarshal(data, &holdings); err != nil {
		return err
	}
	*p = NewPortfolio(holdings...)
	return nil
}
