package coins

import (
	"encoding/json"
	"slices"
)

// Watchlist is an ordered set of coin ids.
type Watchlist struct {
	ids []string
}

// NewWatchlist returns a watchlist of ids, duplicates removed.
func NewWatchlist(ids ...string) Watchlist {
	var w Watchlist
	for _, id := range ids {
		if !w.Contains(id) {
			w.ids = append(w.ids, id)
		}
	}
	return w
}

func (w Watchlist) Len() int                    { return len(w.ids) }
func (w Watchlist) IsEmpty() bool               { return len(w.ids) == 0 }
func (w Watchlist) IDs() []string               { return slices.Clone(w.ids) }
func (w Watchlist) Contains(coinID string) bool { return slices.Contains(w.ids, coinID) }

func (w Watchlist) add(coinID string) Watchlist {
	return Watchlist{ids: append(slices.Clone(w.ids), coinID)}
}

func (w Watchlist) remove(coinID string) Watchlist {
	return Watchlist{ids: slices.DeleteFunc(slices.Clone(w.ids), func(id string) bool { return id == coinID })}
}

func (w Watchlist) MarshalJSON() ([]byte, error) {
	if w.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(w.ids)
}

func (w *Watchlist) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*w = NewWatchlist(ids...)
	return nil
}

// Comparison is a watchlist resolved against a snapshot.
type Comparison struct {
	Coins   []MarketCoin `json:"coins"`             // in watchlist order
	Missing []string     `json:"missing,omitempty"` // watched ids absent from the snapshot
}

// CompareWatchlist resolves every watched coin in snapshot.
func CompareWatchlist(w Watchlist, snapshot []MarketCoin) Comparison {
	cmp := Comparison{Coins: make([]MarketCoin, 0, w.Len())}
	for _, id := range w.ids {
		c, ok := FindCoin(snapshot, id)
		if !ok {
			cmp.Missing = append(cmp.Missing, id)
			continue
		}
		cmp.Coins = append(cmp.Coins, c)
	}
	return cmp
}
