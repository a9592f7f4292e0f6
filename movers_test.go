package coins

import (
	"reflect"
	"testing"
)

func TestMovers(t *testing.T) {
	snapshot := []MarketCoin{
		coin("a", 1, +5),
		coin("b", 1, -3),
		coin("c", 1, 0),
		coin("d", 1, +10),
		coin("e", 1, -1),
	}

	r := Movers(snapshot)

	if got, want := ids(r.Gainers), []string{"d", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Movers().Gainers = %v, want %v", got, want)
	}
	if got, want := ids(r.Losers), []string{"b", "e"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Movers().Losers = %v, want %v", got, want)
	}
}

func TestMovers_TopFive(t *testing.T) {
	var snapshot []MarketCoin
	for i, change := range []float64{1, 2, 3, 4, 5, 6, 7, -1, -2, -3, -4, -5, -6, -7} {
		snapshot = append(snapshot, coin(string(rune('a'+i)), 1, change))
	}

	r := Movers(snapshot)

	if len(r.Gainers) != MoversTopN || len(r.Losers) != MoversTopN {
		t.Fatalf("Movers() = %d gainers, %d losers, want %d each", len(r.Gainers), len(r.Losers), MoversTopN)
	}
	if r.Gainers[0].PriceChange24h != 7 || r.Gainers[4].PriceChange24h != 3 {
		t.Errorf("Movers().Gainers = %v, want 7 down to 3", ids(r.Gainers))
	}
	if r.Losers[0].PriceChange24h != -7 || r.Losers[4].PriceChange24h != -3 {
		t.Errorf("Movers().Losers = %v, want -7 up to -3", ids(r.Losers))
	}
}
