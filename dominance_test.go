package coins

import (
	"fmt"
	"testing"
)

func TestDominance(t *testing.T) {
	shares := make(map[string]float64)
	for i, pct := range []float64{30, 20, 15, 10, 8, 6, 4, 3, 2, 2} {
		shares[fmt.Sprintf("c%d", i)] = pct
	}

	buckets := Dominance(shares)

	if len(buckets) != 9 {
		t.Fatalf("len(Dominance()) = %d, want 9", len(buckets))
	}
	want := []Percent{30, 20, 15, 10, 8, 6, 4, 3}
	for i, w := range want {
		if !buckets[i].Percent.Equal(w) {
			t.Errorf("Dominance()[%d] = %v, want %v", i, buckets[i].Percent, w)
		}
	}
	last := buckets[8]
	if last.Symbol != OthersLabel || !last.Percent.Equal(4) {
		t.Errorf("Dominance()[8] = %v %v, want %s 4", last.Symbol, last.Percent, OthersLabel)
	}
}

func TestDominance_Small(t *testing.T) {
	buckets := Dominance(map[string]float64{"btc": 52.1, "eth": 17.3, "usdt": 4.2})
	if len(buckets) != 3 {
		t.Fatalf("len(Dominance()) = %d, want 3", len(buckets))
	}
	if buckets[0].Symbol != "BTC" || buckets[2].Symbol != "USDT" {
		t.Errorf("Dominance() = %v, want BTC first and USDT last", buckets)
	}
	if len(Dominance(nil)) != 0 {
		t.Error("Dominance(nil) is not empty")
	}
}

func TestDominance_TiesAreDeterministic(t *testing.T) {
	shares := map[string]float64{"b": 1, "a": 1, "c": 1}
	for range 10 {
		buckets := Dominance(shares)
		if buckets[0].Symbol != "A" || buckets[1].Symbol != "B" || buckets[2].Symbol != "C" {
			t.Fatalf("Dominance() = %v, want A, B, C", buckets)
		}
	}
}
