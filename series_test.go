package coins

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPriceSeries(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// out of order on purpose
	s := NewPriceSeries("bitcoin", []PricePoint{
		{t0.Add(2 * time.Hour), USD(120)},
		{t0, USD(100)},
		{t0.Add(time.Hour), USD(90)},
	})

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if first, _ := s.First(); !first.Time.Equal(t0) {
		t.Errorf("First().Time = %v, want %v", first.Time, t0)
	}
	low, high := s.Range()
	if !low.Equal(USD(90)) || !high.Equal(USD(120)) {
		t.Errorf("Range() = %v, %v, want $90, $120", low, high)
	}
	if got := s.Change(); !got.Equal(20) {
		t.Errorf("Change() = %v, want 20%%", got)
	}

	norm := s.Normalized()
	want := []Percent{0, -10, 20}
	if len(norm) != len(want) {
		t.Fatalf("len(Normalized()) = %d, want %d", len(norm), len(want))
	}
	for i, w := range want {
		if !norm[i].Change.Equal(w) {
			t.Errorf("Normalized()[%d] = %v, want %v", i, norm[i].Change, w)
		}
	}
}

func TestPriceSeries_Empty(t *testing.T) {
	var s PriceSeries
	if !s.IsEmpty() {
		t.Error("zero PriceSeries is not empty")
	}
	if s.Normalized() != nil {
		t.Error("Normalized() of an empty series is not nil")
	}
	if s.Change() != 0 {
		t.Errorf("Change() = %v, want 0", s.Change())
	}
	zero := NewPriceSeries("x", []PricePoint{{time.Now(), USD(0)}, {time.Now(), USD(1)}})
	if zero.Normalized() != nil {
		t.Error("Normalized() of a series starting at zero is not nil")
	}
}

func TestParseTimeframe(t *testing.T) {
	testCases := []struct {
		in       string
		want     Timeframe
		wantDays string
		wantErr  bool
	}{
		{in: "7d", want: Timeframe7D, wantDays: "7"},
		{in: "30", want: Timeframe30D, wantDays: "30"},
		{in: "MAX", want: TimeframeMax, wantDays: "max"},
		{in: " 365d ", want: Timeframe1Y, wantDays: "365"},
		{in: "0d", wantErr: true},
		{in: "week", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseTimeframe(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseTimeframe(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeframe(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if !tc.wantErr && got.Days() != tc.wantDays {
			t.Errorf("ParseTimeframe(%q).Days() = %q, want %q", tc.in, got.Days(), tc.wantDays)
		}
	}
}

func TestPriceSeries_MarshalJSON(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewPriceSeries("bitcoin", []PricePoint{
		{Time: day.AddDate(0, 0, 1), Price: USD(110)},
		{Time: day, Price: USD(100)},
	})
	got, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	want := `{"coin_id":"bitcoin","change":10,"low":100,"high":110,"points":[{"time":"2024-01-01T00:00:00Z","price":100},{"time":"2024-01-02T00:00:00Z","price":110}]}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}

	got, _ = json.Marshal(NewPriceSeries("dogecoin", nil))
	if want := `{"coin_id":"dogecoin","change":0,"low":0,"high":0,"points":[]}`; string(got) != want {
		t.Errorf("Marshal(empty) = %s, want %s", got, want)
	}
}
