package coins

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is the price of a coin at a given instant.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price Money     `json:"price"`
}

// PriceSeries is a chronological series of prices for one coin.
//
// A series is built once from a fetch and never mutated afterwards.
type PriceSeries struct {
	CoinID string
	points []PricePoint
}

// NewPriceSeries returns a series holding a chronologically sorted copy of points.
func NewPriceSeries(coinID string, points []PricePoint) PriceSeries {
	p := slices.Clone(points)
	slices.SortStableFunc(p, func(a, b PricePoint) int { return a.Time.Compare(b.Time) })
	return PriceSeries{CoinID: coinID, points: p}
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int { return len(s.points) }

// IsEmpty reports whether the series has no point at all.
func (s PriceSeries) IsEmpty() bool { return len(s.points) == 0 }

// Points returns a copy of the points.
func (s PriceSeries) Points() []PricePoint { return slices.Clone(s.points) }

// First returns the oldest point, or false if the series is empty.
func (s PriceSeries) First() (PricePoint, bool) {
	if len(s.points) == 0 {
		return PricePoint{}, false
	}
	return s.points[0], true
}

// Last returns the latest point, or false if the series is empty.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.points) == 0 {
		return PricePoint{}, false
	}
	return s.points[len(s.points)-1], true
}

// Range returns the lowest and highest prices of the series.
func (s PriceSeries) Range() (low, high Money) {
	for i, p := range s.points {
		if i == 0 || p.Price.LessThan(low) {
			low = p.Price
		}
		if i == 0 || p.Price.GreaterThan(high) {
			high = p.Price
		}
	}
	return low, high
}

// Change returns the change between the first and the last price.
func (s PriceSeries) Change() Percent {
	first, ok := s.First()
	if !ok || first.Price.IsZero() {
		return 0
	}
	last, _ := s.Last()
	return relative(first.Price, last.Price)
}

// MarshalJSON encodes the points of the series with its summary figures.
func (s PriceSeries) MarshalJSON() ([]byte, error) {
	points := s.points
	if points == nil {
		points = []PricePoint{}
	}
	low, high := s.Range()
	return json.Marshal(struct {
		CoinID string       `json:"coin_id"`
		Change Percent      `json:"change"`
		Low    Money        `json:"low"`
		High   Money        `json:"high"`
		Points []PricePoint `json:"points"`
	}{s.CoinID, s.Change(), low, high, points})
}

// ChangePoint is the relative change of a price from the start of a series.
type ChangePoint struct {
	Time   time.Time `json:"time"`
	Change Percent   `json:"change"`
}

// Normalized returns every point as a percentage change from the first price,
// so that series of very different prices can be compared.
//
// It returns nil for an empty series or one starting at zero.
func (s PriceSeries) Normalized() []ChangePoint {
	first, ok := s.First()
	if !ok || first.Price.IsZero() {
		return nil
	}
	res := make([]ChangePoint, 0, len(s.points))
	for _, p := range s.points {
		res = append(res, ChangePoint{Time: p.Time, Change: relative(first.Price, p.Price)})
	}
	return res
}

// relative returns (to/from - 1) in percent.
func relative(from, to Money) Percent {
	r := to.value.Div(from.value).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	return Percent(r.InexactFloat64())
}

// Timeframe is a history window such as "7d" or "max".
type Timeframe string

const (
	Timeframe1D  Timeframe = "1d"
	Timeframe7D  Timeframe = "7d"
	Timeframe30D Timeframe = "30d"
	Timeframe90D Timeframe = "90d"
	Timeframe1Y  Timeframe = "365d"
	TimeframeMax Timeframe = "max"
)

// TimeframeDefault is the window shown when none is selected.
const TimeframeDefault = Timeframe30D

// Timeframes lists the timeframes offered by the dashboard, shortest first.
var Timeframes = []Timeframe{Timeframe1D, Timeframe7D, Timeframe30D, Timeframe90D, Timeframe1Y, TimeframeMax}

var timeframeLabels = map[Timeframe]string{
	Timeframe1D:  "1 Day",
	Timeframe7D:  "7 Days",
	Timeframe30D: "30 Days",
	Timeframe90D: "90 Days",
	Timeframe1Y:  "1 Year",
	TimeframeMax: "All Time",
}

// ParseTimeframe parses "7d", "7" or "max". Any positive day count is accepted.
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == string(TimeframeMax) {
		return TimeframeMax, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid timeframe %q, want a number of days like \"30d\" or \"max\"", s)
	}
	return Timeframe(strconv.Itoa(n) + "d"), nil
}

// Days returns the upstream "days" parameter: a day count or "max".
func (t Timeframe) Days() string { return strings.TrimSuffix(string(t), "d") }

// Label returns a human readable label, e.g. "30 Days".
func (t Timeframe) Label() string {
	if l, ok := timeframeLabels[t]; ok {
		return l
	}
	return t.Days() + " Days"
}
