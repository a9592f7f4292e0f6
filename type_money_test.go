package coins

import "testing"

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{USD(0), "$0.00"},
		{USD(35), "$35.00"},
		{USD(1234.5), "$1,234.50"},
		{USD(64123.456), "$64,123.46"},
		{USD(0.0001234), "$0.000123"},
	}
	for _, tc := range testCases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("USD(%v).String() = %q, want %q", tc.in.Decimal(), got, tc.want)
		}
	}
}

func TestMoney_Compact(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{USD(2_450_000_000_000), "$2.45T"},
		{USD(31_200_000_000), "$31.20B"},
		{USD(7_000_000), "$7.00M"},
		{USD(1_500), "$1.50K"},
		{USD(999.999), "$1000.00"},
		{USD(12.3), "$12.30"},
	}
	for _, tc := range testCases {
		if got := tc.in.Compact(); got != tc.want {
			t.Errorf("USD(%v).Compact() = %q, want %q", tc.in.Decimal(), got, tc.want)
		}
	}
}

func TestPercent_SignedString(t *testing.T) {
	testCases := []struct {
		in   Percent
		want string
	}{
		{2.346, "+2.35%"},
		{-0.5, "-0.50%"},
		{0, "-"},
		{-0.001, "-"},
	}
	for _, tc := range testCases {
		if got := tc.in.SignedString(); got != tc.want {
			t.Errorf("Percent(%v).SignedString() = %q, want %q", float64(tc.in), got, tc.want)
		}
	}
}
