package calculator

import (
	"math"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name          string
		amountRaw     string
		attendeeCount int
		want          float64
	}{
		{name: "even split", amountRaw: "90", attendeeCount: 3, want: 30},
		{name: "uneven split keeps full precision", amountRaw: "100", attendeeCount: 3, want: 100.0 / 3.0},
		{name: "decimal amount", amountRaw: "12.50", attendeeCount: 2, want: 6.25},
		{name: "whitespace trimmed", amountRaw: " 40 ", attendeeCount: 4, want: 10},
		{name: "unparsable amount", amountRaw: "abc", attendeeCount: 2, want: 0},
		{name: "empty amount", amountRaw: "", attendeeCount: 2, want: 0},
		{name: "zero amount", amountRaw: "0", attendeeCount: 2, want: 0},
		{name: "negative amount", amountRaw: "-5", attendeeCount: 2, want: 0},
		{name: "nan amount", amountRaw: "NaN", attendeeCount: 2, want: 0},
		{name: "infinite amount", amountRaw: "Inf", attendeeCount: 2, want: 0},
		{name: "zero attendees", amountRaw: "90", attendeeCount: 0, want: 0},
		{name: "negative attendees", amountRaw: "90", attendeeCount: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.amountRaw, tt.attendeeCount)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Split(%q, %d) = %v, want %v", tt.amountRaw, tt.attendeeCount, got, tt.want)
			}
		})
	}
}

func TestSplitTimesCountRestoresAmount(t *testing.T) {
	cases := []struct {
		amountRaw string
		amount    float64
		count     int
	}{
		{"90", 90, 3},
		{"100", 100, 7},
		{"0.01", 0.01, 3},
		{"12345.67", 12345.67, 11},
	}
	for _, c := range cases {
		got := Split(c.amountRaw, c.count) * float64(c.count)
		if math.Abs(got-c.amount) > 1e-6 {
			t.Errorf("Split(%q, %d) * %d = %v, want %v", c.amountRaw, c.count, c.count, got, c.amount)
		}
	}
}

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{10.005, 10.01},
		{10.004, 10.0},
		{100.0 / 3.0, 33.33},
		{0, 0},
	}
	for _, tt := range tests {
		if got := RoundCurrency(tt.in); got != tt.want {
			t.Errorf("RoundCurrency(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
