// Package calculator holds the pure money math: the even cost split and
// the team/department budget rollup.
package calculator

import (
	"math"
	"strconv"
	"strings"
)

// Split computes the even cost per person from a raw amount string and an
// attendee count. Incomplete input never produces an error: an unparsable,
// NaN or non-positive amount, or a zero attendee count, yields 0 so callers
// always have a displayable value. Full floating precision is retained;
// two-decimal rounding is a presentation concern (see RoundCurrency).
func Split(amountRaw string, attendeeCount int) float64 {
	amount, err := strconv.ParseFloat(strings.TrimSpace(amountRaw), 64)
	if err != nil {
		return 0
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0
	}
	if attendeeCount <= 0 {
		return 0
	}
	return amount / float64(attendeeCount)
}

// RoundCurrency rounds to two decimals for display and API responses.
func RoundCurrency(value float64) float64 {
	return math.Round(value*100) / 100
}
