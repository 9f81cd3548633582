package pipeline

import (
	"math"
	"strconv"
	"strings"
)

// USDConversionRate approximates one US dollar in the base trip currency.
// It is a static heuristic, not a live exchange rate.
const USDConversionRate = 80

// ParseCost converts a free-text cost estimate ("₹1,200", "$20", "Free") into an
// amount in the trip's base currency. Malformed input yields 0.
func ParseCost(raw string) float64 {
	return ParseCostWithRate(raw, USDConversionRate)
}

// ParseCostWithRate is ParseCost with a caller-supplied dollar conversion rate.
// A rate that is not a positive finite number falls back to USDConversionRate.
func ParseCostWithRate(raw string, usdRate float64) float64 {
	if raw == "" {
		return 0
	}

	digits := keepDigits(raw)
	if digits == "" {
		return 0
	}

	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		// Digit run too long for uint64; under-count rather than guess.
		return 0
	}

	val := float64(n)
	if strings.Contains(raw, "$") {
		val *= usableRate(usdRate)
	}
	return val
}

// usableRate returns r, or USDConversionRate when r is zero, negative, NaN or infinite.
func usableRate(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return USDConversionRate
	}
	return r
}

// keepDigits drops every rune that is not an ASCII digit.
func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
